package workspace

import (
	"github.com/kamrel/kamrel/internal/workspace/event"
	"github.com/kamrel/kamrel/internal/workspace/repository"
	"github.com/kamrel/kamrel/internal/workspace/service"
	"go.uber.org/fx"
)

var Module = fx.Module("workspace.service",
	fx.Provide(repository.New),
	fx.Provide(event.NewOutboxPublisher),
	fx.Provide(service.New),
)
