package chat

import (
	"github.com/kamrel/kamrel/internal/chat/live"
	"github.com/kamrel/kamrel/internal/chat/repository"
	"github.com/kamrel/kamrel/internal/chat/service"
	"go.uber.org/fx"
)

var Module = fx.Module("chat.service",
	fx.Provide(repository.New),
	fx.Provide(live.NewHub),
	fx.Provide(service.New),
)
