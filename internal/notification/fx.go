package notification

import (
	"github.com/kamrel/kamrel/internal/notification/repository"
	"github.com/kamrel/kamrel/internal/notification/service"
	"go.uber.org/fx"
)

var Module = fx.Module("notification.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
