package task

import (
	"github.com/kamrel/kamrel/internal/task/repository"
	"github.com/kamrel/kamrel/internal/task/service"
	"go.uber.org/fx"
)

var Module = fx.Module("task.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
