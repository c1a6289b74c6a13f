package project

import (
	"github.com/kamrel/kamrel/internal/project/repository"
	"github.com/kamrel/kamrel/internal/project/service"
	"go.uber.org/fx"
)

var Module = fx.Module("project.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
