package localimport

import (
	"github.com/kamrel/kamrel/internal/localimport/repository"
	"github.com/kamrel/kamrel/internal/localimport/service"
	"go.uber.org/fx"
)

var Module = fx.Module("localimport.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
