package preference

import (
	"github.com/kamrel/kamrel/internal/preference/repository"
	"github.com/kamrel/kamrel/internal/preference/service"
	"go.uber.org/fx"
)

var Module = fx.Module("preference.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
