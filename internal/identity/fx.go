package identity

import (
	"github.com/kamrel/kamrel/internal/identity/repository"
	"github.com/kamrel/kamrel/internal/identity/service"
	"github.com/kamrel/kamrel/internal/identity/stackauth"
	"go.uber.org/fx"
)

var Module = fx.Module("identity.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
	fx.Provide(stackauth.New),
)
