package invite

import (
	"github.com/kamrel/kamrel/internal/invite/repository"
	"github.com/kamrel/kamrel/internal/invite/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invite.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
