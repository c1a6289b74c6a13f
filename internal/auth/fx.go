package auth

import (
	"github.com/kamrel/kamrel/internal/auth/repository"
	"github.com/kamrel/kamrel/internal/auth/service"
	"github.com/kamrel/kamrel/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
	fx.Provide(session.NewManager),
)
