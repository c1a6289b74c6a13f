package audit

import (
	"github.com/kamrel/kamrel/internal/audit/repository"
	"github.com/kamrel/kamrel/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
