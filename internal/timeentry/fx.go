package timeentry

import (
	"github.com/kamrel/kamrel/internal/timeentry/repository"
	"github.com/kamrel/kamrel/internal/timeentry/service"
	"go.uber.org/fx"
)

var Module = fx.Module("timeentry.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
