package file

import (
	"github.com/kamrel/kamrel/internal/config"
	"github.com/kamrel/kamrel/internal/file/domain"
	"github.com/kamrel/kamrel/internal/file/repository"
	"github.com/kamrel/kamrel/internal/file/service"
	"github.com/kamrel/kamrel/internal/file/storage"
	"go.uber.org/fx"
)

var Module = fx.Module("file.service",
	fx.Provide(func(cfg config.Config) (domain.Storage, error) {
		return storage.NewDisk(cfg.FilesDir)
	}),
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
