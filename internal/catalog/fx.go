package catalog

import (
	"go.uber.org/fx"

	"github.com/brewhub/brewhub/internal/catalog/repository"
	"github.com/brewhub/brewhub/internal/catalog/service"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
