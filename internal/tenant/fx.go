package tenant

import (
	"go.uber.org/fx"

	"github.com/brewhub/brewhub/internal/tenant/repository"
	"github.com/brewhub/brewhub/internal/tenant/service"
)

var Module = fx.Module("tenant.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
