package identity

import (
	"github.com/brewhub/brewhub/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("identity",
	fx.Provide(func(cfg config.Config) (*Verifier, error) {
		return NewVerifier(cfg.AuthJWTSecret)
	}),
)
