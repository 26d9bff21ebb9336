package payment

import (
	"go.uber.org/fx"

	"github.com/brewhub/brewhub/internal/payment/domain"
	"github.com/brewhub/brewhub/internal/payment/repository"
	paymentservice "github.com/brewhub/brewhub/internal/payment/service"
	"github.com/brewhub/brewhub/internal/payment/stripe"
	"github.com/brewhub/brewhub/internal/payment/webhook"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(stripe.NewClient),
	fx.Provide(func(c *stripe.Client) domain.Provider { return c }),
	fx.Provide(func(c *stripe.Client) domain.WebhookVerifier { return c }),
	fx.Provide(paymentservice.NewService),
	fx.Provide(webhook.NewService),
)
