package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/brewhub/brewhub/internal/catalog"
	catalogdomain "github.com/brewhub/brewhub/internal/catalog/domain"
	"github.com/brewhub/brewhub/internal/config"
	"github.com/brewhub/brewhub/internal/identity"
	"github.com/brewhub/brewhub/internal/observability"
	obslogger "github.com/brewhub/brewhub/internal/observability/logger"
	obsmetrics "github.com/brewhub/brewhub/internal/observability/metrics"
	"github.com/brewhub/brewhub/internal/payment"
	paymentdomain "github.com/brewhub/brewhub/internal/payment/domain"
	"github.com/brewhub/brewhub/internal/tenant"
	tenantdomain "github.com/brewhub/brewhub/internal/tenant/domain"
)

var Module = fx.Module("http.server",
	observability.Module,
	identity.Module,
	tenant.Module,
	catalog.Module,
	payment.Module,
	fx.Provide(tenantdomain.NewResolver),
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger, metrics *obsmetrics.Metrics) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log, obslogger.MiddlewareConfig{
		Debug:           cfg.Environment != "production",
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(cfg config.Config, log *zap.Logger, metrics *obsmetrics.Metrics) *gin.Engine {
	return NewEngine(cfg, log, metrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	db         *gorm.DB
	resolver   *tenantdomain.Resolver
	verifier   *identity.Verifier
	tenantSvc  tenantdomain.Service
	catalogSvc catalogdomain.Service
	paymentSvc paymentdomain.Service
	webhookSvc paymentdomain.WebhookService
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	DB         *gorm.DB
	Resolver   *tenantdomain.Resolver
	Verifier   *identity.Verifier
	TenantSvc  tenantdomain.Service
	CatalogSvc catalogdomain.Service
	PaymentSvc paymentdomain.Service
	WebhookSvc paymentdomain.WebhookService
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		db:         p.DB,
		resolver:   p.Resolver,
		verifier:   p.Verifier,
		tenantSvc:  p.TenantSvc,
		catalogSvc: p.CatalogSvc,
		paymentSvc: p.PaymentSvc,
		webhookSvc: p.WebhookSvc,
	}

	svc.registerWebhookRoutes()
	svc.registerTenantRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerWebhookRoutes mounts the provider webhook outside the tenant
// chain. The handler reads the raw body itself; no body-parsing middleware
// may run first or signature verification breaks.
func (s *Server) registerWebhookRoutes() {
	s.engine.POST("/webhooks/stripe", s.HandleStripeWebhook)
}

func (s *Server) registerTenantRoutes() {
	tenants := s.engine.Group("/tenants")
	tenants.Use(s.AuthRequired())

	tenants.POST("", s.ProvisionTenant)
	tenants.GET("/mine", s.ListMyTenants)
}

// registerAPIRoutes mounts the tenant-scoped surface. Read routes carry the
// resolver and existence check; mutating routes add identity, the tenant
// match guard, membership and a role gate.
func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/v1/:tenant")
	api.Use(s.TenantContext(), s.EnsureTenant())

	api.GET("", s.GetTenant)
	api.GET("/categories", s.ListCategories)
	api.GET("/products", s.ListProducts)
	api.GET("/products/:id", s.GetProduct)

	authed := api.Group("")
	authed.Use(s.AuthRequired(), s.TenantMatchGuard(), s.LoadMembership())

	editor := authed.Group("")
	editor.Use(RequireRole(tenantdomain.RoleEditor, tenantdomain.RoleAdmin))

	editor.POST("/categories", s.CreateCategory)
	editor.PATCH("/categories/:id", s.UpdateCategory)
	editor.POST("/products", s.CreateProduct)
	editor.PATCH("/products/:id", s.UpdateProduct)

	editor.POST("/payments/intents", s.CreateIntent)
	editor.POST("/payments/intents/:id/cancel", s.CancelIntent)

	member := authed.Group("")
	member.Use(RequireRole(tenantdomain.RoleViewer))

	member.GET("/payments/intents/:id", s.GetIntent)
	member.GET("/payments/transactions", s.ListTransactions)
	member.GET("/payments/stats", s.GetStats)

	admin := authed.Group("")
	admin.Use(RequireRole(tenantdomain.RoleAdmin))

	admin.DELETE("/categories/:id", s.DeleteCategory)
	admin.DELETE("/products/:id", s.DeleteProduct)

	admin.POST("/account/link", s.CreateAccountLink)
	admin.GET("/account", s.GetAccount)
}
