package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/brewhub/brewhub/internal/config"
	obsmetrics "github.com/brewhub/brewhub/internal/observability/metrics"
	paymentdomain "github.com/brewhub/brewhub/internal/payment/domain"
	tenantdomain "github.com/brewhub/brewhub/internal/tenant/domain"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

var statsPeriods = map[string]int{
	"7d":  7,
	"30d": 30,
	"90d": 90,
}

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Cfg        config.Config
	Repo       paymentdomain.Repository
	Provider   paymentdomain.Provider
	TenantSvc  tenantdomain.Service
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type service struct {
	db         *gorm.DB
	log        *zap.Logger
	cfg        config.Config
	repo       paymentdomain.Repository
	provider   paymentdomain.Provider
	tenantSvc  tenantdomain.Service
	obsMetrics *obsmetrics.Metrics
}

func NewService(p Params) paymentdomain.Service {
	return &service{
		db:         p.DB,
		log:        p.Log.Named("payment.service"),
		cfg:        p.Cfg,
		repo:       p.Repo,
		provider:   p.Provider,
		tenantSvc:  p.TenantSvc,
		obsMetrics: p.ObsMetrics,
	}
}

func (s *service) CreateIntent(ctx context.Context, tenantID string, req paymentdomain.CreateIntentRequest) (*paymentdomain.IntentResponse, error) {
	tenant, err := s.tenantSvc.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !tenant.PaymentReady() {
		return nil, paymentdomain.ErrTenantNotPaymentReady
	}
	if req.Amount <= 0 {
		return nil, paymentdomain.ErrInvalidAmount
	}

	feeBps, defaultCurrency, err := s.platformSettings(ctx)
	if err != nil {
		return nil, err
	}

	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = defaultCurrency
	}
	if len(currency) != 3 {
		return nil, paymentdomain.ErrInvalidCurrency
	}

	fee := paymentdomain.ApplicationFee(req.Amount, feeBps)

	metadata := map[string]string{"tenant_id": tenantID}
	for key, value := range req.Metadata {
		if key == "tenant_id" {
			continue
		}
		metadata[key] = value
	}

	intent, err := s.provider.CreateIntent(ctx, paymentdomain.IntentParams{
		Amount:               req.Amount,
		Currency:             currency,
		ApplicationFeeAmount: fee,
		StripeAccountID:      tenant.StripeAccountID,
		Description:          strings.TrimSpace(req.Description),
		Metadata:             metadata,
		IdempotencyKey:       strings.TrimSpace(req.IdempotencyKey),
	})
	if err != nil {
		s.obsMetrics.RecordPaymentIntent("provider_error")
		return nil, err
	}

	now := time.Now().UTC()
	txn := paymentdomain.Transaction{
		ID:                   intent.ID,
		TenantID:             tenantID,
		Amount:               req.Amount,
		Currency:             currency,
		ApplicationFeeAmount: fee,
		StripeAccountID:      tenant.StripeAccountID,
		Status:               intentStatus(intent.Status),
		Type:                 paymentdomain.TypePaymentIntent,
		Metadata:             toJSONMap(metadata),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.repo.UpsertTransaction(ctx, txn); err != nil {
		return nil, err
	}

	s.obsMetrics.RecordPaymentIntent("created")
	s.log.Info("payment intent created",
		zap.String("tenant_id", tenantID),
		zap.String("intent_id", intent.ID),
		zap.Int64("amount", req.Amount),
		zap.Int64("fee", fee),
	)

	return &paymentdomain.IntentResponse{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       txn.Status,
		Amount:       req.Amount,
		Currency:     currency,
		FeeAmount:    fee,
	}, nil
}

// CancelIntent scopes the lookup to the requesting tenant. A transaction
// owned by another tenant reports not-found so existence never leaks.
func (s *service) CancelIntent(ctx context.Context, tenantID string, intentID string) (*paymentdomain.IntentResponse, error) {
	txn, err := s.findOwned(ctx, tenantID, intentID)
	if err != nil {
		return nil, err
	}

	intent, err := s.provider.CancelIntent(ctx, txn.StripeAccountID, txn.ID)
	if err != nil {
		return nil, err
	}

	txn.Status = intentStatus(intent.Status)
	txn.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpsertTransaction(ctx, *txn); err != nil {
		return nil, err
	}

	return &paymentdomain.IntentResponse{
		ID:        txn.ID,
		Status:    txn.Status,
		Amount:    txn.Amount,
		Currency:  txn.Currency,
		FeeAmount: txn.ApplicationFeeAmount,
	}, nil
}

func (s *service) GetTransaction(ctx context.Context, tenantID string, intentID string) (*paymentdomain.Transaction, error) {
	return s.findOwned(ctx, tenantID, intentID)
}

func (s *service) ListTransactions(ctx context.Context, tenantID string, query paymentdomain.ListQuery) (*paymentdomain.TransactionList, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}
	status := strings.ToLower(strings.TrimSpace(query.Status))

	items, err := s.repo.ListTransactions(ctx, tenantID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []paymentdomain.Transaction{}
	}

	return &paymentdomain.TransactionList{
		Transactions: items,
		Limit:        limit,
		Offset:       offset,
	}, nil
}

func (s *service) Stats(ctx context.Context, tenantID string, period string) (*paymentdomain.Stats, error) {
	period = strings.ToLower(strings.TrimSpace(period))
	if period == "" {
		period = "30d"
	}
	days, ok := statsPeriods[period]
	if !ok {
		return nil, paymentdomain.ErrInvalidPeriod
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	stats, err := s.repo.AggregateStats(ctx, tenantID, since)
	if err != nil {
		return nil, err
	}
	stats.Period = period

	return stats, nil
}

// CreateOnboardingLink provisions the tenant's connected account on first
// use, then issues a fresh onboarding link against it.
func (s *service) CreateOnboardingLink(ctx context.Context, tenantID string, req paymentdomain.OnboardingLinkRequest) (*paymentdomain.AccountLink, error) {
	tenant, err := s.tenantSvc.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	returnURL := strings.TrimSpace(req.ReturnURL)
	refreshURL := strings.TrimSpace(req.RefreshURL)
	if returnURL == "" || refreshURL == "" {
		return nil, paymentdomain.ErrInvalidPayload
	}

	accountID := tenant.StripeAccountID
	if accountID == "" {
		account, err := s.provider.CreateAccount(ctx, paymentdomain.AccountParams{
			TenantID: tenantID,
			Email:    strings.TrimSpace(req.Email),
			Country:  strings.TrimSpace(req.Country),
		})
		if err != nil {
			return nil, err
		}
		if err := s.tenantSvc.AttachStripeAccount(ctx, tenantID, account.ID); err != nil {
			return nil, err
		}
		accountID = account.ID
	}

	return s.provider.CreateAccountLink(ctx, paymentdomain.AccountLinkParams{
		AccountID:  accountID,
		ReturnURL:  returnURL,
		RefreshURL: refreshURL,
	})
}

func (s *service) AccountStatus(ctx context.Context, tenantID string) (*paymentdomain.Account, error) {
	tenant, err := s.tenantSvc.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant.StripeAccountID == "" {
		return nil, paymentdomain.ErrAccountMissing
	}

	return &paymentdomain.Account{
		ID:               tenant.StripeAccountID,
		ChargesEnabled:   tenant.ChargesEnabled,
		PayoutsEnabled:   tenant.PayoutsEnabled,
		DetailsSubmitted: tenant.DetailsSubmitted,
	}, nil
}

func (s *service) findOwned(ctx context.Context, tenantID string, intentID string) (*paymentdomain.Transaction, error) {
	intentID = strings.TrimSpace(intentID)
	if intentID == "" {
		return nil, paymentdomain.ErrNotFound
	}

	txn, err := s.repo.FindTransaction(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if txn == nil || txn.TenantID != tenantID {
		return nil, paymentdomain.ErrNotFound
	}

	return txn, nil
}

func (s *service) platformSettings(ctx context.Context) (int64, string, error) {
	feeBps := s.cfg.Stripe.ApplicationFeeBps
	currency := s.cfg.Stripe.DefaultCurrency

	row, err := s.repo.FindPlatformConfig(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return feeBps, currency, nil
		}
		return 0, "", err
	}
	if row != nil {
		if row.FeeBps >= 0 {
			feeBps = row.FeeBps
		}
		if row.DefaultCurrency != "" {
			currency = strings.ToLower(row.DefaultCurrency)
		}
	}

	return feeBps, currency, nil
}

func intentStatus(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return paymentdomain.StatusCreated
	}
	return status
}

func toJSONMap(metadata map[string]string) datatypes.JSONMap {
	if len(metadata) == 0 {
		return nil
	}
	out := datatypes.JSONMap{}
	for key, value := range metadata {
		out[key] = value
	}
	return out
}
