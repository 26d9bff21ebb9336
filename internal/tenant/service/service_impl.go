package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/brewhub/brewhub/internal/tenant/domain"
	"github.com/brewhub/brewhub/pkg/db"
)

type service struct {
	db    *gorm.DB
	repo  domain.Repository
	genID *snowflake.Node
	log   *zap.Logger
}

func NewService(gdb *gorm.DB, repo domain.Repository, genID *snowflake.Node, log *zap.Logger) domain.Service {
	return &service{
		db:    gdb,
		repo:  repo,
		genID: genID,
		log:   log.Named("tenant.service"),
	}
}

func (s *service) Provision(ctx context.Context, userID string, req domain.ProvisionRequest) (*domain.TenantResponse, error) {
	if userID == "" {
		return nil, domain.ErrMembershipRequired
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidTenant
	}

	tenantID := strings.TrimSpace(req.ID)
	if tenantID == "" {
		tenantID = slug.Make(name)
	}
	if tenantID == "" || !slug.IsSlug(tenantID) {
		return nil, domain.ErrInvalidTenant
	}

	now := time.Now().UTC()
	tenant := domain.Tenant{
		ID:        tenantID,
		Name:      name,
		Domain:    strings.TrimSpace(req.Domain),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateTenant(ctx, tenant); err != nil {
			return err
		}

		member := domain.Membership{
			ID:        s.genID.Generate(),
			TenantID:  tenantID,
			UserID:    userID,
			Role:      domain.RoleAdmin,
			CreatedAt: now,
			UpdatedAt: now,
		}

		return repo.AddMember(ctx, member)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrTenantExists
		}
		return nil, err
	}

	s.log.Info("tenant provisioned",
		zap.String("tenant_id", tenantID),
		zap.String("user_id", userID),
	)

	return &domain.TenantResponse{
		ID:        tenantID,
		Name:      name,
		Domain:    tenant.Domain,
		Role:      string(domain.RoleAdmin),
		CreatedAt: now,
	}, nil
}

func (s *service) Get(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	tenant, err := s.repo.FindTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrTenantNotFound
	}

	return tenant, nil
}

func (s *service) EnsureExists(ctx context.Context, tenantID string) error {
	ok, err := s.repo.TenantExists(ctx, tenantID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrTenantNotFound
	}

	return nil
}

func (s *service) ListTenantsByUser(ctx context.Context, userID string) ([]domain.TenantListItem, error) {
	tenants, err := s.repo.ListTenantsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.TenantListItem, 0, len(tenants))
	for _, tenant := range tenants {
		member, err := s.repo.FindMembership(ctx, tenant.ID, userID)
		if err != nil {
			return nil, err
		}
		item := domain.TenantListItem{
			ID:        tenant.ID,
			Name:      tenant.Name,
			CreatedAt: tenant.CreatedAt,
		}
		if member != nil {
			item.Role = member.Role
		}
		items = append(items, item)
	}

	return items, nil
}

// LoadMembership returns (nil, nil) when the user holds no grant in the
// tenant. Absence is not an error at this layer; authorization decides
// what it means.
func (s *service) LoadMembership(ctx context.Context, tenantID string, userID string) (*domain.Membership, error) {
	if tenantID == "" || userID == "" {
		return nil, nil
	}

	return s.repo.FindMembership(ctx, tenantID, userID)
}

func (s *service) AttachStripeAccount(ctx context.Context, tenantID string, accountID string) error {
	if err := s.EnsureExists(ctx, tenantID); err != nil {
		return err
	}

	return s.repo.SetStripeAccount(ctx, tenantID, accountID, domain.AccountStatus{}, time.Now().UTC())
}

func (s *service) ApplyAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus) (*domain.Tenant, error) {
	tenant, err := s.repo.FindTenantByStripeAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		s.log.Warn("account update for unknown stripe account", zap.String("account_id", accountID))
		return nil, nil
	}

	if err := s.repo.UpdateAccountStatus(ctx, accountID, status, time.Now().UTC()); err != nil {
		return nil, err
	}

	return s.repo.FindTenantByStripeAccount(ctx, accountID)
}
