package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"declara/internal/domain"
	"declara/internal/port"
)

type partnerRepo struct {
	db *sqlx.DB
}

// NewPartnerRepo creates a new PostgreSQL-backed PartnerRepository.
func NewPartnerRepo(db *sqlx.DB) port.PartnerRepository {
	return &partnerRepo{db: db}
}

func (r *partnerRepo) Create(ctx context.Context, partner *domain.Partner) error {
	now := time.Now().UTC()
	partner.CreatedAt = now
	partner.UpdatedAt = now

	query := `INSERT INTO partners
		(id, tenant_id, partner_type, name, normalized_name, address, country_code,
		 tax_code, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(ctx, query,
		partner.ID, partner.TenantID, partner.PartnerType, partner.Name,
		partner.NormalizedName, partner.Address, partner.CountryCode,
		partner.TaxCode, partner.IsActive, partner.CreatedAt, partner.UpdatedAt)
	if err != nil {
		return fmt.Errorf("partnerRepo.Create: %w", err)
	}
	return nil
}

func (r *partnerRepo) GetByID(ctx context.Context, tenantID, partnerID uuid.UUID) (*domain.Partner, error) {
	var partner domain.Partner
	err := r.db.GetContext(ctx, &partner,
		"SELECT * FROM partners WHERE id = $1 AND tenant_id = $2", partnerID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPartnerNotFound
		}
		return nil, fmt.Errorf("partnerRepo.GetByID: %w", err)
	}
	return &partner, nil
}

func (r *partnerRepo) GetByNormalizedName(ctx context.Context, tenantID uuid.UUID, ptype domain.PartnerType, normalized string) (*domain.Partner, error) {
	var partner domain.Partner
	err := r.db.GetContext(ctx, &partner,
		`SELECT * FROM partners
		 WHERE tenant_id = $1 AND partner_type = $2 AND normalized_name = $3 AND is_active = TRUE`,
		tenantID, ptype, normalized)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPartnerNotFound
		}
		return nil, fmt.Errorf("partnerRepo.GetByNormalizedName: %w", err)
	}
	return &partner, nil
}

func (r *partnerRepo) ListByType(ctx context.Context, tenantID uuid.UUID, ptype domain.PartnerType) ([]domain.Partner, error) {
	var partners []domain.Partner
	err := r.db.SelectContext(ctx, &partners,
		`SELECT * FROM partners
		 WHERE tenant_id = $1 AND partner_type = $2 AND is_active = TRUE
		 ORDER BY normalized_name`,
		tenantID, ptype)
	if err != nil {
		return nil, fmt.Errorf("partnerRepo.ListByType: %w", err)
	}
	return partners, nil
}

func (r *partnerRepo) GetAlias(ctx context.Context, tenantID uuid.UUID, normalizedAlias string) (*domain.PartnerAlias, error) {
	var alias domain.PartnerAlias
	err := r.db.GetContext(ctx, &alias,
		"SELECT * FROM partner_aliases WHERE tenant_id = $1 AND normalized_alias = $2",
		tenantID, normalizedAlias)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("partnerRepo.GetAlias: %w", err)
	}
	return &alias, nil
}

func (r *partnerRepo) CreateAlias(ctx context.Context, alias *domain.PartnerAlias) error {
	query := `INSERT INTO partner_aliases
		(id, tenant_id, partner_id, normalized_alias, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tenant_id, normalized_alias) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query,
		alias.ID, alias.TenantID, alias.PartnerID, alias.NormalizedAlias,
		alias.CreatedBy, alias.CreatedAt)
	if err != nil {
		return fmt.Errorf("partnerRepo.CreateAlias: %w", err)
	}
	return nil
}
