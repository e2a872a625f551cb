package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"declara/internal/domain"
	"declara/internal/port"
)

type correctionRepo struct {
	db *sqlx.DB
}

// NewCorrectionRepo creates a new PostgreSQL-backed CorrectionRepository.
// Corrections are append-only; the table carries no update path.
func NewCorrectionRepo(db *sqlx.DB) port.CorrectionRepository {
	return &correctionRepo{db: db}
}

func (r *correctionRepo) Append(ctx context.Context, correction *domain.Correction) error {
	query := `INSERT INTO corrections
		(id, tenant_id, session_id, output_id, customer_sig, category, field_name,
		 original_value, corrected_value, correction_type, user_action, content_hash,
		 created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.db.ExecContext(ctx, query,
		correction.ID, correction.TenantID, correction.SessionID, correction.OutputID,
		correction.CustomerSig, correction.Category, correction.FieldName,
		correction.OriginalValue, correction.CorrectedValue, correction.CorrectionType,
		correction.UserAction, correction.ContentHash, correction.CreatedBy, correction.CreatedAt)
	if err != nil {
		return fmt.Errorf("correctionRepo.Append: %w", err)
	}
	return nil
}

func (r *correctionRepo) GetByContentHash(ctx context.Context, tenantID uuid.UUID, hash string) (*domain.Correction, error) {
	var correction domain.Correction
	err := r.db.GetContext(ctx, &correction,
		"SELECT * FROM corrections WHERE tenant_id = $1 AND content_hash = $2", tenantID, hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("correctionRepo.GetByContentHash: %w", err)
	}
	return &correction, nil
}

func (r *correctionRepo) ListBySession(ctx context.Context, tenantID, sessionID uuid.UUID) ([]domain.Correction, error) {
	var corrections []domain.Correction
	err := r.db.SelectContext(ctx, &corrections,
		`SELECT * FROM corrections
		 WHERE session_id = $1 AND tenant_id = $2
		 ORDER BY created_at, id`,
		sessionID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("correctionRepo.ListBySession: %w", err)
	}
	return corrections, nil
}

func (r *correctionRepo) ListByCustomer(ctx context.Context, tenantID uuid.UUID, customerSig string) ([]domain.Correction, error) {
	var corrections []domain.Correction
	err := r.db.SelectContext(ctx, &corrections,
		`SELECT * FROM corrections
		 WHERE tenant_id = $1 AND customer_sig = $2
		 ORDER BY created_at, id`,
		tenantID, customerSig)
	if err != nil {
		return nil, fmt.Errorf("correctionRepo.ListByCustomer: %w", err)
	}
	return corrections, nil
}

func (r *correctionRepo) DistinctCustomerSigs(ctx context.Context, tenantID uuid.UUID) ([]string, error) {
	var sigs []string
	err := r.db.SelectContext(ctx, &sigs,
		`SELECT DISTINCT customer_sig FROM corrections
		 WHERE tenant_id = $1 AND customer_sig != ''
		 ORDER BY customer_sig`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("correctionRepo.DistinctCustomerSigs: %w", err)
	}
	return sigs, nil
}

func (r *correctionRepo) ListTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids,
		"SELECT DISTINCT tenant_id FROM corrections ORDER BY tenant_id")
	if err != nil {
		return nil, fmt.Errorf("correctionRepo.ListTenantIDs: %w", err)
	}
	return ids, nil
}
