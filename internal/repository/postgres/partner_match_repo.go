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

type partnerMatchRepo struct {
	db *sqlx.DB
}

// NewPartnerMatchRepo creates a new PostgreSQL-backed PartnerMatchRepository.
func NewPartnerMatchRepo(db *sqlx.DB) port.PartnerMatchRepository {
	return &partnerMatchRepo{db: db}
}

func (r *partnerMatchRepo) Create(ctx context.Context, match *domain.PartnerMatch) error {
	now := time.Now().UTC()
	if match.CreatedAt.IsZero() {
		match.CreatedAt = now
	}
	match.UpdatedAt = now

	query := `INSERT INTO partner_matches
		(id, tenant_id, session_id, partner_type, extracted_name, extracted_address,
		 matched_partner_id, match_method, score, resolved_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.ExecContext(ctx, query,
		match.ID, match.TenantID, match.SessionID, match.PartnerType,
		match.ExtractedName, match.ExtractedAddress, match.MatchedPartnerID,
		match.MatchMethod, match.Score, match.ResolvedBy, match.CreatedAt, match.UpdatedAt)
	if err != nil {
		return fmt.Errorf("partnerMatchRepo.Create: %w", err)
	}
	return nil
}

func (r *partnerMatchRepo) GetByID(ctx context.Context, tenantID, matchID uuid.UUID) (*domain.PartnerMatch, error) {
	var match domain.PartnerMatch
	err := r.db.GetContext(ctx, &match,
		"SELECT * FROM partner_matches WHERE id = $1 AND tenant_id = $2", matchID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, fmt.Errorf("partnerMatchRepo.GetByID: %w", err)
	}
	return &match, nil
}

func (r *partnerMatchRepo) ListBySession(ctx context.Context, tenantID, sessionID uuid.UUID) ([]domain.PartnerMatch, error) {
	var matches []domain.PartnerMatch
	err := r.db.SelectContext(ctx, &matches,
		`SELECT * FROM partner_matches
		 WHERE session_id = $1 AND tenant_id = $2
		 ORDER BY created_at, id`,
		sessionID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("partnerMatchRepo.ListBySession: %w", err)
	}
	return matches, nil
}

func (r *partnerMatchRepo) Resolve(ctx context.Context, tenantID, matchID, partnerID, resolvedBy uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE partner_matches
		 SET matched_partner_id = $1, resolved_by = $2, updated_at = $3
		 WHERE id = $4 AND tenant_id = $5 AND matched_partner_id IS NULL`,
		partnerID, resolvedBy, time.Now().UTC(), matchID, tenantID)
	if err != nil {
		return fmt.Errorf("partnerMatchRepo.Resolve: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrMatchAlreadyResolved
	}
	return nil
}
