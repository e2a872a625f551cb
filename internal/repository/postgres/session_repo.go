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

type sessionRepo struct {
	db *sqlx.DB
}

// NewSessionRepo creates a new PostgreSQL-backed SessionRepository.
func NewSessionRepo(db *sqlx.DB) port.SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(ctx context.Context, session *domain.ParsingSession) error {
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	query := `INSERT INTO parsing_sessions
		(id, tenant_id, customer_sig, status, draft, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		session.ID, session.TenantID, session.CustomerSig, session.Status,
		session.Draft, session.CreatedBy, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("sessionRepo.Create: %w", err)
	}
	return nil
}

func (r *sessionRepo) GetByID(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.ParsingSession, error) {
	var session domain.ParsingSession
	err := r.db.GetContext(ctx, &session,
		"SELECT * FROM parsing_sessions WHERE id = $1 AND tenant_id = $2", sessionID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("sessionRepo.GetByID: %w", err)
	}
	return &session, nil
}

func (r *sessionRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.ParsingSession, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM parsing_sessions WHERE tenant_id = $1", tenantID)
	if err != nil {
		return nil, 0, fmt.Errorf("sessionRepo.ListByTenant count: %w", err)
	}

	var sessions []domain.ParsingSession
	err = r.db.SelectContext(ctx, &sessions,
		`SELECT * FROM parsing_sessions
		 WHERE tenant_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		tenantID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("sessionRepo.ListByTenant: %w", err)
	}
	return sessions, total, nil
}

func (r *sessionRepo) UpdateStatus(ctx context.Context, tenantID, sessionID uuid.UUID, status domain.SessionStatus) error {
	now := time.Now().UTC()
	var finalizedAt *time.Time
	if status == domain.SessionFinalized {
		finalizedAt = &now
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE parsing_sessions
		 SET status = $1, updated_at = $2, finalized_at = COALESCE($3, finalized_at)
		 WHERE id = $4 AND tenant_id = $5`,
		status, now, finalizedAt, sessionID, tenantID)
	if err != nil {
		return fmt.Errorf("sessionRepo.UpdateStatus: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *sessionRepo) SaveDraft(ctx context.Context, tenantID, sessionID uuid.UUID, draft []byte, customerSig string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE parsing_sessions
		 SET draft = $1, customer_sig = $2, updated_at = $3
		 WHERE id = $4 AND tenant_id = $5`,
		draft, customerSig, time.Now().UTC(), sessionID, tenantID)
	if err != nil {
		return fmt.Errorf("sessionRepo.SaveDraft: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *sessionRepo) AddFile(ctx context.Context, sf *domain.SessionFile) error {
	query := `INSERT INTO session_files (session_id, file_id, tenant_id, added_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id, file_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, sf.SessionID, sf.FileID, sf.TenantID, sf.AddedAt)
	if err != nil {
		return fmt.Errorf("sessionRepo.AddFile: %w", err)
	}
	return nil
}

func (r *sessionRepo) ListFiles(ctx context.Context, tenantID, sessionID uuid.UUID) ([]domain.SessionFile, error) {
	var files []domain.SessionFile
	err := r.db.SelectContext(ctx, &files,
		`SELECT * FROM session_files
		 WHERE session_id = $1 AND tenant_id = $2
		 ORDER BY added_at, file_id`,
		sessionID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("sessionRepo.ListFiles: %w", err)
	}
	return files, nil
}
