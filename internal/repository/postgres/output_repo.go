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

type outputRepo struct {
	db *sqlx.DB
}

// NewOutputRepo creates a new PostgreSQL-backed OutputRepository.
func NewOutputRepo(db *sqlx.DB) port.OutputRepository {
	return &outputRepo{db: db}
}

func (r *outputRepo) AppendBatch(ctx context.Context, outputs []domain.ParsingOutput) error {
	if len(outputs) == 0 {
		return nil
	}
	query := `INSERT INTO parsing_outputs
		(id, session_id, tenant_id, file_id, category, field_name, field_value, confidence, created_at)
		VALUES (:id, :session_id, :tenant_id, :file_id, :category, :field_name, :field_value, :confidence, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, outputs); err != nil {
		return fmt.Errorf("outputRepo.AppendBatch: %w", err)
	}
	return nil
}

func (r *outputRepo) GetByID(ctx context.Context, tenantID, outputID uuid.UUID) (*domain.ParsingOutput, error) {
	var output domain.ParsingOutput
	err := r.db.GetContext(ctx, &output,
		"SELECT * FROM parsing_outputs WHERE id = $1 AND tenant_id = $2", outputID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOutputNotFound
		}
		return nil, fmt.Errorf("outputRepo.GetByID: %w", err)
	}
	return &output, nil
}

func (r *outputRepo) ListBySession(ctx context.Context, tenantID, sessionID uuid.UUID) ([]domain.ParsingOutput, error) {
	var outputs []domain.ParsingOutput
	err := r.db.SelectContext(ctx, &outputs,
		`SELECT * FROM parsing_outputs
		 WHERE session_id = $1 AND tenant_id = $2
		 ORDER BY created_at, file_id, field_name`,
		sessionID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("outputRepo.ListBySession: %w", err)
	}
	return outputs, nil
}
