package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"declara/internal/domain"
	"declara/internal/port"
)

type hsCodeRepo struct {
	db *sqlx.DB
}

// NewHSCodeRepo creates a new PostgreSQL-backed HSCodeRepository. The HS
// catalog is shared reference data and carries no tenant scope.
func NewHSCodeRepo(db *sqlx.DB) port.HSCodeRepository {
	return &hsCodeRepo{db: db}
}

func (r *hsCodeRepo) LoadAll(ctx context.Context) ([]domain.HSCode, error) {
	var codes []domain.HSCode
	err := r.db.SelectContext(ctx, &codes, "SELECT * FROM hs_codes ORDER BY code")
	if err != nil {
		return nil, fmt.Errorf("hsCodeRepo.LoadAll: %w", err)
	}
	return codes, nil
}
