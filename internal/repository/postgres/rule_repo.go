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

type ruleRepo struct {
	db *sqlx.DB
}

// NewCustomerRuleRepo creates a new PostgreSQL-backed CustomerRuleRepository.
func NewCustomerRuleRepo(db *sqlx.DB) port.CustomerRuleRepository {
	return &ruleRepo{db: db}
}

func (r *ruleRepo) Create(ctx context.Context, rule *domain.CustomerRule) error {
	now := time.Now().UTC()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	query := `INSERT INTO customer_rules
		(id, tenant_id, customer_sig, rule_type, category, field_name, pattern, value,
		 confidence, hit_count, source_corrections, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.db.ExecContext(ctx, query,
		rule.ID, rule.TenantID, rule.CustomerSig, rule.RuleType, rule.Category,
		rule.FieldName, rule.Pattern, rule.Value, rule.Confidence, rule.HitCount,
		rule.SourceCorrections, rule.IsActive, rule.CreatedAt, rule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ruleRepo.Create: %w", err)
	}
	return nil
}

func (r *ruleRepo) Update(ctx context.Context, rule *domain.CustomerRule) error {
	rule.UpdatedAt = time.Now().UTC()

	query := `UPDATE customer_rules
		SET value = $1, confidence = $2, hit_count = $3, source_corrections = $4,
		    is_active = $5, updated_at = $6
		WHERE id = $7 AND tenant_id = $8`
	res, err := r.db.ExecContext(ctx, query,
		rule.Value, rule.Confidence, rule.HitCount, rule.SourceCorrections,
		rule.IsActive, rule.UpdatedAt, rule.ID, rule.TenantID)
	if err != nil {
		return fmt.Errorf("ruleRepo.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}

func (r *ruleRepo) GetByID(ctx context.Context, tenantID, ruleID uuid.UUID) (*domain.CustomerRule, error) {
	var rule domain.CustomerRule
	err := r.db.GetContext(ctx, &rule,
		"SELECT * FROM customer_rules WHERE id = $1 AND tenant_id = $2", ruleID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRuleNotFound
		}
		return nil, fmt.Errorf("ruleRepo.GetByID: %w", err)
	}
	return &rule, nil
}

func (r *ruleRepo) ListActive(ctx context.Context, tenantID uuid.UUID, customerSig string) ([]domain.CustomerRule, error) {
	var rules []domain.CustomerRule
	err := r.db.SelectContext(ctx, &rules,
		`SELECT * FROM customer_rules
		 WHERE tenant_id = $1 AND customer_sig = $2 AND is_active = TRUE
		 ORDER BY confidence DESC, created_at`,
		tenantID, customerSig)
	if err != nil {
		return nil, fmt.Errorf("ruleRepo.ListActive: %w", err)
	}
	return rules, nil
}

func (r *ruleRepo) ListByCustomer(ctx context.Context, tenantID uuid.UUID, customerSig string) ([]domain.CustomerRule, error) {
	var rules []domain.CustomerRule
	err := r.db.SelectContext(ctx, &rules,
		`SELECT * FROM customer_rules
		 WHERE tenant_id = $1 AND customer_sig = $2
		 ORDER BY confidence DESC, created_at`,
		tenantID, customerSig)
	if err != nil {
		return nil, fmt.Errorf("ruleRepo.ListByCustomer: %w", err)
	}
	return rules, nil
}
