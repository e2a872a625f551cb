package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"declara/internal/domain"
	"declara/internal/port"
	"declara/internal/rules"
)

// RuleService exposes learned customer rules for review. Rule content is
// written only by the learner; operators can inspect rules and toggle them.
type RuleService interface {
	ListRules(ctx context.Context, tenantID uuid.UUID, customerSig string) ([]domain.CustomerRule, error)
	SetActive(ctx context.Context, tenantID, ruleID uuid.UUID, active bool) (*domain.CustomerRule, error)
	TriggerLearn(ctx context.Context, tenantID uuid.UUID, customerSig string) (*rules.LearnReport, error)
}

type ruleService struct {
	ruleRepo port.CustomerRuleRepository
	learner  *rules.Learner
}

// NewRuleService creates a new RuleService implementation.
func NewRuleService(ruleRepo port.CustomerRuleRepository, learner *rules.Learner) RuleService {
	return &ruleService{ruleRepo: ruleRepo, learner: learner}
}

func (s *ruleService) ListRules(ctx context.Context, tenantID uuid.UUID, customerSig string) ([]domain.CustomerRule, error) {
	return s.ruleRepo.ListByCustomer(ctx, tenantID, customerSig)
}

func (s *ruleService) SetActive(ctx context.Context, tenantID, ruleID uuid.UUID, active bool) (*domain.CustomerRule, error) {
	rule, err := s.ruleRepo.GetByID(ctx, tenantID, ruleID)
	if err != nil {
		return nil, err
	}
	if rule.IsActive == active {
		return rule, nil
	}
	rule.IsActive = active
	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		return nil, fmt.Errorf("rule.SetActive: %w", err)
	}
	return rule, nil
}

func (s *ruleService) TriggerLearn(ctx context.Context, tenantID uuid.UUID, customerSig string) (*rules.LearnReport, error) {
	return s.learner.LearnCustomer(ctx, tenantID, customerSig)
}
