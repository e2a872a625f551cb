package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"declara/internal/domain"
)

// MockCustomerRuleRepo is a mock implementation of port.CustomerRuleRepository.
type MockCustomerRuleRepo struct {
	mock.Mock
}

func (m *MockCustomerRuleRepo) Create(ctx context.Context, rule *domain.CustomerRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockCustomerRuleRepo) Update(ctx context.Context, rule *domain.CustomerRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockCustomerRuleRepo) GetByID(ctx context.Context, tenantID, ruleID uuid.UUID) (*domain.CustomerRule, error) {
	args := m.Called(ctx, tenantID, ruleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerRule), args.Error(1)
}

func (m *MockCustomerRuleRepo) ListActive(ctx context.Context, tenantID uuid.UUID, customerSig string) ([]domain.CustomerRule, error) {
	args := m.Called(ctx, tenantID, customerSig)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CustomerRule), args.Error(1)
}

func (m *MockCustomerRuleRepo) ListByCustomer(ctx context.Context, tenantID uuid.UUID, customerSig string) ([]domain.CustomerRule, error) {
	args := m.Called(ctx, tenantID, customerSig)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CustomerRule), args.Error(1)
}
