package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"declara/internal/domain"
)

// MockCorrectionRepo is a mock implementation of port.CorrectionRepository.
type MockCorrectionRepo struct {
	mock.Mock
}

func (m *MockCorrectionRepo) Append(ctx context.Context, correction *domain.Correction) error {
	args := m.Called(ctx, correction)
	return args.Error(0)
}

func (m *MockCorrectionRepo) GetByContentHash(ctx context.Context, tenantID uuid.UUID, hash string) (*domain.Correction, error) {
	args := m.Called(ctx, tenantID, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Correction), args.Error(1)
}

func (m *MockCorrectionRepo) ListBySession(ctx context.Context, tenantID, sessionID uuid.UUID) ([]domain.Correction, error) {
	args := m.Called(ctx, tenantID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Correction), args.Error(1)
}

func (m *MockCorrectionRepo) ListByCustomer(ctx context.Context, tenantID uuid.UUID, customerSig string) ([]domain.Correction, error) {
	args := m.Called(ctx, tenantID, customerSig)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Correction), args.Error(1)
}

func (m *MockCorrectionRepo) DistinctCustomerSigs(ctx context.Context, tenantID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCorrectionRepo) ListTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}
