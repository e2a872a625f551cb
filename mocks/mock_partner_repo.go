package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"declara/internal/domain"
)

// MockPartnerRepo is a mock implementation of port.PartnerRepository.
type MockPartnerRepo struct {
	mock.Mock
}

func (m *MockPartnerRepo) Create(ctx context.Context, partner *domain.Partner) error {
	args := m.Called(ctx, partner)
	return args.Error(0)
}

func (m *MockPartnerRepo) GetByID(ctx context.Context, tenantID, partnerID uuid.UUID) (*domain.Partner, error) {
	args := m.Called(ctx, tenantID, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Partner), args.Error(1)
}

func (m *MockPartnerRepo) GetByNormalizedName(ctx context.Context, tenantID uuid.UUID, ptype domain.PartnerType, normalized string) (*domain.Partner, error) {
	args := m.Called(ctx, tenantID, ptype, normalized)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Partner), args.Error(1)
}

func (m *MockPartnerRepo) ListByType(ctx context.Context, tenantID uuid.UUID, ptype domain.PartnerType) ([]domain.Partner, error) {
	args := m.Called(ctx, tenantID, ptype)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Partner), args.Error(1)
}

func (m *MockPartnerRepo) GetAlias(ctx context.Context, tenantID uuid.UUID, normalizedAlias string) (*domain.PartnerAlias, error) {
	args := m.Called(ctx, tenantID, normalizedAlias)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PartnerAlias), args.Error(1)
}

func (m *MockPartnerRepo) CreateAlias(ctx context.Context, alias *domain.PartnerAlias) error {
	args := m.Called(ctx, alias)
	return args.Error(0)
}
