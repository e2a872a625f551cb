package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"declara/internal/domain"
)

// MockPartnerMatchRepo is a mock implementation of port.PartnerMatchRepository.
type MockPartnerMatchRepo struct {
	mock.Mock
}

func (m *MockPartnerMatchRepo) Create(ctx context.Context, match *domain.PartnerMatch) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MockPartnerMatchRepo) GetByID(ctx context.Context, tenantID, matchID uuid.UUID) (*domain.PartnerMatch, error) {
	args := m.Called(ctx, tenantID, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PartnerMatch), args.Error(1)
}

func (m *MockPartnerMatchRepo) ListBySession(ctx context.Context, tenantID, sessionID uuid.UUID) ([]domain.PartnerMatch, error) {
	args := m.Called(ctx, tenantID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PartnerMatch), args.Error(1)
}

func (m *MockPartnerMatchRepo) Resolve(ctx context.Context, tenantID, matchID, partnerID, resolvedBy uuid.UUID) error {
	args := m.Called(ctx, tenantID, matchID, partnerID, resolvedBy)
	return args.Error(0)
}
