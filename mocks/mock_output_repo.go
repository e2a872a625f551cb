package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"declara/internal/domain"
)

// MockOutputRepo is a mock implementation of port.OutputRepository.
type MockOutputRepo struct {
	mock.Mock
}

func (m *MockOutputRepo) AppendBatch(ctx context.Context, outputs []domain.ParsingOutput) error {
	args := m.Called(ctx, outputs)
	return args.Error(0)
}

func (m *MockOutputRepo) GetByID(ctx context.Context, tenantID, outputID uuid.UUID) (*domain.ParsingOutput, error) {
	args := m.Called(ctx, tenantID, outputID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParsingOutput), args.Error(1)
}

func (m *MockOutputRepo) ListBySession(ctx context.Context, tenantID, sessionID uuid.UUID) ([]domain.ParsingOutput, error) {
	args := m.Called(ctx, tenantID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ParsingOutput), args.Error(1)
}
