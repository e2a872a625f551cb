package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"declara/internal/domain"
)

// MockSessionRepo is a mock implementation of port.SessionRepository.
type MockSessionRepo struct {
	mock.Mock
}

func (m *MockSessionRepo) Create(ctx context.Context, session *domain.ParsingSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepo) GetByID(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.ParsingSession, error) {
	args := m.Called(ctx, tenantID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParsingSession), args.Error(1)
}

func (m *MockSessionRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.ParsingSession, int, error) {
	args := m.Called(ctx, tenantID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ParsingSession), args.Int(1), args.Error(2)
}

func (m *MockSessionRepo) UpdateStatus(ctx context.Context, tenantID, sessionID uuid.UUID, status domain.SessionStatus) error {
	args := m.Called(ctx, tenantID, sessionID, status)
	return args.Error(0)
}

func (m *MockSessionRepo) SaveDraft(ctx context.Context, tenantID, sessionID uuid.UUID, draft []byte, customerSig string) error {
	args := m.Called(ctx, tenantID, sessionID, draft, customerSig)
	return args.Error(0)
}

func (m *MockSessionRepo) AddFile(ctx context.Context, sf *domain.SessionFile) error {
	args := m.Called(ctx, sf)
	return args.Error(0)
}

func (m *MockSessionRepo) ListFiles(ctx context.Context, tenantID, sessionID uuid.UUID) ([]domain.SessionFile, error) {
	args := m.Called(ctx, tenantID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SessionFile), args.Error(1)
}
