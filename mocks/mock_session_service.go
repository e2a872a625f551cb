package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"declara/internal/domain"
	"declara/internal/service"
)

// MockSessionService is a mock implementation of service.SessionService.
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) StartSession(ctx context.Context, input *service.StartSessionInput) (*domain.ParsingSession, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParsingSession), args.Error(1)
}

func (m *MockSessionService) GetSession(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.ParsingSession, error) {
	args := m.Called(ctx, tenantID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParsingSession), args.Error(1)
}

func (m *MockSessionService) ListSessions(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.ParsingSession, int, error) {
	args := m.Called(ctx, tenantID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ParsingSession), args.Int(1), args.Error(2)
}

func (m *MockSessionService) RecordParseOutputs(ctx context.Context, tenantID, sessionID uuid.UUID, docs []domain.ParsedDocument) error {
	args := m.Called(ctx, tenantID, sessionID, docs)
	return args.Error(0)
}

func (m *MockSessionService) ListOutputs(ctx context.Context, tenantID, sessionID uuid.UUID) ([]domain.ParsingOutput, error) {
	args := m.Called(ctx, tenantID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ParsingOutput), args.Error(1)
}

func (m *MockSessionService) RecordCorrection(ctx context.Context, input *service.RecordCorrectionInput) (*domain.Correction, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Correction), args.Error(1)
}

func (m *MockSessionService) ListCorrections(ctx context.Context, tenantID, sessionID uuid.UUID) ([]domain.Correction, error) {
	args := m.Called(ctx, tenantID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Correction), args.Error(1)
}

func (m *MockSessionService) Finalize(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.ParsingSession, error) {
	args := m.Called(ctx, tenantID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParsingSession), args.Error(1)
}

func (m *MockSessionService) GetDraft(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.ParsedDocument, error) {
	args := m.Called(ctx, tenantID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParsedDocument), args.Error(1)
}
