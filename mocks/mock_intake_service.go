package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"declara/internal/domain"
)

// MockIntakeService is a mock implementation of service.IntakeService.
type MockIntakeService struct {
	mock.Mock
}

func (m *MockIntakeService) ProcessSession(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.ParsedDocument, error) {
	args := m.Called(ctx, tenantID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParsedDocument), args.Error(1)
}
