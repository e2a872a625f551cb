package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"declara/internal/port"
)

// MockReviewNotifier is a mock implementation of port.ReviewNotifier.
type MockReviewNotifier struct {
	mock.Mock
}

func (m *MockReviewNotifier) NotifyManualMatch(ctx context.Context, notice port.ManualMatchNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

func (m *MockReviewNotifier) NotifyRuleConflict(ctx context.Context, notice port.RuleConflictNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}
