package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"declara/internal/domain"
	"declara/internal/port"
)

// MockContentProvider is a mock implementation of port.ContentProvider.
type MockContentProvider struct {
	mock.Mock
}

func (m *MockContentProvider) Extract(ctx context.Context, fileType domain.FileType, data []byte) (*port.RawContent, error) {
	args := m.Called(ctx, fileType, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.RawContent), args.Error(1)
}
