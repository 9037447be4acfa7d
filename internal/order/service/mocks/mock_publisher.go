package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/webbutiken/storefront/internal/events"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderCreated(ctx context.Context, event events.OrderCreatedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
