package usecase

import (
	"context"
	"time"

	"stock-alert-service/app/domain"

	"github.com/stretchr/testify/mock"
)

// MockNotificationRepository is a mock implementation of domain.NotificationRepository.
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByID(ctx context.Context, id int64) (domain.Notification, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkSent(ctx context.Context, id int64, sentAt time.Time) error {
	args := m.Called(ctx, id, sentAt)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkFailed(ctx context.Context, id int64, errorMessage string) error {
	args := m.Called(ctx, id, errorMessage)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetListNotification(ctx context.Context, param domain.GetListNotificationRequest) ([]domain.Notification, error) {
	args := m.Called(ctx, param)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationRepository) GetListNotificationCount(ctx context.Context, param domain.GetListNotificationRequest) (int64, error) {
	args := m.Called(ctx, param)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) CountByStatus(ctx context.Context) (domain.NotificationSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.NotificationSummary), args.Error(1)
}

// MockEmailDispatcher is a mock implementation of domain.EmailDispatcher.
type MockEmailDispatcher struct {
	mock.Mock
}

func (m *MockEmailDispatcher) Send(ctx context.Context, to, subject, htmlBody string) error {
	args := m.Called(ctx, to, subject, htmlBody)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of domain.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishLowStock(ctx context.Context, event domain.LowStockEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
