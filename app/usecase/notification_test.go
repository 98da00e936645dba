package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"stock-alert-service/app/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const adminEmail = "admin@example.com"

func lowStockPayload() []byte {
	return []byte(`{"type":"low_stock","product_id":"SKU-1","product_name":"Widget","current_quantity":2,"threshold":5}`)
}

func TestNotificationUsecase_ProcessEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("records, dispatches and marks sent in order", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		dispatcher := new(MockEmailDispatcher)
		svc := NewNotificationUsecase(repo, dispatcher, new(MockEventPublisher), adminEmail)
		payload := lowStockPayload()

		var calls []string
		repo.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.Type == domain.EventTypeLowStock &&
				n.Status == domain.NotificationStatusPending &&
				n.Subject == "Low Stock Alert: Widget" &&
				bytes.Equal(n.Data, payload)
		})).Run(func(args mock.Arguments) {
			calls = append(calls, "create")
			args.Get(1).(*domain.Notification).ID = 7
		}).Return(nil)
		dispatcher.On("Send", mock.Anything, adminEmail, "Low Stock Alert: Widget", mock.MatchedBy(func(body string) bool {
			return strings.Contains(body, "Widget")
		})).Run(func(mock.Arguments) {
			calls = append(calls, "send")
		}).Return(nil)
		repo.On("MarkSent", mock.Anything, int64(7), mock.AnythingOfType("time.Time")).Run(func(mock.Arguments) {
			calls = append(calls, "markSent")
		}).Return(nil)

		err := svc.ProcessEvent(ctx, payload, time.Now())
		require.NoError(t, err)
		assert.Equal(t, []string{"create", "send", "markSent"}, calls)
		repo.AssertExpectations(t)
		dispatcher.AssertExpectations(t)
	})

	t.Run("dispatch failure marks the record failed", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		dispatcher := new(MockEmailDispatcher)
		svc := NewNotificationUsecase(repo, dispatcher, new(MockEventPublisher), adminEmail)

		sendErr := fmt.Errorf("%w: postmark rejected the message", domain.ErrDispatchFailed)
		repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Notification).ID = 3
		}).Return(nil)
		dispatcher.On("Send", mock.Anything, adminEmail, mock.Anything, mock.Anything).Return(sendErr)
		repo.On("MarkFailed", mock.Anything, int64(3), sendErr.Error()).Return(nil)

		err := svc.ProcessEvent(ctx, lowStockPayload(), time.Now())
		assert.ErrorIs(t, err, domain.ErrDispatchFailed)
		repo.AssertNumberOfCalls(t, "MarkSent", 0)
		repo.AssertExpectations(t)
	})

	t.Run("store failure stops before any dispatch", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		dispatcher := new(MockEmailDispatcher)
		svc := NewNotificationUsecase(repo, dispatcher, new(MockEventPublisher), adminEmail)

		repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

		err := svc.ProcessEvent(ctx, lowStockPayload(), time.Now())
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
		dispatcher.AssertNumberOfCalls(t, "Send", 0)
	})

	t.Run("unknown event type is skipped without error", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		dispatcher := new(MockEmailDispatcher)
		svc := NewNotificationUsecase(repo, dispatcher, new(MockEventPublisher), adminEmail)

		err := svc.ProcessEvent(ctx, []byte(`{"type":"price_drop","product_id":"SKU-1"}`), time.Now())
		require.NoError(t, err)
		repo.AssertNumberOfCalls(t, "Create", 0)
		dispatcher.AssertNumberOfCalls(t, "Send", 0)
	})

	t.Run("malformed payload is dropped with an error", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		dispatcher := new(MockEmailDispatcher)
		svc := NewNotificationUsecase(repo, dispatcher, new(MockEventPublisher), adminEmail)

		err := svc.ProcessEvent(ctx, []byte(`{broken`), time.Now())
		assert.ErrorIs(t, err, domain.ErrMalformedEvent)
		repo.AssertNumberOfCalls(t, "Create", 0)
	})

	t.Run("duplicate events each get their own record", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		dispatcher := new(MockEmailDispatcher)
		svc := NewNotificationUsecase(repo, dispatcher, new(MockEventPublisher), adminEmail)

		var nextID int64
		repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			nextID++
			args.Get(1).(*domain.Notification).ID = nextID
		}).Return(nil)
		dispatcher.On("Send", mock.Anything, adminEmail, mock.Anything, mock.Anything).Return(nil)
		repo.On("MarkSent", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		require.NoError(t, svc.ProcessEvent(ctx, lowStockPayload(), time.Now()))
		require.NoError(t, svc.ProcessEvent(ctx, lowStockPayload(), time.Now()))
		repo.AssertNumberOfCalls(t, "Create", 2)
		dispatcher.AssertNumberOfCalls(t, "Send", 2)
	})
}

func TestNotificationUsecase_GetSummary(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := NewNotificationUsecase(repo, new(MockEmailDispatcher), new(MockEventPublisher), adminEmail)

	repo.On("CountByStatus", mock.Anything).Return(domain.NotificationSummary{
		Total: 5, Pending: 1, Sent: 3, Failed: 1,
	}, nil)

	summary, err := svc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), summary.Total)
	assert.Equal(t, int64(3), summary.Sent)
}

func TestNotificationUsecase_GetListNotification(t *testing.T) {
	t.Run("empty list is not found", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		svc := NewNotificationUsecase(repo, new(MockEmailDispatcher), new(MockEventPublisher), adminEmail)

		param := domain.GetListNotificationRequest{Page: 1, Limit: 20}
		repo.On("GetListNotification", mock.Anything, param).Return(nil, nil)
		repo.On("GetListNotificationCount", mock.Anything, param).Return(int64(0), nil)

		_, _, err := svc.GetListNotification(context.Background(), param)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("fills metadata", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		svc := NewNotificationUsecase(repo, new(MockEmailDispatcher), new(MockEventPublisher), adminEmail)

		param := domain.GetListNotificationRequest{Page: 2, Limit: 10}
		repo.On("GetListNotification", mock.Anything, param).Return([]domain.Notification{{ID: 11}}, nil)
		repo.On("GetListNotificationCount", mock.Anything, param).Return(int64(21), nil)

		notifications, metadata, err := svc.GetListNotification(context.Background(), param)
		require.NoError(t, err)
		assert.Len(t, notifications, 1)
		assert.Equal(t, int64(21), metadata.TotalData)
		assert.Equal(t, int64(3), metadata.TotalPage)
		assert.Equal(t, int64(2), metadata.Page)
	})
}

func TestNotificationUsecase_PublishTestEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("missing name falls back to the product id", func(t *testing.T) {
		publisher := new(MockEventPublisher)
		svc := NewNotificationUsecase(new(MockNotificationRepository), new(MockEmailDispatcher), publisher, adminEmail)

		publisher.On("PublishLowStock", mock.Anything, mock.MatchedBy(func(e domain.LowStockEvent) bool {
			return e.Type == domain.EventTypeLowStock && e.ProductID == "SKU-2" && e.ProductName == "SKU-2"
		})).Return(nil)

		err := svc.PublishTestEvent(ctx, domain.TestEventRequest{ProductID: "SKU-2", CurrentQuantity: 1, Threshold: 5})
		require.NoError(t, err)
		publisher.AssertExpectations(t)
	})

	t.Run("publish failure surfaces", func(t *testing.T) {
		publisher := new(MockEventPublisher)
		svc := NewNotificationUsecase(new(MockNotificationRepository), new(MockEmailDispatcher), publisher, adminEmail)

		publisher.On("PublishLowStock", mock.Anything, mock.Anything).
			Return(fmt.Errorf("%w: channel down", domain.ErrPublishFailed))

		err := svc.PublishTestEvent(ctx, domain.TestEventRequest{ProductID: "SKU-3"})
		assert.ErrorIs(t, err, domain.ErrPublishFailed)
	})
}
