package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"stock-alert-service/app/domain"
)

type notificationUsecase struct {
	notificationRepo domain.NotificationRepository
	dispatcher       domain.EmailDispatcher
	publisher        domain.EventPublisher
	adminEmail       string
}

// NewNotificationUsecase wires the consumer-side service. The admin
// recipient is injected here, from validated config, rather than read
// from the environment at send time.
func NewNotificationUsecase(
	notificationRepo domain.NotificationRepository,
	dispatcher domain.EmailDispatcher,
	publisher domain.EventPublisher,
	adminEmail string) domain.NotificationService {
	return &notificationUsecase{notificationRepo, dispatcher, publisher, adminEmail}
}

// ProcessEvent takes one raw channel payload through the handling chain:
// decode, record as pending, dispatch the email, mark sent or failed.
// The record is written before any dispatch attempt, so a notification
// survives even when its email does not go out. Failed is terminal;
// nothing here retries.
func (u *notificationUsecase) ProcessEvent(ctx context.Context, payload []byte, receivedAt time.Time) error {
	event, err := domain.DecodeLowStockEvent(payload, receivedAt)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownEventType) {
			// Not ours; skip without failing the message.
			slog.WarnContext(ctx, "[notificationUsecase] ProcessEvent", "unknownType", event.Type)
			return nil
		}
		slog.ErrorContext(ctx, "[notificationUsecase] ProcessEvent", "decode", err)
		return err
	}

	notification := domain.Notification{
		Type:    domain.EventTypeLowStock,
		Subject: event.Subject(),
		Content: event.Content(),
		Status:  domain.NotificationStatusPending,
		Data:    json.RawMessage(payload),
	}
	if err := u.notificationRepo.Create(ctx, &notification); err != nil {
		slog.ErrorContext(ctx, "[notificationUsecase] ProcessEvent", "createNotification", err)
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	if err := u.dispatcher.Send(ctx, u.adminEmail, notification.Subject, event.HTMLBody()); err != nil {
		slog.ErrorContext(ctx, "[notificationUsecase] ProcessEvent", "sendEmail", err)
		if markErr := u.notificationRepo.MarkFailed(ctx, notification.ID, err.Error()); markErr != nil {
			slog.ErrorContext(ctx, "[notificationUsecase] ProcessEvent", "markFailed", markErr)
		}
		return err
	}

	if err := u.notificationRepo.MarkSent(ctx, notification.ID, time.Now()); err != nil {
		slog.ErrorContext(ctx, "[notificationUsecase] ProcessEvent", "markSent", err)
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	slog.InfoContext(ctx, "[notificationUsecase] ProcessEvent",
		"notification_id", notification.ID, "product_id", event.ProductID, "status", domain.NotificationStatusSent)
	return nil
}

func (u *notificationUsecase) GetByID(ctx context.Context, id int64) (domain.Notification, error) {
	notification, err := u.notificationRepo.GetByID(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "[notificationUsecase] GetByID", "getNotification", err)
		return domain.Notification{}, err
	}

	return notification, nil
}

func (u *notificationUsecase) GetListNotification(ctx context.Context, param domain.GetListNotificationRequest) ([]domain.Notification, domain.Metadata, error) {
	var metadata domain.Metadata

	notifications, err := u.notificationRepo.GetListNotification(ctx, param)
	if err != nil {
		slog.ErrorContext(ctx, "[notificationUsecase] GetListNotification", "getListNotification", err)
		return nil, metadata, err
	}

	count, err := u.notificationRepo.GetListNotificationCount(ctx, param)
	if err != nil {
		slog.ErrorContext(ctx, "[notificationUsecase] GetListNotification", "getListNotificationCount", err)
		return nil, metadata, err
	}

	if len(notifications) == 0 {
		slog.InfoContext(ctx, "[notificationUsecase] GetListNotification", "noNotificationsFound", nil)
		return nil, metadata, domain.ErrNotFound
	}

	metadata = domain.Metadata{
		TotalData: count,
		TotalPage: (count + param.Limit - 1) / param.Limit,
		Page:      param.Page,
		Limit:     param.Limit,
		SortBy:    "created_at",
		SortOrder: "desc",
	}

	return notifications, metadata, nil
}

func (u *notificationUsecase) GetSummary(ctx context.Context) (domain.NotificationSummary, error) {
	summary, err := u.notificationRepo.CountByStatus(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "[notificationUsecase] GetSummary", "countByStatus", err)
		return domain.NotificationSummary{}, err
	}

	return summary, nil
}

// PublishTestEvent puts a synthetic low-stock event on the channel, so
// the whole pipeline can be exercised without touching any stock record.
func (u *notificationUsecase) PublishTestEvent(ctx context.Context, req domain.TestEventRequest) error {
	name := req.ProductName
	if name == "" {
		name = req.ProductID
	}

	event := domain.NewLowStockEvent(req.ProductID, name, req.CurrentQuantity, req.Threshold, time.Now())
	if err := u.publisher.PublishLowStock(ctx, event); err != nil {
		slog.ErrorContext(ctx, "[notificationUsecase] PublishTestEvent", "publish", err)
		return err
	}

	slog.InfoContext(ctx, "[notificationUsecase] PublishTestEvent", "product_id", req.ProductID)
	return nil
}
