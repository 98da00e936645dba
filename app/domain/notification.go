package domain

import (
	"context"
	"encoding/json"
	"time"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

type Notification struct {
	ID           int64              `json:"id"`
	Type         string             `json:"type"`
	Subject      string             `json:"subject"`
	Content      string             `json:"content"`
	Status       NotificationStatus `json:"status"` // "pending", "sent", "failed"
	ErrorMessage *string            `json:"error_message,omitempty"`
	Data         json.RawMessage    `json:"data"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	SentAt       *time.Time         `json:"sent_at,omitempty"`
}

type GetListNotificationRequest struct {
	Type   string `query:"type"`
	Status string `query:"status"`
	Page   int64  `query:"page"`
	Limit  int64  `query:"limit"`
}

type NotificationSummary struct {
	Total   int64 `json:"total"`
	Pending int64 `json:"pending"`
	Sent    int64 `json:"sent"`
	Failed  int64 `json:"failed"`
}

type TestEventRequest struct {
	ProductID       string `json:"product_id" validate:"required"`
	ProductName     string `json:"product_name"`
	CurrentQuantity int64  `json:"current_quantity" validate:"gte=0"`
	Threshold       int64  `json:"threshold" validate:"gte=0"`
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) error
	GetByID(ctx context.Context, id int64) (Notification, error)
	MarkSent(ctx context.Context, id int64, sentAt time.Time) error
	MarkFailed(ctx context.Context, id int64, errorMessage string) error
	GetListNotification(ctx context.Context, param GetListNotificationRequest) ([]Notification, error)
	GetListNotificationCount(ctx context.Context, param GetListNotificationRequest) (int64, error)
	CountByStatus(ctx context.Context) (NotificationSummary, error)
}

type NotificationService interface {
	// ProcessEvent runs one channel payload through the full handling
	// chain: decode, record as pending, dispatch, mark sent or failed.
	ProcessEvent(ctx context.Context, payload []byte, receivedAt time.Time) error
	GetByID(ctx context.Context, id int64) (Notification, error)
	GetListNotification(ctx context.Context, param GetListNotificationRequest) ([]Notification, Metadata, error)
	GetSummary(ctx context.Context) (NotificationSummary, error)
	PublishTestEvent(ctx context.Context, req TestEventRequest) error
}
