package domain

import (
	"context"
	"database/sql"
	"time"
)

type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "active"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

type OrderReservation struct {
	ID        int64             `json:"id"`
	StockID   int64             `json:"stock_id"`
	OrderID   string            `json:"order_id"`
	Quantity  int64             `json:"quantity"`
	Status    ReservationStatus `json:"status"` // "active", "completed", "cancelled"
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type OrderLine struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
}

type ReservationCreateRequest struct {
	OrderID string      `json:"order_id" validate:"required"`
	Lines   []OrderLine `json:"lines" validate:"required,min=1,dive"`
}

type ReservationUpdateRequest struct {
	Status ReservationStatus `json:"status" validate:"required,oneof=completed cancelled"`
}

type ReservationRepository interface {
	Create(ctx context.Context, reservation *OrderReservation, tx *sql.Tx) error
	GetActiveByOrderID(ctx context.Context, orderID string) ([]OrderReservation, error)
	UpdateStatus(ctx context.Context, id int64, status ReservationStatus, tx *sql.Tx) error
}

type ReservationUsecase interface {
	CreateReservation(ctx context.Context, req ReservationCreateRequest) error
	UpdateReservationStatusByOrderID(ctx context.Context, orderID string, req ReservationUpdateRequest) error
}
