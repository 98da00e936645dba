package domain

import (
	"context"
	"database/sql"
	"time"
)

type Stock struct {
	ID                int64     `json:"id"`
	ProductID         string    `json:"product_id"`
	ProductName       string    `json:"product_name"`
	AvailableQuantity int64     `json:"available_quantity"`
	ReservedQuantity  int64     `json:"reserved_quantity"`
	ReorderThreshold  int64     `json:"reorder_threshold"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Sellable is the quantity orders can still claim. Threshold evaluation
// always runs against this value, never against the raw available count.
func (s Stock) Sellable() int64 {
	return s.AvailableQuantity - s.ReservedQuantity
}

type StockCreateRequest struct {
	ProductID        string `json:"product_id" validate:"required"`
	ProductName      string `json:"product_name" validate:"required"`
	InitialQuantity  int64  `json:"initial_quantity" validate:"gte=0"`
	ReorderThreshold int64  `json:"reorder_threshold" validate:"gte=0"`
}

type UpdateQuantityRequest struct {
	Quantity int64 `json:"quantity" validate:"gte=0"`
}

type UpdateThresholdRequest struct {
	ReorderThreshold int64 `json:"reorder_threshold" validate:"gte=0"`
}

type StockResponse struct {
	ID                int64  `json:"id"`
	ProductID         string `json:"product_id"`
	ProductName       string `json:"product_name"`
	AvailableQuantity int64  `json:"available_quantity"`
	ReservedQuantity  int64  `json:"reserved_quantity"`
	SellableQuantity  int64  `json:"sellable_quantity"`
	ReorderThreshold  int64  `json:"reorder_threshold"`
	LowStock          bool   `json:"low_stock"`
}

type GetListStockRequest struct {
	ProductID    string `query:"product_id"`
	LowStockOnly bool   `query:"low_stock"`
	Page         int64  `query:"page"`
	Limit        int64  `query:"limit"`
	SortOrder    string `query:"sort_order"`
	SortBy       string `query:"sort_by"`
}

type Metadata struct {
	TotalData int64  `json:"total_data"`
	TotalPage int64  `json:"total_page"`
	Page      int64  `json:"page"`
	Limit     int64  `json:"limit"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
}

type StockRepository interface {
	Create(ctx context.Context, stock *Stock) error
	GetByID(ctx context.Context, id int64) (Stock, error)
	GetByProductID(ctx context.Context, productID string) (Stock, error)
	LockForUpdate(ctx context.Context, id int64, tx *sql.Tx) (Stock, error)
	UpdateQuantities(ctx context.Context, id, available, reserved int64, tx *sql.Tx) error
	UpdateThreshold(ctx context.Context, id, threshold int64) error
	GetListStock(ctx context.Context, param GetListStockRequest) ([]Stock, error)
	GetListStockCount(ctx context.Context, param GetListStockRequest) (int64, error)

	WithTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error
}

type StockService interface {
	CreateStock(ctx context.Context, req StockCreateRequest) (*Stock, error)
	GetByProductID(ctx context.Context, productID string) (StockResponse, error)
	UpdateQuantity(ctx context.Context, id int64, req UpdateQuantityRequest) error
	UpdateThreshold(ctx context.Context, id int64, req UpdateThresholdRequest) error
	GetListStock(ctx context.Context, param GetListStockRequest) ([]StockResponse, Metadata, error)
}
