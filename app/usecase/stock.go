package usecase

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"stock-alert-service/app/domain"
)

type stockUsecase struct {
	stockRepo domain.StockRepository
	publisher domain.EventPublisher
}

func NewStockUsecase(stockRepo domain.StockRepository, publisher domain.EventPublisher) domain.StockService {
	return &stockUsecase{stockRepo, publisher}
}

func (u *stockUsecase) CreateStock(ctx context.Context, req domain.StockCreateRequest) (*domain.Stock, error) {
	stock := domain.Stock{
		ProductID:         req.ProductID,
		ProductName:       req.ProductName,
		AvailableQuantity: req.InitialQuantity,
		ReorderThreshold:  req.ReorderThreshold,
	}

	if err := u.stockRepo.Create(ctx, &stock); err != nil {
		slog.ErrorContext(ctx, "[stockUsecase] CreateStock", "createStock", err)
		return nil, err
	}

	// A record born with no history has no previous quantity to compare
	// against, so the conservative check applies.
	if domain.BelowThreshold(stock.Sellable(), stock.ReorderThreshold) {
		event := domain.NewLowStockEvent(stock.ProductID, stock.ProductName,
			stock.Sellable(), stock.ReorderThreshold, time.Now())
		u.publishLowStock(ctx, &event)
	}

	slog.InfoContext(ctx, "[stockUsecase] CreateStock", "product_id", stock.ProductID, "id", stock.ID)
	return &stock, nil
}

func (u *stockUsecase) GetByProductID(ctx context.Context, productID string) (domain.StockResponse, error) {
	stock, err := u.stockRepo.GetByProductID(ctx, productID)
	if err != nil {
		slog.ErrorContext(ctx, "[stockUsecase] GetByProductID", "getStock", err)
		return domain.StockResponse{}, err
	}

	return toStockResponse(stock), nil
}

func (u *stockUsecase) UpdateQuantity(ctx context.Context, id int64, req domain.UpdateQuantityRequest) error {
	// The crossing decision happens inside the same row-locked
	// transaction as the write; the publish happens after commit.
	var event *domain.LowStockEvent

	if err := u.stockRepo.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		stock, err := u.stockRepo.LockForUpdate(ctx, id, tx)
		if err != nil {
			slog.ErrorContext(ctx, "[stockUsecase] UpdateQuantity", "lockForUpdate", err)
			return err
		}

		if stock.AvailableQuantity == req.Quantity {
			slog.InfoContext(ctx, "[stockUsecase] UpdateQuantity", "noChange", nil)
			return nil
		}

		if req.Quantity < stock.ReservedQuantity {
			return fmt.Errorf("%w: quantity below active reservations", domain.ErrInvalidRequest)
		}

		previous := stock.Sellable()
		if err := u.stockRepo.UpdateQuantities(ctx, id, req.Quantity, stock.ReservedQuantity, tx); err != nil {
			slog.ErrorContext(ctx, "[stockUsecase] UpdateQuantity", "updateQuantities", err)
			return err
		}

		current := req.Quantity - stock.ReservedQuantity
		if domain.CrossedBelowThreshold(previous, current, stock.ReorderThreshold) {
			e := domain.NewLowStockEvent(stock.ProductID, stock.ProductName,
				current, stock.ReorderThreshold, time.Now())
			event = &e
		}

		slog.InfoContext(ctx, "[stockUsecase] UpdateQuantity", "id", id, "quantity", req.Quantity)
		return nil
	}); err != nil {
		slog.ErrorContext(ctx, "[stockUsecase] UpdateQuantity", "withTransaction", err)
		return err
	}

	u.publishLowStock(ctx, event)
	return nil
}

func (u *stockUsecase) UpdateThreshold(ctx context.Context, id int64, req domain.UpdateThresholdRequest) error {
	// Changing the threshold never raises an alert by itself; the next
	// quantity change is evaluated against the new value.
	if err := u.stockRepo.UpdateThreshold(ctx, id, req.ReorderThreshold); err != nil {
		slog.ErrorContext(ctx, "[stockUsecase] UpdateThreshold", "updateThreshold", err)
		return err
	}

	slog.InfoContext(ctx, "[stockUsecase] UpdateThreshold", "id", id, "threshold", req.ReorderThreshold)
	return nil
}

func (u *stockUsecase) GetListStock(ctx context.Context, param domain.GetListStockRequest) ([]domain.StockResponse, domain.Metadata, error) {
	var metadata domain.Metadata

	stocks, err := u.stockRepo.GetListStock(ctx, param)
	if err != nil {
		slog.ErrorContext(ctx, "[stockUsecase] GetListStock", "getListStock", err)
		return nil, metadata, err
	}

	count, err := u.stockRepo.GetListStockCount(ctx, param)
	if err != nil {
		slog.ErrorContext(ctx, "[stockUsecase] GetListStock", "getListStockCount", err)
		return nil, metadata, err
	}

	if len(stocks) == 0 {
		slog.InfoContext(ctx, "[stockUsecase] GetListStock", "noStocksFound", nil)
		return nil, metadata, domain.ErrNotFound
	}

	responses := make([]domain.StockResponse, 0, len(stocks))
	for _, stock := range stocks {
		responses = append(responses, toStockResponse(stock))
	}

	metadata = domain.Metadata{
		TotalData: count,
		TotalPage: (count + param.Limit - 1) / param.Limit,
		Page:      param.Page,
		Limit:     param.Limit,
		SortBy:    param.SortBy,
		SortOrder: param.SortOrder,
	}

	return responses, metadata, nil
}

// publishLowStock sends a staged event after the transaction that raised
// it has committed. Failures are logged and swallowed: alerting is
// subordinate to the stock mutation, which already succeeded.
func (u *stockUsecase) publishLowStock(ctx context.Context, event *domain.LowStockEvent) {
	if event == nil {
		return
	}
	if err := u.publisher.PublishLowStock(ctx, *event); err != nil {
		slog.WarnContext(ctx, "[stockUsecase] publishLowStock", "publish", err)
	}
}

func toStockResponse(stock domain.Stock) domain.StockResponse {
	return domain.StockResponse{
		ID:                stock.ID,
		ProductID:         stock.ProductID,
		ProductName:       stock.ProductName,
		AvailableQuantity: stock.AvailableQuantity,
		ReservedQuantity:  stock.ReservedQuantity,
		SellableQuantity:  stock.Sellable(),
		ReorderThreshold:  stock.ReorderThreshold,
		LowStock:          domain.BelowThreshold(stock.Sellable(), stock.ReorderThreshold),
	}
}
