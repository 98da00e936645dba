package usecase

import (
	"context"
	"database/sql"
	"sync"

	"stock-alert-service/app/domain"
)

// fakeStockRepo keeps rows in memory and runs transaction closures with
// a nil *sql.Tx, which the usecases pass through without touching.
type fakeStockRepo struct {
	mu     sync.Mutex
	stocks map[int64]*domain.Stock
	nextID int64

	updateQuantityCalls int
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{stocks: map[int64]*domain.Stock{}}
}

func (r *fakeStockRepo) seed(stock domain.Stock) domain.Stock {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	stock.ID = r.nextID
	copied := stock
	r.stocks[stock.ID] = &copied
	return stock
}

func (r *fakeStockRepo) get(id int64) domain.Stock {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.stocks[id]
}

func (r *fakeStockRepo) Create(ctx context.Context, stock *domain.Stock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	stock.ID = r.nextID
	copied := *stock
	r.stocks[stock.ID] = &copied
	return nil
}

func (r *fakeStockRepo) GetByID(ctx context.Context, id int64) (domain.Stock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stock, ok := r.stocks[id]
	if !ok {
		return domain.Stock{}, domain.ErrNotFound
	}
	return *stock, nil
}

func (r *fakeStockRepo) GetByProductID(ctx context.Context, productID string) (domain.Stock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stock := range r.stocks {
		if stock.ProductID == productID {
			return *stock, nil
		}
	}
	return domain.Stock{}, domain.ErrNotFound
}

func (r *fakeStockRepo) LockForUpdate(ctx context.Context, id int64, tx *sql.Tx) (domain.Stock, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeStockRepo) UpdateQuantities(ctx context.Context, id, available, reserved int64, tx *sql.Tx) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stock, ok := r.stocks[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.updateQuantityCalls++
	stock.AvailableQuantity = available
	stock.ReservedQuantity = reserved
	return nil
}

func (r *fakeStockRepo) UpdateThreshold(ctx context.Context, id, threshold int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stock, ok := r.stocks[id]
	if !ok {
		return domain.ErrNotFound
	}
	stock.ReorderThreshold = threshold
	return nil
}

func (r *fakeStockRepo) GetListStock(ctx context.Context, param domain.GetListStockRequest) ([]domain.Stock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var stocks []domain.Stock
	for id := int64(1); id <= r.nextID; id++ {
		if stock, ok := r.stocks[id]; ok {
			stocks = append(stocks, *stock)
		}
	}
	return stocks, nil
}

func (r *fakeStockRepo) GetListStockCount(ctx context.Context, param domain.GetListStockRequest) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.stocks)), nil
}

func (r *fakeStockRepo) WithTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error {
	return fn(ctx, nil)
}

type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[int64]*domain.OrderReservation
	nextID       int64
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{reservations: map[int64]*domain.OrderReservation{}}
}

func (r *fakeReservationRepo) byOrder(orderID string) []domain.OrderReservation {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.OrderReservation
	for id := int64(1); id <= r.nextID; id++ {
		if reservation, ok := r.reservations[id]; ok && reservation.OrderID == orderID {
			out = append(out, *reservation)
		}
	}
	return out
}

func (r *fakeReservationRepo) Create(ctx context.Context, reservation *domain.OrderReservation, tx *sql.Tx) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	reservation.ID = r.nextID
	copied := *reservation
	r.reservations[reservation.ID] = &copied
	return nil
}

func (r *fakeReservationRepo) GetActiveByOrderID(ctx context.Context, orderID string) ([]domain.OrderReservation, error) {
	var active []domain.OrderReservation
	for _, reservation := range r.byOrder(orderID) {
		if reservation.Status == domain.ReservationStatusActive {
			active = append(active, reservation)
		}
	}
	return active, nil
}

func (r *fakeReservationRepo) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus, tx *sql.Tx) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reservation, ok := r.reservations[id]
	if !ok {
		return domain.ErrNotFound
	}
	reservation.Status = status
	return nil
}

// capturePublisher records every published event and can be told to
// fail, which the usecases must treat as non-fatal.
type capturePublisher struct {
	mu     sync.Mutex
	events []domain.LowStockEvent
	err    error
}

func (p *capturePublisher) PublishLowStock(ctx context.Context, event domain.LowStockEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *capturePublisher) published() []domain.LowStockEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.LowStockEvent(nil), p.events...)
}
