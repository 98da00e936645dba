package usecase

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"stock-alert-service/app/domain"
)

type reservationUsecase struct {
	stockRepo       domain.StockRepository
	reservationRepo domain.ReservationRepository
	publisher       domain.EventPublisher
}

func NewReservationUsecase(
	stockRepo domain.StockRepository,
	reservationRepo domain.ReservationRepository,
	publisher domain.EventPublisher) domain.ReservationUsecase {
	return &reservationUsecase{stockRepo, reservationRepo, publisher}
}

// CreateReservation reserves stock for every line of an order. Each line
// runs in its own row-locked transaction and its alert, if the
// reservation crossed the threshold, goes out right after that commit.
// When a later line cannot be filled, the lines already reserved for
// this order are released again and the whole request fails.
func (u *reservationUsecase) CreateReservation(ctx context.Context, req domain.ReservationCreateRequest) error {
	var reserved []domain.OrderReservation

	for _, line := range req.Lines {
		reservation, err := u.reserveLine(ctx, req.OrderID, line)
		if err != nil {
			u.releaseReservations(ctx, reserved)
			return err
		}
		reserved = append(reserved, reservation)
	}

	slog.InfoContext(ctx, "[reservationUsecase] CreateReservation", "order_id", req.OrderID, "lines", len(reserved))
	return nil
}

func (u *reservationUsecase) reserveLine(ctx context.Context, orderID string, line domain.OrderLine) (domain.OrderReservation, error) {
	stock, err := u.stockRepo.GetByProductID(ctx, line.ProductID)
	if err != nil {
		slog.ErrorContext(ctx, "[reservationUsecase] reserveLine", "getStock", err)
		return domain.OrderReservation{}, err
	}

	var event *domain.LowStockEvent
	var reservation domain.OrderReservation

	if err := u.stockRepo.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		locked, err := u.stockRepo.LockForUpdate(ctx, stock.ID, tx)
		if err != nil {
			slog.ErrorContext(ctx, "[reservationUsecase] reserveLine", "lockForUpdate", err)
			return err
		}

		previous := locked.Sellable()
		if previous < line.Quantity {
			return fmt.Errorf("%w: insufficient stock for product %s", domain.ErrInvalidRequest, line.ProductID)
		}

		if err := u.stockRepo.UpdateQuantities(ctx, locked.ID,
			locked.AvailableQuantity, locked.ReservedQuantity+line.Quantity, tx); err != nil {
			slog.ErrorContext(ctx, "[reservationUsecase] reserveLine", "updateQuantities", err)
			return err
		}

		reservation = domain.OrderReservation{
			StockID:  locked.ID,
			OrderID:  orderID,
			Quantity: line.Quantity,
			Status:   domain.ReservationStatusActive,
		}
		if err := u.reservationRepo.Create(ctx, &reservation, tx); err != nil {
			slog.ErrorContext(ctx, "[reservationUsecase] reserveLine", "createReservation", err)
			return err
		}

		// The reservation reduces what later orders can claim, so the
		// crossing check runs on the post-reservation sellable quantity.
		current := previous - line.Quantity
		if domain.CrossedBelowThreshold(previous, current, locked.ReorderThreshold) {
			e := domain.NewLowStockEvent(locked.ProductID, locked.ProductName,
				current, locked.ReorderThreshold, time.Now())
			event = &e
		}

		return nil
	}); err != nil {
		slog.ErrorContext(ctx, "[reservationUsecase] reserveLine", "withTransaction", err)
		return domain.OrderReservation{}, err
	}

	u.publishLowStock(ctx, event)
	return reservation, nil
}

// releaseReservations undoes the already-committed lines of a partially
// failed order. Alerts those lines raised are not recalled: they
// described real committed states, and the release only moves quantities
// upward, which never alerts.
func (u *reservationUsecase) releaseReservations(ctx context.Context, reservations []domain.OrderReservation) {
	for _, reservation := range reservations {
		if err := u.stockRepo.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
			locked, err := u.stockRepo.LockForUpdate(ctx, reservation.StockID, tx)
			if err != nil {
				return err
			}
			if err := u.stockRepo.UpdateQuantities(ctx, locked.ID,
				locked.AvailableQuantity, locked.ReservedQuantity-reservation.Quantity, tx); err != nil {
				return err
			}
			return u.reservationRepo.UpdateStatus(ctx, reservation.ID, domain.ReservationStatusCancelled, tx)
		}); err != nil {
			slog.ErrorContext(ctx, "[reservationUsecase] releaseReservations", "release", err,
				"reservation_id", reservation.ID)
		}
	}
}

func (u *reservationUsecase) UpdateReservationStatusByOrderID(ctx context.Context, orderID string, req domain.ReservationUpdateRequest) error {
	reservations, err := u.reservationRepo.GetActiveByOrderID(ctx, orderID)
	if err != nil {
		slog.ErrorContext(ctx, "[reservationUsecase] UpdateReservationStatusByOrderID", "getActiveByOrderID", err)
		return err
	}
	if len(reservations) == 0 {
		return fmt.Errorf("%w: no active reservations for order %s", domain.ErrNotFound, orderID)
	}

	// Completion consumes the reserved units (sellable unchanged);
	// cancellation returns them (sellable rises). Neither direction can
	// cross the threshold downward, so no evaluation happens here.
	for _, reservation := range reservations {
		if err := u.stockRepo.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
			locked, err := u.stockRepo.LockForUpdate(ctx, reservation.StockID, tx)
			if err != nil {
				slog.ErrorContext(ctx, "[reservationUsecase] UpdateReservationStatusByOrderID", "lockForUpdate", err)
				return err
			}

			available := locked.AvailableQuantity
			reserved := locked.ReservedQuantity - reservation.Quantity
			if req.Status == domain.ReservationStatusCompleted {
				available -= reservation.Quantity
			}

			if err := u.stockRepo.UpdateQuantities(ctx, locked.ID, available, reserved, tx); err != nil {
				slog.ErrorContext(ctx, "[reservationUsecase] UpdateReservationStatusByOrderID", "updateQuantities", err)
				return err
			}

			if err := u.reservationRepo.UpdateStatus(ctx, reservation.ID, req.Status, tx); err != nil {
				slog.ErrorContext(ctx, "[reservationUsecase] UpdateReservationStatusByOrderID", "updateStatus", err)
				return err
			}

			return nil
		}); err != nil {
			slog.ErrorContext(ctx, "[reservationUsecase] UpdateReservationStatusByOrderID", "withTransaction", err)
			return err
		}
	}

	slog.InfoContext(ctx, "[reservationUsecase] UpdateReservationStatusByOrderID",
		"order_id", orderID, "status", req.Status, "reservations", len(reservations))
	return nil
}

func (u *reservationUsecase) publishLowStock(ctx context.Context, event *domain.LowStockEvent) {
	if event == nil {
		return
	}
	if err := u.publisher.PublishLowStock(ctx, *event); err != nil {
		slog.WarnContext(ctx, "[reservationUsecase] publishLowStock", "publish", err)
	}
}
