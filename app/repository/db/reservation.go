package db

import (
	"context"
	"database/sql"
	"log/slog"

	"stock-alert-service/app/domain"
)

type reservationRepository struct {
	conn *sql.DB
}

func NewReservationRepository(db *sql.DB) domain.ReservationRepository {
	return &reservationRepository{db}
}

func (r *reservationRepository) Create(ctx context.Context, reservation *domain.OrderReservation, tx *sql.Tx) error {
	query := `INSERT INTO order_reservations (stock_id, order_id, quantity, status)
	VALUES ($1, $2, $3, $4)
	RETURNING id, created_at, updated_at`

	err := tx.QueryRowContext(ctx, query, reservation.StockID, reservation.OrderID,
		reservation.Quantity, reservation.Status).
		Scan(&reservation.ID, &reservation.CreatedAt, &reservation.UpdatedAt)
	if err != nil {
		slog.ErrorContext(ctx, "[reservationRepository] Create", "queryRowContext", err)
		return err
	}

	return nil
}

func (r *reservationRepository) GetActiveByOrderID(ctx context.Context, orderID string) ([]domain.OrderReservation, error) {
	query := `SELECT id, stock_id, order_id, quantity, status, created_at, updated_at
	FROM order_reservations WHERE order_id = $1 AND status = $2`

	rows, err := r.conn.QueryContext(ctx, query, orderID, domain.ReservationStatusActive)
	if err != nil {
		slog.ErrorContext(ctx, "[reservationRepository] GetActiveByOrderID", "queryContext", err)
		return nil, err
	}
	defer rows.Close()

	var reservations []domain.OrderReservation
	for rows.Next() {
		var reservation domain.OrderReservation
		if err := rows.Scan(&reservation.ID, &reservation.StockID, &reservation.OrderID,
			&reservation.Quantity, &reservation.Status,
			&reservation.CreatedAt, &reservation.UpdatedAt); err != nil {
			slog.ErrorContext(ctx, "[reservationRepository] GetActiveByOrderID", "scan", err)
			return nil, err
		}
		reservations = append(reservations, reservation)
	}

	if err := rows.Err(); err != nil {
		slog.ErrorContext(ctx, "[reservationRepository] GetActiveByOrderID", "rowError", err)
		return nil, err
	}

	return reservations, nil
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus, tx *sql.Tx) error {
	query := `UPDATE order_reservations SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := tx.ExecContext(ctx, query, status, id)
	if err != nil {
		slog.ErrorContext(ctx, "[reservationRepository] UpdateStatus", "execContext", err)
		return err
	}

	return nil
}
