package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"stock-alert-service/app/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the postgres error code for duplicate key values.
const uniqueViolation = "23505"

type stockRepository struct {
	conn *sql.DB
}

func NewStockRepository(db *sql.DB) domain.StockRepository {
	return &stockRepository{db}
}

func (r *stockRepository) Create(ctx context.Context, stock *domain.Stock) error {
	query := `INSERT INTO stocks (product_id, product_name, available_quantity, reserved_quantity, reorder_threshold)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at, updated_at`

	err := r.conn.QueryRowContext(ctx, query, stock.ProductID, stock.ProductName,
		stock.AvailableQuantity, stock.ReservedQuantity, stock.ReorderThreshold).
		Scan(&stock.ID, &stock.CreatedAt, &stock.UpdatedAt)
	if err != nil {
		slog.ErrorContext(ctx, "[stockRepository] Create", "queryRowContext", err)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: product %s already tracked", domain.ErrInvalidRequest, stock.ProductID)
		}
		return err
	}

	return nil
}

func (r *stockRepository) GetByID(ctx context.Context, id int64) (domain.Stock, error) {
	query := `SELECT id, product_id, product_name, available_quantity, reserved_quantity, reorder_threshold, created_at, updated_at
	FROM stocks WHERE id = $1`

	var stock domain.Stock
	err := r.conn.QueryRowContext(ctx, query, id).Scan(&stock.ID, &stock.ProductID, &stock.ProductName,
		&stock.AvailableQuantity, &stock.ReservedQuantity, &stock.ReorderThreshold,
		&stock.CreatedAt, &stock.UpdatedAt)
	if err != nil {
		slog.ErrorContext(ctx, "[stockRepository] GetByID", "queryRowContext", err)
		if err == sql.ErrNoRows {
			return stock, domain.ErrNotFound
		}
		return stock, err
	}

	return stock, nil
}

func (r *stockRepository) GetByProductID(ctx context.Context, productID string) (domain.Stock, error) {
	query := `SELECT id, product_id, product_name, available_quantity, reserved_quantity, reorder_threshold, created_at, updated_at
	FROM stocks WHERE product_id = $1`

	var stock domain.Stock
	err := r.conn.QueryRowContext(ctx, query, productID).Scan(&stock.ID, &stock.ProductID, &stock.ProductName,
		&stock.AvailableQuantity, &stock.ReservedQuantity, &stock.ReorderThreshold,
		&stock.CreatedAt, &stock.UpdatedAt)
	if err != nil {
		slog.ErrorContext(ctx, "[stockRepository] GetByProductID", "queryRowContext", err)
		if err == sql.ErrNoRows {
			return stock, domain.ErrNotFound
		}
		return stock, err
	}

	return stock, nil
}

func (r *stockRepository) LockForUpdate(ctx context.Context, id int64, tx *sql.Tx) (domain.Stock, error) {
	query := `SELECT id, product_id, product_name, available_quantity, reserved_quantity, reorder_threshold, created_at, updated_at
	FROM stocks WHERE id = $1 FOR UPDATE`

	var stock domain.Stock
	err := tx.QueryRowContext(ctx, query, id).Scan(&stock.ID, &stock.ProductID, &stock.ProductName,
		&stock.AvailableQuantity, &stock.ReservedQuantity, &stock.ReorderThreshold,
		&stock.CreatedAt, &stock.UpdatedAt)
	if err != nil {
		slog.ErrorContext(ctx, "[stockRepository] LockForUpdate", "queryRowContext", err)
		if err == sql.ErrNoRows {
			return stock, domain.ErrNotFound
		}
		return stock, err
	}

	return stock, nil
}

func (r *stockRepository) UpdateQuantities(ctx context.Context, id, available, reserved int64, tx *sql.Tx) error {
	query := `UPDATE stocks SET available_quantity = $1, reserved_quantity = $2, updated_at = NOW() WHERE id = $3`
	_, err := tx.ExecContext(ctx, query, available, reserved, id)
	if err != nil {
		slog.ErrorContext(ctx, "[stockRepository] UpdateQuantities", "execContext", err)
		return err
	}

	return nil
}

func (r *stockRepository) UpdateThreshold(ctx context.Context, id, threshold int64) error {
	query := `UPDATE stocks SET reorder_threshold = $1, updated_at = NOW() WHERE id = $2`
	res, err := r.conn.ExecContext(ctx, query, threshold, id)
	if err != nil {
		slog.ErrorContext(ctx, "[stockRepository] UpdateThreshold", "execContext", err)
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		slog.ErrorContext(ctx, "[stockRepository] UpdateThreshold", "rowsAffected", err)
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *stockRepository) GetListStock(ctx context.Context, param domain.GetListStockRequest) ([]domain.Stock, error) {
	query := `SELECT id, product_id, product_name, available_quantity, reserved_quantity, reorder_threshold, created_at, updated_at
	FROM stocks WHERE 1=1`

	args := []any{}
	placeholder := 1

	if param.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", placeholder)
		args = append(args, param.ProductID)
		placeholder++
	}
	if param.LowStockOnly {
		query += " AND available_quantity - reserved_quantity < reorder_threshold"
	}

	if param.SortBy != "" {
		query += fmt.Sprintf(" ORDER BY %s", param.SortBy)
		if param.SortOrder != "" {
			query += fmt.Sprintf(" %s", param.SortOrder)
		}
	}

	if param.Page > 0 && param.Limit > 0 {
		offset := (param.Page - 1) * param.Limit
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", param.Limit, offset)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		slog.ErrorContext(ctx, "[stockRepository] GetListStock", "queryContext", err)
		return nil, err
	}
	defer rows.Close()

	var stocks []domain.Stock
	for rows.Next() {
		var stock domain.Stock
		if err := rows.Scan(&stock.ID, &stock.ProductID, &stock.ProductName,
			&stock.AvailableQuantity, &stock.ReservedQuantity, &stock.ReorderThreshold,
			&stock.CreatedAt, &stock.UpdatedAt); err != nil {
			slog.ErrorContext(ctx, "[stockRepository] GetListStock", "scan", err)
			return nil, err
		}
		stocks = append(stocks, stock)
	}

	if err := rows.Err(); err != nil {
		slog.ErrorContext(ctx, "[stockRepository] GetListStock", "rowError", err)
		return nil, err
	}

	return stocks, nil
}

func (r *stockRepository) GetListStockCount(ctx context.Context, param domain.GetListStockRequest) (int64, error) {
	query := `SELECT COUNT(*) FROM stocks WHERE 1=1`

	args := []any{}
	placeholder := 1

	if param.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", placeholder)
		args = append(args, param.ProductID)
	}
	if param.LowStockOnly {
		query += " AND available_quantity - reserved_quantity < reorder_threshold"
	}

	var count int64
	err := r.conn.QueryRowContext(ctx, query, args...).Scan(&count)
	if err != nil {
		slog.ErrorContext(ctx, "[stockRepository] GetListStockCount", "queryRowContext", err)
		return 0, err
	}

	return count, nil
}

func (r *stockRepository) WithTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		slog.ErrorContext(ctx, "[stockRepository] WithTransaction", "beginTx", err)
		return err
	}

	if err := fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			slog.ErrorContext(ctx, "[stockRepository] WithTransaction", "rollback", rollbackErr)
			return err
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		slog.ErrorContext(ctx, "[stockRepository] WithTransaction", "commit", err)
		return err
	}

	return nil
}
