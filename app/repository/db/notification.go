package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"stock-alert-service/app/domain"
)

type notificationRepository struct {
	conn *sql.DB
}

func NewNotificationRepository(db *sql.DB) domain.NotificationRepository {
	return &notificationRepository{db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	query := `INSERT INTO notifications (type, subject, content, status, data)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at, updated_at`

	err := r.conn.QueryRowContext(ctx, query, notification.Type, notification.Subject,
		notification.Content, notification.Status, []byte(notification.Data)).
		Scan(&notification.ID, &notification.CreatedAt, &notification.UpdatedAt)
	if err != nil {
		slog.ErrorContext(ctx, "[notificationRepository] Create", "queryRowContext", err)
		return err
	}

	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id int64) (domain.Notification, error) {
	query := `SELECT id, type, subject, content, status, error_message, data, created_at, updated_at, sent_at
	FROM notifications WHERE id = $1`

	notification, err := scanNotification(r.conn.QueryRowContext(ctx, query, id))
	if err != nil {
		slog.ErrorContext(ctx, "[notificationRepository] GetByID", "queryRowContext", err)
		if err == sql.ErrNoRows {
			return notification, domain.ErrNotFound
		}
		return notification, err
	}

	return notification, nil
}

func (r *notificationRepository) MarkSent(ctx context.Context, id int64, sentAt time.Time) error {
	query := `UPDATE notifications SET status = $1, sent_at = $2, updated_at = NOW() WHERE id = $3`
	_, err := r.conn.ExecContext(ctx, query, domain.NotificationStatusSent, sentAt, id)
	if err != nil {
		slog.ErrorContext(ctx, "[notificationRepository] MarkSent", "execContext", err)
		return err
	}

	return nil
}

func (r *notificationRepository) MarkFailed(ctx context.Context, id int64, errorMessage string) error {
	query := `UPDATE notifications SET status = $1, error_message = $2, updated_at = NOW() WHERE id = $3`
	_, err := r.conn.ExecContext(ctx, query, domain.NotificationStatusFailed, errorMessage, id)
	if err != nil {
		slog.ErrorContext(ctx, "[notificationRepository] MarkFailed", "execContext", err)
		return err
	}

	return nil
}

func (r *notificationRepository) GetListNotification(ctx context.Context, param domain.GetListNotificationRequest) ([]domain.Notification, error) {
	query := `SELECT id, type, subject, content, status, error_message, data, created_at, updated_at, sent_at
	FROM notifications WHERE 1=1`

	args := []any{}
	placeholder := 1

	if param.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", placeholder)
		args = append(args, param.Type)
		placeholder++
	}
	if param.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", placeholder)
		args = append(args, param.Status)
		placeholder++
	}

	// Newest first, always.
	query += " ORDER BY created_at DESC, id DESC"

	if param.Page > 0 && param.Limit > 0 {
		offset := (param.Page - 1) * param.Limit
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", param.Limit, offset)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		slog.ErrorContext(ctx, "[notificationRepository] GetListNotification", "queryContext", err)
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		notification, err := scanNotification(rows)
		if err != nil {
			slog.ErrorContext(ctx, "[notificationRepository] GetListNotification", "scan", err)
			return nil, err
		}
		notifications = append(notifications, notification)
	}

	if err := rows.Err(); err != nil {
		slog.ErrorContext(ctx, "[notificationRepository] GetListNotification", "rowError", err)
		return nil, err
	}

	return notifications, nil
}

func (r *notificationRepository) GetListNotificationCount(ctx context.Context, param domain.GetListNotificationRequest) (int64, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE 1=1`

	args := []any{}
	placeholder := 1

	if param.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", placeholder)
		args = append(args, param.Type)
		placeholder++
	}
	if param.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", placeholder)
		args = append(args, param.Status)
	}

	var count int64
	err := r.conn.QueryRowContext(ctx, query, args...).Scan(&count)
	if err != nil {
		slog.ErrorContext(ctx, "[notificationRepository] GetListNotificationCount", "queryRowContext", err)
		return 0, err
	}

	return count, nil
}

func (r *notificationRepository) CountByStatus(ctx context.Context) (domain.NotificationSummary, error) {
	query := `SELECT status, COUNT(*) FROM notifications GROUP BY status`

	var summary domain.NotificationSummary
	rows, err := r.conn.QueryContext(ctx, query)
	if err != nil {
		slog.ErrorContext(ctx, "[notificationRepository] CountByStatus", "queryContext", err)
		return summary, err
	}
	defer rows.Close()

	for rows.Next() {
		var status domain.NotificationStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			slog.ErrorContext(ctx, "[notificationRepository] CountByStatus", "scan", err)
			return summary, err
		}

		switch status {
		case domain.NotificationStatusPending:
			summary.Pending = count
		case domain.NotificationStatusSent:
			summary.Sent = count
		case domain.NotificationStatusFailed:
			summary.Failed = count
		}
		summary.Total += count
	}

	if err := rows.Err(); err != nil {
		slog.ErrorContext(ctx, "[notificationRepository] CountByStatus", "rowError", err)
		return summary, err
	}

	return summary, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (domain.Notification, error) {
	var notification domain.Notification
	var errorMessage sql.NullString
	var sentAt sql.NullTime
	var data []byte

	err := row.Scan(&notification.ID, &notification.Type, &notification.Subject,
		&notification.Content, &notification.Status, &errorMessage, &data,
		&notification.CreatedAt, &notification.UpdatedAt, &sentAt)
	if err != nil {
		return notification, err
	}

	notification.Data = data
	if errorMessage.Valid {
		notification.ErrorMessage = &errorMessage.String
	}
	if sentAt.Valid {
		notification.SentAt = &sentAt.Time
	}

	return notification, nil
}
