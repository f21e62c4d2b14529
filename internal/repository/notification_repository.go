package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdeskhq/helpdesk-service/internal/domain"
)

// NotificationRepository is the persistence side of the notification
// ledger. Every query is scoped to a single recipient; a notification
// belonging to someone else is indistinguishable from a missing row.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	ListByRecipient(ctx context.Context, recipientID string) ([]domain.Notification, error)
	// MarkRead flips the read flag for a notification owned by the
	// recipient. Returns pgx.ErrNoRows for foreign or missing rows.
	MarkRead(ctx context.Context, recipientID, notificationID string) error
	MarkAllRead(ctx context.Context, recipientID string) error
	// CountUnread is backed by a partial index on (recipient_id) WHERE NOT read.
	CountUnread(ctx context.Context, recipientID string) (int64, error)
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository builds repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	const query = `
        INSERT INTO notifications (recipient_id, title, message, link, read)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		notification.RecipientID,
		notification.Title,
		notification.Message,
		notification.Link,
		notification.Read,
	).Scan(&notification.ID, &notification.CreatedAt)
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	const query = `
        SELECT id, recipient_id, title, message, link, read, created_at
        FROM notifications WHERE recipient_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var notification domain.Notification
		if err := rows.Scan(
			&notification.ID,
			&notification.RecipientID,
			&notification.Title,
			&notification.Message,
			&notification.Link,
			&notification.Read,
			&notification.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, notification)
	}
	return result, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, recipientID, notificationID string) error {
	const query = `
        UPDATE notifications SET read=TRUE WHERE id=$1 AND recipient_id=$2`
	cmd, err := r.pool.Exec(ctx, query, notificationID, recipientID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	const query = `
        UPDATE notifications SET read=TRUE WHERE recipient_id=$1 AND NOT read`
	_, err := r.pool.Exec(ctx, query, recipientID)
	return err
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	const query = `
        SELECT COUNT(*) FROM notifications WHERE recipient_id=$1 AND NOT read`
	var count int64
	if err := r.pool.QueryRow(ctx, query, recipientID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
