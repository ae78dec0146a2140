package postgres

import (
	"context"
	"database/sql"
	"time"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/repository"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `INSERT INTO notifications (profile_id, subject, message, is_read, created_on)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	now := time.Now().Format("2006-01-02")
	n.CreatedOn = now
	return r.db.QueryRowContext(ctx, query, n.ProfileID, n.Subject, n.Message, n.IsRead, n.CreatedOn).Scan(&n.ID)
}

func (r *notificationRepository) List(ctx context.Context, profileID string, limit, offset int32) ([]domain.Notification, int32, error) {
	query := `SELECT id, profile_id, subject, message, is_read, created_on
	          FROM notifications WHERE profile_id = $1 ORDER BY created_on DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, profileID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var count int32
	countQuery := `SELECT count(*) FROM notifications WHERE profile_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, profileID).Scan(&count); err != nil {
		return nil, 0, err
	}

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var createdOn time.Time
		if err := rows.Scan(&n.ID, &n.ProfileID, &n.Subject, &n.Message, &n.IsRead, &createdOn); err != nil {
			return nil, 0, err
		}
		n.CreatedOn = createdOn.Format("2006-01-02")
		notes = append(notes, n)
	}
	return notes, count, rows.Err()
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id int32, profileID string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND profile_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, profileID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
