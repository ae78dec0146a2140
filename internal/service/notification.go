package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/repository"
)

type notificationService struct {
	notes repository.NotificationRepository
}

func NewNotificationService(notes repository.NotificationRepository) NotificationService {
	return &notificationService{notes: notes}
}

func (s *notificationService) GetNotifications(ctx context.Context, profileUserID string, page, pageSize int32) ([]domain.Notification, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	notes, total, err := s.notes.List(ctx, profileUserID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notes, total, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, profileUserID string, notificationID int32) error {
	if err := s.notes.MarkAsRead(ctx, notificationID, profileUserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return nil
}
