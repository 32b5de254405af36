package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/sakshiot4/UrbanWatch-plus/internal/models"
	"github.com/sakshiot4/UrbanWatch-plus/internal/pkg/apperror"
)

// NotificationRepository describes the notification storage dependency.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

// NotificationService manages persisted in-app notifications.
type NotificationService struct {
	repo NotificationRepository
}

// NewNotificationService creates a new notification service.
func NewNotificationService(repo NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// CreateNotification creates a new notification.
func (s *NotificationService) CreateNotification(ctx context.Context, userID uuid.UUID, event string, data interface{}) (*models.Notification, error) {
	payload := map[string]interface{}{
		"event": event,
		"data":  data,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("notification service: marshal payload %w", err)
	}

	notification := &models.Notification{
		UserID:  userID,
		Payload: payloadBytes,
		IsRead:  false,
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, err
	}

	return notification, nil
}

// ListNotifications returns a user's notifications.
func (s *NotificationService) ListNotifications(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.List(ctx, userID, limit, offset, unreadOnly)
}

// MarkAsRead marks a notification as read, checking ownership.
func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if notification.UserID != userID {
		return apperror.New(apperror.ErrCodeForbidden, "this notification belongs to another user")
	}

	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks all of a user's notifications as read.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// CountUnread returns the number of unread notifications.
func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

// CreateNotificationForWS creates a notification on behalf of the WebSocket
// hub.
func (s *NotificationService) CreateNotificationForWS(ctx context.Context, userID uuid.UUID, event string, data interface{}) error {
	_, err := s.CreateNotification(ctx, userID, event, data)
	return err
}
