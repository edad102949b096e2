package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"certify-backend/internal/models"
	"certify-backend/internal/repository"
)

// NotificationService persists notifications and pushes them to connected
// websocket clients through redis pubsub.
type NotificationService struct {
	repo   *repository.NotificationRepo
	pubsub *redis.Client
}

func NewNotificationService(repo *repository.NotificationRepo, pubsub *redis.Client) *NotificationService {
	return &NotificationService{repo: repo, pubsub: pubsub}
}

// Notify stores the notification and publishes it on the user's channel.
// Push failures are logged, not returned: a dropped push must never fail the
// operation that produced it.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, notifType, title, message string) {
	n := &models.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
	}

	if err := s.repo.Insert(ctx, n); err != nil {
		log.Printf("Failed to store notification for user %s: %v", userID, err)
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"event": "notification",
		"data":  n,
	})
	if err != nil {
		return
	}

	channel := fmt.Sprintf("user_updates:%s", userID)
	if err := s.pubsub.Publish(ctx, channel, payload).Err(); err != nil {
		log.Printf("Failed to publish notification to %s: %v", channel, err)
	}
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Notification, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	return s.repo.MarkRead(ctx, notificationID, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}
