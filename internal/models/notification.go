package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationTypeProgress = "progress"
	NotificationTypeCourse   = "course"
	NotificationTypeAdmin    = "admin"
)

type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type SendNotificationRequest struct {
	UserID  string `json:"user_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}
