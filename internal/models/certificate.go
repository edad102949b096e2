package models

import (
	"time"

	"github.com/google/uuid"
)

// Certificate is immutable once issued. The (user_id, course_id) pair is
// unique at the database level so a repeated CourseCompleted event cannot
// issue twice.
type Certificate struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	CourseID uuid.UUID `json:"course_id"`
	IssuedAt time.Time `json:"issued_at"`

	CourseTitle       string `json:"course_title,omitempty"`
	CourseDescription string `json:"course_description,omitempty"`
}
