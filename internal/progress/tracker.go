package progress

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"certify-backend/internal/models"
)

// CourseLoader fetches the course that owns a video, with the user's
// progress records already joined in.
type CourseLoader interface {
	GetCourseForVideo(ctx context.Context, userID, videoID uuid.UUID) (*models.Course, error)
}

// CourseCompleted is emitted the moment a course's completed-video count
// first reaches its total. The receiver is responsible for certificate
// issuance; de-duplication of a repeated event happens at the persistence
// layer, not here.
type CourseCompleted struct {
	UserID uuid.UUID      `json:"user_id"`
	Course *models.Course `json:"course"`
	At     time.Time      `json:"at"`
}

// Tracker is the transition detector: it must be invoked exactly when a
// video's completed flag flips false→true.
type Tracker struct {
	courses CourseLoader
	emit    func(ctx context.Context, event CourseCompleted)
}

func NewTracker(courses CourseLoader, emit func(ctx context.Context, event CourseCompleted)) *Tracker {
	return &Tracker{courses: courses, emit: emit}
}

// VideoCompleted recomputes the owning course's completion and emits one
// CourseCompleted event if the flip finished the course.
func (t *Tracker) VideoCompleted(ctx context.Context, userID, videoID uuid.UUID) {
	course, err := t.courses.GetCourseForVideo(ctx, userID, videoID)
	if err != nil {
		log.Printf("course lookup failed for video %s: %v", videoID, err)
		return
	}

	if !IsCourseComplete(course) {
		return
	}

	if t.emit != nil {
		t.emit(ctx, CourseCompleted{
			UserID: userID,
			Course: course,
			At:     time.Now().UTC(),
		})
	}
}
