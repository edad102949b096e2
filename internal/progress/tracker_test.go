package progress

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"certify-backend/internal/models"
)

type stubLoader struct {
	course *models.Course
	err    error
}

func (s *stubLoader) GetCourseForVideo(_ context.Context, _, _ uuid.UUID) (*models.Course, error) {
	return s.course, s.err
}

func TestTrackerEmitsWhenCourseFinishes(t *testing.T) {
	course := &models.Course{
		ID: uuid.New(),
		Videos: []models.Video{
			videoWithProgress(100, 100, true),
			videoWithProgress(100, 100, true),
		},
	}

	var events []CourseCompleted
	tracker := NewTracker(&stubLoader{course: course}, func(_ context.Context, e CourseCompleted) {
		events = append(events, e)
	})

	userID := uuid.New()
	tracker.VideoCompleted(context.Background(), userID, course.Videos[1].ID)

	if len(events) != 1 {
		t.Fatalf("Expected one event, got %d", len(events))
	}
	if events[0].UserID != userID || events[0].Course.ID != course.ID {
		t.Errorf("Event carries wrong identifiers: %+v", events[0])
	}
}

func TestTrackerSilentWhileCourseIncomplete(t *testing.T) {
	course := &models.Course{
		ID: uuid.New(),
		Videos: []models.Video{
			videoWithProgress(100, 100, true),
			videoWithProgress(100, 40, false),
		},
	}

	emitted := 0
	tracker := NewTracker(&stubLoader{course: course}, func(_ context.Context, _ CourseCompleted) {
		emitted++
	})

	tracker.VideoCompleted(context.Background(), uuid.New(), course.Videos[0].ID)

	if emitted != 0 {
		t.Errorf("Expected no event for incomplete course, got %d", emitted)
	}
}

func TestTrackerSwallowsLoaderError(t *testing.T) {
	emitted := 0
	tracker := NewTracker(&stubLoader{err: errors.New("db down")}, func(_ context.Context, _ CourseCompleted) {
		emitted++
	})

	tracker.VideoCompleted(context.Background(), uuid.New(), uuid.New())

	if emitted != 0 {
		t.Errorf("Loader error must not emit, got %d events", emitted)
	}
}
