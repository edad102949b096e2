package progress

import (
	"testing"

	"github.com/google/uuid"

	"certify-backend/internal/models"
)

func videoWithProgress(duration, watched int, completed bool) models.Video {
	return models.Video{
		ID:              uuid.New(),
		DurationSeconds: duration,
		Progress: &models.WatchProgress{
			WatchedSeconds: watched,
			Completed:      completed,
		},
	}
}

func TestCourseProgressMean(t *testing.T) {
	course := &models.Course{
		Videos: []models.Video{
			videoWithProgress(100, 100, true), // 100%
			videoWithProgress(100, 50, false), // 50%
			{ID: uuid.New(), DurationSeconds: 100}, // never opened: 0%
		},
	}

	if got := CourseProgress(course); got != 50 {
		t.Errorf("Expected course progress 50, got %f", got)
	}
}

func TestCourseProgressClampsOverrun(t *testing.T) {
	course := &models.Course{
		Videos: []models.Video{
			// watched past the recorded duration; contributes 100, not 150
			videoWithProgress(100, 150, true),
			videoWithProgress(100, 0, false),
		},
	}

	if got := CourseProgress(course); got != 50 {
		t.Errorf("Expected clamped course progress 50, got %f", got)
	}
}

func TestCourseProgressUnknownDurationCountsZero(t *testing.T) {
	course := &models.Course{
		Videos: []models.Video{
			videoWithProgress(0, 500, false),
			videoWithProgress(100, 100, true),
		},
	}

	if got := CourseProgress(course); got != 50 {
		t.Errorf("Expected 50 with unknown-duration video at 0, got %f", got)
	}
}

func TestEmptyCourse(t *testing.T) {
	course := &models.Course{}

	if got := CourseProgress(course); got != 0 {
		t.Errorf("Expected 0 progress for empty course, got %f", got)
	}
	if IsCourseComplete(course) {
		t.Error("Empty course must never be complete")
	}
	if CourseProgress(nil) != 0 || IsCourseComplete(nil) {
		t.Error("Nil course must report zero and incomplete")
	}
}

func TestIsCourseComplete(t *testing.T) {
	course := &models.Course{
		Videos: []models.Video{
			videoWithProgress(100, 100, true),
			videoWithProgress(100, 99, false),
		},
	}

	if IsCourseComplete(course) {
		t.Error("Course with an incomplete video reported complete")
	}

	course.Videos[1].Progress.Completed = true
	if !IsCourseComplete(course) {
		t.Error("Course with all videos complete reported incomplete")
	}
	if got := CompletedCount(course); got != 2 {
		t.Errorf("Expected completed count 2, got %d", got)
	}
}

func TestCompletionByFlagNotPercent(t *testing.T) {
	// A video completed via the explicit host signal may have watched
	// seconds below its duration; the flag is what counts.
	course := &models.Course{
		Videos: []models.Video{
			videoWithProgress(300, 120, true),
		},
	}

	if !IsCourseComplete(course) {
		t.Error("Completion flag ignored in favor of percentage")
	}
}
