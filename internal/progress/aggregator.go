// Package progress derives course-level completion from per-video watch
// records.
package progress

import (
	"certify-backend/internal/models"
)

// CourseProgress is the unweighted mean of per-video watch percentages,
// each clamped to [0,100]. A video without a progress record contributes 0.
// An empty course reports 0.
func CourseProgress(course *models.Course) float64 {
	if course == nil || len(course.Videos) == 0 {
		return 0
	}

	var total float64
	for _, video := range course.Videos {
		total += video.Progress.Percent(video.DurationSeconds)
	}
	return total / float64(len(course.Videos))
}

// CompletedCount counts videos whose progress record is marked complete.
func CompletedCount(course *models.Course) int {
	if course == nil {
		return 0
	}
	n := 0
	for _, video := range course.Videos {
		if video.Progress != nil && video.Progress.Completed {
			n++
		}
	}
	return n
}

// IsCourseComplete reports whether every video in the course is complete.
// A course with no videos is never complete.
func IsCourseComplete(course *models.Course) bool {
	if course == nil || len(course.Videos) == 0 {
		return false
	}
	return CompletedCount(course) == len(course.Videos)
}
