package models

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID          uuid.UUID `json:"id"`
	CreatedBy   uuid.UUID `json:"created_by"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	// Populated per requesting user by the course listing queries.
	Videos          []Video `json:"videos"`
	TotalVideos     int     `json:"total_videos"`
	CompletedVideos int     `json:"completed_videos"`
}

type Video struct {
	ID             uuid.UUID `json:"id"`
	CourseID       uuid.UUID `json:"course_id"`
	Title          string    `json:"title"`
	YouTubeURL     string    `json:"youtube_url"`
	YouTubeVideoID string    `json:"youtube_video_id"`
	// DurationSeconds is 0 until the true duration is learned from the
	// playback source.
	DurationSeconds int       `json:"duration_seconds"`
	OrderIndex      int       `json:"order_index"`
	CreatedAt       time.Time `json:"created_at"`

	Progress *WatchProgress `json:"progress,omitempty"`
}

// WatchProgress is the per (user, video) record. WatchedSeconds only grows
// while a session is playing; Completed never reverts once true.
type WatchProgress struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	VideoID        uuid.UUID `json:"video_id"`
	WatchedSeconds int       `json:"watched_seconds"`
	Completed      bool      `json:"completed"`
	LastWatchedAt  time.Time `json:"last_watched_at"`
}

// Percent reports the clamped watch percentage for a video of the given
// duration. Unknown duration (0) always reads as 0.
func (p *WatchProgress) Percent(durationSeconds int) float64 {
	if p == nil || durationSeconds <= 0 {
		return 0
	}
	pct := float64(p.WatchedSeconds) / float64(durationSeconds) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

type CreateCourseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type AddVideoRequest struct {
	Title       string `json:"title"`
	YouTubeURL  string `json:"youtube_url"`
	CourseTitle string `json:"course_title,omitempty"`
}

type ImportPlaylistRequest struct {
	CourseTitle string `json:"course_title"`
	PlaylistURL string `json:"playlist_url"`
}
