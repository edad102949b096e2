package models

import (
	"time"

	"github.com/google/uuid"
)

type AdminStats struct {
	TotalUsers        int `json:"total_users"`
	TotalCertificates int `json:"total_certificates"`
	TotalCourses      int `json:"total_courses"`
	TotalWatchHours   int `json:"total_watch_hours"`
}

type CourseAssignment struct {
	ID         uuid.UUID `json:"id"`
	CourseID   uuid.UUID `json:"course_id"`
	UserID     uuid.UUID `json:"user_id"`
	AssignedBy uuid.UUID `json:"assigned_by"`
	AssignedAt time.Time `json:"assigned_at"`
}

// WatchStat is one user/video/day row of accumulated watch minutes, fed by
// the sampler's autosave path and summed for admin reporting.
type WatchStat struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	VideoID        uuid.UUID `json:"video_id"`
	WatchDate      time.Time `json:"watch_date"`
	MinutesWatched int       `json:"minutes_watched"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

type AssignCourseRequest struct {
	CourseID string `json:"course_id"`
	UserID   string `json:"user_id"`
}
