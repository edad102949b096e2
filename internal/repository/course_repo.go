package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"certify-backend/internal/models"
)

type CourseRepo struct {
	pool *pgxpool.Pool
}

func NewCourseRepo(pool *pgxpool.Pool) *CourseRepo {
	return &CourseRepo{pool: pool}
}

func (r *CourseRepo) Create(ctx context.Context, c *models.Course) error {
	c.ID = uuid.New()

	query := `INSERT INTO courses (id, created_by, title, description)
		VALUES ($1, $2, $3, $4) RETURNING created_at`

	return r.pool.QueryRow(ctx, query, c.ID, c.CreatedBy, c.Title, c.Description).Scan(&c.CreatedAt)
}

func (r *CourseRepo) GetByTitle(ctx context.Context, title string) (*models.Course, error) {
	c := &models.Course{}
	query := `SELECT id, created_by, title, description, created_at FROM courses WHERE title = $1`

	err := r.pool.QueryRow(ctx, query, title).Scan(&c.ID, &c.CreatedBy, &c.Title, &c.Description, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetForUser loads one course with its videos and the requesting user's
// progress joined in, plus the derived completion counters.
func (r *CourseRepo) GetForUser(ctx context.Context, courseID, userID uuid.UUID) (*models.Course, error) {
	c := &models.Course{}
	query := `SELECT id, created_by, title, description, created_at FROM courses WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, courseID).Scan(&c.ID, &c.CreatedBy, &c.Title, &c.Description, &c.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := r.attachVideos(ctx, c, userID); err != nil {
		return nil, err
	}
	return c, nil
}

// ListForUser loads all courses the same way.
func (r *CourseRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Course, error) {
	query := `SELECT id, created_by, title, description, created_at FROM courses ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		c := &models.Course{}
		if err := rows.Scan(&c.ID, &c.CreatedBy, &c.Title, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, c := range courses {
		if err := r.attachVideos(ctx, c, userID); err != nil {
			return nil, err
		}
	}
	return courses, nil
}

// GetCourseForVideo resolves the course that owns a video, joined with the
// user's progress. This is the aggregator's course loader.
func (r *CourseRepo) GetCourseForVideo(ctx context.Context, userID, videoID uuid.UUID) (*models.Course, error) {
	var courseID uuid.UUID
	err := r.pool.QueryRow(ctx, "SELECT course_id FROM videos WHERE id = $1", videoID).Scan(&courseID)
	if err != nil {
		return nil, err
	}
	return r.GetForUser(ctx, courseID, userID)
}

func (r *CourseRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM courses").Scan(&n)
	return n, err
}

func (r *CourseRepo) attachVideos(ctx context.Context, c *models.Course, userID uuid.UUID) error {
	query := `
		SELECT v.id, v.course_id, v.title, v.youtube_url, v.youtube_video_id,
		       v.duration_seconds, v.order_index, v.created_at,
		       p.id, p.watched_seconds, p.completed, p.last_watched_at
		FROM videos v
		LEFT JOIN user_progress p ON p.video_id = v.id AND p.user_id = $2
		WHERE v.course_id = $1
		ORDER BY v.order_index, v.created_at`

	rows, err := r.pool.Query(ctx, query, c.ID, userID)
	if err != nil {
		return err
	}
	defer rows.Close()

	c.Videos = nil
	for rows.Next() {
		var v models.Video
		var progressID *uuid.UUID
		var watchedSeconds *int
		var completed *bool
		var lastWatchedAt *time.Time

		if err := rows.Scan(
			&v.ID, &v.CourseID, &v.Title, &v.YouTubeURL, &v.YouTubeVideoID,
			&v.DurationSeconds, &v.OrderIndex, &v.CreatedAt,
			&progressID, &watchedSeconds, &completed, &lastWatchedAt,
		); err != nil {
			return err
		}

		if progressID != nil {
			v.Progress = &models.WatchProgress{
				ID:             *progressID,
				UserID:         userID,
				VideoID:        v.ID,
				WatchedSeconds: deref(watchedSeconds),
				Completed:      completed != nil && *completed,
			}
			if lastWatchedAt != nil {
				v.Progress.LastWatchedAt = *lastWatchedAt
			}
		}

		c.Videos = append(c.Videos, v)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	c.TotalVideos = len(c.Videos)
	c.CompletedVideos = 0
	for _, v := range c.Videos {
		if v.Progress != nil && v.Progress.Completed {
			c.CompletedVideos++
		}
	}
	return nil
}

func deref(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
