package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"certify-backend/internal/models"
)

type VideoRepo struct {
	pool *pgxpool.Pool
}

func NewVideoRepo(pool *pgxpool.Pool) *VideoRepo {
	return &VideoRepo{pool: pool}
}

func (r *VideoRepo) Create(ctx context.Context, v *models.Video) error {
	v.ID = uuid.New()

	query := `INSERT INTO videos (id, course_id, title, youtube_url, youtube_video_id, duration_seconds, order_index)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		v.ID, v.CourseID, v.Title, v.YouTubeURL, v.YouTubeVideoID, v.DurationSeconds, v.OrderIndex,
	).Scan(&v.CreatedAt)
}

func (r *VideoRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	v := &models.Video{}
	query := `SELECT id, course_id, title, youtube_url, youtube_video_id, duration_seconds, order_index, created_at
		FROM videos WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.CourseID, &v.Title, &v.YouTubeURL, &v.YouTubeVideoID,
		&v.DurationSeconds, &v.OrderIndex, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// UpdateDuration records the true duration once the playback source reports
// it. Only an unknown (0) duration is ever corrected.
func (r *VideoRepo) UpdateDuration(ctx context.Context, videoID uuid.UUID, durationSeconds int) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE videos SET duration_seconds = $1 WHERE id = $2 AND duration_seconds = 0",
		durationSeconds, videoID,
	)
	return err
}

// NextOrderIndex returns the display position for a video appended to a
// course.
func (r *VideoRepo) NextOrderIndex(ctx context.Context, courseID uuid.UUID) (int, error) {
	var next int
	err := r.pool.QueryRow(ctx,
		"SELECT COALESCE(MAX(order_index) + 1, 0) FROM videos WHERE course_id = $1", courseID,
	).Scan(&next)
	return next, err
}
