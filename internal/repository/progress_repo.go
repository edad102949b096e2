package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"certify-backend/internal/models"
)

type ProgressRepo struct {
	pool *pgxpool.Pool
}

func NewProgressRepo(pool *pgxpool.Pool) *ProgressRepo {
	return &ProgressRepo{pool: pool}
}

// Upsert creates the record lazily on first observation and overwrites it on
// later ones. Concurrent writers (two open tabs) resolve last-writer-wins on
// watched_seconds; completed is one-way at the database level and never
// reverts.
func (r *ProgressRepo) Upsert(ctx context.Context, userID, videoID uuid.UUID, watchedSeconds int, completed bool) error {
	query := `
		INSERT INTO user_progress (id, user_id, video_id, watched_seconds, completed, last_watched_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id, video_id) DO UPDATE SET
			watched_seconds = EXCLUDED.watched_seconds,
			completed = user_progress.completed OR EXCLUDED.completed,
			last_watched_at = NOW()`

	_, err := r.pool.Exec(ctx, query, uuid.New(), userID, videoID, watchedSeconds, completed)
	return err
}

func (r *ProgressRepo) GetByUserVideo(ctx context.Context, userID, videoID uuid.UUID) (*models.WatchProgress, error) {
	p := &models.WatchProgress{}
	query := `SELECT id, user_id, video_id, watched_seconds, completed, last_watched_at
		FROM user_progress WHERE user_id = $1 AND video_id = $2`

	err := r.pool.QueryRow(ctx, query, userID, videoID).Scan(
		&p.ID, &p.UserID, &p.VideoID, &p.WatchedSeconds, &p.Completed, &p.LastWatchedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}
