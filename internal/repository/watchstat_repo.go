package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WatchStatRepo struct {
	pool *pgxpool.Pool
}

func NewWatchStatRepo(pool *pgxpool.Pool) *WatchStatRepo {
	return &WatchStatRepo{pool: pool}
}

// AddMinutes accumulates watch minutes into today's row for the pair.
func (r *WatchStatRepo) AddMinutes(ctx context.Context, userID, videoID uuid.UUID, minutes int) error {
	if minutes <= 0 {
		return nil
	}

	query := `
		INSERT INTO video_watch_stats (id, user_id, video_id, watch_date, minutes_watched)
		VALUES ($1, $2, $3, CURRENT_DATE, $4)
		ON CONFLICT (user_id, video_id, watch_date) DO UPDATE SET
			minutes_watched = video_watch_stats.minutes_watched + EXCLUDED.minutes_watched`

	_, err := r.pool.Exec(ctx, query, uuid.New(), userID, videoID, minutes)
	return err
}

func (r *WatchStatRepo) TotalMinutes(ctx context.Context) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		"SELECT COALESCE(SUM(minutes_watched), 0) FROM video_watch_stats",
	).Scan(&total)
	return total, err
}
