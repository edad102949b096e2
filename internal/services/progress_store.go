package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"certify-backend/internal/models"
	"certify-backend/internal/repository"
)

// ProgressStore adapts the repositories to the player manager's persistence
// interface.
type ProgressStore struct {
	progress *repository.ProgressRepo
	stats    *repository.WatchStatRepo
	videos   *repository.VideoRepo
}

func NewProgressStore(progress *repository.ProgressRepo, stats *repository.WatchStatRepo, videos *repository.VideoRepo) *ProgressStore {
	return &ProgressStore{progress: progress, stats: stats, videos: videos}
}

// LoadProgress seeds a reopened session. A video never watched before is not
// an error; it just starts from zero.
func (s *ProgressStore) LoadProgress(ctx context.Context, userID, videoID uuid.UUID) (int, bool, error) {
	p, err := s.progress.GetByUserVideo(ctx, userID, videoID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return p.WatchedSeconds, p.Completed, nil
}

func (s *ProgressStore) UpsertProgress(ctx context.Context, userID, videoID uuid.UUID, watchedSeconds int, completed bool) error {
	return s.progress.Upsert(ctx, userID, videoID, watchedSeconds, completed)
}

func (s *ProgressStore) AddWatchMinutes(ctx context.Context, userID, videoID uuid.UUID, minutes int) error {
	return s.stats.AddMinutes(ctx, userID, videoID, minutes)
}

func (s *ProgressStore) UpdateVideoDuration(ctx context.Context, videoID uuid.UUID, durationSeconds int) error {
	return s.videos.UpdateDuration(ctx, videoID, durationSeconds)
}

// PlayerNotifier adapts NotificationService to the player manager's notifier
// interface, tagging everything as a progress notification.
type PlayerNotifier struct {
	notifications *NotificationService
}

func NewPlayerNotifier(notifications *NotificationService) *PlayerNotifier {
	return &PlayerNotifier{notifications: notifications}
}

func (n *PlayerNotifier) Notify(ctx context.Context, userID uuid.UUID, title, message string) error {
	n.notifications.Notify(ctx, userID, models.NotificationTypeProgress, title, message)
	return nil
}
