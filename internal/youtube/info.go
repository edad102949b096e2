package youtube

import (
	"context"
	"fmt"
)

type VideoInfo struct {
	Title           string `json:"title"`
	DurationSeconds int    `json:"duration_seconds"`
	ThumbnailURL    string `json:"thumbnail_url"`
}

type PlaylistEntry struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// InfoProvider resolves metadata for a single video id.
type InfoProvider interface {
	VideoInfo(ctx context.Context, videoID string) (*VideoInfo, error)
}

// PlaylistLister enumerates (title, url) pairs for a playlist. Pagination and
// network access live behind this interface, not in the core.
type PlaylistLister interface {
	List(ctx context.Context, playlistID string) ([]PlaylistEntry, error)
}

// MockInfoProvider serves a fixed catalog. Real Data API integration is out
// of scope; durations are corrected later from the playback source.
type MockInfoProvider struct{}

var mockDurations = map[string]int{
	"dQw4w9WgXcQ": 212, // 3:32
}

const defaultMockDuration = 300 // 5:00

func (MockInfoProvider) VideoInfo(_ context.Context, videoID string) (*VideoInfo, error) {
	if videoID == "" {
		return nil, ErrNoVideoID
	}

	duration, ok := mockDurations[videoID]
	if !ok {
		duration = defaultMockDuration
	}

	prefix := videoID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}

	return &VideoInfo{
		Title:           fmt.Sprintf("Training video %s", prefix),
		DurationSeconds: duration,
		ThumbnailURL:    fmt.Sprintf("https://img.youtube.com/vi/%s/mqdefault.jpg", videoID),
	}, nil
}

// MockPlaylistLister returns the fixed three-lesson playlist used until real
// playlist expansion is wired up.
type MockPlaylistLister struct{}

func (MockPlaylistLister) List(_ context.Context, playlistID string) ([]PlaylistEntry, error) {
	if playlistID == "" {
		return nil, ErrNoPlaylistID
	}

	return []PlaylistEntry{
		{Title: "Lesson 1", URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{Title: "Lesson 2", URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{Title: "Lesson 3", URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
	}, nil
}
