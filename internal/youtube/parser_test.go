package youtube

import (
	"context"
	"errors"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"short url", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"embed url", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"watch with extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", false},
		{"watch with v after other params", "https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"short url with fragment", "https://youtu.be/dQw4w9WgXcQ#t=10", "dQw4w9WgXcQ", false},
		{"watch inside playlist", "https://www.youtube.com/watch?v=abc123XYZ_-&list=PLxyz", "abc123XYZ_-", false},
		{"bare playlist url has no video id", "https://www.youtube.com/playlist?list=PLxyz", "", true},
		{"unrelated url", "https://example.com/video", "", true},
		{"empty string", "", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractVideoID(tc.url)
			if tc.wantErr {
				if !errors.Is(err, ErrNoVideoID) {
					t.Fatalf("expected ErrNoVideoID, got %v (id %q)", err, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected id %q, got %q", tc.want, got)
			}
		})
	}
}

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"playlist url", "https://www.youtube.com/playlist?list=PLabc123", "PLabc123", false},
		{"watch url with list", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PLabc123", "PLabc123", false},
		{"playlist with trailing param", "https://www.youtube.com/playlist?list=PLabc123&index=2", "PLabc123", false},
		{"watch without list", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "", true},
		{"unrelated url", "https://example.com/playlist", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractPlaylistID(tc.url)
			if tc.wantErr {
				if !errors.Is(err, ErrNoPlaylistID) {
					t.Fatalf("expected ErrNoPlaylistID, got %v (id %q)", err, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected id %q, got %q", tc.want, got)
			}
		})
	}
}

func TestIsPlaylistURL(t *testing.T) {
	valid := []string{
		"https://www.youtube.com/playlist?list=PLabc123",
		"https://youtube.com/playlist?list=PLabc123",
		"http://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PLabc123",
	}
	for _, url := range valid {
		if !IsPlaylistURL(url) {
			t.Errorf("expected %q to be a valid playlist url", url)
		}
	}

	invalid := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ",
		"https://example.com/playlist?list=PLabc123",
		"",
	}
	for _, url := range invalid {
		if IsPlaylistURL(url) {
			t.Errorf("expected %q to be rejected as a playlist url", url)
		}
	}
}

func TestMockInfoProvider(t *testing.T) {
	provider := MockInfoProvider{}

	info, err := provider.VideoInfo(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.DurationSeconds != 212 {
		t.Errorf("expected catalog duration 212, got %d", info.DurationSeconds)
	}

	info, err = provider.VideoInfo(context.Background(), "someOtherID")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.DurationSeconds != defaultMockDuration {
		t.Errorf("expected default duration %d, got %d", defaultMockDuration, info.DurationSeconds)
	}
}
