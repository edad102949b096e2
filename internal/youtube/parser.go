package youtube

import (
	"errors"
	"regexp"
)

var (
	ErrNoVideoID    = errors.New("youtube: no video id in url")
	ErrNoPlaylistID = errors.New("youtube: no playlist id in url")
)

// An id runs until the first of & \n ? # — query params and fragments after
// the id never leak into it.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/watch\?.*v=([^&\n?#]+)`),
}

var playlistIDPattern = regexp.MustCompile(`youtube\.com/(?:playlist\?|watch\?[^\n#]*?)list=([^&\n?#]+)`)

var playlistURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://(www\.)?youtube\.com/playlist\?list=.+`),
	regexp.MustCompile(`^https?://(www\.)?youtube\.com/watch\?.*list=.+`),
}

// ExtractVideoID pulls the canonical video id out of a watch, youtu.be or
// embed URL. A bare playlist URL carries no video id and is rejected; use
// ExtractPlaylistID for playlist-add flows.
func ExtractVideoID(url string) (string, error) {
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(url); m != nil {
			return m[1], nil
		}
	}
	return "", ErrNoVideoID
}

// ExtractPlaylistID pulls the playlist id out of a playlist?list= or
// watch?...list= URL.
func ExtractPlaylistID(url string) (string, error) {
	if m := playlistIDPattern.FindStringSubmatch(url); m != nil {
		return m[1], nil
	}
	return "", ErrNoPlaylistID
}

// IsPlaylistURL is the validator for playlist-add flows. It is deliberately
// independent of ExtractVideoID: a playlist URL is valid here even when it
// has no v= parameter.
func IsPlaylistURL(url string) bool {
	for _, pattern := range playlistURLPatterns {
		if pattern.MatchString(url) {
			return true
		}
	}
	return false
}
