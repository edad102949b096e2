package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"certify-backend/internal/models"
	"certify-backend/internal/repository"
	"certify-backend/internal/youtube"
)

// QueuePlaylistImport is the redis list playlist import jobs are pushed to.
const QueuePlaylistImport = "queue:playlist-import"

// PlaylistImportJob is the payload the worker pool dequeues.
type PlaylistImportJob struct {
	UserID      uuid.UUID `json:"user_id"`
	CourseTitle string    `json:"course_title"`
	PlaylistID  string    `json:"playlist_id"`
}

type CourseService struct {
	courses *repository.CourseRepo
	videos  *repository.VideoRepo
	info    youtube.InfoProvider
	lister  youtube.PlaylistLister
	queue   *redis.Client
}

func NewCourseService(courses *repository.CourseRepo, videos *repository.VideoRepo, info youtube.InfoProvider, lister youtube.PlaylistLister, queue *redis.Client) *CourseService {
	return &CourseService{courses: courses, videos: videos, info: info, lister: lister, queue: queue}
}

func (s *CourseService) CreateCourse(ctx context.Context, userID uuid.UUID, req models.CreateCourseRequest) (*models.Course, error) {
	fields := make(map[string]string)
	if strings.TrimSpace(req.Title) == "" {
		fields["title"] = "Title is required"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	course := &models.Course{
		CreatedBy:   userID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.courses.Create(ctx, course); err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Message: "A course with this title already exists"}
		}
		return nil, err
	}
	return course, nil
}

// AddVideo validates the URL, resolves metadata and appends the video to the
// named course, creating the course on first use of the title.
func (s *CourseService) AddVideo(ctx context.Context, userID uuid.UUID, req models.AddVideoRequest) (*models.Video, error) {
	fields := make(map[string]string)
	if strings.TrimSpace(req.YouTubeURL) == "" {
		fields["youtube_url"] = "URL is required"
	}
	if strings.TrimSpace(req.CourseTitle) == "" {
		fields["course_title"] = "Course title is required"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	videoID, err := youtube.ExtractVideoID(req.YouTubeURL)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{
			"youtube_url": "Not a valid YouTube video URL",
		}}
	}

	info, err := s.info.VideoInfo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = info.Title
	}

	course, err := s.findOrCreateCourse(ctx, userID, strings.TrimSpace(req.CourseTitle))
	if err != nil {
		return nil, err
	}

	orderIndex, err := s.videos.NextOrderIndex(ctx, course.ID)
	if err != nil {
		return nil, err
	}

	video := &models.Video{
		CourseID:        course.ID,
		Title:           title,
		YouTubeURL:      req.YouTubeURL,
		YouTubeVideoID:  videoID,
		DurationSeconds: info.DurationSeconds,
		OrderIndex:      orderIndex,
	}
	if err := s.videos.Create(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

// ImportPlaylist validates the playlist URL and enqueues the expansion; the
// worker pool adds the videos asynchronously.
func (s *CourseService) ImportPlaylist(ctx context.Context, userID uuid.UUID, req models.ImportPlaylistRequest) error {
	fields := make(map[string]string)
	if strings.TrimSpace(req.CourseTitle) == "" {
		fields["course_title"] = "Course title is required"
	}
	if strings.TrimSpace(req.PlaylistURL) == "" {
		fields["playlist_url"] = "Playlist URL is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	if !youtube.IsPlaylistURL(req.PlaylistURL) {
		return &ValidationError{Fields: map[string]string{
			"playlist_url": "Not a valid YouTube playlist URL",
		}}
	}
	playlistID, err := youtube.ExtractPlaylistID(req.PlaylistURL)
	if err != nil {
		return &ValidationError{Fields: map[string]string{
			"playlist_url": "Not a valid YouTube playlist URL",
		}}
	}

	job := PlaylistImportJob{
		UserID:      userID,
		CourseTitle: strings.TrimSpace(req.CourseTitle),
		PlaylistID:  playlistID,
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}

	if err := s.queue.RPush(ctx, QueuePlaylistImport, payload).Err(); err != nil {
		log.Printf("Failed to enqueue playlist import: %v", err)
		return err
	}
	return nil
}

// ExpandPlaylist runs on the worker pool: it enumerates the playlist and
// appends each entry to the course. Entries whose URL fails video-id
// extraction are skipped, not fatal.
func (s *CourseService) ExpandPlaylist(ctx context.Context, job PlaylistImportJob) (int, error) {
	entries, err := s.lister.List(ctx, job.PlaylistID)
	if err != nil {
		return 0, err
	}

	course, err := s.findOrCreateCourse(ctx, job.UserID, job.CourseTitle)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, entry := range entries {
		videoID, err := youtube.ExtractVideoID(entry.URL)
		if err != nil {
			log.Printf("Skipping playlist entry %q: %v", entry.URL, err)
			continue
		}

		info, err := s.info.VideoInfo(ctx, videoID)
		if err != nil {
			log.Printf("Skipping playlist entry %q: %v", entry.URL, err)
			continue
		}

		title := entry.Title
		if title == "" {
			title = info.Title
		}

		orderIndex, err := s.videos.NextOrderIndex(ctx, course.ID)
		if err != nil {
			return added, err
		}

		video := &models.Video{
			CourseID:        course.ID,
			Title:           title,
			YouTubeURL:      entry.URL,
			YouTubeVideoID:  videoID,
			DurationSeconds: info.DurationSeconds,
			OrderIndex:      orderIndex,
		}
		if err := s.videos.Create(ctx, video); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

func (s *CourseService) GetCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Course, error) {
	course, err := s.courses.GetForUser(ctx, courseID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Resource: "course"}
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) ListCourses(ctx context.Context, userID uuid.UUID) ([]*models.Course, error) {
	return s.courses.ListForUser(ctx, userID)
}

func (s *CourseService) GetVideo(ctx context.Context, videoID uuid.UUID) (*models.Video, error) {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Resource: "video"}
		}
		return nil, err
	}
	return video, nil
}

func (s *CourseService) findOrCreateCourse(ctx context.Context, userID uuid.UUID, title string) (*models.Course, error) {
	course, err := s.courses.GetByTitle(ctx, title)
	if err == nil {
		return course, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	course = &models.Course{CreatedBy: userID, Title: title}
	if err := s.courses.Create(ctx, course); err != nil {
		// Another writer created the title between our lookup and insert;
		// the unique constraint makes the race safe to retry as a read.
		if isUniqueViolation(err) {
			return s.courses.GetByTitle(ctx, title)
		}
		return nil, err
	}
	return course, nil
}
