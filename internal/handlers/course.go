package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"certify-backend/internal/middleware"
	"certify-backend/internal/models"
	"certify-backend/internal/progress"
	"certify-backend/internal/services"
)

type CourseHandler struct {
	courseService *services.CourseService
}

func NewCourseHandler(courseService *services.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	course, err := h.courseService.CreateCourse(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, course)
}

func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	courses, err := h.courseService.ListCourses(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	type courseView struct {
		*models.Course
		Percent  float64 `json:"percent"`
		Complete bool    `json:"complete"`
	}

	views := make([]courseView, 0, len(courses))
	for _, c := range courses {
		views = append(views, courseView{
			Course:   c,
			Percent:  progress.CourseProgress(c),
			Complete: progress.IsCourseComplete(c),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"courses": views})
}

func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	courseID, err := uuid.Parse(chi.URLParam(r, "courseID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid course ID", r))
		return
	}

	course, err := h.courseService.GetCourse(r.Context(), userID, courseID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"course":   course,
		"percent":  progress.CourseProgress(course),
		"complete": progress.IsCourseComplete(course),
	})
}

func (h *CourseHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.AddVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	video, err := h.courseService.AddVideo(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, video)
}

func (h *CourseHandler) ImportPlaylist(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.ImportPlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if err := h.courseService.ImportPlaylist(r.Context(), userID, req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"message": "Playlist import queued"})
}
