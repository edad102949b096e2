package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"certify-backend/internal/middleware"
	"certify-backend/internal/player"
	"certify-backend/internal/services"
)

type PlayerHandler struct {
	manager       *player.Manager
	courseService *services.CourseService
}

func NewPlayerHandler(manager *player.Manager, courseService *services.CourseService) *PlayerHandler {
	return &PlayerHandler{manager: manager, courseService: courseService}
}

// Open starts a viewing session. A user has at most one; opening another
// video tears the previous session down first.
func (h *PlayerHandler) Open(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req struct {
		VideoID string `json:"video_id"`
		Source  string `json:"source"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	videoID, err := uuid.Parse(req.VideoID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid video ID", r))
		return
	}

	video, err := h.courseService.GetVideo(r.Context(), videoID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	source := req.Source
	if source == "" {
		source = player.SourceLocal
	}

	snapshot, err := h.manager.Open(r.Context(), userID, video, source)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", err.Error(), r))
		return
	}

	writeJSON(w, http.StatusCreated, snapshot)
}

func (h *PlayerHandler) Play(w http.ResponseWriter, r *http.Request) {
	h.control(w, r, h.manager.Play)
}

func (h *PlayerHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.control(w, r, h.manager.Pause)
}

func (h *PlayerHandler) Restart(w http.ResponseWriter, r *http.Request) {
	h.control(w, r, h.manager.Restart)
}

// Complete accepts the host player's explicit end-of-video signal.
func (h *PlayerHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.control(w, r, h.manager.Complete)
}

func (h *PlayerHandler) Status(w http.ResponseWriter, r *http.Request) {
	h.control(w, r, h.manager.Status)
}

// Message applies one external player status report to the session.
func (h *PlayerHandler) Message(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	videoID, err := uuid.Parse(chi.URLParam(r, "videoID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid video ID", r))
		return
	}

	var msg player.StatusMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	snapshot, err := h.manager.Deliver(userID, videoID, msg)
	if err != nil {
		handlePlayerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

func (h *PlayerHandler) Close(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	videoID, err := uuid.Parse(chi.URLParam(r, "videoID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid video ID", r))
		return
	}

	if err := h.manager.Close(userID, videoID); err != nil {
		handlePlayerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Session closed"})
}

func (h *PlayerHandler) control(w http.ResponseWriter, r *http.Request, op func(userID, videoID uuid.UUID) (player.Snapshot, error)) {
	userID := middleware.GetUserID(r.Context())

	videoID, err := uuid.Parse(chi.URLParam(r, "videoID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid video ID", r))
		return
	}

	snapshot, err := op(userID, videoID)
	if err != nil {
		handlePlayerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

func handlePlayerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, player.ErrNoActiveSession):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "No active session", r))
	case errors.Is(err, player.ErrVideoMismatch):
		writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "Session is for a different video", r))
	default:
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", err.Error(), r))
	}
}
