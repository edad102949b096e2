package handlers

import (
	"net/http"

	"certify-backend/internal/middleware"
	"certify-backend/internal/services"
)

type CertificateHandler struct {
	certService *services.CertificateService
}

func NewCertificateHandler(certService *services.CertificateService) *CertificateHandler {
	return &CertificateHandler{certService: certService}
}

func (h *CertificateHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	certs, err := h.certService.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"certificates": certs})
}
