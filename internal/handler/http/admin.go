package http

import (
	"log/slog"
	"net/http"

	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/backend"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/service"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/pkg/validator"
)

// AdminHandler handles the admin panel session and tooling endpoints.
type AdminHandler struct {
	sessions *service.SessionService
	backend  *backend.Client
	logger   *slog.Logger
}

// NewAdminHandler creates a new admin HTTP handler.
func NewAdminHandler(sessions *service.SessionService, client *backend.Client, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		sessions: sessions,
		backend:  client,
		logger:   logger,
	}
}

// StartSessionRequest is the JSON request body for opening a session.
type StartSessionRequest struct {
	Email         string `json:"email" validate:"required,email"`
	AutoLogin     bool   `json:"auto_login"`
	RememberEmail bool   `json:"remember_email"`
}

// DescribeImageRequest is the JSON request body for the image-description
// endpoint.
type DescribeImageRequest struct {
	ImageURL string `json:"image_url" validate:"required,url"`
}

// StartSession handles POST /api/v1/admin/session
func (h *AdminHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	session, err := h.sessions.Start(r.Context(), req.Email, req.AutoLogin)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if req.RememberEmail {
		if err := h.sessions.RememberEmail(r.Context(), req.Email); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
	} else {
		h.sessions.ForgetEmail(r.Context())
	}

	writeJSON(w, http.StatusCreated, response{Data: session})
}

// CurrentSession handles GET /api/v1/admin/session
func (h *AdminHandler) CurrentSession(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Current(r.Context())
	if session == nil {
		writeJSON(w, http.StatusUnauthorized, response{
			Error: &errorResponse{Code: "UNAUTHORIZED", Message: "no active session"},
		})
		return
	}
	writeJSON(w, http.StatusOK, response{Data: session})
}

// TouchSession handles POST /api/v1/admin/session/touch
func (h *AdminHandler) TouchSession(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Touch(r.Context())
	if session == nil {
		writeJSON(w, http.StatusUnauthorized, response{
			Error: &errorResponse{Code: "UNAUTHORIZED", Message: "no active session"},
		})
		return
	}
	writeJSON(w, http.StatusOK, response{Data: session})
}

// EndSession handles DELETE /api/v1/admin/session
func (h *AdminHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.End(r.Context())
	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "ended"}})
}

// RememberedEmail handles GET /api/v1/admin/remembered-email
func (h *AdminHandler) RememberedEmail(w http.ResponseWriter, r *http.Request) {
	email := h.sessions.RememberedEmail(r.Context())
	writeJSON(w, http.StatusOK, response{Data: map[string]string{"email": email}})
}

// ForgetEmail handles DELETE /api/v1/admin/remembered-email
func (h *AdminHandler) ForgetEmail(w http.ResponseWriter, r *http.Request) {
	h.sessions.ForgetEmail(r.Context())
	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "forgotten"}})
}

// DescribeImage handles POST /api/v1/admin/describe-image
func (h *AdminHandler) DescribeImage(w http.ResponseWriter, r *http.Request) {
	var req DescribeImageRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	desc, err := h.backend.DescribeImage(r.Context(), req.ImageURL)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: desc})
}
