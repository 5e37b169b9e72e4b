// Package http exposes the storefront client-state APIs over HTTP.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/domain"
	apperrors "github.com/KiramZodiac/sdms-mobile-shopfront-sub000/pkg/errors"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/pkg/validator"
)

// response is the envelope every endpoint answers with. Mutations that the
// storefront surfaces to the visitor carry a notification next to the
// error or data payload.
type response struct {
	Data         any                  `json:"data,omitempty"`
	Error        *errorResponse       `json:"error,omitempty"`
	Notification *domain.Notification `json:"notification,omitempty"`
}

type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, response{
		Error: &errorResponse{Code: "INVALID_INPUT", Message: message},
	})
}

func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, resp := errorEnvelope(r, logger, err)
	writeJSON(w, status, response{Error: resp})
}

// writeErrorNotified is writeError for visitor-facing mutations; the
// notification rides in the envelope so the storefront can show it.
func writeErrorNotified(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, note domain.Notification) {
	status, resp := errorEnvelope(r, logger, err)
	writeJSON(w, status, response{Error: resp, Notification: &note})
}

func errorEnvelope(r *http.Request, logger *slog.Logger, err error) (int, *errorResponse) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		return http.StatusBadRequest, &errorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "request validation failed",
			Fields:  valErr.Fields(),
		}
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= http.StatusInternalServerError {
			logger.ErrorContext(r.Context(), "request failed",
				slog.String("error", err.Error()),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
		}
		return appErr.Status, &errorResponse{Code: appErr.Code, Message: appErr.Message}
	}

	logger.ErrorContext(r.Context(), "internal error",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
	return apperrors.HTTPStatus(err), &errorResponse{Code: "INTERNAL_ERROR", Message: "an internal error occurred"}
}
