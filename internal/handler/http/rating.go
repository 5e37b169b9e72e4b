package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/service"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/pkg/validator"
)

// RatingHandler handles the simulated-rating endpoints.
type RatingHandler struct {
	service *service.RatingService
	logger  *slog.Logger
}

// NewRatingHandler creates a new rating HTTP handler.
func NewRatingHandler(svc *service.RatingService, logger *slog.Logger) *RatingHandler {
	return &RatingHandler{
		service: svc,
		logger:  logger,
	}
}

// GenerateRatingsRequest is the JSON request body for generating ratings.
type GenerateRatingsRequest struct {
	ProductIDs []string `json:"product_ids" validate:"required,min=1"`
}

// GetRating handles GET /api/v1/ratings/{productId}
func (h *RatingHandler) GetRating(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if productID == "" {
		writeBadRequest(w, "productId is required")
		return
	}

	rating := h.service.GetProductRating(r.Context(), productID)
	if rating == nil {
		writeJSON(w, http.StatusNotFound, response{
			Error: &errorResponse{Code: "NOT_FOUND", Message: "no rating generated for this product"},
		})
		return
	}

	writeJSON(w, http.StatusOK, response{Data: rating})
}

// Generate handles POST /api/v1/ratings/generate
func (h *RatingHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRatingsRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	ratings := h.service.GenerateProductRatings(r.Context(), req.ProductIDs)
	writeJSON(w, http.StatusOK, response{Data: ratings})
}

// Stats handles GET /api/v1/ratings/stats
func (h *RatingHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, response{Data: h.service.RatingStats(r.Context())})
}

// Clear handles DELETE /api/v1/ratings
func (h *RatingHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.service.ClearAllRatings(r.Context())
	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "cleared"}})
}
