package http

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/service"
)

func setupRatingRouter() *chi.Mux {
	svc := service.NewRatingService(newMemStore(), rand.New(rand.NewSource(1)), testLogger())
	handler := NewRatingHandler(svc, testLogger())

	r := chi.NewRouter()
	r.Route("/api/v1/ratings", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Get("/stats", handler.Stats)
		r.Get("/{productId}", handler.GetRating)
		r.Post("/generate", handler.Generate)
		r.Delete("/", handler.Clear)
	})
	return r
}

func TestGenerateRatings(t *testing.T) {
	router := setupRatingRouter()

	rec := doRequest(t, router, http.MethodPost, "/api/v1/ratings/generate", "", GenerateRatingsRequest{
		ProductIDs: []string{"prod-1", "prod-2"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data map[string]struct {
			Rating       float64 `json:"rating"`
			ReviewsCount int     `json:"reviews_count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 2)
	for _, r := range envelope.Data {
		assert.GreaterOrEqual(t, r.Rating, 3.0)
		assert.LessOrEqual(t, r.Rating, 5.0)
		assert.Greater(t, r.ReviewsCount, 0)
	}
}

func TestGenerateRatings_EmptyBody(t *testing.T) {
	router := setupRatingRouter()

	rec := doRequest(t, router, http.MethodPost, "/api/v1/ratings/generate", "", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRating_NotGenerated(t *testing.T) {
	router := setupRatingRouter()

	rec := doRequest(t, router, http.MethodGet, "/api/v1/ratings/prod-1", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRating_AfterGenerate(t *testing.T) {
	router := setupRatingRouter()

	doRequest(t, router, http.MethodPost, "/api/v1/ratings/generate", "", GenerateRatingsRequest{
		ProductIDs: []string{"prod-1"},
	})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/ratings/prod-1", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRatingStatsAndClear(t *testing.T) {
	router := setupRatingRouter()

	doRequest(t, router, http.MethodPost, "/api/v1/ratings/generate", "", GenerateRatingsRequest{
		ProductIDs: []string{"prod-1", "prod-2", "prod-3"},
	})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/ratings/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeData(t, rec)
	assert.Equal(t, float64(3), stats["total_products"])

	rec = doRequest(t, router, http.MethodDelete, "/api/v1/ratings", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/ratings/stats", "", nil)
	stats = decodeData(t, rec)
	assert.Equal(t, float64(0), stats["total_products"])
}
