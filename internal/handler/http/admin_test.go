package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/backend"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/domain"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/service"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/pkg/httpclient"
)

func setupAdminRouter(t *testing.T, backendHandler http.Handler) *chi.Mux {
	t.Helper()

	var client *backend.Client
	if backendHandler != nil {
		srv := httptest.NewServer(backendHandler)
		t.Cleanup(srv.Close)
		cfg := httpclient.DefaultConfig()
		cfg.MaxRetries = 0
		cfg.Timeout = 2 * time.Second
		cb := httpclient.NewCircuitBreakerClient(
			httpclient.New(cfg),
			httpclient.DefaultCircuitBreakerConfig("admin-test"),
			testLogger(),
		)
		client = backend.New(backend.Config{BaseURL: srv.URL, APIKey: "k", CategoryTTL: time.Minute}, cb, testLogger())
	}

	sessions := service.NewSessionService(newMemStore(), testLogger())
	handler := NewAdminHandler(sessions, client, testLogger())

	r := chi.NewRouter()
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Post("/session", handler.StartSession)
		r.Get("/session", handler.CurrentSession)
		r.Post("/session/touch", handler.TouchSession)
		r.Delete("/session", handler.EndSession)
		r.Get("/remembered-email", handler.RememberedEmail)
		r.Delete("/remembered-email", handler.ForgetEmail)
		r.Post("/describe-image", handler.DescribeImage)
	})
	return r
}

func TestSessionLifecycle(t *testing.T) {
	router := setupAdminRouter(t, nil)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/admin/session", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/admin/session", "", StartSessionRequest{
		Email:     "admin@example.com",
		AutoLogin: true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	session := decodeData(t, rec)
	assert.Equal(t, "admin@example.com", session["email"])

	rec = doRequest(t, router, http.MethodGet, "/api/v1/admin/session", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/admin/session/touch", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodDelete, "/api/v1/admin/session", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/admin/session", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStartSession_InvalidEmail(t *testing.T) {
	router := setupAdminRouter(t, nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/admin/session", "", StartSessionRequest{
		Email: "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestRememberedEmailFlow(t *testing.T) {
	router := setupAdminRouter(t, nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/admin/session", "", StartSessionRequest{
		Email:         "admin@example.com",
		RememberEmail: true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/admin/remembered-email", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin@example.com", decodeData(t, rec)["email"])

	rec = doRequest(t, router, http.MethodDelete, "/api/v1/admin/remembered-email", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/admin/remembered-email", "", nil)
	assert.Empty(t, decodeData(t, rec)["email"])
}

func TestStartSession_WithoutRememberForgetsEmail(t *testing.T) {
	router := setupAdminRouter(t, nil)

	doRequest(t, router, http.MethodPost, "/api/v1/admin/session", "", StartSessionRequest{
		Email:         "admin@example.com",
		RememberEmail: true,
	})
	doRequest(t, router, http.MethodPost, "/api/v1/admin/session", "", StartSessionRequest{
		Email: "admin@example.com",
	})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/admin/remembered-email", "", nil)
	assert.Empty(t, decodeData(t, rec)["email"])
}

func TestDescribeImage(t *testing.T) {
	router := setupAdminRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/functions/v1/describe-image", r.URL.Path)
		json.NewEncoder(w).Encode(domain.ImageDescription{Title: "Mouse", SKU: "M-1"})
	}))

	rec := doRequest(t, router, http.MethodPost, "/api/v1/admin/describe-image", "", DescribeImageRequest{
		ImageURL: "https://img.example.com/p.jpg",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Mouse", decodeData(t, rec)["title"])
}

func TestDescribeImage_RequiresURL(t *testing.T) {
	router := setupAdminRouter(t, nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/admin/describe-image", "", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
