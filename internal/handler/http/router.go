package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/backend"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/offline"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/service"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/pkg/health"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/pkg/middleware"
)

// RouterDeps bundles the collaborators the router needs.
type RouterDeps struct {
	Cart     *service.CartService
	Ratings  *service.RatingService
	Sessions *service.SessionService
	Backend  *backend.Client
	Offline  *offline.Worker
	Health   *health.Handler
	Logger   *slog.Logger

	PprofCIDRs []string
}

// NewRouter creates the chi router with all storefront routes registered.
// Requests that match no API route fall through to the offline cache
// worker, which proxies them to the backend.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.PrometheusMetrics("shopfront"))
	r.Use(middleware.Tracing("shopfront"))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	// Health check endpoints
	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, deps.PprofCIDRs, deps.Logger)

	cartHandler := NewCartHandler(deps.Cart, deps.Logger)
	ratingHandler := NewRatingHandler(deps.Ratings, deps.Logger)
	catalogHandler := NewCatalogHandler(deps.Backend, deps.Logger)
	adminHandler := NewAdminHandler(deps.Sessions, deps.Backend, deps.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Route("/cart", func(r chi.Router) {
			r.Use(UserIDFromHeader)

			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{productId}", cartHandler.UpdateQuantity)
			r.Delete("/items/{productId}", cartHandler.RemoveItem)

			r.Get("/recent", cartHandler.RecentProducts)
			r.Post("/recent", cartHandler.AddRecent)
			r.Delete("/recent", cartHandler.ClearRecent)
		})

		r.Route("/ratings", func(r chi.Router) {
			r.Get("/stats", ratingHandler.Stats)
			r.Get("/{productId}", ratingHandler.GetRating)
			r.Post("/generate", ratingHandler.Generate)
			r.Delete("/", ratingHandler.Clear)
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", catalogHandler.ListProducts)
			r.Get("/categories", catalogHandler.ListCategories)
			r.Get("/banners", catalogHandler.ListBanners)
		})

		r.Post("/orders", catalogHandler.CreateOrder)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/session", adminHandler.StartSession)
			r.Get("/session", adminHandler.CurrentSession)
			r.Post("/session/touch", adminHandler.TouchSession)
			r.Delete("/session", adminHandler.EndSession)
			r.Get("/remembered-email", adminHandler.RememberedEmail)
			r.Delete("/remembered-email", adminHandler.ForgetEmail)
			r.Post("/describe-image", adminHandler.DescribeImage)
		})
	})

	// Everything else is served through the offline cache worker.
	if deps.Offline != nil {
		r.NotFound(deps.Offline.ServeHTTP)
	}

	return r
}
