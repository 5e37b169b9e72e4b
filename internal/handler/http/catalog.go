package http

import (
	"log/slog"
	"net/http"

	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/backend"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/domain"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/pkg/pagination"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/pkg/validator"
)

// CatalogHandler serves catalog reads and order placement, backed by the
// hosted backend.
type CatalogHandler struct {
	backend *backend.Client
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(client *backend.Client, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		backend: client,
		logger:  logger,
	}
}

// ListProducts handles GET /api/v1/catalog/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.backend.ListProducts(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	params := pagination.FromRequest(r)
	page := pagination.Page(products, params)
	writeJSON(w, http.StatusOK, response{Data: pagination.NewResult(page, len(products), params)})
}

// ListCategories handles GET /api/v1/catalog/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.backend.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Data: categories})
}

// ListBanners handles GET /api/v1/catalog/banners
func (h *CatalogHandler) ListBanners(w http.ResponseWriter, r *http.Request) {
	banners, err := h.backend.ListBanners(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Data: banners})
}

// CreateOrder handles POST /api/v1/orders
func (h *CatalogHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var input domain.CreateOrderInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		writeErrorNotified(w, r, h.logger, err, domain.ErrorNotification("Your order could not be placed. Please check the order details."))
		return
	}

	order, err := h.backend.CreateOrder(r.Context(), input)
	if err != nil {
		writeErrorNotified(w, r, h.logger, err, domain.ErrorNotification("Your order could not be placed. Please try again."))
		return
	}

	note := domain.SuccessNotification("Order placed. We will contact you shortly.")
	writeJSON(w, http.StatusCreated, response{Data: order, Notification: &note})
}
