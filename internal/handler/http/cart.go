package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/domain"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/service"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/pkg/validator"
)

// CartHandler handles the cart and recent-products endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding a product to the cart.
type AddItemRequest struct {
	ProductID string   `json:"product_id" validate:"required"`
	Name      string   `json:"name" validate:"required,min=1,max=500"`
	Price     int64    `json:"price" validate:"gte=0"`
	Images    []string `json:"images"`
}

// UpdateQuantityRequest is the JSON request body for updating a quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// AddRecentRequest is the JSON request body for recording a purchase batch.
type AddRecentRequest struct {
	Items []RecentItemRequest `json:"items" validate:"required,min=1,dive"`
}

// RecentItemRequest is one product of a recorded purchase batch.
type RecentItemRequest struct {
	ProductID string   `json:"product_id" validate:"required"`
	Name      string   `json:"name" validate:"required,min=1,max=500"`
	Price     int64    `json:"price" validate:"gte=0"`
	Images    []string `json:"images"`
}

// cartResponse pairs the cart snapshot with the notification the mutation
// produced, if any.
type cartResponse struct {
	Cart         *domain.Cart         `json:"cart"`
	Notification *domain.Notification `json:"notification,omitempty"`
}

type recentResponse struct {
	Products     []domain.RecentProduct `json:"products"`
	Notification *domain.Notification   `json:"notification,omitempty"`
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	cart, err := h.service.GetCart(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: cartResponse{Cart: cart}})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	cart, note, err := h.service.AddToCart(r.Context(), userID, service.AddItemInput{
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     req.Price,
		Images:    req.Images,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: cartResponse{Cart: cart, Notification: note}})
}

// UpdateQuantity handles PUT /api/v1/cart/items/{productId}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	productID := chi.URLParam(r, "productId")
	if productID == "" {
		writeBadRequest(w, "productId is required")
		return
	}

	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	cart, note, err := h.service.UpdateQuantity(r.Context(), userID, productID, req.Quantity)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: cartResponse{Cart: cart, Notification: note}})
}

// RemoveItem handles DELETE /api/v1/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	productID := chi.URLParam(r, "productId")
	if productID == "" {
		writeBadRequest(w, "productId is required")
		return
	}

	cart, note, err := h.service.RemoveItem(r.Context(), userID, productID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: cartResponse{Cart: cart, Notification: note}})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	cart, note, err := h.service.ClearCart(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: cartResponse{Cart: cart, Notification: note}})
}

// RecentProducts handles GET /api/v1/cart/recent
func (h *CartHandler) RecentProducts(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	products, err := h.service.RecentProducts(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if products == nil {
		products = []domain.RecentProduct{}
	}

	writeJSON(w, http.StatusOK, response{Data: recentResponse{Products: products}})
}

// AddRecent handles POST /api/v1/cart/recent
func (h *CartHandler) AddRecent(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	var req AddRecentRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	items := make([]service.RecentItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = service.RecentItemInput{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Images:    it.Images,
		}
	}

	products, err := h.service.AddToRecentProducts(r.Context(), userID, items)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: recentResponse{Products: products}})
}

// ClearRecent handles DELETE /api/v1/cart/recent
func (h *CartHandler) ClearRecent(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	note, err := h.service.ClearRecentProducts(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: recentResponse{Products: []domain.RecentProduct{}, Notification: note}})
}
