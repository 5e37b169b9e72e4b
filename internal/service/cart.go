// Package service implements the business logic for the storefront
// client-state APIs: the cart, the recent-products history, simulated
// ratings, and admin sessions.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/domain"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/event"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/storage"
	apperrors "github.com/KiramZodiac/sdms-mobile-shopfront-sub000/pkg/errors"
)

// AddItemInput holds the parameters for adding a product to the cart.
type AddItemInput struct {
	ProductID string   `json:"product_id" validate:"required"`
	Name      string   `json:"name" validate:"required"`
	Price     int64    `json:"price" validate:"gte=0"`
	Images    []string `json:"images"`
}

// RecentItemInput holds one product of a recorded purchase batch.
type RecentItemInput struct {
	ProductID string   `json:"product_id" validate:"required"`
	Name      string   `json:"name" validate:"required"`
	Price     int64    `json:"price" validate:"gte=0"`
	Images    []string `json:"images"`
}

// CartService manages per-user cart and recent-products state. The
// persisted snapshot is best-effort; the state loaded, mutated, and
// returned within a call is authoritative. Every mutation yields a
// user-facing notification and publishes a domain event; neither storage
// nor event failures ever fail the operation.
type CartService struct {
	store    storage.Store
	producer *event.Producer
	logger   *slog.Logger
	now      func() time.Time
}

// NewCartService creates a new cart service.
func NewCartService(store storage.Store, producer *event.Producer, logger *slog.Logger) *CartService {
	return &CartService{
		store:    store,
		producer: producer,
		logger:   logger,
		now:      time.Now,
	}
}

// GetCart returns the user's cart, empty if nothing is persisted.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	return s.loadCart(ctx, userID), nil
}

// AddToCart adds a product to the user's cart. If the product is already
// present its quantity is increased by one; otherwise it is appended with
// quantity 1.
func (s *CartService) AddToCart(ctx context.Context, userID string, input AddItemInput) (*domain.Cart, *domain.Notification, error) {
	if userID == "" {
		return nil, nil, apperrors.InvalidInput("user id is required")
	}
	if input.ProductID == "" {
		return nil, nil, apperrors.InvalidInput("product id is required")
	}
	if input.Price < 0 {
		return nil, nil, apperrors.InvalidInput("price must not be negative")
	}

	cart := s.loadCart(ctx, userID)

	var note domain.Notification
	if i := cart.FindItemIndex(input.ProductID); i >= 0 {
		cart.Items[i].Quantity++
		note = domain.SuccessNotification(fmt.Sprintf("Increased %s quantity in cart", cart.Items[i].Name))
	} else {
		cart.Items = append(cart.Items, domain.CartItem{
			ID:       input.ProductID,
			Name:     input.Name,
			Price:    input.Price,
			Quantity: 1,
			Images:   input.Images,
		})
		note = domain.SuccessNotification(fmt.Sprintf("%s added to cart", input.Name))
	}

	s.saveCart(ctx, cart)
	s.publishCartUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("user_id", userID),
		slog.String("product_id", input.ProductID),
	)

	return cart, &note, nil
}

// RemoveItem removes a product from the cart. Removing an absent product
// is a silent no-op.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, *domain.Notification, error) {
	if userID == "" {
		return nil, nil, apperrors.InvalidInput("user id is required")
	}
	if productID == "" {
		return nil, nil, apperrors.InvalidInput("product id is required")
	}

	cart := s.loadCart(ctx, userID)

	i := cart.FindItemIndex(productID)
	if i < 0 {
		return cart, nil, nil
	}
	name := cart.Items[i].Name
	cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)

	s.saveCart(ctx, cart)
	s.publishCartUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
	)

	note := domain.InfoNotification(fmt.Sprintf("%s removed from cart", name))
	return cart, &note, nil
}

// UpdateQuantity sets the quantity of a product in the cart. A quantity of
// zero or less removes the product. Unknown products are a no-op.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, *domain.Notification, error) {
	if userID == "" {
		return nil, nil, apperrors.InvalidInput("user id is required")
	}
	if productID == "" {
		return nil, nil, apperrors.InvalidInput("product id is required")
	}

	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	cart := s.loadCart(ctx, userID)

	i := cart.FindItemIndex(productID)
	if i < 0 {
		return cart, nil, nil
	}
	cart.Items[i].Quantity = quantity

	s.saveCart(ctx, cart)
	s.publishCartUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "cart item quantity updated",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
	)

	return cart, nil, nil
}

// ClearCart empties the user's cart.
func (s *CartService) ClearCart(ctx context.Context, userID string) (*domain.Cart, *domain.Notification, error) {
	if userID == "" {
		return nil, nil, apperrors.InvalidInput("user id is required")
	}

	cart := &domain.Cart{UserID: userID, Items: []domain.CartItem{}, UpdatedAt: s.now().UTC()}
	s.store.Save(ctx, storage.CartKey(userID), cart)

	if err := s.producer.PublishCartCleared(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared", slog.String("user_id", userID))

	note := domain.InfoNotification("Cart cleared")
	return cart, &note, nil
}

// RecentProducts returns the user's recent-products history, newest first.
func (s *CartService) RecentProducts(ctx context.Context, userID string) ([]domain.RecentProduct, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	return s.loadRecent(ctx, userID), nil
}

// AddToRecentProducts records a purchase batch in the recent-products
// history. Products already present keep their position and timestamp.
func (s *CartService) AddToRecentProducts(ctx context.Context, userID string, items []RecentItemInput) ([]domain.RecentProduct, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if len(items) == 0 {
		return s.loadRecent(ctx, userID), nil
	}

	now := s.now().UTC()
	incoming := make([]domain.RecentProduct, len(items))
	ids := make([]string, len(items))
	for i, it := range items {
		incoming[i] = domain.RecentProduct{
			ID:          it.ProductID,
			Name:        it.Name,
			Price:       it.Price,
			Images:      it.Images,
			PurchasedAt: now,
		}
		ids[i] = it.ProductID
	}

	current := s.loadRecent(ctx, userID)
	merged := domain.MergeRecentProducts(current, incoming)
	s.store.Save(ctx, storage.RecentKey(userID), merged)

	if err := s.producer.PublishRecentRecorded(ctx, userID, ids); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish recent.recorded event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "recent products recorded",
		slog.String("user_id", userID),
		slog.Int("count", len(items)),
	)

	return merged, nil
}

// ClearRecentProducts empties the user's recent-products history.
func (s *CartService) ClearRecentProducts(ctx context.Context, userID string) (*domain.Notification, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	s.store.Delete(ctx, storage.RecentKey(userID))
	s.store.Delete(ctx, storage.LegacyRecentKey(userID))

	if err := s.producer.PublishRecentCleared(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish recent.cleared event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "recent products cleared", slog.String("user_id", userID))

	note := domain.InfoNotification("Purchase history cleared")
	return &note, nil
}

func (s *CartService) loadCart(ctx context.Context, userID string) *domain.Cart {
	cart := &domain.Cart{UserID: userID, Items: []domain.CartItem{}}
	s.store.Load(ctx, storage.CartKey(userID), cart)
	cart.UserID = userID
	return cart
}

func (s *CartService) saveCart(ctx context.Context, cart *domain.Cart) {
	cart.UpdatedAt = s.now().UTC()
	s.store.Save(ctx, storage.CartKey(cart.UserID), cart)
}

// loadRecent reads the recent-products history, migrating entries stored
// under the deprecated key the first time they are seen.
func (s *CartService) loadRecent(ctx context.Context, userID string) []domain.RecentProduct {
	var recent []domain.RecentProduct
	if s.store.Load(ctx, storage.RecentKey(userID), &recent) {
		return recent
	}

	var legacy []domain.RecentProduct
	if !s.store.Load(ctx, storage.LegacyRecentKey(userID), &legacy) {
		return nil
	}
	if len(legacy) > domain.MaxRecentProducts {
		legacy = legacy[:domain.MaxRecentProducts]
	}

	s.store.Save(ctx, storage.RecentKey(userID), legacy)
	s.store.Delete(ctx, storage.LegacyRecentKey(userID))
	s.logger.InfoContext(ctx, "migrated legacy recent products key",
		slog.String("user_id", userID),
		slog.Int("count", len(legacy)),
	)
	return legacy
}

func (s *CartService) publishCartUpdated(ctx context.Context, cart *domain.Cart) {
	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("user_id", cart.UserID),
			slog.String("error", err.Error()),
		)
	}
}
