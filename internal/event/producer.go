// Package event publishes storefront domain events to Kafka.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/domain"
	pkgkafka "github.com/KiramZodiac/sdms-mobile-shopfront-sub000/pkg/kafka"
)

// Kafka topic constants for storefront domain events.
const (
	TopicCartUpdated    = "shopfront.cart.updated"
	TopicCartCleared    = "shopfront.cart.cleared"
	TopicRecentRecorded = "shopfront.recent.recorded"
	TopicRecentCleared  = "shopfront.recent.cleared"
)

// Aggregate type constants.
const (
	AggregateTypeCart   = "cart"
	AggregateTypeRecent = "recent_products"
)

// Source identifier for events originating from this service.
const SourceShopfront = "shopfront-service"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	UserID    string         `json:"user_id"`
	Items     []CartItemData `json:"items"`
	ItemCount int            `json:"item_count"`
	Total     int64          `json:"total"`
}

// CartItemData is the item payload within cart events.
type CartItemData struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	UserID string `json:"user_id"`
}

// RecentRecordedData is the payload for a recent.recorded event.
type RecentRecordedData struct {
	UserID     string   `json:"user_id"`
	ProductIDs []string `json:"product_ids"`
	Count      int      `json:"count"`
}

// RecentClearedData is the payload for a recent.cleared event.
type RecentClearedData struct {
	UserID string `json:"user_id"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the storefront service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event with the full snapshot.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	items := make([]CartItemData, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = CartItemData{
			ProductID: item.ID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		}
	}

	data := CartUpdatedData{
		UserID:    cart.UserID,
		Items:     items,
		ItemCount: cart.ItemCount(),
		Total:     cart.Total(),
	}

	event, err := pkgkafka.NewEventFromContext(ctx, TopicCartUpdated, cart.UserID, AggregateTypeCart, SourceShopfront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("user_id", cart.UserID),
		slog.Int("item_count", cart.ItemCount()),
	)

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, userID string) error {
	event, err := pkgkafka.NewEventFromContext(ctx, TopicCartCleared, userID, AggregateTypeCart, SourceShopfront, CartClearedData{UserID: userID})
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartCleared, event); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("user_id", userID),
	)

	return nil
}

// PublishRecentRecorded publishes a recent.recorded event listing the
// product ids that entered the history.
func (p *Producer) PublishRecentRecorded(ctx context.Context, userID string, productIDs []string) error {
	data := RecentRecordedData{
		UserID:     userID,
		ProductIDs: productIDs,
		Count:      len(productIDs),
	}

	event, err := pkgkafka.NewEventFromContext(ctx, TopicRecentRecorded, userID, AggregateTypeRecent, SourceShopfront, data)
	if err != nil {
		return fmt.Errorf("create recent.recorded event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicRecentRecorded, event); err != nil {
		return fmt.Errorf("publish recent.recorded event: %w", err)
	}

	p.logger.DebugContext(ctx, "published recent.recorded event",
		slog.String("user_id", userID),
		slog.Int("count", len(productIDs)),
	)

	return nil
}

// PublishRecentCleared publishes a recent.cleared event.
func (p *Producer) PublishRecentCleared(ctx context.Context, userID string) error {
	event, err := pkgkafka.NewEventFromContext(ctx, TopicRecentCleared, userID, AggregateTypeRecent, SourceShopfront, RecentClearedData{UserID: userID})
	if err != nil {
		return fmt.Errorf("create recent.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicRecentCleared, event); err != nil {
		return fmt.Errorf("publish recent.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published recent.cleared event",
		slog.String("user_id", userID),
	)

	return nil
}
