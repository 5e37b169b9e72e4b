package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/domain"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/event"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/storage"
	pkgkafka "github.com/KiramZodiac/sdms-mobile-shopfront-sub000/pkg/kafka"
)

// memStore is an in-memory storage.Store for tests.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (m *memStore) Load(_ context.Context, key string, dst any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func (m *memStore) Save(_ context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
}

func (m *memStore) Delete(_ context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestProducer returns an event producer with no reachable broker;
// publish failures are logged and swallowed by the services under test.
func newTestProducer(logger *slog.Logger) *event.Producer {
	cfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	return event.NewProducer(pkgkafka.NewProducer(cfg, logger), logger)
}

func newTestCartService(store storage.Store) *CartService {
	logger := newTestLogger()
	return NewCartService(store, newTestProducer(logger), logger)
}

func TestAddToCart_NewItem(t *testing.T) {
	svc := newTestCartService(newMemStore())

	cart, note, err := svc.AddToCart(context.Background(), "user-1", AddItemInput{
		ProductID: "prod-1",
		Name:      "Wireless Mouse",
		Price:     2999,
		Images:    []string{"https://img.example.com/m.jpg"},
	})
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Equal(t, domain.NotificationSuccess, note.Level)
	assert.Contains(t, note.Message, "added to cart")
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "prod-1", cart.Items[0].ID)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, int64(2999), cart.Total())
}

func TestAddToCart_ExistingItemIncrementsQuantity(t *testing.T) {
	svc := newTestCartService(newMemStore())
	ctx := context.Background()

	_, _, err := svc.AddToCart(ctx, "user-1", AddItemInput{ProductID: "prod-1", Name: "Mouse", Price: 2999})
	require.NoError(t, err)

	cart, note, err := svc.AddToCart(ctx, "user-1", AddItemInput{ProductID: "prod-1", Name: "Mouse", Price: 2999})
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Contains(t, note.Message, "quantity")
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestAddToCart_PersistsSnapshot(t *testing.T) {
	store := newMemStore()
	svc := newTestCartService(store)
	ctx := context.Background()

	_, _, err := svc.AddToCart(ctx, "user-1", AddItemInput{ProductID: "prod-1", Name: "Mouse", Price: 100})
	require.NoError(t, err)

	// A fresh service sees the persisted cart.
	svc2 := newTestCartService(store)
	cart, err := svc2.GetCart(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "prod-1", cart.Items[0].ID)
}

func TestAddToCart_Validation(t *testing.T) {
	svc := newTestCartService(newMemStore())
	ctx := context.Background()

	_, _, err := svc.AddToCart(ctx, "", AddItemInput{ProductID: "p"})
	assert.Error(t, err)

	_, _, err = svc.AddToCart(ctx, "user-1", AddItemInput{})
	assert.Error(t, err)

	_, _, err = svc.AddToCart(ctx, "user-1", AddItemInput{ProductID: "p", Name: "x", Price: -1})
	assert.Error(t, err)
}

func TestGetCart_EmptyWhenNothingPersisted(t *testing.T) {
	svc := newTestCartService(newMemStore())

	cart, err := svc.GetCart(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", cart.UserID)
	assert.Empty(t, cart.Items)
	assert.Equal(t, int64(0), cart.Total())
}

func TestRemoveItem_Present(t *testing.T) {
	svc := newTestCartService(newMemStore())
	ctx := context.Background()

	_, _, err := svc.AddToCart(ctx, "user-1", AddItemInput{ProductID: "prod-1", Name: "Mouse", Price: 100})
	require.NoError(t, err)

	cart, note, err := svc.RemoveItem(ctx, "user-1", "prod-1")
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Contains(t, note.Message, "Mouse")
	assert.Empty(t, cart.Items)
}

func TestRemoveItem_AbsentIsSilentNoop(t *testing.T) {
	svc := newTestCartService(newMemStore())

	cart, note, err := svc.RemoveItem(context.Background(), "user-1", "ghost")
	require.NoError(t, err)
	assert.Nil(t, note)
	assert.Empty(t, cart.Items)
}

func TestUpdateQuantity_SetsQuantity(t *testing.T) {
	svc := newTestCartService(newMemStore())
	ctx := context.Background()

	_, _, err := svc.AddToCart(ctx, "user-1", AddItemInput{ProductID: "prod-1", Name: "Mouse", Price: 100})
	require.NoError(t, err)

	cart, _, err := svc.UpdateQuantity(ctx, "user-1", "prod-1", 5)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, int64(500), cart.Total())
}

func TestUpdateQuantity_ZeroRemovesItem(t *testing.T) {
	svc := newTestCartService(newMemStore())
	ctx := context.Background()

	_, _, err := svc.AddToCart(ctx, "user-1", AddItemInput{ProductID: "prod-1", Name: "Mouse", Price: 100})
	require.NoError(t, err)

	cart, note, err := svc.UpdateQuantity(ctx, "user-1", "prod-1", 0)
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Empty(t, cart.Items)

	cart, _, err = svc.UpdateQuantity(ctx, "user-1", "prod-1", -3)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestUpdateQuantity_UnknownItemIsNoop(t *testing.T) {
	svc := newTestCartService(newMemStore())

	cart, note, err := svc.UpdateQuantity(context.Background(), "user-1", "ghost", 3)
	require.NoError(t, err)
	assert.Nil(t, note)
	assert.Empty(t, cart.Items)
}

func TestClearCart(t *testing.T) {
	svc := newTestCartService(newMemStore())
	ctx := context.Background()

	_, _, err := svc.AddToCart(ctx, "user-1", AddItemInput{ProductID: "prod-1", Name: "Mouse", Price: 100})
	require.NoError(t, err)

	cart, note, err := svc.ClearCart(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Empty(t, cart.Items)

	got, err := svc.GetCart(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestAddToRecentProducts_NewestFirstAndCapped(t *testing.T) {
	svc := newTestCartService(newMemStore())
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		_, err := svc.AddToRecentProducts(ctx, "user-1", []RecentItemInput{
			{ProductID: fmt.Sprintf("prod-%d", i), Name: fmt.Sprintf("Product %d", i), Price: 100},
		})
		require.NoError(t, err)
	}

	recent, err := svc.RecentProducts(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, recent, domain.MaxRecentProducts)
	assert.Equal(t, "prod-11", recent[0].ID)
	assert.Equal(t, "prod-2", recent[len(recent)-1].ID)
}

func TestAddToRecentProducts_DuplicateKeepsExisting(t *testing.T) {
	svc := newTestCartService(newMemStore())
	ctx := context.Background()

	first, err := svc.AddToRecentProducts(ctx, "user-1", []RecentItemInput{
		{ProductID: "prod-1", Name: "Mouse", Price: 100},
	})
	require.NoError(t, err)
	originalStamp := first[0].PurchasedAt

	time.Sleep(5 * time.Millisecond)

	again, err := svc.AddToRecentProducts(ctx, "user-1", []RecentItemInput{
		{ProductID: "prod-1", Name: "Mouse", Price: 100},
		{ProductID: "prod-2", Name: "Keyboard", Price: 200},
	})
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.Equal(t, "prod-2", again[0].ID)
	assert.Equal(t, "prod-1", again[1].ID)
	assert.Equal(t, originalStamp, again[1].PurchasedAt)
}

func TestAddToRecentProducts_EmptyBatch(t *testing.T) {
	svc := newTestCartService(newMemStore())

	recent, err := svc.AddToRecentProducts(context.Background(), "user-1", nil)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestRecentProducts_LegacyKeyMigration(t *testing.T) {
	store := newMemStore()
	svc := newTestCartService(store)
	ctx := context.Background()

	legacy := []domain.RecentProduct{
		{ID: "prod-old", Name: "Old Phone", Price: 50000, PurchasedAt: time.Now().UTC()},
	}
	store.Save(ctx, storage.LegacyRecentKey("user-1"), legacy)

	recent, err := svc.RecentProducts(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "prod-old", recent[0].ID)

	// The legacy key is gone and the canonical key holds the data.
	var underLegacy []domain.RecentProduct
	assert.False(t, store.Load(ctx, storage.LegacyRecentKey("user-1"), &underLegacy))
	var underCanonical []domain.RecentProduct
	assert.True(t, store.Load(ctx, storage.RecentKey("user-1"), &underCanonical))
	assert.Len(t, underCanonical, 1)
}

func TestClearRecentProducts(t *testing.T) {
	svc := newTestCartService(newMemStore())
	ctx := context.Background()

	_, err := svc.AddToRecentProducts(ctx, "user-1", []RecentItemInput{
		{ProductID: "prod-1", Name: "Mouse", Price: 100},
	})
	require.NoError(t, err)

	note, err := svc.ClearRecentProducts(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, note)

	recent, err := svc.RecentProducts(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, recent)
}
