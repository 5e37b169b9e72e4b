package offline

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, testLogger()), mr
}

func sampleEntry() *Entry {
	return &Entry{
		Status:   http.StatusOK,
		Headers:  http.Header{"Content-Type": []string{"application/json"}},
		Body:     []byte(`{"ok":true}`),
		CachedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestRedisStore_PutGet(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	store.Put(ctx, "storefront-static-v3", "/app.js", sampleEntry())

	got, ok := store.Get(ctx, "storefront-static-v3", "/app.js")
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, got.Status)
	assert.Equal(t, "application/json", got.Headers.Get("Content-Type"))
	assert.Equal(t, `{"ok":true}`, string(got.Body))
}

func TestRedisStore_GetMissing(t *testing.T) {
	store, _ := setupRedisStore(t)

	_, ok := store.Get(context.Background(), "storefront-static-v3", "/nope")
	assert.False(t, ok)
}

func TestRedisStore_GetCorrupt(t *testing.T) {
	store, mr := setupRedisStore(t)
	mr.HSet("offline:storefront-static-v3", "/bad", "{nope")

	_, ok := store.Get(context.Background(), "storefront-static-v3", "/bad")
	assert.False(t, ok)
}

func TestRedisStore_PartitionsAndDelete(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	store.Put(ctx, "storefront-static-v2", "/a", sampleEntry())
	store.Put(ctx, "storefront-static-v3", "/a", sampleEntry())

	names := store.Partitions(ctx)
	assert.ElementsMatch(t, []string{"storefront-static-v2", "storefront-static-v3"}, names)

	store.DeletePartition(ctx, "storefront-static-v2")

	names = store.Partitions(ctx)
	assert.Equal(t, []string{"storefront-static-v3"}, names)

	_, ok := store.Get(ctx, "storefront-static-v2", "/a")
	assert.False(t, ok)
}

func TestRedisStore_BackendDown(t *testing.T) {
	store, mr := setupRedisStore(t)
	mr.Close()

	ctx := context.Background()
	store.Put(ctx, "p", "/a", sampleEntry())
	_, ok := store.Get(ctx, "p", "/a")
	assert.False(t, ok)
	assert.Empty(t, store.Partitions(ctx))
	store.DeletePartition(ctx, "p")
}
