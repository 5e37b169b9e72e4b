// Package storage is the local persistence adapter for client state.
// It exposes a deliberately forgiving contract: reads report presence,
// writes are best-effort, and no caller ever sees a storage error. The
// in-memory state held by the services stays authoritative even when the
// backing store is down.
package storage

import (
	"context"
	"encoding/json"
)

// SchemaVersion is the current version of the persisted envelope. Payloads
// written under a different version are treated as missing on read.
const SchemaVersion = 1

// Well-known storage keys. Per-user keys are built with the helper
// functions below; the adapter is the only component that touches them.
const (
	KeyRatings         = "ratings"
	KeyAdminSession    = "admin:session"
	KeyRememberedEmail = "admin:remembered_email"

	cartKeyPrefix   = "cart:"
	recentKeyPrefix = "recent:"

	// legacyRecentKeyPrefix is the pre-migration key for recent products.
	// Load falls back to it once, then the canonical key takes over.
	legacyRecentKeyPrefix = "recently_purchased:"
)

// CartKey returns the storage key for a user's cart snapshot.
func CartKey(userID string) string { return cartKeyPrefix + userID }

// RecentKey returns the canonical storage key for a user's recent products.
func RecentKey(userID string) string { return recentKeyPrefix + userID }

// LegacyRecentKey returns the deprecated recent-products key for a user.
func LegacyRecentKey(userID string) string { return legacyRecentKeyPrefix + userID }

// Store persists JSON snapshots of client state under string keys.
//
// Load decodes the value stored under key into dst and reports whether a
// usable value existed. A missing key, corrupt payload, schema-version
// mismatch, or backend failure all yield false with dst untouched; such
// failures are logged, never returned. Save and Delete are best-effort in
// the same way.
type Store interface {
	Load(ctx context.Context, key string, dst any) bool
	Save(ctx context.Context, key string, v any)
	Delete(ctx context.Context, key string)
}

// envelope wraps every persisted payload with a schema version so that
// incompatible leftovers from older deployments read as absent rather
// than corrupting state.
type envelope struct {
	SchemaVersion int             `json:"schema_version"`
	Data          json.RawMessage `json:"data"`
}
