package domain

import "time"

// MaxRecentProducts caps the length of the recent-products history.
const MaxRecentProducts = 10

// RecentProduct is a snapshot of a purchased product, kept to power the
// "buy again" listing. Entries are never mutated after creation.
type RecentProduct struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       int64     `json:"price"`
	Images      []string  `json:"images"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// MergeRecentProducts merges an incoming purchase batch into the current
// history. Incoming products whose id is not yet present are placed first,
// in batch order; existing entries keep their order and timestamps (an
// incoming duplicate is dropped, not refreshed). The result is truncated to
// MaxRecentProducts entries.
func MergeRecentProducts(current, incoming []RecentProduct) []RecentProduct {
	seen := make(map[string]struct{}, len(current))
	for _, p := range current {
		seen[p.ID] = struct{}{}
	}

	merged := make([]RecentProduct, 0, len(current)+len(incoming))
	for _, p := range incoming {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		// Guard against duplicate ids within the incoming batch itself.
		seen[p.ID] = struct{}{}
		merged = append(merged, p)
	}
	merged = append(merged, current...)

	if len(merged) > MaxRecentProducts {
		merged = merged[:MaxRecentProducts]
	}
	return merged
}
