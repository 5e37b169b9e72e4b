package service

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"sync"

	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/domain"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/storage"
)

// RatingService generates and caches simulated product ratings. A rating
// is generated at most once per product id and then reused until the whole
// cache is cleared, so listings stay stable across requests.
type RatingService struct {
	store  storage.Store
	logger *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRatingService creates a rating service seeded from the given source.
func NewRatingService(store storage.Store, rng *rand.Rand, logger *slog.Logger) *RatingService {
	return &RatingService{
		store:  store,
		logger: logger,
		rng:    rng,
	}
}

// GetProductRating returns the persisted rating for a product, or nil if
// none has been generated yet.
func (s *RatingService) GetProductRating(ctx context.Context, productID string) *domain.ProductRating {
	ratings := s.loadRatings(ctx)
	if r, ok := ratings[productID]; ok {
		return &r
	}
	return nil
}

// GenerateProductRatings returns a rating for every given product id,
// generating and persisting ratings for ids not seen before. Already
// persisted ratings are returned unchanged.
func (s *RatingService) GenerateProductRatings(ctx context.Context, productIDs []string) map[string]domain.ProductRating {
	ratings := s.loadRatings(ctx)

	generated := 0
	for _, id := range productIDs {
		if id == "" {
			continue
		}
		if _, ok := ratings[id]; ok {
			continue
		}
		ratings[id] = s.generate()
		generated++
	}

	if generated > 0 {
		s.store.Save(ctx, storage.KeyRatings, ratings)
		s.logger.DebugContext(ctx, "generated product ratings",
			slog.Int("generated", generated),
			slog.Int("total", len(ratings)),
		)
	}

	result := make(map[string]domain.ProductRating, len(productIDs))
	for _, id := range productIDs {
		if r, ok := ratings[id]; ok {
			result[id] = r
		}
	}
	return result
}

// ClearAllRatings drops every persisted rating.
func (s *RatingService) ClearAllRatings(ctx context.Context) {
	s.store.Delete(ctx, storage.KeyRatings)
	s.logger.InfoContext(ctx, "cleared all product ratings")
}

// RatingStats aggregates the persisted ratings.
func (s *RatingService) RatingStats(ctx context.Context) domain.RatingStats {
	ratings := s.loadRatings(ctx)

	stats := domain.RatingStats{TotalProducts: len(ratings)}
	if len(ratings) == 0 {
		return stats
	}

	var sum float64
	for _, r := range ratings {
		sum += r.Rating
		stats.TotalReviews += r.ReviewsCount
	}
	stats.AverageRating = math.Round(sum/float64(len(ratings))*10) / 10
	return stats
}

func (s *RatingService) loadRatings(ctx context.Context) map[string]domain.ProductRating {
	ratings := make(map[string]domain.ProductRating)
	s.store.Load(ctx, storage.KeyRatings, &ratings)
	return ratings
}

// generate draws a rating from the weighted distribution: most products
// land in the 4.0-5.0 band, a quarter in 3.5-4.0, the rest in 3.0-3.5.
// The review count scales with the rating band, jittered by ±40%.
func (s *RatingService) generate() domain.ProductRating {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lo, hi float64
	switch p := s.rng.Float64(); {
	case p < 0.70:
		lo, hi = 4.0, 5.0
	case p < 0.95:
		lo, hi = 3.5, 4.0
	default:
		lo, hi = 3.0, 3.5
	}
	rating := math.Round((lo+s.rng.Float64()*(hi-lo))*10) / 10

	base := reviewBase(rating)
	jitter := 0.6 + s.rng.Float64()*0.8
	reviews := int(math.Round(float64(base) * jitter))

	return domain.ProductRating{Rating: rating, ReviewsCount: reviews}
}

func reviewBase(rating float64) int {
	switch {
	case rating >= 4.5:
		return 150
	case rating >= 4.0:
		return 100
	case rating >= 3.5:
		return 50
	default:
		return 25
	}
}
