package domain

// Rating band boundaries for the simulated rating distribution.
const (
	RatingMin = 3.0
	RatingMax = 5.0
)

// ProductRating is a simulated rating and review count for a product.
// Once generated for a product id it never changes until ratings are
// cleared in bulk.
type ProductRating struct {
	Rating       float64 `json:"rating"`
	ReviewsCount int     `json:"reviews_count"`
}

// RatingStats aggregates the persisted rating map.
type RatingStats struct {
	TotalProducts int     `json:"total_products"`
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int     `json:"total_reviews"`
}

// Valid reports whether the rating falls inside the allowed band and the
// review count is non-negative.
func (r ProductRating) Valid() bool {
	return r.Rating >= RatingMin && r.Rating <= RatingMax && r.ReviewsCount >= 0
}
