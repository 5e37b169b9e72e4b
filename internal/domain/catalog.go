package domain

import "time"

// Product represents a catalog product as served by the backend.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CategoryID  *string   `json:"category_id,omitempty"`
	Price       int64     `json:"price"`
	OldPrice    *int64    `json:"old_price,omitempty"`
	Images      []string  `json:"images,omitempty"`
	InStock     bool      `json:"in_stock"`
	IsFeatured  bool      `json:"is_featured"`
	CreatedAt   time.Time `json:"created_at"`
}

// Category represents a product category.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	ImageURL  *string   `json:"image_url,omitempty"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// Banner represents a promotional banner or carousel image.
type Banner struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url"`
	LinkURL   *string   `json:"link_url,omitempty"`
	IsActive  bool      `json:"is_active"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// ImageDescription is the generated catalog copy returned by the
// image analysis endpoint.
type ImageDescription struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	SKU         string   `json:"sku"`
	Features    []string `json:"features,omitempty"`
}
