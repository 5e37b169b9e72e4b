// Package backend is the client for the hosted backend-as-a-service that
// stores the catalog and orders: its REST table endpoints and its
// image-description function endpoint.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/cache"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/domain"
	apperrors "github.com/KiramZodiac/sdms-mobile-shopfront-sub000/pkg/errors"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/pkg/httpclient"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/pkg/validator"
)

const (
	restPath      = "/rest/v1"
	functionsPath = "/functions/v1"

	upstreamName = "backend"
)

// Config holds the backend connection settings.
type Config struct {
	BaseURL     string
	APIKey      string
	CategoryTTL time.Duration
}

// Client reads and writes catalog data through the hosted backend. All
// calls go through a retrying HTTP client behind a circuit breaker;
// category lists are additionally cached in process.
type Client struct {
	cfg        Config
	http       *httpclient.CircuitBreakerClient
	categories *cache.TTL[[]domain.Category]
	logger     *slog.Logger
}

// New creates a backend client.
func New(cfg Config, httpClient *httpclient.CircuitBreakerClient, logger *slog.Logger) *Client {
	return &Client{
		cfg:        cfg,
		http:       httpClient,
		categories: cache.NewTTL[[]domain.Category](cfg.CategoryTTL),
		logger:     logger,
	}
}

// ListProducts returns the full product catalog, newest first.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.getJSON(ctx, restPath+"/products?select=*&order=created_at.desc", &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// ListCategories returns the category list, served from the in-process
// cache while it is fresh.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if cached, ok := c.categories.Get(); ok {
		return cached, nil
	}

	var categories []domain.Category
	if err := c.getJSON(ctx, restPath+"/categories?select=*&order=sort_order.asc", &categories); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	c.categories.Set(categories)
	return categories, nil
}

// InvalidateCategories drops the cached category list.
func (c *Client) InvalidateCategories() {
	c.categories.Invalidate()
}

// ListBanners returns the active promotional banners.
func (c *Client) ListBanners(ctx context.Context) ([]domain.Banner, error) {
	var banners []domain.Banner
	if err := c.getJSON(ctx, restPath+"/banners?select=*&is_active=eq.true&order=sort_order.asc", &banners); err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	return banners, nil
}

// CreateOrder validates and places an order. Validation failures abort
// before anything leaves the process.
func (c *Client) CreateOrder(ctx context.Context, input domain.CreateOrderInput) (*domain.Order, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	payload := struct {
		domain.CreateOrderInput
		Total  int64  `json:"total"`
		Status string `json:"status"`
	}{
		CreateOrderInput: input,
		Total:            input.Total(),
		Status:           domain.OrderStatusPending,
	}

	var created []domain.Order
	if err := c.postJSON(ctx, restPath+"/orders", payload, &created); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	if len(created) == 0 {
		return nil, apperrors.Internal(errors.New("backend returned no order representation"))
	}

	c.logger.InfoContext(ctx, "order created",
		slog.String("order_id", created[0].ID),
		slog.Int64("total", created[0].Total),
	)
	return &created[0], nil
}

// DescribeImage asks the image-analysis function for generated catalog
// copy for the image at the given URL.
func (c *Client) DescribeImage(ctx context.Context, imageURL string) (*domain.ImageDescription, error) {
	if imageURL == "" {
		return nil, apperrors.InvalidInput("image url is required")
	}

	payload := map[string]string{"image_url": imageURL}
	var desc domain.ImageDescription
	if err := c.postJSON(ctx, functionsPath+"/describe-image", payload, &desc); err != nil {
		return nil, fmt.Errorf("describe image: %w", err)
	}
	return &desc, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return httpclient.ParseResponseError(resp, upstreamName)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, dst any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	// Ask the REST layer to echo the created representation back.
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return httpclient.ParseResponseError(resp, upstreamName)
	}
	if dst == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.cfg.APIKey)
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
}
