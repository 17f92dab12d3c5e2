// Package pricing is the HTTP client for the price-lookup service. The
// service is an opaque collaborator: given product, geo and optionally
// currency it returns the best live offer.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/eridehero/eridehero/internal/domain/tracker"
	"github.com/eridehero/eridehero/internal/shared/config"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

// BestPrice is the live offer for a product in one market.
type BestPrice struct {
	Price    float64          `json:"price"`
	Currency tracker.Currency `json:"currency"`
	InStock  bool             `json:"in_stock"`
	Retailer string           `json:"retailer"`
}

// Fetcher is the price-lookup contract consumed by tracker use cases.
type Fetcher interface {
	// BestPrice returns the best live offer, or nil when the product has
	// no offer for the geo. currency may be empty for a geo-only lookup.
	BestPrice(ctx context.Context, productID uint, geo tracker.Geo, currency tracker.Currency) (*BestPrice, error)
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logger.Interface
}

func NewClient(cfg config.PricingConfig, log logger.Interface) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}
}

func (c *Client) BestPrice(ctx context.Context, productID uint, geo tracker.Geo, currency tracker.Currency) (*BestPrice, error) {
	params := url.Values{}
	params.Set("product_id", fmt.Sprintf("%d", productID))
	params.Set("geo", string(geo))
	if currency != "" {
		params.Set("currency", string(currency))
	}

	endpoint := fmt.Sprintf("%s/v1/best-price?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("price lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Warnw("price service returned error",
			"status", resp.StatusCode, "product_id", productID, "geo", geo, "body", string(body))
		return nil, fmt.Errorf("price service returned status %d", resp.StatusCode)
	}

	var price BestPrice
	if err := json.NewDecoder(resp.Body).Decode(&price); err != nil {
		return nil, fmt.Errorf("failed to decode price response: %w", err)
	}

	return &price, nil
}
