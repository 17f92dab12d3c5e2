// Package catalog is the HTTP client for the product content store. It
// supplies existence checks and display metadata (name, permalink,
// thumbnail) for tracker enrichment.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/eridehero/eridehero/internal/shared/config"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

// Product is the display metadata for one catalog product.
type Product struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail"`
	Type      string `json:"type"`
}

// Store is the product-metadata contract consumed by tracker use cases.
type Store interface {
	// GetProduct returns the product, or nil when it does not exist.
	GetProduct(ctx context.Context, productID uint) (*Product, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Interface
}

func NewClient(cfg config.CatalogConfig, log logger.Interface) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}
}

func (c *Client) GetProduct(ctx context.Context, productID uint) (*Product, error) {
	endpoint := fmt.Sprintf("%s/v1/products/%d", c.baseURL, productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("product lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Warnw("catalog service returned error",
			"status", resp.StatusCode, "product_id", productID, "body", string(body))
		return nil, fmt.Errorf("catalog service returned status %d", resp.StatusCode)
	}

	var product Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("failed to decode product response: %w", err)
	}

	return &product, nil
}
