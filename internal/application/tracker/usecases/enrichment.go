package usecases

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/eridehero/eridehero/internal/domain/tracker"
	"github.com/eridehero/eridehero/internal/infrastructure/catalog"
	"github.com/eridehero/eridehero/internal/infrastructure/pricing"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

// maxEnrichConcurrency bounds parallel lookups against the pricing and
// catalog services when enriching tracker lists.
const maxEnrichConcurrency = 5

// EnrichedTracker is a tracker joined with live product and price data for
// presentation.
type EnrichedTracker struct {
	ID            uint             `json:"id"`
	SID           string           `json:"sid"`
	ProductID     uint             `json:"product_id"`
	ProductName   string           `json:"product_name,omitempty"`
	ProductURL    string           `json:"product_url,omitempty"`
	Thumbnail     string           `json:"thumbnail,omitempty"`
	Type          string           `json:"type"`
	Geo           tracker.Geo      `json:"geo"`
	Currency      tracker.Currency `json:"currency"`
	StartPrice    float64          `json:"start_price"`
	CurrentPrice  float64          `json:"current_price"`
	TargetPrice   *float64         `json:"target_price,omitempty"`
	PriceDrop     *float64         `json:"price_drop,omitempty"`
	LivePrice     *float64         `json:"live_price,omitempty"`
	InStock       *bool            `json:"in_stock,omitempty"`
	Retailer      string           `json:"retailer,omitempty"`
	TargetMet     bool             `json:"target_met"`
	ChangeAmount  float64          `json:"change_amount"`
	ChangePercent float64          `json:"change_percent"`
	CreatedAt     string           `json:"created_at"`
}

// enricher joins trackers with catalog and pricing data. Lookup failures
// degrade to a bare tracker rather than failing the request.
type enricher struct {
	catalog catalog.Store
	pricing pricing.Fetcher
	logger  logger.Interface
}

func newEnricher(catalogStore catalog.Store, priceFetcher pricing.Fetcher, logger logger.Interface) *enricher {
	return &enricher{
		catalog: catalogStore,
		pricing: priceFetcher,
		logger:  logger,
	}
}

func (e *enricher) enrichOne(ctx context.Context, t *tracker.PriceTracker) *EnrichedTracker {
	amount, percent := t.PriceChange()
	enriched := &EnrichedTracker{
		ID:            t.ID,
		SID:           t.SID,
		ProductID:     t.ProductID,
		Type:          string(t.Type()),
		Geo:           t.Geo,
		Currency:      t.Currency,
		StartPrice:    t.StartPrice,
		CurrentPrice:  t.CurrentPrice,
		TargetPrice:   t.TargetPrice,
		PriceDrop:     t.PriceDrop,
		ChangeAmount:  amount,
		ChangePercent: percent,
		CreatedAt:     t.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}

	product, err := e.catalog.GetProduct(ctx, t.ProductID)
	if err != nil {
		e.logger.Warnw("product lookup failed during enrichment", "product_id", t.ProductID, "error", err)
	} else if product != nil {
		enriched.ProductName = product.Name
		enriched.ProductURL = product.URL
		enriched.Thumbnail = product.Thumbnail
	}

	price, err := e.pricing.BestPrice(ctx, t.ProductID, t.Geo, t.Currency)
	if err != nil {
		e.logger.Warnw("price lookup failed during enrichment", "product_id", t.ProductID, "error", err)
	} else if price != nil {
		enriched.LivePrice = &price.Price
		enriched.InStock = &price.InStock
		enriched.Retailer = price.Retailer
		enriched.TargetMet = t.TargetMet(price.Price)
	}

	return enriched
}

func (e *enricher) enrichAll(ctx context.Context, trackers []*tracker.PriceTracker) ([]*EnrichedTracker, error) {
	enriched := make([]*EnrichedTracker, len(trackers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxEnrichConcurrency)
	for i, t := range trackers {
		g.Go(func() error {
			enriched[i] = e.enrichOne(gctx, t)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return enriched, nil
}
