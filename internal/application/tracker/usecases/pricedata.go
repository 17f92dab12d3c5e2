package usecases

import (
	"context"

	"github.com/eridehero/eridehero/internal/domain/tracker"
	"github.com/eridehero/eridehero/internal/infrastructure/pricing"
	"github.com/eridehero/eridehero/internal/shared/errors"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

// PriceData is the public availability check used before offering the
// tracker form on a product page.
type PriceData struct {
	Available bool             `json:"available"`
	Price     float64          `json:"price,omitempty"`
	Currency  tracker.Currency `json:"currency,omitempty"`
	InStock   bool             `json:"in_stock,omitempty"`
	Retailer  string           `json:"retailer,omitempty"`
}

type PriceDataUseCase struct {
	pricing pricing.Fetcher
	logger  logger.Interface
}

func NewPriceDataUseCase(priceFetcher pricing.Fetcher, logger logger.Interface) *PriceDataUseCase {
	return &PriceDataUseCase{
		pricing: priceFetcher,
		logger:  logger,
	}
}

func (uc *PriceDataUseCase) Execute(ctx context.Context, productID uint, geo tracker.Geo, currency tracker.Currency) (*PriceData, error) {
	if !geo.Valid() {
		return nil, errors.NewValidationError("Unsupported region.")
	}
	if currency != "" && !currency.Valid() {
		return nil, errors.NewValidationError("Unsupported currency.")
	}

	price, err := uc.pricing.BestPrice(ctx, productID, geo, currency)
	if err != nil {
		uc.logger.Errorw("price lookup failed", "product_id", productID, "geo", geo, "error", err)
		return nil, errors.NewUpstreamError("Price data is unavailable right now. Please try again.")
	}
	if price == nil && currency != "" {
		price, err = uc.pricing.BestPrice(ctx, productID, geo, "")
		if err != nil {
			return nil, errors.NewUpstreamError("Price data is unavailable right now. Please try again.")
		}
	}
	if price == nil {
		return &PriceData{Available: false}, nil
	}

	return &PriceData{
		Available: true,
		Price:     price.Price,
		Currency:  price.Currency,
		InStock:   price.InStock,
		Retailer:  price.Retailer,
	}, nil
}
