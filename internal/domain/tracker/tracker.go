// Package tracker models per-user price watches on catalog products.
package tracker

import (
	"fmt"
	"time"

	"github.com/eridehero/eridehero/internal/shared/biztime"
)

// TrackerType selects the alert condition. A tracker holds exactly one of
// a target price or a drop amount; setting one clears the other.
type TrackerType string

const (
	TypeTargetPrice TrackerType = "target_price"
	TypePriceDrop   TrackerType = "price_drop"
)

func (t TrackerType) Valid() bool {
	return t == TypeTargetPrice || t == TypePriceDrop
}

// Geo is a market region code. Pricing is region-scoped.
type Geo string

const (
	GeoUS Geo = "US"
	GeoGB Geo = "GB"
	GeoEU Geo = "EU"
	GeoCA Geo = "CA"
	GeoAU Geo = "AU"
)

func (g Geo) Valid() bool {
	switch g {
	case GeoUS, GeoGB, GeoEU, GeoCA, GeoAU:
		return true
	}
	return false
}

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
	CurrencyEUR Currency = "EUR"
	CurrencyCAD Currency = "CAD"
	CurrencyAUD Currency = "AUD"
)

func (c Currency) Valid() bool {
	switch c {
	case CurrencyUSD, CurrencyGBP, CurrencyEUR, CurrencyCAD, CurrencyAUD:
		return true
	}
	return false
}

// PriceTracker is a price watch. At most one exists per (user, product);
// creates on an existing pair update in place.
type PriceTracker struct {
	ID           uint
	SID          string
	UserID       uint
	ProductID    uint
	Geo          Geo
	Currency     Currency
	StartPrice   float64
	CurrentPrice float64
	TargetPrice  *float64
	PriceDrop    *float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewPriceTracker(userID, productID uint, geo Geo, currency Currency, startPrice float64) (*PriceTracker, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if productID == 0 {
		return nil, fmt.Errorf("product ID is required")
	}
	if !geo.Valid() {
		return nil, fmt.Errorf("invalid geo: %s", geo)
	}
	if !currency.Valid() {
		return nil, fmt.Errorf("invalid currency: %s", currency)
	}

	now := biztime.NowUTC()
	return &PriceTracker{
		UserID:       userID,
		ProductID:    productID,
		Geo:          geo,
		Currency:     currency,
		StartPrice:   startPrice,
		CurrentPrice: startPrice,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// SetTargetPrice installs a target-price condition, clearing any drop
// amount.
func (t *PriceTracker) SetTargetPrice(value float64) {
	t.TargetPrice = &value
	t.PriceDrop = nil
	t.UpdatedAt = biztime.NowUTC()
}

// SetPriceDrop installs a price-drop condition, clearing any target price.
func (t *PriceTracker) SetPriceDrop(value float64) {
	t.PriceDrop = &value
	t.TargetPrice = nil
	t.UpdatedAt = biztime.NowUTC()
}

// Type reports which condition is set.
func (t *PriceTracker) Type() TrackerType {
	if t.PriceDrop != nil {
		return TypePriceDrop
	}
	return TypeTargetPrice
}

// Threshold returns the live price at or below which the watch fires.
func (t *PriceTracker) Threshold() float64 {
	if t.TargetPrice != nil {
		return *t.TargetPrice
	}
	if t.PriceDrop != nil {
		return t.StartPrice - *t.PriceDrop
	}
	return 0
}

// TargetMet reports whether the given live price satisfies the watch.
func (t *PriceTracker) TargetMet(livePrice float64) bool {
	if livePrice <= 0 {
		return false
	}
	return livePrice <= t.Threshold()
}

// RecordPrice stores the most recently observed price.
func (t *PriceTracker) RecordPrice(livePrice float64) {
	t.CurrentPrice = livePrice
	t.UpdatedAt = biztime.NowUTC()
}

// PriceChange returns the absolute and percentage change since tracking
// began.
func (t *PriceTracker) PriceChange() (amount, percent float64) {
	amount = t.CurrentPrice - t.StartPrice
	if t.StartPrice > 0 {
		percent = amount / t.StartPrice * 100
	}
	return amount, percent
}
