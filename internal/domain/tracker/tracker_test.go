package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPriceTracker(t *testing.T) {
	tests := []struct {
		name      string
		userID    uint
		productID uint
		geo       Geo
		currency  Currency
		wantErr   bool
	}{
		{name: "valid", userID: 1, productID: 2, geo: GeoUS, currency: CurrencyUSD},
		{name: "missing user", userID: 0, productID: 2, geo: GeoUS, currency: CurrencyUSD, wantErr: true},
		{name: "missing product", userID: 1, productID: 0, geo: GeoUS, currency: CurrencyUSD, wantErr: true},
		{name: "bad geo", userID: 1, productID: 2, geo: "XX", currency: CurrencyUSD, wantErr: true},
		{name: "bad currency", userID: 1, productID: 2, geo: GeoUS, currency: "BTC", wantErr: true},
		{name: "lowercase geo rejected", userID: 1, productID: 2, geo: "us", currency: CurrencyUSD, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := NewPriceTracker(tt.userID, tt.productID, tt.geo, tt.currency, 999.99)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 999.99, tr.StartPrice)
			assert.Equal(t, 999.99, tr.CurrentPrice)
		})
	}
}

func TestPriceTracker_ConditionsAreMutuallyExclusive(t *testing.T) {
	tr, err := NewPriceTracker(1, 2, GeoUS, CurrencyUSD, 1000)
	require.NoError(t, err)

	tr.SetTargetPrice(800)
	require.NotNil(t, tr.TargetPrice)
	assert.Nil(t, tr.PriceDrop)
	assert.Equal(t, TypeTargetPrice, tr.Type())

	tr.SetPriceDrop(150)
	require.NotNil(t, tr.PriceDrop)
	assert.Nil(t, tr.TargetPrice)
	assert.Equal(t, TypePriceDrop, tr.Type())
}

func TestPriceTracker_Threshold(t *testing.T) {
	tr, err := NewPriceTracker(1, 2, GeoUS, CurrencyUSD, 1000)
	require.NoError(t, err)

	tr.SetTargetPrice(800)
	assert.Equal(t, 800.0, tr.Threshold())

	tr.SetPriceDrop(150)
	assert.Equal(t, 850.0, tr.Threshold())
}

func TestPriceTracker_TargetMet(t *testing.T) {
	tr, err := NewPriceTracker(1, 2, GeoUS, CurrencyUSD, 1000)
	require.NoError(t, err)
	tr.SetTargetPrice(800)

	assert.True(t, tr.TargetMet(800))
	assert.True(t, tr.TargetMet(799.99))
	assert.False(t, tr.TargetMet(800.01))

	// A zero or negative price never fires.
	assert.False(t, tr.TargetMet(0))
	assert.False(t, tr.TargetMet(-1))
}

func TestPriceTracker_PriceChange(t *testing.T) {
	tr, err := NewPriceTracker(1, 2, GeoUS, CurrencyUSD, 1000)
	require.NoError(t, err)

	tr.RecordPrice(850)
	amount, percent := tr.PriceChange()
	assert.Equal(t, -150.0, amount)
	assert.InDelta(t, -15.0, percent, 0.001)

	tr.StartPrice = 0
	_, percent = tr.PriceChange()
	assert.Equal(t, 0.0, percent)
}

func TestEnums_Valid(t *testing.T) {
	assert.True(t, TrackerType("target_price").Valid())
	assert.True(t, TrackerType("price_drop").Valid())
	assert.False(t, TrackerType("price_rise").Valid())

	for _, g := range []Geo{GeoUS, GeoGB, GeoEU, GeoCA, GeoAU} {
		assert.True(t, g.Valid())
	}
	for _, c := range []Currency{CurrencyUSD, CurrencyGBP, CurrencyEUR, CurrencyCAD, CurrencyAUD} {
		assert.True(t, c.Valid())
	}
}
