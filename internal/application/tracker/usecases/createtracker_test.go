package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eridehero/eridehero/internal/domain/tracker"
	"github.com/eridehero/eridehero/internal/shared/errors"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

func TestCreateTrackerUseCase_CreatesTargetPriceWatch(t *testing.T) {
	repo := newFakeTrackerRepo()
	prices := newFakePriceFetcher()
	prices.setPrice(42, tracker.CurrencyUSD, 999.00)
	uc := NewCreateTrackerUseCase(repo, prices, logger.NewLogger())

	result, err := uc.Execute(context.Background(), CreateTrackerCommand{
		UserID: 1, ProductID: 42,
		Type: "target_price", Value: 800,
		Geo: "US", Currency: "USD",
	})

	require.NoError(t, err)
	assert.False(t, result.Updated)
	require.NotNil(t, result.Tracker.TargetPrice)
	assert.Equal(t, 800.0, *result.Tracker.TargetPrice)
	assert.Nil(t, result.Tracker.PriceDrop)
	assert.Equal(t, 999.00, result.Tracker.StartPrice)
	assert.Equal(t, 999.00, result.Tracker.CurrentPrice)
}

func TestCreateTrackerUseCase_SecondCreateReconfigures(t *testing.T) {
	repo := newFakeTrackerRepo()
	prices := newFakePriceFetcher()
	prices.setPrice(42, tracker.CurrencyUSD, 999.00)
	uc := NewCreateTrackerUseCase(repo, prices, logger.NewLogger())

	first, err := uc.Execute(context.Background(), CreateTrackerCommand{
		UserID: 1, ProductID: 42, Type: "target_price", Value: 800, Geo: "US", Currency: "USD",
	})
	require.NoError(t, err)

	// The price moves, then the user re-creates with a drop condition.
	prices.setPrice(42, tracker.CurrencyUSD, 950.00)
	second, err := uc.Execute(context.Background(), CreateTrackerCommand{
		UserID: 1, ProductID: 42, Type: "price_drop", Value: 100, Geo: "US", Currency: "USD",
	})
	require.NoError(t, err)

	assert.True(t, second.Updated)
	assert.Equal(t, first.Tracker.ID, second.Tracker.ID, "same row reconfigured")
	assert.Nil(t, second.Tracker.TargetPrice)
	require.NotNil(t, second.Tracker.PriceDrop)
	assert.Equal(t, 100.0, *second.Tracker.PriceDrop)
	assert.Equal(t, 950.00, second.Tracker.StartPrice, "start price re-baselined at the live price")

	all, _ := repo.ListByUser(context.Background(), 1)
	assert.Len(t, all, 1)
}

func TestCreateTrackerUseCase_Validation(t *testing.T) {
	tests := []struct {
		name string
		cmd  CreateTrackerCommand
	}{
		{name: "bad type", cmd: CreateTrackerCommand{UserID: 1, ProductID: 42, Type: "percent_off", Value: 10, Geo: "US", Currency: "USD"}},
		{name: "bad geo", cmd: CreateTrackerCommand{UserID: 1, ProductID: 42, Type: "target_price", Value: 800, Geo: "MARS", Currency: "USD"}},
		{name: "bad currency", cmd: CreateTrackerCommand{UserID: 1, ProductID: 42, Type: "target_price", Value: 800, Geo: "US", Currency: "DOGE"}},
		{name: "zero value", cmd: CreateTrackerCommand{UserID: 1, ProductID: 42, Type: "target_price", Value: 0, Geo: "US", Currency: "USD"}},
		{name: "negative value", cmd: CreateTrackerCommand{UserID: 1, ProductID: 42, Type: "target_price", Value: -5, Geo: "US", Currency: "USD"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prices := newFakePriceFetcher()
			prices.setPrice(42, tracker.CurrencyUSD, 999.00)
			uc := NewCreateTrackerUseCase(newFakeTrackerRepo(), prices, logger.NewLogger())

			_, err := uc.Execute(context.Background(), tt.cmd)
			assert.True(t, errors.IsValidationError(err), "expected validation error, got %v", err)
		})
	}
}

func TestCreateTrackerUseCase_ValueAtOrAboveLivePrice(t *testing.T) {
	prices := newFakePriceFetcher()
	prices.setPrice(42, tracker.CurrencyUSD, 999.00)
	uc := NewCreateTrackerUseCase(newFakeTrackerRepo(), prices, logger.NewLogger())

	_, err := uc.Execute(context.Background(), CreateTrackerCommand{
		UserID: 1, ProductID: 42, Type: "target_price", Value: 999.00, Geo: "US", Currency: "USD",
	})

	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Contains(t, appErr.Message, "999.00")
}

func TestCreateTrackerUseCase_NoPriceData(t *testing.T) {
	uc := NewCreateTrackerUseCase(newFakeTrackerRepo(), newFakePriceFetcher(), logger.NewLogger())

	_, err := uc.Execute(context.Background(), CreateTrackerCommand{
		UserID: 1, ProductID: 42, Type: "target_price", Value: 800, Geo: "US", Currency: "USD",
	})
	assert.True(t, errors.IsNotFoundError(err))
}

func TestCreateTrackerUseCase_FallsBackToGeoOnlyLookup(t *testing.T) {
	repo := newFakeTrackerRepo()
	prices := newFakePriceFetcher()
	// No USD offer, but a geo-level offer exists under the empty currency.
	prices.setPrice(42, "", 899.00)
	uc := NewCreateTrackerUseCase(repo, prices, logger.NewLogger())

	result, err := uc.Execute(context.Background(), CreateTrackerCommand{
		UserID: 1, ProductID: 42, Type: "target_price", Value: 800, Geo: "US", Currency: "USD",
	})

	require.NoError(t, err)
	assert.Equal(t, 899.00, result.Tracker.StartPrice)
}

func TestCreateTrackerUseCase_PriceServiceDown(t *testing.T) {
	prices := newFakePriceFetcher()
	prices.err = context.DeadlineExceeded
	uc := NewCreateTrackerUseCase(newFakeTrackerRepo(), prices, logger.NewLogger())

	_, err := uc.Execute(context.Background(), CreateTrackerCommand{
		UserID: 1, ProductID: 42, Type: "target_price", Value: 800, Geo: "US", Currency: "USD",
	})

	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeUpstream, appErr.Type)
}
