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

func TestUpdateTrackerUseCase_SwitchesCondition(t *testing.T) {
	repo := newFakeTrackerRepo()
	pt := seedTracker(t, repo, 7, 42, 1000.00)
	prices := newFakePriceFetcher()
	prices.setPrice(42, tracker.CurrencyUSD, 950.00)
	uc := NewUpdateTrackerUseCase(repo, prices, logger.NewLogger())

	updated, err := uc.Execute(context.Background(), UpdateTrackerCommand{
		UserID: 7, TrackerID: pt.ID, Type: "price_drop", Value: 150,
	})

	require.NoError(t, err)
	assert.Nil(t, updated.TargetPrice)
	require.NotNil(t, updated.PriceDrop)
	assert.Equal(t, 150.0, *updated.PriceDrop)
	assert.Equal(t, 1000.00, updated.StartPrice, "baseline preserved on update")
	assert.Equal(t, 950.00, updated.CurrentPrice, "live price recorded")
}

func TestUpdateTrackerUseCase_NotOwner(t *testing.T) {
	repo := newFakeTrackerRepo()
	pt := seedTracker(t, repo, 7, 42, 1000.00)
	prices := newFakePriceFetcher()
	prices.setPrice(42, tracker.CurrencyUSD, 950.00)
	uc := NewUpdateTrackerUseCase(repo, prices, logger.NewLogger())

	_, err := uc.Execute(context.Background(), UpdateTrackerCommand{
		UserID: 8, TrackerID: pt.ID, Type: "target_price", Value: 500,
	})
	assert.True(t, errors.IsNotFoundError(err), "foreign trackers look like missing ones")
}

func TestUpdateTrackerUseCase_ValueAboveLivePrice(t *testing.T) {
	repo := newFakeTrackerRepo()
	pt := seedTracker(t, repo, 7, 42, 1000.00)
	prices := newFakePriceFetcher()
	prices.setPrice(42, tracker.CurrencyUSD, 950.00)
	uc := NewUpdateTrackerUseCase(repo, prices, logger.NewLogger())

	_, err := uc.Execute(context.Background(), UpdateTrackerCommand{
		UserID: 7, TrackerID: pt.ID, Type: "target_price", Value: 950.00,
	})
	assert.True(t, errors.IsValidationError(err))
}

func TestUpdateTrackerUseCase_NoPriceData(t *testing.T) {
	repo := newFakeTrackerRepo()
	pt := seedTracker(t, repo, 7, 42, 1000.00)
	uc := NewUpdateTrackerUseCase(repo, newFakePriceFetcher(), logger.NewLogger())

	_, err := uc.Execute(context.Background(), UpdateTrackerCommand{
		UserID: 7, TrackerID: pt.ID, Type: "price_drop", Value: 150,
	})
	assert.True(t, errors.IsNotFoundError(err), "conditions are never accepted unvalidated")

	stored, _ := repo.GetByID(context.Background(), pt.ID)
	require.NotNil(t, stored.TargetPrice)
	assert.Nil(t, stored.PriceDrop, "condition unchanged")
}

func TestDeleteTrackerUseCase_ByTrackerID(t *testing.T) {
	repo := newFakeTrackerRepo()
	pt := seedTracker(t, repo, 7, 42, 1000.00)
	uc := NewDeleteTrackerUseCase(repo, logger.NewLogger())

	require.NoError(t, uc.ByTrackerID(context.Background(), 7, pt.ID))

	gone, _ := repo.GetByID(context.Background(), pt.ID)
	assert.Nil(t, gone)
}

func TestDeleteTrackerUseCase_ByProductID(t *testing.T) {
	repo := newFakeTrackerRepo()
	seedTracker(t, repo, 7, 42, 1000.00)
	uc := NewDeleteTrackerUseCase(repo, logger.NewLogger())

	require.NoError(t, uc.ByProductID(context.Background(), 7, 42))

	remaining, _ := repo.ListByUser(context.Background(), 7)
	assert.Empty(t, remaining)
}

func TestDeleteTrackerUseCase_NotOwner(t *testing.T) {
	repo := newFakeTrackerRepo()
	pt := seedTracker(t, repo, 7, 42, 1000.00)
	uc := NewDeleteTrackerUseCase(repo, logger.NewLogger())

	assert.True(t, errors.IsNotFoundError(uc.ByTrackerID(context.Background(), 8, pt.ID)))
	assert.True(t, errors.IsNotFoundError(uc.ByProductID(context.Background(), 8, 42)))

	still, _ := repo.GetByID(context.Background(), pt.ID)
	assert.NotNil(t, still)
}
