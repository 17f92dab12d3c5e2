package usecases

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eridehero/eridehero/internal/domain/tracker"
	"github.com/eridehero/eridehero/internal/infrastructure/pricing"
)

type fakeTrackerRepo struct {
	mu       sync.Mutex
	trackers map[uint]*tracker.PriceTracker
	nextID   uint
}

func newFakeTrackerRepo() *fakeTrackerRepo {
	return &fakeTrackerRepo{trackers: make(map[uint]*tracker.PriceTracker), nextID: 1}
}

func (r *fakeTrackerRepo) Create(ctx context.Context, t *tracker.PriceTracker) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == 0 {
		t.ID = r.nextID
		r.nextID++
	}
	r.trackers[t.ID] = t
	return nil
}

func (r *fakeTrackerRepo) GetByID(ctx context.Context, id uint) (*tracker.PriceTracker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.trackers[id], nil
}

func (r *fakeTrackerRepo) GetByUserAndProduct(ctx context.Context, userID, productID uint) (*tracker.PriceTracker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.trackers {
		if t.UserID == userID && t.ProductID == productID {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTrackerRepo) ListByUser(ctx context.Context, userID uint) ([]*tracker.PriceTracker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*tracker.PriceTracker
	for _, t := range r.trackers {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTrackerRepo) ListAll(ctx context.Context) ([]*tracker.PriceTracker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*tracker.PriceTracker
	for _, t := range r.trackers {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTrackerRepo) Update(ctx context.Context, t *tracker.PriceTracker) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trackers[t.ID] = t
	return nil
}

func (r *fakeTrackerRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.trackers, id)
	return nil
}

func (r *fakeTrackerRepo) DeleteByUserAndProduct(ctx context.Context, userID, productID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.trackers {
		if t.UserID == userID && t.ProductID == productID {
			delete(r.trackers, id)
			return nil
		}
	}
	return nil
}

// fakePriceFetcher keys offers by (productID, currency). An empty currency
// entry serves the geo-only fallback lookup.
type fakePriceFetcher struct {
	offers map[uint]map[tracker.Currency]*pricing.BestPrice
	err    error
}

func newFakePriceFetcher() *fakePriceFetcher {
	return &fakePriceFetcher{offers: make(map[uint]map[tracker.Currency]*pricing.BestPrice)}
}

func (f *fakePriceFetcher) setPrice(productID uint, currency tracker.Currency, price float64) {
	if f.offers[productID] == nil {
		f.offers[productID] = make(map[tracker.Currency]*pricing.BestPrice)
	}
	f.offers[productID][currency] = &pricing.BestPrice{Price: price, Currency: currency, InStock: true}
}

func (f *fakePriceFetcher) BestPrice(ctx context.Context, productID uint, geo tracker.Geo, currency tracker.Currency) (*pricing.BestPrice, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.offers[productID][currency], nil
}

func seedTracker(t *testing.T, repo *fakeTrackerRepo, userID, productID uint, startPrice float64) *tracker.PriceTracker {
	t.Helper()
	pt, err := tracker.NewPriceTracker(userID, productID, tracker.GeoUS, tracker.CurrencyUSD, startPrice)
	require.NoError(t, err)
	pt.SetTargetPrice(startPrice * 0.8)
	require.NoError(t, repo.Create(context.Background(), pt))
	return pt
}
