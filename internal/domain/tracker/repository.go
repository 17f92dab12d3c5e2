package tracker

import "context"

// Repository persists price trackers. GetByUserAndProduct returns nil
// (not an error) when no tracker exists for the pair.
type Repository interface {
	Create(ctx context.Context, tracker *PriceTracker) error
	GetByID(ctx context.Context, id uint) (*PriceTracker, error)
	GetByUserAndProduct(ctx context.Context, userID, productID uint) (*PriceTracker, error)
	ListByUser(ctx context.Context, userID uint) ([]*PriceTracker, error)
	ListAll(ctx context.Context) ([]*PriceTracker, error)
	Update(ctx context.Context, tracker *PriceTracker) error
	Delete(ctx context.Context, id uint) error
	DeleteByUserAndProduct(ctx context.Context, userID, productID uint) error
}
