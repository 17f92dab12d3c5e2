package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/eridehero/eridehero/internal/shared/id"
)

// TrackerModel persists price watches. The composite unique index keeps
// one tracker per (user, product) pair.
type TrackerModel struct {
	ID           uint    `gorm:"primarykey"`
	SID          string  `gorm:"uniqueIndex;not null;size:32"`
	UserID       uint    `gorm:"not null;uniqueIndex:idx_tracker_user_product"`
	ProductID    uint    `gorm:"not null;uniqueIndex:idx_tracker_user_product"`
	Geo          string  `gorm:"not null;size:2"`
	Currency     string  `gorm:"not null;size:3"`
	StartPrice   float64 `gorm:"not null"`
	CurrentPrice float64 `gorm:"not null"`
	TargetPrice  *float64
	PriceDrop    *float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for GORM
func (TrackerModel) TableName() string {
	return "price_trackers"
}

// BeforeCreate hook for GORM
func (t *TrackerModel) BeforeCreate(tx *gorm.DB) error {
	if t.SID == "" {
		sid, err := id.GenerateWithPrefix(id.PrefixTracker, id.DefaultLength)
		if err != nil {
			return err
		}
		t.SID = sid
	}
	return nil
}
