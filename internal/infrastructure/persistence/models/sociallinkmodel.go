package models

import "time"

// SocialLinkModel persists OAuth provider identity links. The composite
// unique index enforces that one provider identity maps to one user.
type SocialLinkModel struct {
	ID             uint   `gorm:"primarykey"`
	UserID         uint   `gorm:"not null;index:idx_social_links_user"`
	Provider       string `gorm:"not null;size:20;uniqueIndex:idx_provider_identity"`
	ProviderUserID string `gorm:"not null;size:255;uniqueIndex:idx_provider_identity"`
	ProviderEmail  string `gorm:"size:255"`
	LastLoginAt    *time.Time
	LoginCount     uint `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the table name for GORM
func (SocialLinkModel) TableName() string {
	return "social_links"
}
