package user

import (
	"fmt"
	"time"

	"github.com/eridehero/eridehero/internal/shared/biztime"
)

// OAuth provider names. The set is closed; the provider registry rejects
// anything else.
const (
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
	ProviderReddit   = "reddit"
)

func ValidProvider(name string) bool {
	switch name {
	case ProviderGoogle, ProviderFacebook, ProviderReddit:
		return true
	}
	return false
}

// SocialLink ties a user to one OAuth provider identity. A given
// (provider, provider user ID) pair resolves to at most one user; the
// repository enforces that before writing.
type SocialLink struct {
	ID             uint
	UserID         uint
	Provider       string
	ProviderUserID string
	ProviderEmail  string
	LastLoginAt    *time.Time
	LoginCount     uint
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewSocialLink(userID uint, provider, providerUserID, providerEmail string) (*SocialLink, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !ValidProvider(provider) {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
	if providerUserID == "" {
		return nil, fmt.Errorf("provider user ID is required")
	}

	now := biztime.NowUTC()
	return &SocialLink{
		UserID:         userID,
		Provider:       provider,
		ProviderUserID: providerUserID,
		ProviderEmail:  providerEmail,
		LoginCount:     1,
		LastLoginAt:    &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (l *SocialLink) RecordLogin() {
	l.LoginCount++
	now := biztime.NowUTC()
	l.LastLoginAt = &now
	l.UpdatedAt = now
}
