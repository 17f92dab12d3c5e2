package user

import "context"

// Repository defines the interface for user data operations
type Repository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by internal ID
	GetByID(ctx context.Context, id uint) (*User, error)

	// GetByEmail retrieves a user by email; nil when no match
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByLogin retrieves a user by login name; nil when no match
	GetByLogin(ctx context.Context, login string) (*User, error)

	// GetByLoginOrEmail tries login first, then email; nil when no match
	GetByLoginOrEmail(ctx context.Context, loginOrEmail string) (*User, error)

	// Update updates an existing user
	Update(ctx context.Context, user *User) error

	// Delete soft deletes a user by internal ID
	Delete(ctx context.Context, id uint) error

	// ExistsByLogin checks login uniqueness
	ExistsByLogin(ctx context.Context, login string) (bool, error)

	// ExistsByEmail checks email uniqueness
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// GetPreferences returns the user's preferences, applying defaults
	// when none were ever written
	GetPreferences(ctx context.Context, userID uint) (*Preferences, error)

	// UpdatePreferences applies a batch preference write; only the
	// provided fields change, and the preferences-set flag is raised
	UpdatePreferences(ctx context.Context, userID uint, update PreferencesUpdate) (*Preferences, error)

	// ListRoundupSubscribers returns users opted into the sales roundup,
	// optionally filtered by frequency
	ListRoundupSubscribers(ctx context.Context, frequency *RoundupFrequency) ([]*User, error)

	// ListNewsletterSubscribers returns users opted into the newsletter
	ListNewsletterSubscribers(ctx context.Context) ([]*User, error)
}

// SocialLinkRepository manages provider identity links. GetByProvider
// lookups return nil (not an error) when no link exists.
type SocialLinkRepository interface {
	// Create writes a new link after verifying the (provider, provider
	// user ID) pair is not already claimed; returns ErrProviderLinked
	// when it is
	Create(ctx context.Context, link *SocialLink) error

	GetByProviderID(ctx context.Context, provider, providerUserID string) (*SocialLink, error)
	GetByUserAndProvider(ctx context.Context, userID uint, provider string) (*SocialLink, error)
	ListByUser(ctx context.Context, userID uint) ([]*SocialLink, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	Update(ctx context.Context, link *SocialLink) error
	Delete(ctx context.Context, userID uint, provider string) error
}

// SessionRepository persists login sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
