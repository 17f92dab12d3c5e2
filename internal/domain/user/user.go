package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/eridehero/eridehero/internal/shared/biztime"
)

// Roles assigned to accounts. Registration and OAuth sign-ups always get
// the low-privilege subscriber role.
const (
	RoleSubscriber    = "subscriber"
	RoleAdministrator = "administrator"
)

// User is the account identity record. Login and Email are unique across
// the store. PasswordHash is nil for OAuth-only accounts that never set a
// local password.
type User struct {
	ID             uint
	SID            string
	Login          string
	Email          string
	DisplayName    string
	PasswordHash   *string
	Role           string
	RegistrationIP string

	// Password-reset key, stored hashed; single-use with a bounded lifetime.
	ResetKeyHash     *string
	ResetKeyIssuedAt *time.Time

	// LastNotifiedAt tracks the most recent outbound notification, used by
	// the roundup and price-alert jobs to pace sends.
	LastNotifiedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewUser(login, email, displayName string) (*User, error) {
	login = strings.TrimSpace(login)
	email = strings.ToLower(strings.TrimSpace(email))
	if login == "" {
		return nil, fmt.Errorf("login is required")
	}
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if displayName == "" {
		displayName = login
	}

	now := biztime.NowUTC()
	return &User{
		Login:       login,
		Email:       email,
		DisplayName: displayName,
		Role:        RoleSubscriber,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// HasPassword reports whether the account can authenticate with local
// credentials.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

func (u *User) IsAdministrator() bool {
	return u.Role == RoleAdministrator
}

func (u *User) SetPasswordHash(hash string) {
	u.PasswordHash = &hash
	u.UpdatedAt = biztime.NowUTC()
}

// IssueResetKey records the hash of a freshly generated reset key.
func (u *User) IssueResetKey(keyHash string) {
	now := biztime.NowUTC()
	u.ResetKeyHash = &keyHash
	u.ResetKeyIssuedAt = &now
	u.UpdatedAt = now
}

// ClearResetKey invalidates any outstanding reset key.
func (u *User) ClearResetKey() {
	u.ResetKeyHash = nil
	u.ResetKeyIssuedAt = nil
	u.UpdatedAt = biztime.NowUTC()
}

// ResetKeyExpired reports whether the outstanding reset key is older than
// the supplied lifetime. A missing key counts as expired.
func (u *User) ResetKeyExpired(lifetime time.Duration) bool {
	if u.ResetKeyHash == nil || u.ResetKeyIssuedAt == nil {
		return true
	}
	return biztime.NowUTC().Sub(*u.ResetKeyIssuedAt) > lifetime
}
