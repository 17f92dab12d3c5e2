package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/eridehero/eridehero/internal/shared/id"
)

// UserModel represents the database persistence model for user accounts.
// This is the anti-corruption layer between domain and database.
type UserModel struct {
	ID               uint    `gorm:"primarykey"`
	SID              string  `gorm:"uniqueIndex;not null;size:32"`
	Login            string  `gorm:"uniqueIndex;not null;size:50"`
	Email            string  `gorm:"uniqueIndex;not null;size:255"`
	DisplayName      string  `gorm:"not null;size:100"`
	PasswordHash     *string `gorm:"size:255"`
	Role             string  `gorm:"not null;default:subscriber;size:20"`
	RegistrationIP   string  `gorm:"size:45"`
	ResetKeyHash     *string `gorm:"size:255"`
	ResetKeyIssuedAt *time.Time
	LastNotifiedAt   *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// BeforeCreate hook for GORM
func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.SID == "" {
		sid, err := id.GenerateWithPrefix(id.PrefixUser, id.DefaultLength)
		if err != nil {
			return err
		}
		u.SID = sid
	}
	if u.Role == "" {
		u.Role = "subscriber"
	}
	return nil
}
