package models

import "time"

// SessionModel persists login sessions keyed by UUID.
type SessionModel struct {
	ID             string `gorm:"primarykey;size:36"`
	UserID         uint   `gorm:"not null;index:idx_sessions_user"`
	DeviceName     string `gorm:"size:100"`
	DeviceType     string `gorm:"size:20"`
	IPAddress      string `gorm:"size:45"`
	UserAgent      string `gorm:"size:500"`
	ExpiresAt      time.Time `gorm:"index:idx_sessions_expires"`
	LastActivityAt time.Time
	CreatedAt      time.Time
}

// TableName specifies the table name for GORM
func (SessionModel) TableName() string {
	return "sessions"
}
