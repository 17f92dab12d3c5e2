package user

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/eridehero/eridehero/internal/shared/biztime"
)

type Session struct {
	ID             string
	UserID         uint
	DeviceName     string
	DeviceType     string
	IPAddress      string
	UserAgent      string
	ExpiresAt      time.Time
	LastActivityAt time.Time
	CreatedAt      time.Time
}

func NewSession(userID uint, deviceName, deviceType, ipAddress, userAgent string, expiresAt time.Time) (*Session, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}

	now := biztime.NowUTC()
	return &Session{
		ID:             uuid.NewString(),
		UserID:         userID,
		DeviceName:     deviceName,
		DeviceType:     deviceType,
		IPAddress:      ipAddress,
		UserAgent:      userAgent,
		ExpiresAt:      expiresAt,
		LastActivityAt: now,
		CreatedAt:      now,
	}, nil
}

func (s *Session) IsExpired() bool {
	return biztime.NowUTC().After(s.ExpiresAt)
}
