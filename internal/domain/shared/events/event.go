package events

import (
	"strconv"
	"time"

	"github.com/eridehero/eridehero/internal/shared/biztime"
)

// DomainEvent represents a domain event interface
type DomainEvent interface {
	// GetAggregateID returns the ID of the aggregate that generated the event
	GetAggregateID() string

	// GetEventType returns the type/name of the event
	GetEventType() string

	// GetOccurredAt returns when the event occurred
	GetOccurredAt() time.Time
}

// BaseEvent provides common fields for all domain events
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (e BaseEvent) GetAggregateID() string {
	return e.AggregateID
}

func (e BaseEvent) GetEventType() string {
	return e.EventType
}

func (e BaseEvent) GetOccurredAt() time.Time {
	return e.OccurredAt
}

// EventHandler represents a handler for domain events
type EventHandler interface {
	Handle(event DomainEvent) error
}

const (
	// EventUserRegistered fires when an account is created, whether by
	// local registration or OAuth sign-up.
	EventUserRegistered = "user.registered"
)

// UserRegistered carries the details the welcome-email handler needs.
type UserRegistered struct {
	BaseEvent
	UserID      uint   `json:"user_id"`
	Login       string `json:"login"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	// Source is "local" or an OAuth provider name.
	Source string `json:"source"`
}

func NewUserRegistered(userID uint, login, email, displayName, source string) UserRegistered {
	return UserRegistered{
		BaseEvent: BaseEvent{
			AggregateID: strconv.FormatUint(uint64(userID), 10),
			EventType:   EventUserRegistered,
			OccurredAt:  biztime.NowUTC(),
		},
		UserID:      userID,
		Login:       login,
		Email:       email,
		DisplayName: displayName,
		Source:      source,
	}
}
