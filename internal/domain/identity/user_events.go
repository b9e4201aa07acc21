package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/sprayshop/backend/internal/domain/shared"
)

// UserCreatedEvent is raised when a new user account is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// EventType returns the event type name
func (e *UserCreatedEvent) EventType() string {
	return "UserCreated"
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(u *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("UserCreated", "User", u.ID),
		UserID:          u.ID,
		Email:           u.Email,
	}
}

// UserPasswordChangedEvent is raised when a user changes their password
type UserPasswordChangedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
}

// EventType returns the event type name
func (e *UserPasswordChangedEvent) EventType() string {
	return "UserPasswordChanged"
}

// NewUserPasswordChangedEvent creates a new UserPasswordChangedEvent
func NewUserPasswordChangedEvent(u *User) *UserPasswordChangedEvent {
	return &UserPasswordChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("UserPasswordChanged", "User", u.ID),
		UserID:          u.ID,
	}
}

// UserLockedEvent is raised when an account is locked after repeated
// failed login attempts
type UserLockedEvent struct {
	shared.BaseDomainEvent
	UserID      uuid.UUID  `json:"user_id"`
	Email       string     `json:"email"`
	LockedUntil *time.Time `json:"locked_until,omitempty"`
}

// EventType returns the event type name
func (e *UserLockedEvent) EventType() string {
	return "UserLocked"
}

// NewUserLockedEvent creates a new UserLockedEvent
func NewUserLockedEvent(u *User) *UserLockedEvent {
	return &UserLockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("UserLocked", "User", u.ID),
		UserID:          u.ID,
		Email:           u.Email,
		LockedUntil:     u.LockedUntil,
	}
}
