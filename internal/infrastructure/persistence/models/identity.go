package models

import (
	"time"

	"github.com/sprayshop/backend/internal/domain/identity"
)

// UserModel is the persistence mapping for identity.User.
type UserModel struct {
	AggregateModel
	Email          string     `gorm:"column:email;type:varchar(255);not null;uniqueIndex"`
	PasswordHash   string     `gorm:"column:password_hash;type:varchar(255);not null"`
	DisplayName    string     `gorm:"column:display_name;type:varchar(100)"`
	Status         string     `gorm:"column:status;type:varchar(32);not null"`
	LastLoginAt    *time.Time `gorm:"column:last_login_at"`
	LastLoginIP    string     `gorm:"column:last_login_ip;type:varchar(45)"`
	FailedAttempts int        `gorm:"column:failed_attempts;not null;default:0"`
	LockedUntil    *time.Time `gorm:"column:locked_until"`
}

// TableName returns the table name for users.
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain user.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		DisplayName:       m.DisplayName,
		Status:            identity.UserStatus(m.Status),
		LastLoginAt:       m.LastLoginAt,
		LastLoginIP:       m.LastLoginIP,
		FailedAttempts:    m.FailedAttempts,
		LockedUntil:       m.LockedUntil,
	}
}

// FromDomain copies domain state into the model.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromAggregateRoot(u.BaseAggregateRoot)
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.DisplayName = u.DisplayName
	m.Status = string(u.Status)
	m.LastLoginAt = u.LastLoginAt
	m.LastLoginIP = u.LastLoginIP
	m.FailedAttempts = u.FailedAttempts
	m.LockedUntil = u.LockedUntil
}

// UserModelFromDomain builds a fresh model from a domain user.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
