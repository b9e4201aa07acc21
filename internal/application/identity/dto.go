package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/sprayshop/backend/internal/domain/identity"
	"github.com/sprayshop/backend/internal/infrastructure/auth"
)

// SignUpRequest is the input for creating an account.
type SignUpRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	DisplayName string `json:"display_name" binding:"omitempty,max=100"`
}

// SignInRequest is the input for authenticating.
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token. Browser clients may omit it
// and rely on the refresh cookie instead.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserResponse is the API representation of an account.
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name,omitempty"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// SessionResponse is returned from sign-up, sign-in, and refresh.
type SessionResponse struct {
	User   UserResponse    `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// ToUserResponse maps a domain user to its API representation.
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Status:      string(u.Status),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
