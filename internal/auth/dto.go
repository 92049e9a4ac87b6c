package auth

import (
	"time"

	"github.com/batoolr/reviewhub-backend/pkg/db/models"
	"github.com/batoolr/reviewhub-backend/pkg/enums"
	"github.com/google/uuid"
)

// RegisterRequest contains the payload required to create an account.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest carries the login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserSummary is the public shape of an account.
type UserSummary struct {
	ID          uuid.UUID      `json:"id"`
	Username    string         `json:"username"`
	Email       string         `json:"email"`
	Role        enums.UserRole `json:"role"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// LoginResponse is returned from a successful login.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	User        UserSummary `json:"user"`
}

// FromModel maps a persisted user onto its public summary.
func FromModel(user *models.User) UserSummary {
	if user == nil {
		return UserSummary{}
	}
	return UserSummary{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        user.Role,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}
