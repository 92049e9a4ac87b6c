package users

import (
	"github.com/batoolr/reviewhub-backend/pkg/db/models"
	"github.com/batoolr/reviewhub-backend/pkg/enums"
)

// CreateUserDTO carries the fields needed to persist a new user.
type CreateUserDTO struct {
	Username     string
	Email        string
	PasswordHash string
	Role         enums.UserRole
}

// ToModel maps the DTO onto a models.User ready for insertion.
func (d CreateUserDTO) ToModel() *models.User {
	role := d.Role
	if !role.IsValid() {
		role = enums.UserRoleUser
	}
	return &models.User{
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         role,
		IsActive:     true,
	}
}
