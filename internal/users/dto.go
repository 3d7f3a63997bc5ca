package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/refaccionariaweb/storefront-backend/pkg/db/models"
	"github.com/refaccionariaweb/storefront-backend/pkg/enums"
)

// UserDTO is the serializable account view returned after login.
type UserDTO struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	FullName    string         `json:"full_name"`
	Role        enums.UserRole `json:"role"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
}

// FromModel maps a persisted user onto the DTO.
func FromModel(user *models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		Role:        user.Role,
		LastLoginAt: user.LastLoginAt,
	}
}
