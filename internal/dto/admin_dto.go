package dto

import (
	"time"

	"github.com/google/uuid"
)

type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin moderator player"`
}

type AdminUserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
