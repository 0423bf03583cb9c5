package dtos

import (
	"time"

	"github.com/justsurfingit/alumni-hub/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// ProfileUpdateRequest replaces the name (when set) and the whole profile document.
type ProfileUpdateRequest struct {
	Name    string         `json:"name"`
	Profile models.Profile `json:"profile"`
}
