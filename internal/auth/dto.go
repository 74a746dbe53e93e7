package auth

import (
	"github.com/milsabores/pasteleria-backend/internal/users"
)

// LoginRequest is the credential payload for customer and admin login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the token pair plus the safe user projection.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}

// RegisterRequest captures the storefront signup payload. The birth date and
// the optional promo code feed the discount rules, so they are collected at
// registration and never editable through the storefront afterwards.
type RegisterRequest struct {
	FirstName        string  `json:"first_name" validate:"required"`
	LastName         string  `json:"last_name" validate:"required"`
	Email            string  `json:"email" validate:"required,email"`
	Password         string  `json:"password" validate:"required,min=8"`
	Phone            *string `json:"phone,omitempty"`
	BirthDate        *string `json:"birth_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	RegistrationCode *string `json:"registration_code,omitempty"`
}

// RefreshRequest rotates a refresh token against its (possibly expired)
// access token.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse carries the replacement token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
