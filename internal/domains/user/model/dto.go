package model

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// ========================================
// AUTH DTOs
// ========================================

// RegisterRequest - POST /auth/register
type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required.Error("This field is required."),
			validation.RuneLength(1, 150).Error("Ensure this field has no more than 150 characters."),
			validation.Match(usernamePattern).Error("Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."),
		),
		validation.Field(&r.Email,
			validation.Required.Error("This field is required."),
			is.EmailFormat.Error("Enter a valid email address."),
			validation.RuneLength(3, 254),
		),
		validation.Field(&r.Password,
			validation.Required.Error("This field is required."),
			validation.RuneLength(8, 128).Error("Ensure this field has at least 8 characters."),
		),
		validation.Field(&r.FirstName, validation.RuneLength(0, 150)),
		validation.Field(&r.LastName, validation.RuneLength(0, 150)),
	)
}

// LoginRequest - POST /auth/login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required.Error("This field is required.")),
		validation.Field(&r.Password, validation.Required.Error("This field is required.")),
	)
}

// LoginResponse - JWT tokens
type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         *Summary  `json:"user"`
}

// RefreshTokenRequest - POST /auth/refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type RefreshTokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}
