package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/storefront/storefront-go/internal/crypto"
)

// User represents a user in the database.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsVerified   bool
	CreatedAt    time.Time
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks field presence and the column limits of the users table.
// Password length is counted in bytes because bcrypt truncates at 72.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.RuneLength(1, 30)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.By(maxBytes(crypto.MaxPasswordLength))),
	)
}

// TokenResponse is returned by the login endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	Type        string `json:"Type"`
}

// ProfileResponse describes the authenticated user and their business logo.
type ProfileResponse struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	IsVerified bool   `json:"is_verify"`
	CreatedAt  string `json:"created_at"`
	Logo       string `json:"logo"`
}

// ProfileDateLayout renders created_at as e.g. "Jan 02 2006".
const ProfileDateLayout = "Jan 02 2006"
