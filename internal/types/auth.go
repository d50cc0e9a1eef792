package types

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNotFound = errors.New("requested item not found")
var ErrConflict = errors.New("item already exists or conflict")
var ErrUnauthenticated = errors.New("authentication required or invalid credentials")
var ErrBadRequest = errors.New("invalid request")

// UserAuth represents the core user entity in the domain.
type UserAuth struct {
	ID        int64     `json:"id" example:"1"`                       // Monotonic surrogate key assigned by the database.
	Username  string    `json:"username" example:"johndoe"`           // Display name.
	Email     string    `json:"email" example:"john.doe@example.com"` // Unique email address used for login.
	Password  string    `json:"-"`                                    // Hashed password (never exposed).
	CreatedAt time.Time `json:"created_at"`                           // Timestamp when the user was created.
	UpdatedAt time.Time `json:"updated_at"`                           // Timestamp when the user was last updated.
}

// UserEmail is the narrow projection returned by the user listing.
type UserEmail struct {
	Email string `json:"email" example:"john.doe@example.com"`
}

// LoginRequest represents the expected JSON body for user login.
type LoginRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"password123"`
}

// LoginResponse represents the successful JSON response after login.
type LoginResponse struct {
	Message  string `json:"message" example:"Login successful"`
	Token    string `json:"token" example:"eyJhbGciOiJI..."`
	Username string `json:"username" example:"johndoe"`
}

// SignupRequest represents the expected JSON body for user registration.
type SignupRequest struct {
	Username string `json:"username" example:"johndoe"`
	Email    string `json:"email" example:"newuser@example.com"`
	Password string `json:"password" example:"Str0ngP@ss!"`
}

// SignupResponse represents the successful JSON response after registration.
type SignupResponse struct {
	Message string `json:"message" example:"Signup successful!"`
}

// Response represents a generic API response for success or error messages.
type Response struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty" example:"Operation successful"`
	Error   string `json:"error,omitempty" example:"Resource not found"`
}

// Claims represents the claims included in the JWT access token.
type Claims struct {
	UserID               int64 `json:"user_id"` // Custom claim for the user's ID.
	jwt.RegisteredClaims       // Standard claims (ExpiresAt, IssuedAt, Issuer, ID).
}
