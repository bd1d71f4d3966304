package types

import "github.com/golang-jwt/jwt/v5"

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email    string  `json:"email" example:"new@example.com"`
	Password string  `json:"password" example:"secret123"` // min length 6
	Name     *string `json:"name,omitempty" example:"New User"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" example:"admin@example.com"`
	Password string `json:"password" example:"password123"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// MeResponse is returned by GET /api/auth/me.
type MeResponse struct {
	User *User `json:"user"`
}

// Claims is the payload of a session token.
type Claims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
