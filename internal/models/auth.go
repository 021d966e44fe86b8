package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims is the access token payload issued to the messaging gateway on
// behalf of a platform user.
type JWTClaims struct {
	UserID      int64    `json:"uid"`
	DisplayName string   `json:"display_name"`
	Role        UserRole `json:"role"`
	jwt.RegisteredClaims
}

// SessionResponse returns the issued token and the resolved user.
type SessionResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	User        User      `json:"user"`
}
