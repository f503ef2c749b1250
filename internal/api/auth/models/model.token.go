package models

import "github.com/dgrijalva/jwt-go"

// JwtToken is the claim set signed into every access token.
type JwtToken struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	User      User   `json:"user"`
}
