package domain

import (
	"errors"
	"fmt"
	"time"
)

// TokenKind distinguishes short-lived access tokens from refresh tokens.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

var (
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrAccessTokenRequired    = errors.New("access token required")
	ErrRefreshTokenRequired   = errors.New("refresh token required")
	ErrInsufficientPermission = errors.New("insufficient permissions")
	ErrPrincipalNotFound      = errors.New("principal not found")
)

// ErrTokenExpired and ErrTokenRevoked are specializations of ErrInvalidToken:
// errors.Is(ErrTokenExpired, ErrInvalidToken) holds.
var (
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrInvalidToken)
	ErrTokenRevoked = fmt.Errorf("%w: token revoked", ErrInvalidToken)
)

// UserClaims is the principal part of a token payload. Role is only set on
// access tokens issued at login.
type UserClaims struct {
	Username string `json:"username"`
	UserUID  string `json:"user_uid"`
	Role     Role   `json:"role,omitempty"`
}

// Claims is the decoded payload of a verified token.
type Claims struct {
	ID        string
	User      UserClaims
	Kind      TokenKind
	IssuedAt  time.Time
	ExpiresAt time.Time
}
