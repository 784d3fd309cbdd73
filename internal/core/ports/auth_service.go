package ports

import (
	"context"
	"time"

	"github.com/tekblok/fieldtask/internal/core/domain"
)

// SignupInput carries a new account's details.
type SignupInput struct {
	Username string
	FullName string
	Role     domain.Role
	Password string
}

// UserPatch holds the optional fields an admin may change on an account.
type UserPatch struct {
	Username *string
	FullName *string
	Role     *domain.Role
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Refresh(ctx context.Context, refresh *domain.Claims) (string, error)
	Logout(ctx context.Context, access *domain.Claims, refreshToken string) error
	ChangePassword(ctx context.Context, p *domain.Principal, current, next string) error

	// Account administration; callers gate these behind an admin-only route.
	ListUsers(ctx context.Context) ([]*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
	SetPassword(ctx context.Context, id, password string) error
}

// TokenRevoker is the optional server-side revocation list consulted while
// verifying tokens.
type TokenRevoker interface {
	// RevokeToken blocks a single token until its natural expiry.
	RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error
	// RevokeUser blocks every token of userID issued before cutoff.
	RevokeUser(ctx context.Context, userID string, cutoff time.Time) error
	IsRevoked(ctx context.Context, claims *domain.Claims) (bool, error)
}
