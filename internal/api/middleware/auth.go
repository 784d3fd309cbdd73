package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tekblok/fieldtask/internal/core/domain"
	"github.com/tekblok/fieldtask/internal/core/ports"
	"github.com/tekblok/fieldtask/internal/core/service"
)

// Context keys set by Authenticate.
const (
	ContextClaims    = "claims"
	ContextToken     = "token"
	ContextPrincipal = "principal"
)

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*domain.Claims, error)
}

// Authenticate validates the bearer token, requires it to be of the given
// kind and injects claims into context. For access tokens the principal is
// resolved from the user store, so the role always reflects the current
// account; it is left nil when the account no longer exists.
func Authenticate(tokens TokenVerifier, users ports.UserRepository, kind domain.TokenKind) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			ctx := c.Request().Context()
			claims, err := tokens.Verify(ctx, parts[1])
			if err != nil {
				return err
			}
			if err := service.RequireKind(claims, kind); err != nil {
				return err
			}

			c.Set(ContextClaims, claims)
			c.Set(ContextToken, parts[1])

			if kind == domain.TokenAccess {
				user, err := users.FindByID(ctx, claims.User.UserUID)
				switch {
				case err == nil:
					c.Set(ContextPrincipal, user.Principal())
				case !errors.Is(err, domain.ErrUserNotFound):
					return err
				}
			}

			return next(c)
		}
	}
}

// ClaimsFrom returns the verified claims, or nil outside Authenticate.
func ClaimsFrom(c echo.Context) *domain.Claims {
	claims, _ := c.Get(ContextClaims).(*domain.Claims)
	return claims
}

// PrincipalFrom returns the resolved principal, or nil when none was found.
func PrincipalFrom(c echo.Context) *domain.Principal {
	p, _ := c.Get(ContextPrincipal).(*domain.Principal)
	return p
}
