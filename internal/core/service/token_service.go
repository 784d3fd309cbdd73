package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tekblok/fieldtask/internal/core/domain"
	"github.com/tekblok/fieldtask/internal/core/ports"
	"github.com/tekblok/fieldtask/internal/pkg/metrics"
)

const (
	DefaultAccessTTL  = 30 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// tokenClaims is the signed payload. The refresh flag is the only thing that
// distinguishes the two token kinds on the wire. iat_ns keeps the issue
// instant finer than the whole seconds of iat so user-wide cut-offs are exact.
type tokenClaims struct {
	User       domain.UserClaims `json:"user"`
	Refresh    bool              `json:"refresh"`
	IssuedNano int64             `json:"iat_ns,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 session tokens.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	revoker    ports.TokenRevoker
	now        func() time.Time
	logger     zerolog.Logger
}

type TokenOption func(*TokenService)

// WithRevoker makes Verify consult a revocation list.
func WithRevoker(r ports.TokenRevoker) TokenOption {
	return func(s *TokenService) { s.revoker = r }
}

// WithClock replaces time.Now for issuing and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func WithTokenLogger(logger zerolog.Logger) TokenOption {
	return func(s *TokenService) { s.logger = logger }
}

// NewTokenService builds a TokenService. Zero TTLs fall back to the defaults;
// negative ones are rejected.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token service: empty signing secret")
	}
	if accessTTL == 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL == 0 {
		refreshTTL = DefaultRefreshTTL
	}
	if accessTTL < 0 || refreshTTL < 0 {
		return nil, fmt.Errorf("token service: lifetimes must be positive (access %s, refresh %s)", accessTTL, refreshTTL)
	}

	s := &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RefreshTTL is the lifetime of refresh tokens, which bounds how long a
// user-wide revocation has to be remembered.
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

// Issue signs a token of the given kind for p. Access tokens carry the role;
// refresh tokens only identify the user.
func (s *TokenService) Issue(p *domain.Principal, kind domain.TokenKind) (string, *domain.Claims, error) {
	if p == nil {
		return "", nil, domain.ErrPrincipalNotFound
	}

	var ttl time.Duration
	switch kind {
	case domain.TokenAccess:
		ttl = s.accessTTL
	case domain.TokenRefresh:
		ttl = s.refreshTTL
	default:
		return "", nil, fmt.Errorf("issue token: unknown kind %q", kind)
	}

	issued := s.now().UTC()
	expires := issued.Truncate(time.Second).Add(ttl)

	user := domain.UserClaims{Username: p.Username, UserUID: p.ID}
	if kind == domain.TokenAccess {
		user.Role = p.Role
	}

	id := uuid.NewString()
	claims := tokenClaims{
		User:       user,
		Refresh:    kind == domain.TokenRefresh,
		IssuedNano: issued.UnixNano(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	metrics.TokensIssuedTotal.WithLabelValues(string(kind)).Inc()

	return signed, &domain.Claims{
		ID:        id,
		User:      user,
		Kind:      kind,
		IssuedAt:  issued,
		ExpiresAt: expires,
	}, nil
}

// Verify checks signature, algorithm and expiry, then the revocation list.
// An expired token yields domain.ErrTokenExpired whether or not its signature
// holds; every failure matches domain.ErrInvalidToken.
func (s *TokenService) Verify(ctx context.Context, token string) (*domain.Claims, error) {
	var tc tokenClaims
	_, err := jwt.ParseWithClaims(token, &tc,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) || s.expiredUnverified(token) {
			metrics.TokenRejectionsTotal.WithLabelValues("expired").Inc()
			return nil, domain.ErrTokenExpired
		}
		metrics.TokenRejectionsTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if tc.User.UserUID == "" || tc.User.Username == "" || tc.IssuedAt == nil {
		metrics.TokenRejectionsTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: missing user claims", domain.ErrInvalidToken)
	}

	claims := &domain.Claims{
		ID:        tc.ID,
		User:      tc.User,
		Kind:      domain.TokenAccess,
		IssuedAt:  tc.IssuedAt.Time.UTC(),
		ExpiresAt: tc.ExpiresAt.Time.UTC(),
	}
	if tc.IssuedNano != 0 {
		claims.IssuedAt = time.Unix(0, tc.IssuedNano).UTC()
	}
	if tc.Refresh {
		claims.Kind = domain.TokenRefresh
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, claims)
		if err != nil {
			// fail open
			s.logger.Warn().Err(err).Str("jti", claims.ID).Msg("revocation check failed")
		} else if revoked {
			metrics.TokenRejectionsTotal.WithLabelValues("revoked").Inc()
			return nil, domain.ErrTokenRevoked
		}
	}
	return claims, nil
}

// expiredUnverified reports whether the token's own exp claim lies in the
// past, without trusting anything else in it. Expiry takes precedence over
// signature failures when reporting why a token was refused.
func (s *TokenService) expiredUnverified(token string) bool {
	var tc tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &tc); err != nil || tc.ExpiresAt == nil {
		return false
	}
	return !s.now().Before(tc.ExpiresAt.Time)
}

// RequireKind rejects claims of the wrong kind with the error that names the
// kind that was expected.
func RequireKind(claims *domain.Claims, kind domain.TokenKind) error {
	if claims == nil {
		return domain.ErrInvalidToken
	}
	if claims.Kind == kind {
		return nil
	}
	metrics.TokenRejectionsTotal.WithLabelValues("wrong_kind").Inc()
	if kind == domain.TokenRefresh {
		return domain.ErrRefreshTokenRequired
	}
	return domain.ErrAccessTokenRequired
}

// Revoke puts a single token on the revocation list until it expires.
func (s *TokenService) Revoke(ctx context.Context, claims *domain.Claims) error {
	if s.revoker == nil || claims == nil {
		return nil
	}
	if err := s.revoker.RevokeToken(ctx, claims.ID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// RevokeUser invalidates every token issued to userID before now.
func (s *TokenService) RevokeUser(ctx context.Context, userID string) error {
	if s.revoker == nil {
		return nil
	}
	if err := s.revoker.RevokeUser(ctx, userID, s.now().UTC()); err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}
	return nil
}
