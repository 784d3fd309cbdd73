package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/tekblok/fieldtask/internal/core/domain"
	"github.com/tekblok/fieldtask/internal/core/ports"
)

const (
	MaxUsernameLen       = 25
	MaxFullNameLen       = 30
	MinSignupPasswordLen = 6
	MinNewPasswordLen    = 8
)

// AuthService implements registration, sessions and account administration.
type AuthService struct {
	repo   ports.UserRepository
	tokens *TokenService
	logger zerolog.Logger
	now    func() time.Time
}

func NewAuthService(repo ports.UserRepository, tokens *TokenService, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, logger: logger, now: time.Now}
}

func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" || len(username) > MaxUsernameLen || len(in.FullName) > MaxFullNameLen {
		return nil, domain.ErrInvalidCredentials
	}
	if !in.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	if len(in.Password) < MinSignupPasswordLen {
		return nil, domain.ErrWeakPassword
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		FullName:     in.FullName,
		Role:         in.Role,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	p := user.Principal()
	access, _, err := s.tokens.Issue(p, domain.TokenAccess)
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.tokens.Issue(p, domain.TokenRefresh)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return &ports.LoginResult{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// Refresh mints a new access token from verified refresh claims. The account
// must still exist; like the refresh token itself, the new token identifies
// the user without carrying a role.
func (s *AuthService) Refresh(ctx context.Context, claims *domain.Claims) (string, error) {
	if err := RequireKind(claims, domain.TokenRefresh); err != nil {
		return "", err
	}

	user, err := s.repo.FindByID(ctx, claims.User.UserUID)
	if err != nil {
		return "", err
	}

	access, _, err := s.tokens.Issue(&domain.Principal{ID: user.ID, Username: user.Username}, domain.TokenAccess)
	return access, err
}

// Logout revokes the presented access token and, when given, the paired
// refresh token.
func (s *AuthService) Logout(ctx context.Context, access *domain.Claims, refreshToken string) error {
	if err := s.tokens.Revoke(ctx, access); err != nil {
		return err
	}
	if refreshToken == "" {
		return nil
	}

	refresh, err := s.tokens.Verify(ctx, refreshToken)
	if err != nil {
		return err
	}
	if err := RequireKind(refresh, domain.TokenRefresh); err != nil {
		return err
	}
	if access != nil && refresh.User.UserUID != access.User.UserUID {
		return fmt.Errorf("%w: refresh token belongs to another user", domain.ErrInvalidToken)
	}
	return s.tokens.Revoke(ctx, refresh)
}

func (s *AuthService) ChangePassword(ctx context.Context, p *domain.Principal, current, next string) error {
	if p == nil {
		return domain.ErrPrincipalNotFound
	}

	user, err := s.repo.FindByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return domain.ErrInvalidCredentials
	}
	if len(next) < MinNewPasswordLen {
		return domain.ErrWeakPassword
	}
	return s.setPassword(ctx, user, next)
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateUser applies an admin edit. A role change revokes the user's sessions
// so the next access token carries the new role.
func (s *AuthService) UpdateUser(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	roleChanged := false
	if patch.Username != nil {
		username := strings.TrimSpace(*patch.Username)
		if username == "" || len(username) > MaxUsernameLen {
			return nil, domain.ErrInvalidCredentials
		}
		if username != user.Username {
			if _, err := s.repo.FindByUsername(ctx, username); err == nil {
				return nil, domain.ErrUserExists
			} else if !errors.Is(err, domain.ErrUserNotFound) {
				return nil, fmt.Errorf("lookup user: %w", err)
			}
			user.Username = username
		}
	}
	if patch.FullName != nil {
		if len(*patch.FullName) > MaxFullNameLen {
			return nil, domain.ErrInvalidCredentials
		}
		user.FullName = *patch.FullName
	}
	if patch.Role != nil {
		if !patch.Role.Valid() {
			return nil, domain.ErrInvalidRole
		}
		roleChanged = *patch.Role != user.Role
		user.Role = *patch.Role
	}

	user.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	if roleChanged {
		if err := s.tokens.RevokeUser(ctx, user.ID); err != nil {
			s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("could not revoke sessions after role change")
		}
	}
	return user, nil
}

func (s *AuthService) DeleteUser(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.tokens.RevokeUser(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("user_id", id).Msg("could not revoke sessions of deleted user")
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

// SetPassword replaces a user's password without knowing the current one.
func (s *AuthService) SetPassword(ctx context.Context, id, password string) error {
	if len(password) < MinNewPasswordLen {
		return domain.ErrWeakPassword
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return s.setPassword(ctx, user, password)
}

func (s *AuthService) setPassword(ctx context.Context, user *domain.User, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}
	if err := s.tokens.RevokeUser(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("could not revoke sessions after password change")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
