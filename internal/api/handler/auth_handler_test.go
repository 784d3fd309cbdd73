package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/tekblok/fieldtask/internal/api/middleware"
	"github.com/tekblok/fieldtask/internal/core/domain"
	"github.com/tekblok/fieldtask/internal/core/ports"
)

type stubAuthService struct {
	signupFn     func(ctx context.Context, in ports.SignupInput) (*domain.User, error)
	loginFn      func(ctx context.Context, username, password string) (*ports.LoginResult, error)
	refreshFn    func(ctx context.Context, claims *domain.Claims) (string, error)
	logoutFn     func(ctx context.Context, access *domain.Claims, refresh string) error
	changeFn     func(ctx context.Context, p *domain.Principal, current, next string) error
	getUserFn    func(ctx context.Context, id string) (*domain.User, error)
	updateUserFn func(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error)
}

func (s *stubAuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	return s.signupFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, claims *domain.Claims) (string, error) {
	return s.refreshFn(ctx, claims)
}

func (s *stubAuthService) Logout(ctx context.Context, access *domain.Claims, refresh string) error {
	return s.logoutFn(ctx, access, refresh)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, p *domain.Principal, current, next string) error {
	return s.changeFn(ctx, p, current, next)
}

func (s *stubAuthService) ListUsers(context.Context) ([]*domain.User, error) {
	return []*domain.User{{ID: "u-1", Username: "alice"}}, nil
}

func (s *stubAuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getUserFn(ctx, id)
}

func (s *stubAuthService) UpdateUser(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	return s.updateUserFn(ctx, id, patch)
}

func (s *stubAuthService) DeleteUser(context.Context, string) error { return nil }

func (s *stubAuthService) SetPassword(context.Context, string, string) error { return nil }

func TestAuthHandler_Signup_Success(t *testing.T) {
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
			if in.Username != "alice" || in.Role != domain.RoleWorker || in.FullName != "Alice Smith" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: "u-1", Username: in.Username, FullName: in.FullName, Role: in.Role}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/auth/signup",
		`{"username":"alice","full_name":"Alice Smith","role":"worker","password":"secret1"}`)
	if err := handler.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["username"] != "alice" || resp["role"] != "worker" || resp["uid"] != "u-1" {
		t.Fatalf("unexpected user payload: %+v", resp)
	}
	if _, leaked := resp["password_hash"]; leaked {
		t.Fatalf("password hash leaked")
	}
}

func TestAuthHandler_Signup_Validation(t *testing.T) {
	stub := &stubAuthService{
		signupFn: func(context.Context, ports.SignupInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	bodies := []string{
		`{"username":"alice","full_name":"A","role":"superuser","password":"secret1"}`,
		`{"username":"alice","full_name":"A","role":"worker","password":"123"}`,
		`{"username":"a-very-long-username-over-25","full_name":"A","role":"worker","password":"secret1"}`,
		`{"full_name":"A","role":"worker","password":"secret1"}`,
	}
	for _, body := range bodies {
		c, _ := newJSONContext(http.MethodPost, "/auth/signup", body)
		expectStatus(t, handler.Signup(c), http.StatusUnprocessableEntity)
	}
}

func TestAuthHandler_Signup_UserExists(t *testing.T) {
	stub := &stubAuthService{
		signupFn: func(context.Context, ports.SignupInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/auth/signup",
		`{"username":"bob","full_name":"Bob","role":"user","password":"secret1"}`)
	if err := handler.Signup(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Signup_InvalidPayload(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{})

	c, _ := newJSONContext(http.MethodPost, "/auth/signup", "not-json")
	expectStatus(t, handler.Signup(c), http.StatusBadRequest)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*ports.LoginResult, error) {
			if username != "alice" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &ports.LoginResult{
				AccessToken:  "access123",
				RefreshToken: "refresh123",
				User:         &domain.User{ID: "u-1", Username: "alice", Role: domain.RoleAdmin},
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/auth/login", `{"username":"alice","password":"secret"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.AccessToken != "access123" || resp.RefreshToken != "refresh123" || resp.TokenType != "bearer" {
		t.Fatalf("unexpected tokens: %+v", resp)
	}
	if resp.User == nil || resp.User.Username != "alice" {
		t.Fatalf("unexpected user payload: %+v", resp.User)
	}
}

func TestAuthHandler_Login_Form(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*ports.LoginResult, error) {
			if username != "alice" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &ports.LoginResult{AccessToken: "a", RefreshToken: "r", User: &domain.User{}}, nil
		},
	}
	handler := NewAuthHandler(stub)

	form := url.Values{"username": {"alice"}, "password": {"secret"}}
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()

	if err := handler.Login(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/auth/login", `{"username":"alice","password":"bad"}`)
	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{})

	c, _ := newJSONContext(http.MethodPost, "/auth/login", "{")
	expectStatus(t, handler.Login(c), http.StatusBadRequest)
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	refresh := &domain.Claims{ID: "jti-1", Kind: domain.TokenRefresh, User: domain.UserClaims{UserUID: "u-1", Username: "alice"}}
	stub := &stubAuthService{
		refreshFn: func(ctx context.Context, claims *domain.Claims) (string, error) {
			if claims != refresh {
				t.Fatalf("claims not passed through")
			}
			return "new-access", nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/auth/refresh_token", "")
	c.Set(middleware.ContextClaims, refresh)
	if err := handler.RefreshToken(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp refreshResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.AccessToken != "new-access" {
		t.Fatalf("unexpected token: %+v", resp)
	}
}

func TestAuthHandler_RefreshToken_NoClaims(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{})

	c, _ := newJSONContext(http.MethodPost, "/auth/refresh_token", "")
	expectStatus(t, handler.RefreshToken(c), http.StatusUnauthorized)
}

func TestAuthHandler_Logout_PassesRefreshToken(t *testing.T) {
	access := &domain.Claims{ID: "jti-a", Kind: domain.TokenAccess}
	var gotRefresh string
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, claims *domain.Claims, refresh string) error {
			if claims != access {
				t.Fatalf("access claims not passed through")
			}
			gotRefresh = refresh
			return nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/auth/logout", `{"refresh_token":"r-1"}`)
	c.Set(middleware.ContextClaims, access)
	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || gotRefresh != "r-1" {
		t.Fatalf("unexpected logout: code=%d refresh=%q", rec.Code, gotRefresh)
	}
}

func TestAuthHandler_Me_NoPrincipal(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{})

	c, _ := newJSONContext(http.MethodGet, "/auth/me", "")
	if err := handler.Me(c); !errors.Is(err, domain.ErrPrincipalNotFound) {
		t.Fatalf("expected ErrPrincipalNotFound, got %v", err)
	}
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	stub := &stubAuthService{
		changeFn: func(ctx context.Context, p *domain.Principal, current, next string) error {
			if p != workerP || current != "old-secret" || next != "new-secret" {
				t.Fatalf("unexpected args: %+v %s %s", p, current, next)
			}
			return nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/auth/change-password",
		`{"current_password":"old-secret","new_password":"new-secret"}`)
	if err := handler.ChangePassword(withPrincipal(c, workerP)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = newJSONContext(http.MethodPost, "/auth/change-password",
		`{"current_password":"old-secret","new_password":"short"}`)
	expectStatus(t, handler.ChangePassword(withPrincipal(c, workerP)), http.StatusUnprocessableEntity)
}

func TestAuthHandler_UpdateUser_MapsRole(t *testing.T) {
	stub := &stubAuthService{
		updateUserFn: func(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
			if id != "u-7" {
				t.Fatalf("unexpected id %q", id)
			}
			if patch.Role == nil || *patch.Role != domain.RoleAdmin || patch.Username != nil {
				t.Fatalf("unexpected patch: %+v", patch)
			}
			return &domain.User{ID: id, Role: *patch.Role}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPatch, "/auth/update/u-7", `{"role":"admin"}`)
	c.SetParamNames("id")
	c.SetParamValues("u-7")
	if err := handler.UpdateUser(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
