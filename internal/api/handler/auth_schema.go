package handler

import "github.com/tekblok/fieldtask/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Request / Response types ---

type signupRequest struct {
	Username string `json:"username"  form:"username"  validate:"required,max=25"`
	FullName string `json:"full_name" form:"full_name" validate:"required,max=30"`
	Role     string `json:"role"      form:"role"      validate:"required,oneof=admin worker user guest"`
	Password string `json:"password"  form:"password"  validate:"required,min=6"`
}

// loginRequest accepts both JSON and the OAuth2 password form.
type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	User         *domain.User `json:"user"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8"`
}

type updateUserRequest struct {
	Username *string `json:"username"  validate:"omitempty,min=1,max=25"`
	FullName *string `json:"full_name" validate:"omitempty,min=1,max=30"`
	Role     *string `json:"role"      validate:"omitempty,oneof=admin worker user guest"`
}

type setPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

const tokenType = "bearer"
