package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tekblok/fieldtask/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

// statusFor maps a domain error to its status code. The boolean is false for
// errors that are not part of the domain vocabulary.
func statusFor(err error) (int, bool) {
	switch {
	// Authentication. Expired and revoked tokens match ErrInvalidToken too.
	case errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrAccessTokenRequired),
		errors.Is(err, domain.ErrInsufficientPermission):
		return http.StatusUnauthorized, true
	case errors.Is(err, domain.ErrRefreshTokenRequired),
		errors.Is(err, domain.ErrUserExists):
		return http.StatusForbidden, true

	case errors.Is(err, domain.ErrPrincipalNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrTaskNotFound),
		errors.Is(err, domain.ErrWorkTypeNotFound),
		errors.Is(err, domain.ErrVoltageNotFound):
		return http.StatusNotFound, true

	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, true
	case errors.Is(err, domain.ErrCatalogDuplicate):
		return http.StatusConflict, true
	case errors.Is(err, domain.ErrPhotoStoreDisabled):
		return http.StatusServiceUnavailable, true

	case errors.Is(err, domain.ErrInvalidPhotoCount),
		errors.Is(err, domain.ErrInvalidPhoto),
		errors.Is(err, domain.ErrInvalidTaskSheet),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrWeakPassword),
		errors.Is(err, domain.ErrInvalidCatalogEntry):
		return http.StatusUnprocessableEntity, true
	}
	return 0, false
}

// publicMessage hides verifier details behind the token sentinels; other
// domain errors carry user-facing context and are rendered as-is.
func publicMessage(err error) string {
	for _, sentinel := range []error{domain.ErrTokenExpired, domain.ErrTokenRevoked, domain.ErrInvalidToken} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, validation, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	if code, ok := statusFor(err); ok {
		return code, publicMessage(err)
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
