package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tekblok/fieldtask/internal/api/middleware"
	"github.com/tekblok/fieldtask/internal/core/domain"
)

// ctxPrincipal returns the caller resolved by the Authenticate middleware.
// A nil principal is passed on as is; services reject it with
// ErrPrincipalNotFound.
func ctxPrincipal(c echo.Context) *domain.Principal {
	return middleware.PrincipalFrom(c)
}

// ctxClaims fails fast when the Authenticate middleware did not run.
func ctxClaims(c echo.Context) (*domain.Claims, error) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}

func taskID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid task id")
	}
	return id, nil
}

// bindAndValidate decodes the request body into req and runs the registered
// validator on it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
