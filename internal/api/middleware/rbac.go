package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/tekblok/fieldtask/internal/core/domain"
	"github.com/tekblok/fieldtask/internal/core/service"
)

// RBAC enforces role-based access control on routes whose services do not
// check roles themselves. It must run after Authenticate.
func RBAC(policy service.AccessPolicy, allowed domain.RoleSet) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := policy.Check(PrincipalFrom(c), allowed); err != nil {
				return err
			}
			return next(c)
		}
	}
}
