package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookhaven/library-system/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[string(r)] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(KeyRole).(string)
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// SelfOrRoles admits callers whose user id equals the :param path value,
// and callers holding one of the given roles.
func SelfOrRoles(param string, roles ...domain.Role) echo.MiddlewareFunc {
	rbac := RBAC(roles...)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		guarded := rbac(next)
		return func(c echo.Context) error {
			if id, _ := c.Get(KeyUserID).(string); id != "" && id == c.Param(param) {
				return next(c)
			}
			return guarded(c)
		}
	}
}
