package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/zeinnaushad/elevate/internal/logger"
)

// RoleEnforcer decides whether a role may perform action on object.
type RoleEnforcer interface {
	Enforce(role, object, action string) (bool, error)
}

// AdminRoleGuard asks the policy enforcer about (role, route, method).
// It runs after AuthJWT.
func AdminRoleGuard(enforcer RoleEnforcer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := UserRole(c)
			if role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			resource := c.Path()
			if strings.TrimSpace(resource) == "" {
				resource = c.Request().URL.Path
			}

			allowed, err := enforcer.Enforce(role, resource, c.Request().Method)
			if err != nil {
				logger.Errorw("admin_guard_enforce_failed",
					"role", role,
					"method", c.Request().Method,
					"path", resource,
					"error", err,
				)
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			if !allowed {
				logger.Warnw("admin_guard_denied",
					"user_id", UserID(c),
					"role", role,
					"method", c.Request().Method,
					"path", resource,
				)
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			}

			return next(c)
		}
	}
}
