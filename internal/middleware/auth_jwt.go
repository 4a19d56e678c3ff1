package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	auth "github.com/zeinnaushad/elevate/internal/usecase/auth_usecase"
)

const (
	CtxUserIDKey       = "user_id"       // int64
	CtxUserRoleKey     = "user_role"     // string
	CtxUserEmailKey    = "user_email"    // string
	CtxTokenVersionKey = "token_version" // int
)

// AuthJWT verifies "Authorization: Bearer <jwt>" and stores the caller in the echo context.
func AuthJWT(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			claims, err := auth.ParseToken(secret, rawToken)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("invalid or expired token"))
			}

			c.Set(CtxUserIDKey, claims.UserID)
			c.Set(CtxUserRoleKey, claims.Role)
			c.Set(CtxUserEmailKey, claims.Email)
			c.Set(CtxTokenVersionKey, claims.TokenVersion)

			return next(c)
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

// UserID returns the caller set by AuthJWT, or 0.
func UserID(c echo.Context) int64 {
	id, _ := c.Get(CtxUserIDKey).(int64)
	return id
}

// UserRole returns the caller's role set by AuthJWT, or "".
func UserRole(c echo.Context) string {
	role, _ := c.Get(CtxUserRoleKey).(string)
	return role
}
