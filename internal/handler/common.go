package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/zeinnaushad/elevate/internal/logger"
	"github.com/zeinnaushad/elevate/internal/middleware"
	"github.com/zeinnaushad/elevate/internal/usecase"
	"github.com/zeinnaushad/elevate/internal/validator"
)

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Guards are the access tiers a handler attaches per route.
// Auth is Tier 1 (valid, unrevoked token); Admin is Tier 1 plus the admin policy.
type Guards struct {
	Auth  []echo.MiddlewareFunc
	Admin []echo.MiddlewareFunc
}

// writeError maps usecase errors to a status and body. Anything else is a 500
// whose detail goes to the log only.
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		if he.Status >= http.StatusInternalServerError {
			logError(c, err)
			return c.JSON(he.Status, ErrorResponse{Error: "internal error"})
		}
		return c.JSON(he.Status, ErrorResponse{Error: he.Message, Fields: he.Fields})
	}

	logError(c, err)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func logError(c echo.Context, err error) {
	logger.Errorw("request_failed",
		"request_id", middleware.RequestID(c),
		"method", c.Request().Method,
		"path", c.Path(),
		"error", err,
	)
}

// bindAndValidate decodes the body into req and runs its validate tags.
// On failure the 400 response has already been written and the returned error is the write result.
func bindAndValidate(c echo.Context, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		if fields := validator.Fields(err); fields != nil {
			return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation error", Fields: fields})
		}
		return false, writeError(c, err)
	}
	return true, nil
}

func optional(mw echo.MiddlewareFunc) []echo.MiddlewareFunc {
	if mw == nil {
		return nil
	}
	return []echo.MiddlewareFunc{mw}
}

var errInvalidID = errors.New("invalid id")

func parseIDParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	id := middleware.UserID(c)
	return id, id > 0
}
