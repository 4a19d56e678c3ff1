package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestLogger writes one structured line per request.
func RequestLogger(l *zap.Logger) echo.MiddlewareFunc {
	if l == nil {
		l = zap.L()
	}
	sugar := l.Sugar()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// let echo write the response so the status below is final
				c.Error(err)
			}

			req := c.Request()
			log := sugar.With(
				"request_id", RequestID(c),
				"method", req.Method,
				"path", req.URL.Path,
				"status", c.Response().Status,
				"latency_ms", time.Since(start).Milliseconds(),
				"client_ip", c.RealIP(),
			)
			if err != nil {
				log.Errorw("request", "error", err.Error())
				return nil
			}
			log.Infow("request")
			return nil
		}
	}
}

// RequestID is the id echo's RequestID middleware put on the response.
func RequestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
