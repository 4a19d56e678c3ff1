package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/zeinnaushad/elevate/internal/logger"
)

// RateLimitKeyFunc builds the bucket key for a request.
type RateLimitKeyFunc func(c echo.Context) string

// RateLimitRule allows MaxRequests per WindowSeconds for each key.
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
}

var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

// RateLimit is a fixed-window counter in Redis. A nil client disables it.
func RateLimit(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if client == nil || rule.WindowSeconds <= 0 || rule.MaxRequests <= 0 {
				return next(c)
			}

			key := ""
			if keyFunc != nil {
				key = strings.TrimSpace(keyFunc(c))
			}
			if key == "" {
				key = c.RealIP()
			}
			if rule.Prefix != "" {
				key = fmt.Sprintf("%s:%s", rule.Prefix, key)
			}

			result, err := rateLimitScript.Run(c.Request().Context(), client, []string{key}, rule.WindowSeconds).Result()
			if err != nil {
				logger.Errorw("rate_limit_unavailable", "key", key, "error", err)
				return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
			}

			values, ok := result.([]interface{})
			if !ok || len(values) < 2 {
				return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
			}
			count, ok := values[0].(int64)
			if !ok {
				return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
			}
			ttl, _ := values[1].(int64)

			if count > int64(rule.MaxRequests) {
				wait := int(ttl)
				if wait < 1 {
					wait = rule.WindowSeconds
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(wait))
				return c.JSON(http.StatusTooManyRequests,
					errorJSON(fmt.Sprintf("too many requests, retry in %d seconds", wait)))
			}

			return next(c)
		}
	}
}

// KeyByIPAndJSONField keys on a lower-cased JSON body field plus client IP.
// The body is restored for the handler.
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c echo.Context) string {
		value := strings.ToLower(strings.TrimSpace(readJSONField(c, field)))
		if value == "" {
			return c.RealIP()
		}
		return fmt.Sprintf("%s|%s", value, c.RealIP())
	}
}

func readJSONField(c echo.Context, field string) string {
	req := c.Request()
	if req == nil || req.Body == nil {
		return ""
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return ""
	}
	req.Body = io.NopCloser(bytes.NewBuffer(body))
	if len(body) == 0 {
		return ""
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if text, ok := payload[field].(string); ok {
		return strings.TrimSpace(text)
	}
	return ""
}
