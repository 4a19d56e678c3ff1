package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zeinnaushad/elevate/internal/config"
	"github.com/zeinnaushad/elevate/internal/handler"
	"github.com/zeinnaushad/elevate/internal/middleware"
	"github.com/zeinnaushad/elevate/internal/validator"
)

const shutdownTimeout = 10 * time.Second

// Deps is everything New needs from main. Redis may be nil.
type Deps struct {
	Config   config.Config
	DB       *gorm.DB
	Redis    *redis.Client
	Enforcer middleware.RoleEnforcer
	Logger   *zap.Logger
}

// New builds the echo instance with the middleware chain and every /api route.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.New()
	e.HTTPErrorHandler = errorHandler

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders: []string{"X-Total-Count", echo.HeaderXRequestID},
	}))
	e.Use(echomw.BodyLimit("1M"))

	registerRoutes(e.Group("/api"), wire(d))
	return e
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests.
func Run(e *echo.Echo, addr string, l *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		l.Info("server_started", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case sig := <-quit:
		l.Info("server_shutting_down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(ctx)
}

// errorHandler keeps echo's own errors (unknown route, bad method) in the {"error": ...} shape.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	msg := "internal error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if s, ok := he.Message.(string); ok && status < http.StatusInternalServerError {
			msg = s
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, handler.ErrorResponse{Error: msg})
}
