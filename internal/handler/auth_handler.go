package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zeinnaushad/elevate/internal/repository"
	auth "github.com/zeinnaushad/elevate/internal/usecase/auth_usecase"
)

type AuthHandler struct {
	registerUC *auth.RegisterUserUsecase
	loginUC    *auth.LoginUsecase
	profileUC  *auth.ProfileUsecase
}

func NewAuthHandler(
	registerUC *auth.RegisterUserUsecase,
	loginUC *auth.LoginUsecase,
	profileUC *auth.ProfileUsecase,
) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
		profileUC:  profileUC,
	}
}

type registerRequest struct {
	Username  string `json:"username" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type updateProfileRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,max=100"`
	Address   *string `json:"address" validate:"omitempty,max=255"`
	City      *string `json:"city" validate:"omitempty,max=100"`
	State     *string `json:"state" validate:"omitempty,max=100"`
	ZipCode   *string `json:"zipCode" validate:"omitempty,max=20"`
	Country   *string `json:"country" validate:"omitempty,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
}

// RegisterRoutes mounts /auth. register and login carry their own rate limit middleware.
func (h *AuthHandler) RegisterRoutes(g *echo.Group, guards Guards, registerLimit, loginLimit echo.MiddlewareFunc) {
	a := g.Group("/auth")
	a.POST("/register", h.register, optional(registerLimit)...)
	a.POST("/login", h.login, optional(loginLimit)...)
	a.POST("/logout", h.logout, guards.Auth...)
	a.GET("/me", h.me, guards.Auth...)
	a.PUT("/me", h.updateMe, guards.Auth...)
}

func (h *AuthHandler) register(c echo.Context) error {
	var req registerRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	out, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailAlreadyExists):
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:  "email already in use",
				Fields: map[string]string{"email": "already in use"},
			})
		case errors.Is(err, auth.ErrUsernameAlreadyExists):
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:  "username already in use",
				Fields: map[string]string{"username": "already in use"},
			})
		case errors.Is(err, auth.ErrInvalidEmailFormat):
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:  "validation error",
				Fields: map[string]string{"email": "must be a valid email"},
			})
		case errors.Is(err, auth.ErrInvalidUsername):
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:  "validation error",
				Fields: map[string]string{"username": "is invalid"},
			})
		case errors.Is(err, auth.ErrPasswordTooShort):
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:  "validation error",
				Fields: map[string]string{"password": "must be at least 6 characters"},
			})
		default:
			return writeError(c, err)
		}
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid email or password"})
		}
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) logout(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.profileUC.Logout(c.Request().Context(), userID); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		}
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) me(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	user, err := h.profileUC.Me(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
		}
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) updateMe(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req updateProfileRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	user, err := h.profileUC.UpdateProfile(c.Request().Context(), userID, repository.UserProfile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address:   req.Address,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
		Country:   req.Country,
		Phone:     req.Phone,
	})
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
		}
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
