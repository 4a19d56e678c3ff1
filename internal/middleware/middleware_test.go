package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zeinnaushad/elevate/internal/domain/model"
	"github.com/zeinnaushad/elevate/internal/repository"
	auth "github.com/zeinnaushad/elevate/internal/usecase/auth_usecase"
)

const testSecret = "test-secret"

type mwOKResponse struct {
	UserID       int64  `json:"userId"`
	Role         string `json:"role"`
	TokenVersion int    `json:"tokenVersion"`
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id int64, p repository.UserProfile) (*model.User, error) {
	args := m.Called(ctx, id, p)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) IncrementTokenVersion(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepo) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

var _ repository.UserRepository = (*mockUserRepo)(nil)

type mockEnforcer struct {
	mock.Mock
}

func (m *mockEnforcer) Enforce(role, object, action string) (bool, error) {
	args := m.Called(role, object, action)
	return args.Bool(0), args.Error(1)
}

func issueToken(t *testing.T, user model.User) string {
	t.Helper()
	raw, _, err := auth.NewJWTIssuer(testSecret, time.Hour).Issue(user, time.Now())
	require.NoError(t, err)
	return raw
}

func signClaims(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.Claims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}

func runRequest(e *echo.Echo, method, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func echoCaller(c echo.Context) error {
	tv, _ := c.Get(CtxTokenVersionKey).(int)
	return c.JSON(http.StatusOK, mwOKResponse{
		UserID:       UserID(c),
		Role:         UserRole(c),
		TokenVersion: tv,
	})
}

func TestAuthJWT_MissingHeader(t *testing.T) {
	e := echo.New()
	e.GET("/protected", echoCaller, AuthJWT(testSecret))

	rec := runRequest(e, http.MethodGet, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeError(t, rec))
}

func TestAuthJWT_BadScheme(t *testing.T) {
	e := echo.New()
	e.GET("/protected", echoCaller, AuthJWT(testSecret))

	rec := runRequest(e, http.MethodGet, "/protected", "Token abc.def.ghi")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_RejectsBadTokens(t *testing.T) {
	valid := auth.Claims{
		UserID: 1,
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	cases := map[string]string{
		"wrong secret": signClaims(t, "other-secret", jwt.SigningMethodHS256, valid),
		"wrong alg":    signClaims(t, testSecret, jwt.SigningMethodHS512, valid),
		"expired":      signClaims(t, testSecret, jwt.SigningMethodHS256, expired),
		"garbage":      "not-a-jwt",
	}

	e := echo.New()
	e.GET("/protected", echoCaller, AuthJWT(testSecret))

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			rec := runRequest(e, http.MethodGet, "/protected", "Bearer "+raw)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "invalid or expired token", decodeError(t, rec))
		})
	}
}

func TestAuthJWT_SetsCaller(t *testing.T) {
	e := echo.New()
	e.GET("/protected", echoCaller, AuthJWT(testSecret))

	raw := issueToken(t, model.User{ID: 123, Email: "a@b.co", Role: model.RoleUser, TokenVersion: 7})
	rec := runRequest(e, http.MethodGet, "/protected", "Bearer "+raw)
	require.Equal(t, http.StatusOK, rec.Code)

	var body mwOKResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(123), body.UserID)
	assert.Equal(t, "user", body.Role)
	assert.Equal(t, 7, body.TokenVersion)
}

func TestTokenVersionGuard_MissingContext(t *testing.T) {
	e := echo.New()
	userRepo := new(mockUserRepo)
	e.GET("/protected", echoCaller, TokenVersionGuard(userRepo))

	rec := runRequest(e, http.MethodGet, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	userRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestTokenVersionGuard_StaleTokenRevoked(t *testing.T) {
	e := echo.New()
	userRepo := new(mockUserRepo)
	userRepo.On("FindByID", mock.Anything, int64(1)).
		Return(&model.User{ID: 1, Role: model.RoleUser, TokenVersion: 1}, nil)
	e.GET("/protected", echoCaller, AuthJWT(testSecret), TokenVersionGuard(userRepo))

	raw := issueToken(t, model.User{ID: 1, Role: model.RoleUser, TokenVersion: 0})
	rec := runRequest(e, http.MethodGet, "/protected", "Bearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "token revoked", decodeError(t, rec))
	userRepo.AssertExpectations(t)
}

func TestTokenVersionGuard_DeletedUser(t *testing.T) {
	e := echo.New()
	userRepo := new(mockUserRepo)
	userRepo.On("FindByID", mock.Anything, int64(9)).Return(nil, repository.ErrNotFound)
	e.GET("/protected", echoCaller, AuthJWT(testSecret), TokenVersionGuard(userRepo))

	raw := issueToken(t, model.User{ID: 9, Role: model.RoleUser})
	rec := runRequest(e, http.MethodGet, "/protected", "Bearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenVersionGuard_RefreshesRoleFromStore(t *testing.T) {
	e := echo.New()
	userRepo := new(mockUserRepo)
	userRepo.On("FindByID", mock.Anything, int64(2)).
		Return(&model.User{ID: 2, Role: model.RoleUser, TokenVersion: 0}, nil)
	e.GET("/protected", echoCaller, AuthJWT(testSecret), TokenVersionGuard(userRepo))

	// the token still claims admin, the store says otherwise
	raw := issueToken(t, model.User{ID: 2, Role: model.RoleAdmin})
	rec := runRequest(e, http.MethodGet, "/protected", "Bearer "+raw)
	require.Equal(t, http.StatusOK, rec.Code)

	var body mwOKResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "user", body.Role)
}

func TestAdminRoleGuard(t *testing.T) {
	withRole := func(role string) echo.MiddlewareFunc {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				c.Set(CtxUserIDKey, int64(1))
				if role != "" {
					c.Set(CtxUserRoleKey, role)
				}
				return next(c)
			}
		}
	}

	t.Run("admin allowed", func(t *testing.T) {
		enforcer := new(mockEnforcer)
		enforcer.On("Enforce", "admin", "/api/products/:id", http.MethodPut).Return(true, nil)

		e := echo.New()
		e.PUT("/api/products/:id", echoCaller, withRole("admin"), AdminRoleGuard(enforcer))

		rec := runRequest(e, http.MethodPut, "/api/products/3", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		enforcer.AssertExpectations(t)
	})

	t.Run("user forbidden", func(t *testing.T) {
		enforcer := new(mockEnforcer)
		enforcer.On("Enforce", "user", "/api/orders/:id/status", http.MethodPut).Return(false, nil)

		e := echo.New()
		e.PUT("/api/orders/:id/status", echoCaller, withRole("user"), AdminRoleGuard(enforcer))

		rec := runRequest(e, http.MethodPut, "/api/orders/1/status", "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "admin only", decodeError(t, rec))
	})

	t.Run("enforcer failure", func(t *testing.T) {
		enforcer := new(mockEnforcer)
		enforcer.On("Enforce", mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("boom"))

		e := echo.New()
		e.GET("/api/users", echoCaller, withRole("admin"), AdminRoleGuard(enforcer))

		rec := runRequest(e, http.MethodGet, "/api/users", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("no role", func(t *testing.T) {
		enforcer := new(mockEnforcer)

		e := echo.New()
		e.GET("/api/users", echoCaller, withRole(""), AdminRoleGuard(enforcer))

		rec := runRequest(e, http.MethodGet, "/api/users", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		enforcer.AssertNotCalled(t, "Enforce", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRateLimit_NilClientPassesThrough(t *testing.T) {
	e := echo.New()
	rule := RateLimitRule{Prefix: "test", WindowSeconds: 60, MaxRequests: 1}
	e.POST("/login", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, RateLimit(nil, rule, KeyByIPAndJSONField("email")))

	for i := 0; i < 3; i++ {
		rec := runRequest(e, http.MethodPost, "/login", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestKeyByIPAndJSONField_RestoresBody(t *testing.T) {
	e := echo.New()
	var key, body string
	e.POST("/login", func(c echo.Context) error {
		key = KeyByIPAndJSONField("email")(c)
		var payload struct {
			Email string `json:"email"`
		}
		if err := c.Bind(&payload); err != nil {
			return err
		}
		body = payload.Email
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":" Jane@Example.com "}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "jane@example.com|10.0.0.1", key)
	assert.Equal(t, " Jane@Example.com ", body)
}
