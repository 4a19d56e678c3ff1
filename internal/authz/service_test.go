package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	svc, err := NewService(db)
	require.NoError(t, err)
	return svc, db
}

func TestService_DefaultPolicyAllowsAdminEverywhere(t *testing.T) {
	svc, _ := setupAuthzServiceTest(t)
	require.NoError(t, svc.EnsureDefaultPolicy())

	for _, tc := range []struct{ path, method string }{
		{"/api/products", "POST"},
		{"/api/products/42", "put"},
		{"/api/orders/7/status", "PUT"},
		{"/api/users/3", "DELETE"},
	} {
		ok, err := svc.Enforce("admin", tc.path, tc.method)
		assert.NoError(t, err)
		assert.True(t, ok, "%s %s", tc.method, tc.path)
	}
}

func TestService_UserRoleDenied(t *testing.T) {
	svc, _ := setupAuthzServiceTest(t)
	require.NoError(t, svc.EnsureDefaultPolicy())

	ok, err := svc.Enforce("user", "/api/products", "POST")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestService_EmptyRoleIsError(t *testing.T) {
	svc, _ := setupAuthzServiceTest(t)

	_, err := svc.Enforce("  ", "/api/products", "POST")
	assert.Error(t, err)
}

func TestService_GrantIsIdempotentAndPersisted(t *testing.T) {
	svc, db := setupAuthzServiceTest(t)
	require.NoError(t, svc.GrantRolePolicy("support", "/api/orders/:id", "GET"))
	require.NoError(t, svc.GrantRolePolicy("support", "/api/orders/:id", "get"))

	var count int64
	require.NoError(t, db.Table(casbinTableName).Where("v0 = ?", "role:support").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	ok, err := svc.Enforce("support", "/api/orders/9", "GET")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Enforce("support", "/api/orders/9/status", "PUT")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestSubjectForRole(t *testing.T) {
	sub, err := SubjectForRole(" Admin ")
	assert.NoError(t, err)
	assert.Equal(t, "role:admin", sub)

	sub, err = SubjectForRole("role:admin")
	assert.NoError(t, err)
	assert.Equal(t, "role:admin", sub)
}
