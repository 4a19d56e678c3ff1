package usecase

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeinnaushad/elevate/internal/domain/model"
	repo "github.com/zeinnaushad/elevate/internal/repository"
	infraRepo "github.com/zeinnaushad/elevate/internal/infra/repository"
)

func TestDeleteUser(t *testing.T) {
	env := setupUsecaseTest(t)
	ctx := context.Background()
	target := env.createUser(t, "gone")
	uc := NewAdminUserUsecase(env.users, env.tx)

	_, _, err := NewCartUsecase(env.tx, env.carts, env.products).
		AddToCart(ctx, target.ID, AddToCartInput{ProductID: 1, Quantity: 1})
	require.NoError(t, err)

	he := requireHTTPError(t, uc.DeleteUser(ctx, 1, 1), http.StatusBadRequest)
	assert.Equal(t, "cannot delete yourself", he.Message)

	require.NoError(t, uc.DeleteUser(ctx, 1, target.ID))
	requireHTTPError(t, uc.DeleteUser(ctx, 1, target.ID), http.StatusNotFound)

	_, err = env.users.FindByID(ctx, target.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	items, err := env.carts.ListByUserID(ctx, target.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, int64(1), env.auditCount(t, model.AuditActionDeleteUser))
}

func TestForceLogout_BumpsTokenVersion(t *testing.T) {
	env := setupUsecaseTest(t)
	ctx := context.Background()
	target := env.createUser(t, "bump")
	uc := NewAdminUserUsecase(env.users, env.tx)

	out, err := uc.ForceLogout(ctx, 1, target.ID)
	require.NoError(t, err)
	assert.Equal(t, target.ID, out.UserID)
	assert.Equal(t, target.TokenVersion+1, out.TokenVersion)

	_, err = uc.ForceLogout(ctx, 1, 999)
	requireHTTPError(t, err, http.StatusNotFound)

	users, err := uc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestAuditLogList(t *testing.T) {
	env := setupUsecaseTest(t)
	ctx := context.Background()
	target := env.createUser(t, "aud")

	_, err := NewAdminUserUsecase(env.users, env.tx).ForceLogout(ctx, 1, target.ID)
	require.NoError(t, err)
	_, err = NewProductUsecase(env.products, env.tx).AdminCreateProduct(ctx, 1, newProductInput("AU-1"))
	require.NoError(t, err)

	uc := NewAuditLogUsecase(infraRepo.NewAuditLogGormRepository(env.db))

	logs, err := uc.List(ctx, ListAuditLogsInput{Action: "force_logout"})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, target.ID, logs[0].ResourceID)
	assert.Equal(t, `{"tokenVersion":0}`, logs[0].BeforeJSON)
	assert.Equal(t, `{"tokenVersion":1}`, logs[0].AfterJSON)

	logs, err = uc.List(ctx, ListAuditLogsInput{ResourceType: "PRODUCT"})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Empty(t, logs[0].BeforeJSON)

	_, err = uc.List(ctx, ListAuditLogsInput{Action: "DROP_TABLE", ResourceType: "cart"})
	he := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Contains(t, he.Fields, "action")
	assert.Contains(t, he.Fields, "resourceType")
}
