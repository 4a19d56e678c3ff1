package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/zeinnaushad/elevate/internal/config"
	"github.com/zeinnaushad/elevate/internal/domain/model"
	"github.com/zeinnaushad/elevate/internal/infra/db"
	infraRepo "github.com/zeinnaushad/elevate/internal/infra/repository"
)

// testEnv is a seeded in-memory store: admin is user 1, products 1..5 are the demo catalog.
type testEnv struct {
	db       *gorm.DB
	tx       *infraRepo.TxManagerGorm
	users    *infraRepo.UserGormRepository
	products *infraRepo.ProductGormRepository
	carts    *infraRepo.CartItemGormRepository
	reviews  *infraRepo.ReviewGormRepository
}

func setupUsecaseTest(t *testing.T) testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gdb, err := db.Connect(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:uc_%s?mode=memory&cache=shared", name),
		Pool:   config.DatabasePoolConfig{MaxOpenConns: 1, MaxIdleConns: 1},
	}, "release")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(gdb))
	require.NoError(t, infraRepo.Seed(context.Background(), gdb, infraRepo.SeedAdmin{
		Username:     "admin",
		Email:        "admin@elev8.com",
		PasswordHash: "x",
	}))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return testEnv{
		db:       gdb,
		tx:       infraRepo.NewTxManagerGorm(gdb),
		users:    infraRepo.NewUserGormRepository(gdb),
		products: infraRepo.NewProductGormRepository(gdb),
		carts:    infraRepo.NewCartItemGormRepository(gdb),
		reviews:  infraRepo.NewReviewGormRepository(gdb),
	}
}

func (env testEnv) createUser(t *testing.T, username string) model.User {
	t.Helper()
	u := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		Role:     model.RoleUser,
	}
	require.NoError(t, env.users.Create(context.Background(), u))
	return *u
}

func (env testEnv) auditCount(t *testing.T, action model.AuditAction) int64 {
	t.Helper()
	var n int64
	require.NoError(t, env.db.Model(&model.AuditLog{}).Where("action = ?", action).Count(&n).Error)
	return n
}

func requireHTTPError(t *testing.T, err error, status int) *HTTPError {
	t.Helper()
	require.Error(t, err)
	he, ok := AsHTTPError(err)
	require.True(t, ok, "want *HTTPError, got %T: %v", err, err)
	assert.Equal(t, status, he.Status, he.Message)
	return he
}

func money(s string) *model.Money {
	m := model.MustMoney(s)
	return &m
}

