package repository

import (
	"context"

	"github.com/zeinnaushad/elevate/internal/domain/model"
)

type CartItemRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)
	FindByID(ctx context.Context, id int64) (model.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID, productID int64) (model.CartItem, error)

	// UpsertByUserAndProduct adds qty to the existing (user, product) row or creates one.
	// It reports whether a new row was created.
	UpsertByUserAndProduct(ctx context.Context, item model.CartItem) (model.CartItem, bool, error)

	Update(ctx context.Context, item model.CartItem) error
	DeleteByID(ctx context.Context, id int64) error
	ClearByUserID(ctx context.Context, userID int64) error
	DeleteByProductID(ctx context.Context, productID int64) error
}
