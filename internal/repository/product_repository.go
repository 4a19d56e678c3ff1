package repository

import (
	"context"

	"github.com/zeinnaushad/elevate/internal/domain/model"
)

// ProductListQuery filters first (category, featured, search) and then slices by Offset/Limit.
// Limit <= 0 means no limit.
type ProductListQuery struct {
	Category model.Category
	Featured *bool
	Search   string
	Limit    int
	Offset   int
}

type ProductRepository interface {
	// List returns the requested page and the size of the whole filtered set.
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	FindBySKU(ctx context.Context, sku string) (model.Product, error)
	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
