package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/zeinnaushad/elevate/internal/domain/model"
	repo "github.com/zeinnaushad/elevate/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartItemGormRepository struct {
	db *gorm.DB
}

func NewCartItemGormRepository(db *gorm.DB) *CartItemGormRepository {
	return &CartItemGormRepository{db: db}
}

func (r *CartItemGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	var items []model.CartItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, err
	}
	return items, nil
}

func (r *CartItemGormRepository) FindByID(ctx context.Context, id int64) (model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

func (r *CartItemGormRepository) FindByUserAndProduct(ctx context.Context, userID, productID int64) (model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

// UpsertByUserAndProduct merges into the existing row (size and color of that
// row are kept) or inserts a new one. A row never goes past model.MaxCartQuantity.
func (r *CartItemGormRepository) UpsertByUserAndProduct(ctx context.Context, in model.CartItem) (model.CartItem, bool, error) {
	if in.Quantity <= 0 {
		return model.CartItem{}, false, fmt.Errorf("invalid quantity %d", in.Quantity)
	}
	if in.Quantity > model.MaxCartQuantity {
		return model.CartItem{}, false, repo.ErrQuantityLimit
	}

	var out model.CartItem
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.CartItem
		err := lockForUpdate(tx).
			Where("user_id = ? AND product_id = ?", in.UserID, in.ProductID).
			First(&existing).Error

		if err == nil {
			// subtract instead of add so the check itself cannot overflow
			if existing.Quantity > model.MaxCartQuantity-in.Quantity {
				return repo.ErrQuantityLimit
			}
			existing.Quantity += in.Quantity
			res := tx.Model(&model.CartItem{}).
				Where("id = ?", existing.ID).
				Update("quantity", existing.Quantity)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return repo.ErrNotFound
			}
			out = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		item := model.CartItem{
			UserID:    in.UserID,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			Size:      in.Size,
			Color:     in.Color,
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		out = item
		created = true
		return nil
	})
	if err != nil {
		return model.CartItem{}, false, err
	}
	return out, created, nil
}

func (r *CartItemGormRepository) Update(ctx context.Context, item model.CartItem) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"quantity": item.Quantity,
			"size":     item.Size,
			"color":    item.Color,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CartItemGormRepository) DeleteByID(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.CartItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// ClearByUserID succeeds on an already empty cart.
func (r *CartItemGormRepository) ClearByUserID(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.CartItem{}).Error
}

func (r *CartItemGormRepository) DeleteByProductID(ctx context.Context, productID int64) error {
	return r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&model.CartItem{}).Error
}

// lockForUpdate adds SELECT ... FOR UPDATE where the dialect has row locks.
// SQLite serializes writers on its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
