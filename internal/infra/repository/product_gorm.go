package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/zeinnaushad/elevate/internal/domain/model"
	repo "github.com/zeinnaushad/elevate/internal/repository"

	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// List filters by category and featured in SQL, applies the text search over
// name, description and tags in memory, then slices the result by offset/limit.
func (r *ProductGormRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.Product{})
	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}
	if q.Featured != nil {
		tx = tx.Where("featured = ?", *q.Featured)
	}

	var products []model.Product
	if err := tx.Order("id asc").Find(&products).Error; err != nil {
		return []model.Product{}, 0, err
	}

	if term := strings.TrimSpace(q.Search); term != "" {
		products = filterBySearch(products, term)
	}

	total := int64(len(products))
	return paginate(products, q.Offset, q.Limit), total, nil
}

func filterBySearch(products []model.Product, term string) []model.Product {
	fold := cases.Fold()
	needle := fold.String(term)
	contains := func(s string) bool {
		return strings.Contains(fold.String(s), needle)
	}

	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if contains(p.Name) || contains(p.Description) {
			out = append(out, p)
			continue
		}
		for _, tag := range p.Tags {
			if contains(tag) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func paginate(products []model.Product, offset, limit int) []model.Product {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(products) {
		return []model.Product{}
	}
	end := len(products)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return products[offset:end]
}

func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) FindBySKU(ctx context.Context, sku string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, duplicateOr(err)
	}
	return p, nil
}

// Update overwrites every column with p; the usecase merges partial input beforehand.
func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":           p.Name,
		"description":    p.Description,
		"price":          p.Price,
		"discount_price": p.DiscountPrice,
		"category":       p.Category,
		"image_urls":     p.ImageURLs,
		"sizes":          p.Sizes,
		"colors":         p.Colors,
		"featured":       p.Featured,
		"in_stock":       p.InStock,
		"sku":            p.SKU,
		"material":       p.Material,
		"tags":           p.Tags,
	})
	if res.Error != nil {
		return duplicateOr(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProductGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProductGormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error
	return n, err
}
