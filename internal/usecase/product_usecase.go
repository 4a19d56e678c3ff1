package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/zeinnaushad/elevate/internal/domain/model"
	repo "github.com/zeinnaushad/elevate/internal/repository"
)

type ProductUsecase struct {
	productRepo repo.ProductRepository
	tx          repo.TransactionManager
}

func NewProductUsecase(productRepo repo.ProductRepository, tx repo.TransactionManager) *ProductUsecase {
	return &ProductUsecase{
		productRepo: productRepo,
		tx:          tx,
	}
}

// ListProductsInput mirrors the GET /products query.
type ListProductsInput struct {
	Category string
	Featured *bool
	Search   string
	Limit    int
	Offset   int
}

type ProductListOutput struct {
	Items []model.Product
	Total int64
}

func (u *ProductUsecase) ListProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	fields := map[string]string{}
	category := model.Category(strings.ToLower(strings.TrimSpace(in.Category)))
	if category != "" && !category.Valid() {
		fields["category"] = "must be one of: women men accessories"
	}
	if in.Limit < 0 {
		fields["limit"] = "must be 0 or more"
	}
	if in.Offset < 0 {
		fields["offset"] = "must be 0 or more"
	}
	if len(in.Search) > 100 {
		fields["search"] = "must be at most 100 characters"
	}
	if len(fields) > 0 {
		return ProductListOutput{}, NewValidationError(fields)
	}

	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Category: category,
		Featured: in.Featured,
		Search:   strings.TrimSpace(in.Search),
		Limit:    in.Limit,
		Offset:   in.Offset,
	})
	if err != nil {
		return ProductListOutput{}, errDB()
	}
	return ProductListOutput{Items: items, Total: total}, nil
}

func (u *ProductUsecase) GetProduct(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, errDB()
	}
	return p, nil
}

// OptionalMoney tells an absent JSON key apart from an explicit null.
type OptionalMoney struct {
	Set   bool
	Value *model.Money
}

func (o *OptionalMoney) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var m model.Money
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	o.Value = &m
	return nil
}

type CreateProductInput struct {
	Name          string
	Description   string
	Price         model.Money
	DiscountPrice *model.Money
	Category      model.Category
	ImageURLs     []string
	Sizes         []string
	Colors        []string
	Featured      bool
	InStock       *bool
	SKU           string
	Material      string
	Tags          []string
}

// UpdateProductInput is a partial update; nil fields keep the stored value.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	Price         *model.Money
	DiscountPrice OptionalMoney
	Category      *model.Category
	ImageURLs     *[]string
	Sizes         *[]string
	Colors        *[]string
	Featured      *bool
	InStock       *bool
	SKU           *string
	Material      *string
	Tags          *[]string
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, adminUserID int64, in CreateProductInput) (model.Product, error) {
	if adminUserID <= 0 {
		return model.Product{}, errUnauthorized()
	}

	inStock := true
	if in.InStock != nil {
		inStock = *in.InStock
	}
	p := model.Product{
		Name:          strings.TrimSpace(in.Name),
		Description:   strings.TrimSpace(in.Description),
		Price:         in.Price,
		DiscountPrice: in.DiscountPrice,
		Category:      in.Category,
		ImageURLs:     model.StringArray(in.ImageURLs),
		Sizes:         nonNil(in.Sizes),
		Colors:        nonNil(in.Colors),
		Featured:      in.Featured,
		InStock:       inStock,
		SKU:           strings.TrimSpace(in.SKU),
		Material:      strings.TrimSpace(in.Material),
		Tags:          nonNil(in.Tags),
	}
	if fields := checkProduct(p); len(fields) > 0 {
		return model.Product{}, NewValidationError(fields)
	}

	var out model.Product
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := ensureSKUFree(ctx, r.Products(), p.SKU, 0); err != nil {
			return err
		}

		created, err := r.Products().Create(ctx, p)
		if err == repo.ErrDuplicate {
			return errSKUTaken()
		}
		if err != nil {
			return errDB()
		}

		if err := writeAudit(ctx, r.AuditLogs(), adminUserID, model.AuditActionCreateProduct,
			model.AuditResourceProduct, created.ID, nil, created); err != nil {
			return err
		}
		out = created
		return nil
	})
	if err != nil {
		return model.Product{}, err
	}
	return out, nil
}

func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, adminUserID int64, productID int64, in UpdateProductInput) (model.Product, error) {
	if adminUserID <= 0 {
		return model.Product{}, errUnauthorized()
	}
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var out model.Product
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Products().FindByID(ctx, productID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			return errDB()
		}

		after := mergeProduct(before, in)
		if fields := checkProduct(after); len(fields) > 0 {
			return NewValidationError(fields)
		}
		if after.SKU != before.SKU {
			if err := ensureSKUFree(ctx, r.Products(), after.SKU, productID); err != nil {
				return err
			}
		}

		if err := r.Products().Update(ctx, after); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "product not found")
			}
			if err == repo.ErrDuplicate {
				return errSKUTaken()
			}
			return errDB()
		}

		// reload for updated_at
		stored, err := r.Products().FindByID(ctx, productID)
		if err != nil {
			return errDB()
		}

		if err := writeAudit(ctx, r.AuditLogs(), adminUserID, model.AuditActionUpdateProduct,
			model.AuditResourceProduct, productID, before, stored); err != nil {
			return err
		}
		out = stored
		return nil
	})
	if err != nil {
		return model.Product{}, err
	}
	return out, nil
}

// AdminDeleteProduct removes the product together with the cart rows and reviews
// that point at it. Order items keep their snapshot.
func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, adminUserID int64, productID int64) error {
	if adminUserID <= 0 {
		return errUnauthorized()
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Products().FindByID(ctx, productID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			return errDB()
		}

		if err := r.CartItems().DeleteByProductID(ctx, productID); err != nil {
			return errDB()
		}
		if err := r.Reviews().DeleteByProductID(ctx, productID); err != nil {
			return errDB()
		}
		if err := r.Products().Delete(ctx, productID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "product not found")
			}
			return errDB()
		}

		return writeAudit(ctx, r.AuditLogs(), adminUserID, model.AuditActionDeleteProduct,
			model.AuditResourceProduct, productID, before, nil)
	})
}

func mergeProduct(p model.Product, in UpdateProductInput) model.Product {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.DiscountPrice.Set {
		p.DiscountPrice = in.DiscountPrice.Value
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.ImageURLs != nil {
		p.ImageURLs = model.StringArray(*in.ImageURLs)
	}
	if in.Sizes != nil {
		p.Sizes = nonNil(*in.Sizes)
	}
	if in.Colors != nil {
		p.Colors = nonNil(*in.Colors)
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.InStock != nil {
		p.InStock = *in.InStock
	}
	if in.SKU != nil {
		p.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Material != nil {
		p.Material = strings.TrimSpace(*in.Material)
	}
	if in.Tags != nil {
		p.Tags = nonNil(*in.Tags)
	}
	return p
}

// checkProduct validates the merged product as a whole, so a partial update
// cannot leave a discount above a lowered price.
func checkProduct(p model.Product) map[string]string {
	fields := map[string]string{}
	if p.Name == "" {
		fields["name"] = "is required"
	}
	if p.SKU == "" {
		fields["sku"] = "is required"
	}
	if !p.Price.IsPositive() {
		fields["price"] = "must be greater than 0"
	}
	if p.DiscountPrice != nil {
		switch {
		case !p.DiscountPrice.IsPositive():
			fields["discountPrice"] = "must be greater than 0"
		case !p.DiscountPrice.LessThan(p.Price.Decimal):
			fields["discountPrice"] = "must be lower than price"
		}
	}
	if !p.Category.Valid() {
		fields["category"] = "must be one of: women men accessories"
	}
	if len(p.ImageURLs) == 0 {
		fields["imageUrls"] = "must contain at least 1 item"
	}
	return fields
}

func ensureSKUFree(ctx context.Context, products repo.ProductRepository, sku string, selfID int64) error {
	existing, err := products.FindBySKU(ctx, sku)
	if err == repo.ErrNotFound {
		return nil
	}
	if err != nil {
		return errDB()
	}
	if existing.ID == selfID {
		return nil
	}
	return errSKUTaken()
}

// errSKUTaken covers both the lookup and the unique index, which catches a concurrent insert.
func errSKUTaken() error {
	return NewValidationError(map[string]string{"sku": "already exists"})
}

func nonNil(s []string) model.StringArray {
	if s == nil {
		return model.StringArray{}
	}
	return model.StringArray(s)
}

// writeAudit stores who changed what. before/after are marshalled as JSON; nil stays empty.
func writeAudit(
	ctx context.Context,
	audits repo.AuditLogRepository,
	actorUserID int64,
	action model.AuditAction,
	resourceType model.AuditResourceType,
	resourceID int64,
	before, after interface{},
) error {
	beforeJSON, err := auditJSON(before)
	if err != nil {
		return errDB()
	}
	afterJSON, err := auditJSON(after)
	if err != nil {
		return errDB()
	}

	if err := audits.Create(ctx, model.AuditLog{
		ActorUserID:  actorUserID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		BeforeJSON:   beforeJSON,
		AfterJSON:    afterJSON,
	}); err != nil {
		return errDB()
	}
	return nil
}

func auditJSON(v interface{}) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
