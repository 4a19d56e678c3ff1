package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"github.com/zeinnaushad/elevate/internal/domain/model"
)

func newProductInput(sku string) CreateProductInput {
	return CreateProductInput{
		Name:        "Linen Shirt",
		Description: "light",
		Price:       model.MustMoney("60"),
		Category:    model.CategoryMen,
		ImageURLs:   []string{"https://example.com/s.jpg"},
		SKU:         sku,
	}
}

func TestListProducts_Validation(t *testing.T) {
	env := setupUsecaseTest(t)
	uc := NewProductUsecase(env.products, env.tx)

	_, err := uc.ListProducts(context.Background(), ListProductsInput{Category: "shoes", Limit: -1})
	he := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Contains(t, he.Fields, "category")
	assert.Contains(t, he.Fields, "limit")

	featured := true
	out, err := uc.ListProducts(context.Background(), ListProductsInput{Category: "WOMEN", Featured: &featured, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.Total)
	assert.Len(t, out.Items, 2)
}

func TestGetProduct_NotFound(t *testing.T) {
	env := setupUsecaseTest(t)
	_, err := NewProductUsecase(env.products, env.tx).GetProduct(context.Background(), 99)
	requireHTTPError(t, err, http.StatusNotFound)
}

func TestAdminCreateProduct(t *testing.T) {
	env := setupUsecaseTest(t)
	ctx := context.Background()
	uc := NewProductUsecase(env.products, env.tx)

	p, err := uc.AdminCreateProduct(ctx, 1, newProductInput("MS-1"))
	require.NoError(t, err)
	assert.True(t, p.InStock)
	assert.NotNil(t, p.Tags)
	assert.Equal(t, int64(1), env.auditCount(t, model.AuditActionCreateProduct))

	_, err = uc.AdminCreateProduct(ctx, 1, newProductInput("MS-1"))
	he := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Equal(t, "already exists", he.Fields["sku"])

	bad := newProductInput("MS-2")
	bad.DiscountPrice = money("60")
	bad.ImageURLs = nil
	_, err = uc.AdminCreateProduct(ctx, 1, bad)
	he = requireHTTPError(t, err, http.StatusBadRequest)
	assert.Contains(t, he.Fields, "discountPrice")
	assert.Contains(t, he.Fields, "imageUrls")

	outOfStock := false
	in := newProductInput("MS-3")
	in.InStock = &outOfStock
	p, err = uc.AdminCreateProduct(ctx, 1, in)
	require.NoError(t, err)
	stored, err := env.products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, stored.InStock)
}

func TestAdminUpdateProduct_PartialAndDiscountNull(t *testing.T) {
	env := setupUsecaseTest(t)
	ctx := context.Background()
	uc := NewProductUsecase(env.products, env.tx)

	// product 5 carries a discount; an absent key keeps it
	name := "Frilled Mini Dress"
	p, err := uc.AdminUpdateProduct(ctx, 1, 5, UpdateProductInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, p.Name)
	require.NotNil(t, p.DiscountPrice)
	assert.Equal(t, "109.99", p.DiscountPrice.String())

	var drop UpdateProductInput
	require.NoError(t, json.Unmarshal([]byte(`null`), &drop.DiscountPrice))
	p, err = uc.AdminUpdateProduct(ctx, 1, 5, drop)
	require.NoError(t, err)
	assert.Nil(t, p.DiscountPrice)
	assert.Equal(t, "129.99", p.EffectivePrice().String())

	// the discount is checked against the merged price
	_, err = uc.AdminUpdateProduct(ctx, 1, 1, UpdateProductInput{Price: money("80")})
	require.NoError(t, err)
	_, err = uc.AdminUpdateProduct(ctx, 1, 1, UpdateProductInput{DiscountPrice: OptionalMoney{Set: true, Value: money("85")}})
	he := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Contains(t, he.Fields, "discountPrice")

	_, err = uc.AdminUpdateProduct(ctx, 1, 404, UpdateProductInput{Name: &name})
	requireHTTPError(t, err, http.StatusNotFound)

	assert.Equal(t, int64(3), env.auditCount(t, model.AuditActionUpdateProduct))
}

func TestOptionalMoney_Unmarshal(t *testing.T) {
	var body struct {
		DiscountPrice OptionalMoney `json:"discountPrice"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &body))
	assert.False(t, body.DiscountPrice.Set)

	require.NoError(t, json.Unmarshal([]byte(`{"discountPrice":null}`), &body))
	assert.True(t, body.DiscountPrice.Set)
	assert.Nil(t, body.DiscountPrice.Value)

	require.NoError(t, json.Unmarshal([]byte(`{"discountPrice":"19.5"}`), &body))
	require.NotNil(t, body.DiscountPrice.Value)
	assert.Equal(t, "19.50", body.DiscountPrice.Value.String())
}

func TestAdminDeleteProduct_CascadesCartAndReviews(t *testing.T) {
	env := setupUsecaseTest(t)
	ctx := context.Background()
	user := env.createUser(t, "del")

	cart := NewCartUsecase(env.tx, env.carts, env.products)
	_, _, err := cart.AddToCart(ctx, user.ID, AddToCartInput{ProductID: 4, Quantity: 1})
	require.NoError(t, err)
	reviews := NewReviewUsecase(env.reviews, env.products)
	_, err = reviews.CreateReview(ctx, user.ID, 4, CreateReviewInput{Rating: 5})
	require.NoError(t, err)

	uc := NewProductUsecase(env.products, env.tx)
	require.NoError(t, uc.AdminDeleteProduct(ctx, 1, 4))
	requireHTTPError(t, uc.AdminDeleteProduct(ctx, 1, 4), http.StatusNotFound)

	items, err := env.carts.ListByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	left, err := env.reviews.ListByProductID(ctx, 4)
	require.NoError(t, err)
	assert.Empty(t, left)
	assert.Equal(t, int64(1), env.auditCount(t, model.AuditActionDeleteProduct))
}

func TestReviews(t *testing.T) {
	env := setupUsecaseTest(t)
	ctx := context.Background()
	user := env.createUser(t, "rev")
	uc := NewReviewUsecase(env.reviews, env.products)

	_, err := uc.CreateReview(ctx, user.ID, 1, CreateReviewInput{Rating: 6})
	he := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Contains(t, he.Fields, "rating")

	_, err = uc.CreateReview(ctx, user.ID, 77, CreateReviewInput{Rating: 4})
	requireHTTPError(t, err, http.StatusNotFound)

	comment := "  lovely  "
	rv, err := uc.CreateReview(ctx, user.ID, 1, CreateReviewInput{Rating: 4, Comment: &comment})
	require.NoError(t, err)
	require.NotNil(t, rv.Comment)
	assert.Equal(t, "lovely", *rv.Comment)

	// no uniqueness per user and product
	_, err = uc.CreateReview(ctx, user.ID, 1, CreateReviewInput{Rating: 2})
	require.NoError(t, err)

	list, err := uc.ListReviews(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCatalogExport(t *testing.T) {
	env := setupUsecaseTest(t)

	raw, err := NewCatalogExportUsecase(env.products).Export(context.Background())
	require.NoError(t, err)

	f, err := xlsx.OpenBinary(raw)
	require.NoError(t, err)
	sheet, ok := f.Sheet[catalogSheetName]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 6)
	assert.Equal(t, "SKU", sheet.Rows[0].Cells[1].Value)
	assert.Equal(t, "WD-F2023-001", sheet.Rows[1].Cells[1].Value)
	assert.Equal(t, "109.99", sheet.Rows[5].Cells[6].Value)
}
