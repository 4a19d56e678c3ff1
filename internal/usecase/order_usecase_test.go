package usecase

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeinnaushad/elevate/internal/domain/model"
)

func validOrderInput(items ...OrderLineInput) PlaceOrderInput {
	return PlaceOrderInput{
		ShippingAddress: model.ShippingAddress{
			FullName: " Jane Doe ",
			Address:  "1 Main St",
			City:     "Springfield",
			State:    "IL",
			ZipCode:  "62701",
			Country:  "US",
		},
		Payment: PaymentInput{
			CardName:    "Jane Doe",
			CardNumber:  "4111 1111 1111 1234",
			ExpiryMonth: "12",
			ExpiryYear:  "2030",
			CVV:         "123",
		},
		Items: items,
	}
}

func TestShippingCost(t *testing.T) {
	assert.Equal(t, "10.00", ShippingCost(model.MustMoney("45.99")).String())
	// exactly at the threshold still pays shipping
	assert.Equal(t, "10.00", ShippingCost(model.MustMoney("100")).String())
	assert.Equal(t, "0.00", ShippingCost(model.MustMoney("100.01")).String())
}

func TestPlaceOrder_FreeShippingAndSnapshot(t *testing.T) {
	env := setupUsecaseTest(t)
	ctx := context.Background()
	user := env.createUser(t, "jane")

	p := model.Product{
		Name:        "Wool Coat",
		Description: "warm",
		Price:       model.MustMoney("250"),
		Category:    model.CategoryWomen,
		ImageURLs:   model.StringArray{"https://example.com/c.jpg"},
		InStock:     true,
		SKU:         "WC-1",
	}
	p, err := env.products.Create(ctx, p)
	require.NoError(t, err)

	uc := NewOrderUsecase(env.tx)
	in := validOrderInput(OrderLineInput{ProductID: p.ID, Quantity: 2, Price: money("250")})
	in.Total = money("500")

	out, err := uc.PlaceOrder(ctx, user.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "500.00", out.Subtotal.String())
	assert.Equal(t, "0.00", out.ShippingCost.String())
	assert.Equal(t, "500.00", out.Total.String())
	assert.Equal(t, model.OrderStatusPending, out.Status)
	assert.Equal(t, "Jane Doe", out.ShippingAddress.FullName)
	assert.Equal(t, "1234", out.PaymentDetails.CardNumberLast4)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Wool Coat", out.Items[0].ProductName)

	// a later price change leaves the order alone
	p.Price = model.MustMoney("150")
	require.NoError(t, env.products.Update(ctx, p))

	got, err := uc.GetOrder(ctx, user.ID, model.RoleUser, out.ID)
	require.NoError(t, err)
	assert.Equal(t, "500.00", got.Total.String())
	require.Len(t, got.Items, 1)
	assert.Equal(t, "250.00", got.Items[0].Price.String())
}

func TestPlaceOrder_UsesDiscountPriceAndFlatShipping(t *testing.T) {
	env := setupUsecaseTest(t)
	ctx := context.Background()
	user := env.createUser(t, "sam")

	// product 2 is 45.99 with no discount
	out, err := NewOrderUsecase(env.tx).PlaceOrder(ctx, user.ID, validOrderInput(
		OrderLineInput{ProductID: 2, Quantity: 1},
	))
	require.NoError(t, err)
	assert.Equal(t, "45.99", out.Subtotal.String())
	assert.Equal(t, "10.00", out.ShippingCost.String())
	assert.Equal(t, "55.99", out.Total.String())

	// product 5 lists at 129.99 and sells at 109.99
	out, err = NewOrderUsecase(env.tx).PlaceOrder(ctx, user.ID, validOrderInput(
		OrderLineInput{ProductID: 5, Quantity: 1},
	))
	require.NoError(t, err)
	assert.Equal(t, "109.99", out.Items[0].Price.String())
	assert.Equal(t, "0.00", out.ShippingCost.String())
}

func TestPlaceOrder_RejectsClientPriceAndTotalMismatch(t *testing.T) {
	env := setupUsecaseTest(t)
	ctx := context.Background()
	user := env.createUser(t, "eve")
	uc := NewOrderUsecase(env.tx)

	_, err := uc.PlaceOrder(ctx, user.ID, validOrderInput(
		OrderLineInput{ProductID: 2, Quantity: 1, Price: money("0.01")},
	))
	he := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Contains(t, he.Fields, "items[0].price")

	in := validOrderInput(OrderLineInput{ProductID: 2, Quantity: 1})
	in.Total = money("1")
	_, err = uc.PlaceOrder(ctx, user.ID, in)
	he = requireHTTPError(t, err, http.StatusBadRequest)
	assert.Contains(t, he.Fields, "total")

	orders, err := uc.ListOrders(ctx, user.ID, model.RoleUser)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestPlaceOrder_ChecksOutCartAndClearsIt(t *testing.T) {
	env := setupUsecaseTest(t)
	ctx := context.Background()
	user := env.createUser(t, "kim")

	cart := NewCartUsecase(env.tx, env.carts, env.products)
	_, _, err := cart.AddToCart(ctx, user.ID, AddToCartInput{ProductID: 1, Quantity: 1})
	require.NoError(t, err)
	_, _, err = cart.AddToCart(ctx, user.ID, AddToCartInput{ProductID: 4, Quantity: 2})
	require.NoError(t, err)

	out, err := NewOrderUsecase(env.tx).PlaceOrder(ctx, user.ID, validOrderInput())
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	// 89.99 + 2*35.99
	assert.Equal(t, "161.97", out.Subtotal.String())

	after, err := cart.GetCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, after.Items)
}

func TestPlaceOrder_RejectsCartRowOutsideQuantityRange(t *testing.T) {
	env := setupUsecaseTest(t)
	ctx := context.Background()
	user := env.createUser(t, "wrap")

	cart := NewCartUsecase(env.tx, env.carts, env.products)
	item, _, err := cart.AddToCart(ctx, user.ID, AddToCartInput{ProductID: 1, Quantity: 1})
	require.NoError(t, err)

	// a row stored outside the allowed range, as an older build could leave behind
	require.NoError(t, env.db.Model(&model.CartItem{}).Where("id = ?", item.ID).
		Update("quantity", -5).Error)

	uc := NewOrderUsecase(env.tx)
	_, err = uc.PlaceOrder(ctx, user.ID, validOrderInput())
	he := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Equal(t, "must be 1 or more", he.Fields["cart[0].quantity"])

	require.NoError(t, env.db.Model(&model.CartItem{}).Where("id = ?", item.ID).
		Update("quantity", model.MaxCartQuantity+1).Error)
	_, err = uc.PlaceOrder(ctx, user.ID, validOrderInput())
	he = requireHTTPError(t, err, http.StatusBadRequest)
	assert.Contains(t, he.Fields, "cart[0].quantity")

	orders, err := uc.ListOrders(ctx, user.ID, model.RoleUser)
	require.NoError(t, err)
	assert.Empty(t, orders)

	// the cart is left for the user to fix
	after, err := cart.GetCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, after.Items, 1)
}

func TestPlaceOrder_LineQuantityCap(t *testing.T) {
	env := setupUsecaseTest(t)
	user := env.createUser(t, "bulk")

	_, err := NewOrderUsecase(env.tx).PlaceOrder(context.Background(), user.ID,
		validOrderInput(OrderLineInput{ProductID: 1, Quantity: model.MaxCartQuantity + 1}))
	he := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Equal(t, "must be at most 999", he.Fields["items[0].quantity"])
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	env := setupUsecaseTest(t)
	user := env.createUser(t, "lee")

	_, err := NewOrderUsecase(env.tx).PlaceOrder(context.Background(), user.ID, validOrderInput())
	he := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Equal(t, "cart is empty", he.Message)
}

func TestPlaceOrder_UnknownProductAndOutOfStock(t *testing.T) {
	env := setupUsecaseTest(t)
	ctx := context.Background()
	user := env.createUser(t, "max")
	uc := NewOrderUsecase(env.tx)

	_, err := uc.PlaceOrder(ctx, user.ID, validOrderInput(OrderLineInput{ProductID: 999, Quantity: 1}))
	requireHTTPError(t, err, http.StatusNotFound)

	p, err := env.products.FindByID(ctx, 3)
	require.NoError(t, err)
	p.InStock = false
	require.NoError(t, env.products.Update(ctx, p))

	_, err = uc.PlaceOrder(ctx, user.ID, validOrderInput(OrderLineInput{ProductID: 3, Quantity: 1}))
	he := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Contains(t, he.Fields, "items[0].productId")
}

func TestPlaceOrder_PaymentValidation(t *testing.T) {
	env := setupUsecaseTest(t)
	user := env.createUser(t, "ned")
	uc := NewOrderUsecase(env.tx)

	in := validOrderInput(OrderLineInput{ProductID: 2, Quantity: 1})
	in.Payment.CardNumber = "12ab"
	_, err := uc.PlaceOrder(context.Background(), user.ID, in)
	he := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Contains(t, he.Fields, "paymentDetails.cardNumber")

	// last4 alone is enough
	in.Payment.CardNumber = ""
	in.Payment.CardNumberLast4 = "9876"
	out, err := uc.PlaceOrder(context.Background(), user.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "9876", out.PaymentDetails.CardNumberLast4)
}

func TestGetOrder_OwnershipAndAdminBypass(t *testing.T) {
	env := setupUsecaseTest(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner")
	other := env.createUser(t, "other")
	uc := NewOrderUsecase(env.tx)

	out, err := uc.PlaceOrder(ctx, owner.ID, validOrderInput(OrderLineInput{ProductID: 2, Quantity: 1}))
	require.NoError(t, err)

	_, err = uc.GetOrder(ctx, other.ID, model.RoleUser, out.ID)
	requireHTTPError(t, err, http.StatusForbidden)

	_, err = uc.GetOrder(ctx, other.ID, model.RoleUser, out.ID+100)
	requireHTTPError(t, err, http.StatusNotFound)

	// user 1 is the seeded admin
	got, err := uc.GetOrder(ctx, 1, model.RoleAdmin, out.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, got.UserID)

	all, err := uc.ListOrders(ctx, 1, model.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	mine, err := uc.ListOrders(ctx, other.ID, model.RoleUser)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestAdminUpdateStatus(t *testing.T) {
	env := setupUsecaseTest(t)
	ctx := context.Background()
	user := env.createUser(t, "ola")

	placed, err := NewOrderUsecase(env.tx).PlaceOrder(ctx, user.ID, validOrderInput(OrderLineInput{ProductID: 2, Quantity: 1}))
	require.NoError(t, err)

	uc := NewAdminOrderUsecase(env.tx)
	_, err = uc.UpdateStatus(ctx, 1, placed.ID, AdminUpdateOrderStatusInput{Status: "lost"})
	he := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Contains(t, he.Fields, "status")

	_, err = uc.UpdateStatus(ctx, 1, placed.ID+1, AdminUpdateOrderStatusInput{Status: "shipped"})
	requireHTTPError(t, err, http.StatusNotFound)

	out, err := uc.UpdateStatus(ctx, 1, placed.ID, AdminUpdateOrderStatusInput{Status: "SHIPPED"})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, out.Status)
	assert.Equal(t, placed.Total.String(), out.Total.String())
	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(1), env.auditCount(t, model.AuditActionUpdateOrderStatus))
}
