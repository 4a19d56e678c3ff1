package usecase

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/zeinnaushad/elevate/internal/domain/model"
	repo "github.com/zeinnaushad/elevate/internal/repository"
)

var (
	// orders above this subtotal ship free
	freeShippingThreshold = model.MustMoney("100")
	flatShippingCost      = model.MustMoney("10")

	cardNumberPattern = regexp.MustCompile(`^[0-9]{12,19}$`)
	last4Pattern      = regexp.MustCompile(`^[0-9]{4}$`)
)

type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

// PaymentInput is what checkout receives. Only the name, the last four digits
// and the expiry survive into the order; the CVV is dropped here.
type PaymentInput struct {
	CardName        string
	CardNumber      string
	CardNumberLast4 string
	ExpiryMonth     string
	ExpiryYear      string
	CVV             string
}

type OrderLineInput struct {
	ProductID int64
	Quantity  int64
	Price     *model.Money
	Size      *string
	Color     *string
}

// PlaceOrderInput leaves Items empty to check out the caller's cart.
// Total and per-line Price are optional client figures and are cross-checked.
type PlaceOrderInput struct {
	Total           *model.Money
	ShippingAddress model.ShippingAddress
	Payment         PaymentInput
	Items           []OrderLineInput
}

type OrderOutput struct {
	model.Order
	Items []model.OrderItem `json:"items"`
}

// PlaceOrder prices every line from the live catalog, writes the order header
// and its item snapshots, and clears the cart, all in one transaction.
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, errUnauthorized()
	}

	payment, fields := reducePayment(in.Payment)
	for i, line := range in.Items {
		if line.ProductID <= 0 {
			fields[fmt.Sprintf("items[%d].productId", i)] = "is required"
		}
		if msg := checkQuantity(line.Quantity); msg != "" {
			fields[fmt.Sprintf("items[%d].quantity", i)] = msg
		}
	}
	if len(fields) > 0 {
		return OrderOutput{}, NewValidationError(fields)
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		lines := in.Items
		if len(lines) == 0 {
			cartItems, err := r.CartItems().ListByUserID(ctx, userID)
			if err != nil {
				return errDB()
			}
			if len(cartItems) == 0 {
				return NewHTTPError(http.StatusBadRequest, "cart is empty")
			}
			lines = linesFromCart(cartItems)

			// cart rows are re-checked; a row that slipped past the cap is never priced
			bad := map[string]string{}
			for i, line := range lines {
				if msg := checkQuantity(line.Quantity); msg != "" {
					bad[fmt.Sprintf("cart[%d].quantity", i)] = msg
				}
			}
			if len(bad) > 0 {
				return NewValidationError(bad)
			}
		}

		items := make([]model.OrderItem, 0, len(lines))
		var subtotal model.Money
		mismatch := map[string]string{}

		for i, line := range lines {
			p, err := r.Products().FindByID(ctx, line.ProductID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, fmt.Sprintf("product %d not found", line.ProductID))
			}
			if err != nil {
				return errDB()
			}
			if !p.InStock {
				mismatch[fmt.Sprintf("items[%d].productId", i)] = "is out of stock"
				continue
			}

			price := p.EffectivePrice()
			if line.Price != nil && !line.Price.Equal(price) {
				mismatch[fmt.Sprintf("items[%d].price", i)] = "does not match current price " + price.String()
				continue
			}

			items = append(items, model.OrderItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    line.Quantity,
				Price:       price,
				Size:        line.Size,
				Color:       line.Color,
			})
			subtotal = subtotal.Add(price.MulInt(line.Quantity))
		}
		if len(mismatch) > 0 {
			return NewValidationError(mismatch)
		}

		shipping := ShippingCost(subtotal)
		total := subtotal.Add(shipping)
		if in.Total != nil && !in.Total.Equal(total) {
			return NewValidationError(map[string]string{"total": "does not match computed total " + total.String()})
		}

		now := time.Now().UTC()
		order, err := r.Orders().Create(ctx, model.Order{
			UserID:          userID,
			Subtotal:        subtotal,
			ShippingCost:    shipping,
			Total:           total,
			Status:          model.OrderStatusPending,
			ShippingAddress: trimAddress(in.ShippingAddress),
			PaymentDetails:  payment,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		if err != nil {
			return errDB()
		}

		created, err := r.OrderItems().CreateBulk(ctx, order.ID, items)
		if err != nil {
			return errDB()
		}

		if err := r.CartItems().ClearByUserID(ctx, userID); err != nil {
			return errDB()
		}

		out = OrderOutput{Order: order, Items: created}
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// ListOrders returns the caller's orders, or every order for an admin. Newest first.
func (u *OrderUsecase) ListOrders(ctx context.Context, userID int64, role model.Role) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, errUnauthorized()
	}

	var outs []OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var (
			orders []model.Order
			err    error
		)
		if role == model.RoleAdmin {
			orders, err = r.Orders().ListAll(ctx)
		} else {
			orders, err = r.Orders().ListByUserID(ctx, userID)
		}
		if err != nil {
			return errDB()
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return errDB()
			}
			outs = append(outs, OrderOutput{Order: o, Items: items})
		}
		return nil
	})
	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// GetOrder lets the owner or any admin read an order.
func (u *OrderUsecase) GetOrder(ctx context.Context, userID int64, role model.Role, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, errUnauthorized()
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return errDB()
		}
		if o.UserID != userID && role != model.RoleAdmin {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return errDB()
		}
		out = OrderOutput{Order: o, Items: items}
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// ShippingCost is free strictly above the threshold and flat otherwise.
func ShippingCost(subtotal model.Money) model.Money {
	if subtotal.GreaterThan(freeShippingThreshold.Decimal) {
		return model.Money{}
	}
	return flatShippingCost
}

func linesFromCart(cartItems []model.CartItem) []OrderLineInput {
	lines := make([]OrderLineInput, 0, len(cartItems))
	for _, ci := range cartItems {
		lines = append(lines, OrderLineInput{
			ProductID: ci.ProductID,
			Quantity:  ci.Quantity,
			Size:      ci.Size,
			Color:     ci.Color,
		})
	}
	return lines
}

// reducePayment keeps only what an order may store.
func reducePayment(in PaymentInput) (model.PaymentDetails, map[string]string) {
	fields := map[string]string{}

	number := strings.ReplaceAll(strings.ReplaceAll(in.CardNumber, " ", ""), "-", "")
	last4 := strings.TrimSpace(in.CardNumberLast4)
	switch {
	case number != "":
		if !cardNumberPattern.MatchString(number) {
			fields["paymentDetails.cardNumber"] = "must be 12 to 19 digits"
		} else {
			last4 = number[len(number)-4:]
		}
	case last4 != "":
		if !last4Pattern.MatchString(last4) {
			fields["paymentDetails.cardNumberLast4"] = "must be 4 digits"
		}
	default:
		fields["paymentDetails.cardNumber"] = "is required"
	}

	if strings.TrimSpace(in.CardName) == "" {
		fields["paymentDetails.cardName"] = "is required"
	}
	if strings.TrimSpace(in.ExpiryMonth) == "" {
		fields["paymentDetails.expiryMonth"] = "is required"
	}
	if strings.TrimSpace(in.ExpiryYear) == "" {
		fields["paymentDetails.expiryYear"] = "is required"
	}

	return model.PaymentDetails{
		CardName:        strings.TrimSpace(in.CardName),
		CardNumberLast4: last4,
		ExpiryMonth:     strings.TrimSpace(in.ExpiryMonth),
		ExpiryYear:      strings.TrimSpace(in.ExpiryYear),
	}, fields
}

func trimAddress(a model.ShippingAddress) model.ShippingAddress {
	return model.ShippingAddress{
		FullName: strings.TrimSpace(a.FullName),
		Address:  strings.TrimSpace(a.Address),
		City:     strings.TrimSpace(a.City),
		State:    strings.TrimSpace(a.State),
		ZipCode:  strings.TrimSpace(a.ZipCode),
		Country:  strings.TrimSpace(a.Country),
		Phone:    strings.TrimSpace(a.Phone),
	}
}
