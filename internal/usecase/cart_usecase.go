package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/zeinnaushad/elevate/internal/domain/model"
	repo "github.com/zeinnaushad/elevate/internal/repository"
)

// CartUsecase holds the /cart rules: one row per (user, product), merge on add,
// and owner-only edits. Admins get no bypass here.
type CartUsecase struct {
	tx           repo.TransactionManager
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(
	tx repo.TransactionManager,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		tx:           tx,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

// CartLine is a cart row with the live product embedded.
type CartLine struct {
	model.CartItem
	Product model.Product `json:"product"`
}

type CartOutput struct {
	Items    []CartLine  `json:"items"`
	Subtotal model.Money `json:"subtotal"`
}

type AddToCartInput struct {
	ProductID int64
	Quantity  int64
	Size      *string
	Color     *string
}

type UpdateCartItemInput struct {
	Quantity *int64
	Size     *string
	Color    *string
}

// GetCart lists the caller's rows. The subtotal uses current effective prices.
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, errUnauthorized()
	}

	items, err := u.cartItemRepo.ListByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, errDB()
	}

	out := CartOutput{Items: make([]CartLine, 0, len(items))}
	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if err == repo.ErrNotFound {
			// product deletion removes cart rows in the same tx; skip stragglers
			continue
		}
		if err != nil {
			return CartOutput{}, errDB()
		}

		out.Items = append(out.Items, CartLine{CartItem: it, Product: p})
		out.Subtotal = out.Subtotal.Add(p.EffectivePrice().MulInt(it.Quantity))
	}
	return out, nil
}

// AddToCart merges into the caller's existing row for the product or creates one.
// created is false when an existing row absorbed the quantity.
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddToCartInput) (item model.CartItem, created bool, err error) {
	if userID <= 0 {
		return model.CartItem{}, false, errUnauthorized()
	}
	if in.ProductID <= 0 {
		return model.CartItem{}, false, NewValidationError(map[string]string{"productId": "is required"})
	}
	if msg := checkQuantity(in.Quantity); msg != "" {
		return model.CartItem{}, false, NewValidationError(map[string]string{"quantity": msg})
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Products().FindByID(ctx, in.ProductID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "product not found")
			}
			return errDB()
		}

		var upErr error
		item, created, upErr = r.CartItems().UpsertByUserAndProduct(ctx, model.CartItem{
			UserID:    userID,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			Size:      in.Size,
			Color:     in.Color,
		})
		if errors.Is(upErr, repo.ErrQuantityLimit) {
			return NewValidationError(map[string]string{"quantity": quantityLimitMsg})
		}
		if upErr != nil {
			return errDB()
		}
		return nil
	})
	if err != nil {
		return model.CartItem{}, false, err
	}
	return item, created, nil
}

func (u *CartUsecase) UpdateCartItem(ctx context.Context, userID int64, cartItemID int64, in UpdateCartItemInput) (model.CartItem, error) {
	if userID <= 0 {
		return model.CartItem{}, errUnauthorized()
	}
	if cartItemID <= 0 {
		return model.CartItem{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Quantity != nil {
		if msg := checkQuantity(*in.Quantity); msg != "" {
			return model.CartItem{}, NewValidationError(map[string]string{"quantity": msg})
		}
	}

	var out model.CartItem
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		item, err := ownedCartItem(ctx, r.CartItems(), userID, cartItemID)
		if err != nil {
			return err
		}

		if in.Quantity != nil {
			item.Quantity = *in.Quantity
		}
		if in.Size != nil {
			item.Size = in.Size
		}
		if in.Color != nil {
			item.Color = in.Color
		}

		if err := r.CartItems().Update(ctx, item); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "cart item not found")
			}
			return errDB()
		}

		out, err = r.CartItems().FindByID(ctx, cartItemID)
		if err != nil {
			return errDB()
		}
		return nil
	})
	if err != nil {
		return model.CartItem{}, err
	}
	return out, nil
}

func (u *CartUsecase) DeleteCartItem(ctx context.Context, userID int64, cartItemID int64) error {
	if userID <= 0 {
		return errUnauthorized()
	}
	if cartItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := ownedCartItem(ctx, r.CartItems(), userID, cartItemID); err != nil {
			return err
		}
		if err := r.CartItems().DeleteByID(ctx, cartItemID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "cart item not found")
			}
			return errDB()
		}
		return nil
	})
}

// ClearCart is idempotent.
func (u *CartUsecase) ClearCart(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return errUnauthorized()
	}
	if err := u.cartItemRepo.ClearByUserID(ctx, userID); err != nil {
		return errDB()
	}
	return nil
}

// ownedCartItem answers 404 for a missing row and 403 for someone else's row.
func ownedCartItem(ctx context.Context, items repo.CartItemRepository, userID, cartItemID int64) (model.CartItem, error) {
	item, err := items.FindByID(ctx, cartItemID)
	if err == repo.ErrNotFound {
		return model.CartItem{}, NewHTTPError(http.StatusNotFound, "cart item not found")
	}
	if err != nil {
		return model.CartItem{}, errDB()
	}
	if item.UserID != userID {
		return model.CartItem{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return item, nil
}

var quantityLimitMsg = fmt.Sprintf("must be at most %d", model.MaxCartQuantity)

// checkQuantity returns the reason q is not a valid row or line quantity, or "".
func checkQuantity(q int64) string {
	switch {
	case q < 1:
		return "must be 1 or more"
	case q > model.MaxCartQuantity:
		return quantityLimitMsg
	}
	return ""
}
