package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zeinnaushad/elevate/internal/usecase"
)

type CartHandler struct {
	uc *usecase.CartUsecase
}

func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

// addCartRequest: quantity defaults to 1 when omitted.
type addCartRequest struct {
	ProductID int64   `json:"productId" validate:"required,gt=0"`
	Quantity  *int64  `json:"quantity" validate:"omitempty,gte=1,lte=999"`
	Size      *string `json:"size" validate:"omitempty,max=20"`
	Color     *string `json:"color" validate:"omitempty,max=50"`
}

type updateCartItemRequest struct {
	Quantity *int64  `json:"quantity" validate:"omitempty,gte=1,lte=999"`
	Size     *string `json:"size" validate:"omitempty,max=20"`
	Color    *string `json:"color" validate:"omitempty,max=50"`
}

func (h *CartHandler) RegisterRoutes(g *echo.Group, guards Guards) {
	g.GET("/cart", h.getCart, guards.Auth...)
	g.POST("/cart", h.addToCart, guards.Auth...)
	g.PUT("/cart/:id", h.updateItem, guards.Auth...)
	g.DELETE("/cart/:id", h.deleteItem, guards.Auth...)
	g.DELETE("/cart", h.clear, guards.Auth...)
}

func (h *CartHandler) getCart(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.GetCart(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// addToCart answers 201 for a new row and 200 when an existing row absorbed the quantity.
func (h *CartHandler) addToCart(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req addCartRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	qty := int64(1)
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	item, created, err := h.uc.AddToCart(c.Request().Context(), userID, usecase.AddToCartInput{
		ProductID: req.ProductID,
		Quantity:  qty,
		Size:      req.Size,
		Color:     req.Color,
	})
	if err != nil {
		return writeError(c, err)
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, item)
}

func (h *CartHandler) updateItem(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req updateCartItemRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	item, err := h.uc.UpdateCartItem(c.Request().Context(), userID, id, usecase.UpdateCartItemInput{
		Quantity: req.Quantity,
		Size:     req.Size,
		Color:    req.Color,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteCartItem(c.Request().Context(), userID, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) clear(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.ClearCart(c.Request().Context(), userID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
