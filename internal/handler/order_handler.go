package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zeinnaushad/elevate/internal/domain/model"
	"github.com/zeinnaushad/elevate/internal/middleware"
	"github.com/zeinnaushad/elevate/internal/usecase"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type shippingAddressRequest struct {
	FullName string `json:"fullName" validate:"required,max=255"`
	Address  string `json:"address" validate:"required,max=255"`
	City     string `json:"city" validate:"required,max=100"`
	State    string `json:"state" validate:"required,max=100"`
	ZipCode  string `json:"zipCode" validate:"required,max=20"`
	Country  string `json:"country" validate:"required,max=100"`
	Phone    string `json:"phone" validate:"max=30"`
}

// paymentDetailsRequest accepts either the full number or only its last four digits.
type paymentDetailsRequest struct {
	CardName        string `json:"cardName" validate:"required,max=255"`
	CardNumber      string `json:"cardNumber"`
	CardNumberLast4 string `json:"cardNumberLast4"`
	ExpiryMonth     string `json:"expiryMonth" validate:"required,max=2"`
	ExpiryYear      string `json:"expiryYear" validate:"required,max=4"`
	CVV             string `json:"cvv"`
}

type orderLineRequest struct {
	ProductID int64        `json:"productId" validate:"required,gt=0"`
	Quantity  int64        `json:"quantity" validate:"required,gte=1,lte=999"`
	Price     *model.Money `json:"price"`
	Size      *string      `json:"size" validate:"omitempty,max=20"`
	Color     *string      `json:"color" validate:"omitempty,max=50"`
}

type placeOrderRequest struct {
	Total           *model.Money           `json:"total"`
	ShippingAddress shippingAddressRequest `json:"shippingAddress"`
	PaymentDetails  paymentDetailsRequest  `json:"paymentDetails"`
	Items           []orderLineRequest     `json:"items" validate:"omitempty,dive"`
}

func (h *OrderHandler) RegisterRoutes(g *echo.Group, guards Guards) {
	g.GET("/orders", h.list, guards.Auth...)
	g.GET("/orders/:id", h.detail, guards.Auth...)
	g.POST("/orders", h.create, guards.Auth...)
}

func (h *OrderHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orders, err := h.uc.ListOrders(c.Request().Context(), userID, model.Role(middleware.UserRole(c)))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) detail(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetOrder(c.Request().Context(), userID, model.Role(middleware.UserRole(c)), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req placeOrderRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	in := usecase.PlaceOrderInput{
		Total: req.Total,
		ShippingAddress: model.ShippingAddress{
			FullName: req.ShippingAddress.FullName,
			Address:  req.ShippingAddress.Address,
			City:     req.ShippingAddress.City,
			State:    req.ShippingAddress.State,
			ZipCode:  req.ShippingAddress.ZipCode,
			Country:  req.ShippingAddress.Country,
			Phone:    req.ShippingAddress.Phone,
		},
		Payment: usecase.PaymentInput{
			CardName:        req.PaymentDetails.CardName,
			CardNumber:      req.PaymentDetails.CardNumber,
			CardNumberLast4: req.PaymentDetails.CardNumberLast4,
			ExpiryMonth:     req.PaymentDetails.ExpiryMonth,
			ExpiryYear:      req.PaymentDetails.ExpiryYear,
			CVV:             req.PaymentDetails.CVV,
		},
		Items: make([]usecase.OrderLineInput, 0, len(req.Items)),
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, usecase.OrderLineInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Size:      it.Size,
			Color:     it.Color,
		})
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}
