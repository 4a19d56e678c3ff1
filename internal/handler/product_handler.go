package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/zeinnaushad/elevate/internal/usecase"
)

const headerTotalCount = "X-Total-Count"

// ProductHandler serves the public catalog.
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

func (h *ProductHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/products", h.list)
	g.GET("/products/:id", h.detail)
}

// list answers the page as a bare array; the filtered total goes into X-Total-Count.
func (h *ProductHandler) list(c echo.Context) error {
	in := usecase.ListProductsInput{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
	}

	if v := c.QueryParam("featured"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:  "validation error",
				Fields: map[string]string{"featured": "must be true or false"},
			})
		}
		in.Featured = &b
	}
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:  "validation error",
				Fields: map[string]string{"limit": "must be a number"},
			})
		}
		in.Limit = l
	}
	if v := c.QueryParam("offset"); v != "" {
		o, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:  "validation error",
				Fields: map[string]string{"offset": "must be a number"},
			})
		}
		in.Offset = o
	}

	out, err := h.uc.ListProducts(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	c.Response().Header().Set(headerTotalCount, strconv.FormatInt(out.Total, 10))
	return c.JSON(http.StatusOK, out.Items)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	p, err := h.uc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
