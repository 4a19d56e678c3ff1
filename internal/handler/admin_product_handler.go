package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zeinnaushad/elevate/internal/domain/model"
	"github.com/zeinnaushad/elevate/internal/usecase"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type createProductRequest struct {
	Name          string       `json:"name" validate:"required,max=255"`
	Description   string       `json:"description" validate:"required"`
	Price         model.Money  `json:"price"`
	DiscountPrice *model.Money `json:"discountPrice"`
	Category      string       `json:"category" validate:"required,oneof=women men accessories"`
	ImageURLs     []string     `json:"imageUrls" validate:"required,min=1,dive,required"`
	Sizes         []string     `json:"sizes"`
	Colors        []string     `json:"colors"`
	Featured      bool         `json:"featured"`
	InStock       *bool        `json:"inStock"`
	SKU           string       `json:"sku" validate:"required,max=64"`
	Material      string       `json:"material" validate:"max=255"`
	Tags          []string     `json:"tags"`
}

// updateProductRequest is partial. discountPrice: null clears it, absent keeps it.
type updateProductRequest struct {
	Name          *string               `json:"name" validate:"omitempty,max=255"`
	Description   *string               `json:"description"`
	Price         *model.Money          `json:"price"`
	DiscountPrice usecase.OptionalMoney `json:"discountPrice"`
	Category      *string               `json:"category" validate:"omitempty,oneof=women men accessories"`
	ImageURLs     *[]string             `json:"imageUrls"`
	Sizes         *[]string             `json:"sizes"`
	Colors        *[]string             `json:"colors"`
	Featured      *bool                 `json:"featured"`
	InStock       *bool                 `json:"inStock"`
	SKU           *string               `json:"sku" validate:"omitempty,max=64"`
	Material      *string               `json:"material" validate:"omitempty,max=255"`
	Tags          *[]string             `json:"tags"`
}

// AdminProductHandler serves catalog writes and the spreadsheet export.
type AdminProductHandler struct {
	uc       *usecase.ProductUsecase
	exportUC *usecase.CatalogExportUsecase
}

func NewAdminProductHandler(uc *usecase.ProductUsecase, exportUC *usecase.CatalogExportUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc, exportUC: exportUC}
}

func (h *AdminProductHandler) RegisterRoutes(g *echo.Group, guards Guards) {
	g.POST("/products", h.createProduct, guards.Admin...)
	g.PUT("/products/:id", h.updateProduct, guards.Admin...)
	g.DELETE("/products/:id", h.deleteProduct, guards.Admin...)
	g.GET("/admin/products/export", h.exportProducts, guards.Admin...)
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req createProductRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	p, err := h.uc.AdminCreateProduct(c.Request().Context(), adminID, usecase.CreateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Category:      model.Category(req.Category),
		ImageURLs:     req.ImageURLs,
		Sizes:         req.Sizes,
		Colors:        req.Colors,
		Featured:      req.Featured,
		InStock:       req.InStock,
		SKU:           req.SKU,
		Material:      req.Material,
		Tags:          req.Tags,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req updateProductRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	in := usecase.UpdateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		ImageURLs:     req.ImageURLs,
		Sizes:         req.Sizes,
		Colors:        req.Colors,
		Featured:      req.Featured,
		InStock:       req.InStock,
		SKU:           req.SKU,
		Material:      req.Material,
		Tags:          req.Tags,
	}
	if req.Category != nil {
		cat := model.Category(*req.Category)
		in.Category = &cat
	}

	p, err := h.uc.AdminUpdateProduct(c.Request().Context(), adminID, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.AdminDeleteProduct(c.Request().Context(), adminID, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminProductHandler) exportProducts(c echo.Context) error {
	body, err := h.exportUC.Export(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=products.xlsx")
	return c.Blob(http.StatusOK, xlsxContentType, body)
}
