package usecase

import (
	"bytes"
	"context"
	"strings"

	"github.com/tealeg/xlsx"

	repo "github.com/zeinnaushad/elevate/internal/repository"
)

const catalogSheetName = "Products"

var catalogHeaders = []string{
	"ID", "SKU", "Name", "Category", "Price", "DiscountPrice", "EffectivePrice",
	"InStock", "Featured", "Sizes", "Colors", "Tags", "Material", "CreatedAt", "UpdatedAt",
}

type CatalogExportUsecase struct {
	productRepo repo.ProductRepository
}

func NewCatalogExportUsecase(productRepo repo.ProductRepository) *CatalogExportUsecase {
	return &CatalogExportUsecase{productRepo: productRepo}
}

// Export renders the whole catalog as an xlsx workbook with one row per product.
func (u *CatalogExportUsecase) Export(ctx context.Context) ([]byte, error) {
	products, _, err := u.productRepo.List(ctx, repo.ProductListQuery{})
	if err != nil {
		return nil, errDB()
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet(catalogSheetName)
	if err != nil {
		return nil, err
	}

	header := sheet.AddRow()
	for _, h := range catalogHeaders {
		header.AddCell().SetString(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetInt64(p.ID)
		row.AddCell().SetString(p.SKU)
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(string(p.Category))
		row.AddCell().SetString(p.Price.String())
		discount := ""
		if p.DiscountPrice != nil {
			discount = p.DiscountPrice.String()
		}
		row.AddCell().SetString(discount)
		row.AddCell().SetString(p.EffectivePrice().String())
		row.AddCell().SetString(yesNo(p.InStock))
		row.AddCell().SetString(yesNo(p.Featured))
		row.AddCell().SetString(strings.Join(p.Sizes, ","))
		row.AddCell().SetString(strings.Join(p.Colors, ","))
		row.AddCell().SetString(strings.Join(p.Tags, ","))
		row.AddCell().SetString(p.Material)
		row.AddCell().SetString(p.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetString(p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
