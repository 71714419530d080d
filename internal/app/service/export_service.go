package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/clothely/clothely-backend/internal/app/repository"
	"github.com/clothely/clothely-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// ExportService renders the admin catalog export: one XLSX row per
// variant with its product context and option values.
type ExportService interface {
	ExportCatalog() (*bytes.Buffer, error)
}

type exportService struct {
	products   repository.ProductRepository
	attributes repository.AttributeRepository
}

func NewExportService(products repository.ProductRepository, attributes repository.AttributeRepository) ExportService {
	return &exportService{products: products, attributes: attributes}
}

var exportHeaders = []string{
	"Product ID", "Slug", "Title", "Active",
	"Variant ID", "SKU", "Barcode", "Options", "Color", "Size",
	"Price", "Stock",
}

func (s *exportService) ExportCatalog() (*bytes.Buffer, error) {
	products, err := s.products.FindAllForExport()
	if err != nil {
		return nil, err
	}

	options, err := s.attributes.FindOptions()
	if err != nil {
		return nil, err
	}
	optionNames := make(map[uint]string, len(options))
	for _, option := range options {
		optionNames[option.ID] = option.Name
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Catalog"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	rowIndex := 2
	for _, product := range products {
		for _, variant := range product.Variants {
			var optionParts []string
			for _, ov := range variant.OptionValues {
				name := optionNames[ov.OptionID]
				if name == "" {
					name = fmt.Sprintf("option %d", ov.OptionID)
				}
				optionParts = append(optionParts, fmt.Sprintf("%s: %s", name, ov.Value))
			}

			values := []interface{}{
				product.ID, product.Slug, product.Title, product.IsActive,
				variant.ID, variant.SKU, variant.Barcode,
				strings.Join(optionParts, "; "), variant.Color, variant.Size,
				variant.Price, variant.StockQuantity,
			}
			for col, value := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, rowIndex)
				if err != nil {
					return nil, err
				}
				if err := f.SetCellValue(sheet, cell, value); err != nil {
					return nil, err
				}
			}
			rowIndex++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.Error("Failed to render catalog export", err, nil)
		return nil, err
	}

	logger.Info("Catalog export rendered", map[string]interface{}{
		"products": len(products),
		"rows":     rowIndex - 2,
	})
	return buf, nil
}
