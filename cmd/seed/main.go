package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/clothely/clothely-backend/config"
	"github.com/clothely/clothely-backend/internal/app/model"
	"github.com/clothely/clothely-backend/internal/app/service"
	"github.com/clothely/clothely-backend/internal/db"
	"github.com/clothely/clothely-backend/pkg/util"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Imports a product catalog from an XLSX sheet. One row per variant;
// rows sharing a slug are grouped into a single product. Expected
// columns:
//
//	Title | Slug | Description | Price | Category | Brand | SKU | Color | Size | Stock | Image URL
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}
	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	if err := db.Seed(); err != nil {
		log.Fatal("Failed to seed baseline options:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, err := readCatalogFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d\n", len(products))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	catalog := service.NewCatalogService(db.GetDB(), service.NewUUIDSource())

	imported := 0
	for _, p := range products {
		input, err := p.toInput(db.GetDB())
		if err != nil {
			fmt.Printf("Skipping %q: %v\n", p.title, err)
			continue
		}
		if _, err := catalog.SaveProduct(input); err != nil {
			fmt.Printf("Failed to import %q: %v\n", p.title, err)
			continue
		}
		imported++
	}

	fmt.Println("Import completed.")
	fmt.Printf("Products imported: %d of %d\n", imported, len(products))
}

type importedVariant struct {
	sku      string
	color    string
	size     string
	stock    int
	imageURL string
}

type importedProduct struct {
	title       string
	slug        string
	description string
	price       float64
	category    string
	brand       string
	variants    []importedVariant
}

func readCatalogFromXLSX(filePath string) ([]*importedProduct, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows found in XLSX file")
	}

	bySlug := make(map[string]*importedProduct)
	var order []string
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 10 {
			skipped++
			continue
		}

		title := strings.TrimSpace(row[0])
		slug := util.Slugify(strings.TrimSpace(row[1]))
		if slug == "" {
			slug = util.Slugify(title)
		}
		if title == "" || slug == "" {
			skipped++
			continue
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
		if err != nil || price <= 0 {
			skipped++
			continue
		}
		stock, _ := strconv.Atoi(strings.TrimSpace(row[9]))

		product, ok := bySlug[slug]
		if !ok {
			product = &importedProduct{
				title:       title,
				slug:        slug,
				description: strings.TrimSpace(row[2]),
				price:       price,
				category:    strings.TrimSpace(row[4]),
				brand:       strings.TrimSpace(row[5]),
			}
			bySlug[slug] = product
			order = append(order, slug)
		}

		variant := importedVariant{
			sku:   strings.TrimSpace(row[6]),
			color: strings.TrimSpace(row[7]),
			size:  strings.TrimSpace(row[8]),
			stock: stock,
		}
		if len(row) > 10 {
			variant.imageURL = strings.TrimSpace(row[10])
		}
		product.variants = append(product.variants, variant)
	}

	if skipped > 0 {
		fmt.Printf("Skipped %d invalid rows\n", skipped)
	}

	products := make([]*importedProduct, 0, len(order))
	for _, slug := range order {
		products = append(products, bySlug[slug])
	}
	return products, nil
}

func (p *importedProduct) toInput(gdb *gorm.DB) (service.SaveProductInput, error) {
	if p.category == "" {
		return service.SaveProductInput{}, fmt.Errorf("category is required")
	}
	if len(p.variants) == 0 {
		return service.SaveProductInput{}, fmt.Errorf("no variants")
	}

	categoryID, err := findOrCreateCategory(gdb, p.category)
	if err != nil {
		return service.SaveProductInput{}, err
	}

	input := service.SaveProductInput{
		Title:       p.title,
		Slug:        p.slug,
		Description: p.description,
		Price:       p.price,
		CategoryIDs: []uint{categoryID},
	}

	if p.brand != "" {
		brandID, err := findOrCreateBrand(gdb, p.brand)
		if err != nil {
			return service.SaveProductInput{}, err
		}
		input.BrandID = &brandID
	}

	for _, v := range p.variants {
		variant := service.VariantInput{
			SKU:           v.sku,
			Price:         p.price,
			StockQuantity: v.stock,
			Color:         v.color,
			Size:          v.size,
		}
		if v.imageURL != "" {
			variant.ImageURLs = []string{v.imageURL}
		}
		input.Variants = append(input.Variants, variant)
	}
	return input, nil
}

func findOrCreateCategory(gdb *gorm.DB, name string) (uint, error) {
	slug := util.Slugify(name)

	var category model.Category
	err := gdb.Where("slug = ?", slug).First(&category).Error
	if err == nil {
		return category.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	category = model.Category{Name: name, Slug: slug, IsActive: true}
	if err := gdb.Create(&category).Error; err != nil {
		return 0, err
	}
	return category.ID, nil
}

func findOrCreateBrand(gdb *gorm.DB, name string) (uint, error) {
	slug := util.Slugify(name)

	var brand model.Brand
	err := gdb.Where("slug = ?", slug).First(&brand).Error
	if err == nil {
		return brand.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	brand = model.Brand{Name: name, Slug: slug}
	if err := gdb.Create(&brand).Error; err != nil {
		return 0, err
	}
	return brand.ID, nil
}
