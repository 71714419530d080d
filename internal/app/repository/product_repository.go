package repository

import (
	"fmt"

	"github.com/clothely/clothely-backend/internal/app/model"
	"github.com/clothely/clothely-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductSort string

const (
	ProductSortPrice     ProductSort = "price"
	ProductSortCreatedAt ProductSort = "created_at"
	ProductSortTitle     ProductSort = "title"
)

// OptionFilter narrows products to those with at least one variant
// carrying the given value for the given option.
type OptionFilter struct {
	OptionID uint
	Value    string
}

type ProductFilter struct {
	CategoryID    *uint
	BrandID       *uint
	Tag           string
	Search        string
	MinPrice      *float64
	MaxPrice      *float64
	Options       []OptionFilter
	InStockOnly   bool
	ActiveOnly    bool
	SortBy        ProductSort
	SortAscending bool
	Limit         int
	Offset        int
}

type ProductRepository interface {
	FindWithFilter(filter ProductFilter) ([]model.Product, int64, error)
	FindByID(id uint) (*model.Product, error)
	FindBySlug(slug string) (*model.Product, error)
	FindVariantBySKU(sku string) (*model.ProductVariant, error)
	FindAllForExport() ([]model.Product, error)
	DeleteOrphanedImages() (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) baseQuery() *gorm.DB {
	return r.db.Model(&model.Product{}).
		Preload("Variants", "is_active = ?", true).
		Preload("Variants.OptionValues").
		Preload("Variants.Images").
		Preload("Images", "variant_id IS NULL").
		Preload("OptionIndex").
		Preload("BrandLink")
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"category_id": filter.CategoryID,
		"brand_id":    filter.BrandID,
		"tag":         filter.Tag,
		"search":      filter.Search,
		"options":     len(filter.Options),
		"limit":       filter.Limit,
		"offset":      filter.Offset,
	})

	query := r.baseQuery()

	if filter.ActiveOnly {
		query = query.Where("products.is_active = ?", true)
	}

	if filter.CategoryID != nil {
		categorySubquery := r.db.Table("product_category_links").
			Select("product_id").
			Where("category_id = ?", *filter.CategoryID)
		query = query.Where("products.id IN (?)", categorySubquery)
	}

	if filter.BrandID != nil {
		brandSubquery := r.db.Table("product_brand_links").
			Select("product_id").
			Where("brand_id = ?", *filter.BrandID)
		query = query.Where("products.id IN (?)", brandSubquery)
	}

	if filter.Tag != "" {
		query = query.Where("? = ANY(products.tags)", filter.Tag)
	}

	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("products.title LIKE ? OR products.description LIKE ?", like, like)
	}

	if filter.MinPrice != nil {
		query = query.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}

	// Each option filter narrows to products owning at least one
	// variant with the requested value. Filters on different options
	// are conjunctive.
	for _, opt := range filter.Options {
		variantSubquery := r.db.Table("variant_option_values").
			Select("product_variants.product_id").
			Joins("JOIN product_variants ON product_variants.id = variant_option_values.variant_id").
			Where("variant_option_values.option_id = ? AND variant_option_values.value = ?", opt.OptionID, opt.Value).
			Where("variant_option_values.deleted_at IS NULL")
		query = query.Where("products.id IN (?)", variantSubquery)
	}

	if filter.InStockOnly {
		stockSubquery := r.db.Table("product_variants").
			Select("product_id").
			Where("stock_quantity > 0 AND deleted_at IS NULL")
		query = query.Where("products.id IN (?)", stockSubquery)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		logger.Error("Failed to count products with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}

	direction := "DESC"
	if filter.SortAscending {
		direction = "ASC"
	}
	switch filter.SortBy {
	case ProductSortPrice:
		query = query.Order("products.price " + direction)
	case ProductSortTitle:
		query = query.Order("products.title " + direction)
	case ProductSortCreatedAt:
		fallthrough
	default:
		query = query.Order("products.created_at " + direction)
	}
	query = query.Order("products.id ASC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return products, total, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.baseQuery().
		Preload("CategoryLinks").
		First(&product, id).Error
	if err != nil {
		logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySlug(slug string) (*model.Product, error) {
	logger.Debug("Finding product by slug in database", map[string]interface{}{
		"slug": slug,
	})

	var product model.Product
	err := r.baseQuery().
		Preload("CategoryLinks").
		Where("products.slug = ?", slug).
		First(&product).Error
	if err != nil {
		logger.Error("Failed to find product by slug in database", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindVariantBySKU(sku string) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	err := r.db.
		Preload("OptionValues").
		Preload("Images").
		Where("sku = ?", sku).
		First(&variant).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

// DeleteOrphanedImages hard-deletes variant-scoped images whose
// variant no longer exists. The save path cleans up after itself;
// this catches rows left behind by out-of-band variant deletions.
func (r *productRepository) DeleteOrphanedImages() (int64, error) {
	liveVariants := r.db.Table("product_variants").
		Select("id").
		Where("deleted_at IS NULL")
	result := r.db.Unscoped().
		Where("variant_id IS NOT NULL AND variant_id NOT IN (?)", liveVariants).
		Delete(&model.ProductImage{})
	if result.Error != nil {
		logger.Error("Failed to delete orphaned variant images", result.Error, nil)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *productRepository) FindAllForExport() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Model(&model.Product{}).
		Preload("Variants").
		Preload("Variants.OptionValues").
		Preload("BrandLink").
		Preload("CategoryLinks").
		Order("products.id ASC").
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to load products for export", err, nil)
		return nil, err
	}
	return products, nil
}
