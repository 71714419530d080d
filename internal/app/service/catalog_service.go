package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/clothely/clothely-backend/internal/app/model"
	"github.com/clothely/clothely-backend/pkg/logger"
	"github.com/clothely/clothely-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrCategoryRequired          = errors.New("at least one category is required")
	ErrVariantRequired           = errors.New("at least one variant is required")
	ErrCategoryNotFound          = errors.New("category not found")
	ErrBrandNotFound             = errors.New("brand not found")
	ErrDuplicateVariantSignature = errors.New("submission contains two variants with the same option values")
	ErrProductConflict           = errors.New("product was modified by another save")
)

// saveTimeout bounds the whole product save. Complex products touch
// dozens of rows; exceeding the limit aborts the transaction and is
// treated like any other transaction failure, never retried.
const saveTimeout = 30 * time.Second

// SaveProductInput is the normalized admin form payload for a product
// save. ImageURLs nil means the gallery field was omitted and product
// images stay untouched.
type SaveProductInput struct {
	ID             *uint
	Title          string
	Slug           string
	Description    string
	Price          float64
	CompareAtPrice float64
	Weight         float64
	Length         float64
	Width          float64
	Height         float64
	SeoTitle       string
	SeoDescription string
	Tags           string // comma-separated free text
	IsActive       *bool
	// Version enables optimistic concurrency: when set on an update and
	// stale, the whole save fails with ErrProductConflict.
	Version     *int
	CategoryIDs []uint
	BrandID     *uint
	Variants    []VariantInput
	ImageURLs   []string
}

type CatalogService interface {
	SaveProduct(input SaveProductInput) (*model.Product, error)
	DeleteProduct(id uint) error
}

type catalogService struct {
	db   *gorm.DB
	skus *SKUGenerator
}

func NewCatalogService(db *gorm.DB, ids UniqueIDSource) CatalogService {
	return &catalogService{
		db:   db,
		skus: NewSKUGenerator(ids),
	}
}

// SaveProduct drives the end-to-end product save inside one
// transaction: product row, category/brand links, variant
// reconciliation, the derived option index and the product gallery.
// Any failure rolls the whole save back.
func (s *catalogService) SaveProduct(input SaveProductInput) (*model.Product, error) {
	if len(input.CategoryIDs) == 0 {
		return nil, ErrCategoryRequired
	}
	if len(input.Variants) == 0 {
		return nil, ErrVariantRequired
	}
	if err := rejectDuplicateSignatures(input.Variants); err != nil {
		return nil, err
	}

	slug := util.Slugify(input.Slug)
	if slug == "" {
		slug = util.Slugify(input.Title)
	}
	tags := util.SplitTags(input.Tags)

	logger.Info("Saving product", map[string]interface{}{
		"product_id": input.ID,
		"slug":       slug,
		"variants":   len(input.Variants),
		"categories": len(input.CategoryIDs),
	})

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during product save, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"slug": slug,
			})
			panic(r)
		}
	}()

	product, err := s.upsertProduct(tx, input, slug, tags)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := s.replaceCategoryAndBrandLinks(tx, product.ID, input.CategoryIDs, input.BrandID); err != nil {
		tx.Rollback()
		return nil, err
	}

	existing, err := s.loadPersistedVariants(tx, product.ID, input.ID != nil)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	processed := make(map[uint]struct{}, len(input.Variants))
	for _, submitted := range input.Variants {
		variantID, err := s.reconcileVariant(tx, product, existing, submitted)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		processed[variantID] = struct{}{}
	}

	if err := s.deleteUnprocessedVariants(tx, existing, processed); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := s.rebuildOptionIndex(tx, product.ID, input.Variants); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := s.reconcileProductGallery(tx, product.ID, input.ImageURLs); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit product save", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}

	saved, err := s.loadProduct(product.ID)
	if err != nil {
		return nil, err
	}

	logger.Info("Product saved successfully", map[string]interface{}{
		"product_id": saved.ID,
		"slug":       saved.Slug,
		"variants":   len(saved.Variants),
	})
	return saved, nil
}

// rejectDuplicateSignatures refuses a submission in which two variants
// resolve to the same non-empty signature. Accepting one silently
// would make the outcome depend on processing order.
func rejectDuplicateSignatures(variants []VariantInput) error {
	seen := make(map[string]struct{}, len(variants))
	for _, v := range variants {
		sig := Signature(v.optionPairs())
		if sig == "" {
			continue
		}
		if _, dup := seen[sig]; dup {
			return ErrDuplicateVariantSignature
		}
		seen[sig] = struct{}{}
	}
	return nil
}

func (s *catalogService) upsertProduct(tx *gorm.DB, input SaveProductInput, slug string, tags []string) (*model.Product, error) {
	if input.ID == nil {
		product := &model.Product{
			Slug:           slug,
			Title:          input.Title,
			Description:    input.Description,
			Price:          input.Price,
			CompareAtPrice: input.CompareAtPrice,
			Weight:         input.Weight,
			Length:         input.Length,
			Width:          input.Width,
			Height:         input.Height,
			SeoTitle:       input.SeoTitle,
			SeoDescription: input.SeoDescription,
			Tags:           tags,
			IsActive:       true,
			Version:        1,
		}
		if input.IsActive != nil {
			product.IsActive = *input.IsActive
		}
		if err := tx.Create(product).Error; err != nil {
			return nil, err
		}
		return product, nil
	}

	var product model.Product
	if err := tx.First(&product, *input.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if input.Version != nil && *input.Version != product.Version {
		logger.Warn("Stale product save rejected", map[string]interface{}{
			"product_id":        product.ID,
			"submitted_version": *input.Version,
			"current_version":   product.Version,
		})
		return nil, ErrProductConflict
	}

	product.Slug = slug
	product.Title = input.Title
	product.Description = input.Description
	product.Price = input.Price
	product.CompareAtPrice = input.CompareAtPrice
	product.Weight = input.Weight
	product.Length = input.Length
	product.Width = input.Width
	product.Height = input.Height
	product.SeoTitle = input.SeoTitle
	product.SeoDescription = input.SeoDescription
	product.Tags = tags
	product.Version++
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if err := tx.Save(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// replaceCategoryAndBrandLinks fully replaces the link rows rather
// than diffing them. The first submitted category is primary.
func (s *catalogService) replaceCategoryAndBrandLinks(tx *gorm.DB, productID uint, categoryIDs []uint, brandID *uint) error {
	if err := tx.Where("product_id = ?", productID).Delete(&model.ProductCategoryLink{}).Error; err != nil {
		return err
	}
	if err := tx.Where("product_id = ?", productID).Delete(&model.ProductBrandLink{}).Error; err != nil {
		return err
	}

	for i, categoryID := range categoryIDs {
		var category model.Category
		if err := tx.First(&category, categoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}
		link := model.ProductCategoryLink{
			ProductID:  productID,
			CategoryID: categoryID,
			IsPrimary:  i == 0,
			Position:   i,
		}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
	}

	if brandID != nil {
		var brand model.Brand
		if err := tx.First(&brand, *brandID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBrandNotFound
			}
			return err
		}
		link := model.ProductBrandLink{
			ProductID: productID,
			BrandID:   *brandID,
			IsPrimary: true,
		}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *catalogService) loadPersistedVariants(tx *gorm.DB, productID uint, updating bool) ([]model.ProductVariant, error) {
	if !updating {
		return nil, nil
	}
	var variants []model.ProductVariant
	err := tx.
		Preload("OptionValues").
		Preload("Images").
		Where("product_id = ?", productID).
		Order("id ASC").
		Find(&variants).Error
	if err != nil {
		return nil, err
	}
	return variants, nil
}

// reconcileVariant applies one submitted variant: update the matched
// persisted variant or create a new one. Returns the processed
// variant id.
func (s *catalogService) reconcileVariant(tx *gorm.DB, product *model.Product, existing []model.ProductVariant, submitted VariantInput) (uint, error) {
	matched := MatchVariant(existing, submitted)
	if matched == nil {
		return s.createVariant(tx, product, submitted)
	}

	matched.Price = submitted.Price
	matched.StockQuantity = submitted.StockQuantity
	matched.Barcode = submitted.Barcode
	if sku := strings.TrimSpace(submitted.SKU); sku != "" {
		matched.SKU = sku
	}
	if submitted.Color != "" {
		matched.Color = submitted.Color
	}
	if submitted.Size != "" {
		matched.Size = submitted.Size
	}
	if err := tx.Save(matched).Error; err != nil {
		return 0, err
	}

	// Option values are fully replaced when the submission specifies
	// any; a submission without option values keeps the persisted rows.
	if len(submitted.OptionValues) > 0 {
		if err := tx.Unscoped().Where("variant_id = ?", matched.ID).Delete(&model.VariantOptionValue{}).Error; err != nil {
			return 0, err
		}
		if err := s.insertOptionValues(tx, matched.ID, submitted.OptionValues); err != nil {
			return 0, err
		}
	}

	adds, removeIDs := ReconcileImages(matched.Images, submitted.ImageURLs)
	if err := s.applyImageChanges(tx, nil, &matched.ID, adds, removeIDs); err != nil {
		return 0, err
	}
	return matched.ID, nil
}

func (s *catalogService) createVariant(tx *gorm.DB, product *model.Product, submitted VariantInput) (uint, error) {
	variant := model.ProductVariant{
		ProductID:     product.ID,
		SKU:           s.skus.Generate(product.Slug, submitted),
		Barcode:       submitted.Barcode,
		Price:         submitted.Price,
		StockQuantity: submitted.StockQuantity,
		IsActive:      true,
		Color:         submitted.Color,
		Size:          submitted.Size,
	}
	if err := tx.Create(&variant).Error; err != nil {
		return 0, err
	}

	switch {
	case len(submitted.OptionValues) > 0:
		if err := s.insertOptionValues(tx, variant.ID, submitted.OptionValues); err != nil {
			return 0, err
		}
	case submitted.Color != "" && submitted.Size != "":
		// Legacy-only submission: synthesize option values so the new
		// variant participates in signature matching from now on.
		if err := s.synthesizeLegacyOptionValues(tx, variant.ID, submitted.Color, submitted.Size); err != nil {
			return 0, err
		}
	}

	adds, _ := ReconcileImages(nil, submitted.ImageURLs)
	if err := s.applyImageChanges(tx, nil, &variant.ID, adds, nil); err != nil {
		return 0, err
	}
	return variant.ID, nil
}

func (s *catalogService) insertOptionValues(tx *gorm.DB, variantID uint, values []OptionValueInput) error {
	for _, ov := range values {
		row := model.VariantOptionValue{
			VariantID:     variantID,
			OptionID:      ov.OptionID,
			Value:         ov.Value,
			GlobalValueID: ov.GlobalValueID,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *catalogService) synthesizeLegacyOptionValues(tx *gorm.DB, variantID uint, color, size string) error {
	colorOption, err := s.findOrCreateOption(tx, "Color", model.OptionTypeColor)
	if err != nil {
		return err
	}
	sizeOption, err := s.findOrCreateOption(tx, "Size", model.OptionTypeSize)
	if err != nil {
		return err
	}
	values := []model.VariantOptionValue{
		{VariantID: variantID, OptionID: colorOption.ID, Value: color},
		{VariantID: variantID, OptionID: sizeOption.ID, Value: size},
	}
	for _, v := range values {
		if err := tx.Create(&v).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *catalogService) findOrCreateOption(tx *gorm.DB, name string, optionType model.OptionType) (*model.VariantOption, error) {
	slug := util.Slugify(name)
	var option model.VariantOption
	err := tx.Where("slug = ?", slug).First(&option).Error
	if err == nil {
		return &option, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	option = model.VariantOption{Name: name, Slug: slug, Type: optionType}
	if err := tx.Create(&option).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func (s *catalogService) applyImageChanges(tx *gorm.DB, productID, variantID *uint, adds []ImageAdd, removeIDs []uint) error {
	for _, add := range adds {
		img := model.ProductImage{
			ProductID: productID,
			VariantID: variantID,
			URL:       add.URL,
			SortOrder: add.SortOrder,
		}
		if err := tx.Create(&img).Error; err != nil {
			return err
		}
	}
	if len(removeIDs) > 0 {
		if err := tx.Unscoped().Where("id IN ?", removeIDs).Delete(&model.ProductImage{}).Error; err != nil {
			return err
		}
	}
	return nil
}

// deleteUnprocessedVariants removes every persisted variant the
// submission no longer references, cascading its images and option
// values.
func (s *catalogService) deleteUnprocessedVariants(tx *gorm.DB, existing []model.ProductVariant, processed map[uint]struct{}) error {
	for i := range existing {
		if _, ok := processed[existing[i].ID]; ok {
			continue
		}
		logger.Debug("Deleting variant dropped from submission", map[string]interface{}{
			"variant_id": existing[i].ID,
			"sku":        existing[i].SKU,
		})
		if err := tx.Unscoped().Where("variant_id = ?", existing[i].ID).Delete(&model.VariantOptionValue{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("variant_id = ?", existing[i].ID).Delete(&model.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.ProductVariant{}, existing[i].ID).Error; err != nil {
			return err
		}
	}
	return nil
}

// rebuildOptionIndex recomputes the denormalized per-product option
// index from scratch. Delete-all-then-recreate is intentional:
// incremental patching risks stale value sets, and the filter UI only
// needs the full current picture.
func (s *catalogService) rebuildOptionIndex(tx *gorm.DB, productID uint, variants []VariantInput) error {
	if err := tx.Where("product_id = ?", productID).Delete(&model.ProductVariantOption{}).Error; err != nil {
		return err
	}

	optionOrder := []uint{}
	valuesByOption := make(map[uint][]string)
	seenValues := make(map[uint]map[string]struct{})

	for _, v := range variants {
		for _, ov := range v.OptionValues {
			if _, ok := seenValues[ov.OptionID]; !ok {
				seenValues[ov.OptionID] = make(map[string]struct{})
				optionOrder = append(optionOrder, ov.OptionID)
			}
			if _, dup := seenValues[ov.OptionID][ov.Value]; dup {
				continue
			}
			seenValues[ov.OptionID][ov.Value] = struct{}{}
			valuesByOption[ov.OptionID] = append(valuesByOption[ov.OptionID], ov.Value)
		}
	}

	for position, optionID := range optionOrder {
		row := model.ProductVariantOption{
			ProductID: productID,
			OptionID:  optionID,
			Values:    valuesByOption[optionID],
			Position:  position,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

// reconcileProductGallery applies the add/remove logic to the images
// scoped to the product itself (no variant association).
func (s *catalogService) reconcileProductGallery(tx *gorm.DB, productID uint, incoming []string) error {
	if incoming == nil {
		return nil
	}
	var existing []model.ProductImage
	err := tx.
		Where("product_id = ? AND variant_id IS NULL", productID).
		Order("sort_order ASC").
		Find(&existing).Error
	if err != nil {
		return err
	}
	adds, removeIDs := ReconcileImages(existing, incoming)
	return s.applyImageChanges(tx, &productID, nil, adds, removeIDs)
}

func (s *catalogService) loadProduct(id uint) (*model.Product, error) {
	var product model.Product
	err := s.db.
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("product_variants.id ASC") }).
		Preload("Variants.OptionValues").
		Preload("Variants.Images").
		Preload("Images", "variant_id IS NULL").
		Preload("CategoryLinks").
		Preload("BrandLink").
		Preload("OptionIndex").
		First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a product and everything scoped to it.
func (s *catalogService) DeleteProduct(id uint) error {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
	})

	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var product model.Product
	if err := tx.First(&product, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	var variantIDs []uint
	if err := tx.Model(&model.ProductVariant{}).Where("product_id = ?", id).Pluck("id", &variantIDs).Error; err != nil {
		tx.Rollback()
		return err
	}
	if len(variantIDs) > 0 {
		if err := tx.Unscoped().Where("variant_id IN ?", variantIDs).Delete(&model.VariantOptionValue{}).Error; err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Unscoped().Where("variant_id IN ?", variantIDs).Delete(&model.ProductImage{}).Error; err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Unscoped().Where("product_id = ?", id).Delete(&model.ProductImage{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("product_id = ?", id).Delete(&model.ProductVariantOption{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("product_id = ?", id).Delete(&model.ProductCategoryLink{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("product_id = ?", id).Delete(&model.ProductBrandLink{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("product_id = ?", id).Delete(&model.ProductVariant{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&product).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	logger.Info("Product deleted successfully", map[string]interface{}{
		"product_id": id,
	})
	return nil
}
