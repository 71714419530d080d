package db

import (
	"github.com/clothely/clothely-backend/internal/app/model"
	"github.com/clothely/clothely-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Address{},
		&model.Category{},
		&model.Brand{},
		&model.VariantOption{},
		&model.GlobalValue{},
		&model.Product{},
		&model.ProductVariant{},
		&model.VariantOptionValue{},
		&model.ProductVariantOption{},
		&model.ProductImage{},
		&model.ProductCategoryLink{},
		&model.ProductBrandLink{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds the baseline catalog attributes every storefront needs
func Seed() error {
	return seedVariantOptions()
}

// seedVariantOptions creates the Color and Size attribute definitions
// referenced by the legacy variant fields, plus a few common values.
func seedVariantOptions() error {
	var count int64
	if err := DB.Model(&model.VariantOption{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Variant options already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding baseline variant options...")

	options := []model.VariantOption{
		{Name: "Color", Slug: "color", Type: model.OptionTypeColor},
		{Name: "Size", Slug: "size", Type: model.OptionTypeSize},
	}
	for i := range options {
		if err := DB.Create(&options[i]).Error; err != nil {
			logger.Error("Failed to seed variant option", err, map[string]interface{}{
				"slug": options[i].Slug,
			})
			return err
		}
	}

	colorValues := []model.GlobalValue{
		{OptionID: options[0].ID, Value: "Black", ColorHex: "#000000", SortOrder: 0},
		{OptionID: options[0].ID, Value: "White", ColorHex: "#FFFFFF", SortOrder: 1},
		{OptionID: options[0].ID, Value: "Red", ColorHex: "#D32F2F", SortOrder: 2},
		{OptionID: options[0].ID, Value: "Navy", ColorHex: "#1A237E", SortOrder: 3},
	}
	sizeValues := []model.GlobalValue{
		{OptionID: options[1].ID, Value: "S", SortOrder: 0},
		{OptionID: options[1].ID, Value: "M", SortOrder: 1},
		{OptionID: options[1].ID, Value: "L", SortOrder: 2},
		{OptionID: options[1].ID, Value: "XL", SortOrder: 3},
	}
	for _, v := range append(colorValues, sizeValues...) {
		if err := DB.Create(&v).Error; err != nil {
			logger.Error("Failed to seed global value", err, map[string]interface{}{
				"value": v.Value,
			})
			return err
		}
	}

	logger.Info("Baseline variant options seeded successfully", map[string]interface{}{
		"options": len(options),
		"values":  len(colorValues) + len(sizeValues),
	})
	return nil
}
