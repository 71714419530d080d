package repository

import (
	"github.com/clothely/clothely-backend/internal/app/model"
	"github.com/clothely/clothely-backend/pkg/logger"
	"gorm.io/gorm"
)

// AttributeRepository manages the variant option catalog: option
// definitions and their curated global values.
type AttributeRepository interface {
	CreateOption(option *model.VariantOption) error
	FindOptions() ([]model.VariantOption, error)
	FindOptionByID(id uint) (*model.VariantOption, error)
	FindOptionBySlug(slug string) (*model.VariantOption, error)
	UpdateOption(option *model.VariantOption) error
	DeleteOption(id uint) error
	CountOptionUsage(optionID uint) (int64, error)

	CreateGlobalValue(value *model.GlobalValue) error
	FindGlobalValues(optionID uint) ([]model.GlobalValue, error)
	UpdateGlobalValue(value *model.GlobalValue) error
	DeleteGlobalValue(id uint) error
}

type attributeRepository struct {
	db *gorm.DB
}

func NewAttributeRepository(db *gorm.DB) AttributeRepository {
	return &attributeRepository{db: db}
}

func (r *attributeRepository) CreateOption(option *model.VariantOption) error {
	if err := r.db.Create(option).Error; err != nil {
		logger.Error("Failed to create variant option in database", err, map[string]interface{}{
			"name": option.Name,
			"slug": option.Slug,
		})
		return err
	}
	return nil
}

func (r *attributeRepository) FindOptions() ([]model.VariantOption, error) {
	var options []model.VariantOption
	err := r.db.
		Preload("GlobalValues", func(db *gorm.DB) *gorm.DB {
			return db.Order("global_values.sort_order ASC")
		}).
		Order("id ASC").
		Find(&options).Error
	if err != nil {
		return nil, err
	}
	return options, nil
}

func (r *attributeRepository) FindOptionByID(id uint) (*model.VariantOption, error) {
	var option model.VariantOption
	err := r.db.
		Preload("GlobalValues", func(db *gorm.DB) *gorm.DB {
			return db.Order("global_values.sort_order ASC")
		}).
		First(&option, id).Error
	if err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *attributeRepository) FindOptionBySlug(slug string) (*model.VariantOption, error) {
	var option model.VariantOption
	if err := r.db.Where("slug = ?", slug).First(&option).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *attributeRepository) UpdateOption(option *model.VariantOption) error {
	return r.db.Save(option).Error
}

func (r *attributeRepository) DeleteOption(id uint) error {
	return r.db.Delete(&model.VariantOption{}, id).Error
}

// CountOptionUsage reports how many variant option value rows
// reference the option. A nonzero count blocks deletion.
func (r *attributeRepository) CountOptionUsage(optionID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.VariantOptionValue{}).
		Where("option_id = ?", optionID).
		Count(&count).Error
	return count, err
}

func (r *attributeRepository) CreateGlobalValue(value *model.GlobalValue) error {
	return r.db.Create(value).Error
}

func (r *attributeRepository) FindGlobalValues(optionID uint) ([]model.GlobalValue, error) {
	var values []model.GlobalValue
	err := r.db.
		Where("option_id = ?", optionID).
		Order("sort_order ASC").
		Find(&values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}

func (r *attributeRepository) UpdateGlobalValue(value *model.GlobalValue) error {
	return r.db.Save(value).Error
}

func (r *attributeRepository) DeleteGlobalValue(id uint) error {
	return r.db.Delete(&model.GlobalValue{}, id).Error
}
