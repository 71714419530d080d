package repository

import (
	"github.com/clothely/clothely-backend/internal/app/model"
	"gorm.io/gorm"
)

type BrandRepository interface {
	Create(brand *model.Brand) error
	FindAll() ([]model.Brand, error)
	FindByID(id uint) (*model.Brand, error)
	Update(brand *model.Brand) error
	Delete(id uint) error
	CountProducts(brandID uint) (int64, error)
}

type brandRepository struct {
	db *gorm.DB
}

func NewBrandRepository(db *gorm.DB) BrandRepository {
	return &brandRepository{db: db}
}

func (r *brandRepository) Create(brand *model.Brand) error {
	return r.db.Create(brand).Error
}

func (r *brandRepository) FindAll() ([]model.Brand, error) {
	var brands []model.Brand
	if err := r.db.Order("name ASC").Find(&brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}

func (r *brandRepository) FindByID(id uint) (*model.Brand, error) {
	var brand model.Brand
	if err := r.db.First(&brand, id).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *brandRepository) Update(brand *model.Brand) error {
	return r.db.Save(brand).Error
}

func (r *brandRepository) Delete(id uint) error {
	return r.db.Delete(&model.Brand{}, id).Error
}

func (r *brandRepository) CountProducts(brandID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.ProductBrandLink{}).
		Where("brand_id = ?", brandID).
		Count(&count).Error
	return count, err
}
