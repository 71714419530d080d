package repository

import (
	"github.com/clothely/clothely-backend/internal/app/model"
	"github.com/clothely/clothely-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	FindByUserID(userID uint) ([]model.CartItem, error)
	FindItem(userID, productID uint, variantID *uint) (*model.CartItem, error)
	FindItemByID(id uint) (*model.CartItem, error)
	Create(item *model.CartItem) error
	Update(item *model.CartItem) error
	Delete(id uint) error
	DeleteByUserID(userID uint) error
	DeleteStale(before int) (int64, error)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) FindByUserID(userID uint) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.
		Preload("Product").
		Preload("Product.Images", "variant_id IS NULL").
		Preload("Variant").
		Preload("Variant.OptionValues").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		logger.Error("Failed to find cart items in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return items, nil
}

func (r *cartRepository) FindItem(userID, productID uint, variantID *uint) (*model.CartItem, error) {
	query := r.db.Where("user_id = ? AND product_id = ?", userID, productID)
	if variantID != nil {
		query = query.Where("variant_id = ?", *variantID)
	} else {
		query = query.Where("variant_id IS NULL")
	}

	var item model.CartItem
	if err := query.First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) FindItemByID(id uint) (*model.CartItem, error) {
	var item model.CartItem
	if err := r.db.Preload("Product").Preload("Variant").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) Create(item *model.CartItem) error {
	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create cart item in database", err, map[string]interface{}{
			"user_id":    item.UserID,
			"product_id": item.ProductID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) Update(item *model.CartItem) error {
	return r.db.Save(item).Error
}

func (r *cartRepository) Delete(id uint) error {
	return r.db.Delete(&model.CartItem{}, id).Error
}

func (r *cartRepository) DeleteByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error
}

// DeleteStale removes cart items untouched for the given number of
// days. Used by the scheduled cleanup job.
func (r *cartRepository) DeleteStale(beforeDays int) (int64, error) {
	result := r.db.
		Where("updated_at < CURRENT_TIMESTAMP - ? * INTERVAL '1 day'", beforeDays).
		Delete(&model.CartItem{})
	if result.Error != nil {
		logger.Error("Failed to delete stale cart items", result.Error, map[string]interface{}{
			"before_days": beforeDays,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
