package service

import (
	"errors"

	"github.com/clothely/clothely-backend/internal/app/model"
	"github.com/clothely/clothely-backend/internal/app/repository"
	"github.com/clothely/clothely-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrVariantMismatch   = errors.New("variant does not belong to product")
)

type CartService interface {
	GetCart(userID uint) ([]model.CartItem, float64, error)
	AddItem(userID, productID uint, variantID *uint, quantity int) (*model.CartItem, error)
	UpdateQuantity(userID, itemID uint, quantity int) (*model.CartItem, error)
	RemoveItem(userID, itemID uint) error
	ClearCart(userID uint) error
}

type cartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	db       *gorm.DB
}

func NewCartService(db *gorm.DB, carts repository.CartRepository, products repository.ProductRepository) CartService {
	return &cartService{carts: carts, products: products, db: db}
}

func (s *cartService) GetCart(userID uint) ([]model.CartItem, float64, error) {
	items, err := s.carts.FindByUserID(userID)
	if err != nil {
		return nil, 0, err
	}

	var total float64
	for _, item := range items {
		total += itemUnitPrice(item) * float64(item.Quantity)
	}
	return items, total, nil
}

// itemUnitPrice prefers the variant price when the line targets a
// variant, falling back to the product price.
func itemUnitPrice(item model.CartItem) float64 {
	if item.Variant != nil && item.Variant.Price > 0 {
		return item.Variant.Price
	}
	return item.Product.Price
}

func (s *cartService) AddItem(userID, productID uint, variantID *uint, quantity int) (*model.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.products.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	var variant *model.ProductVariant
	if variantID != nil {
		for i := range product.Variants {
			if product.Variants[i].ID == *variantID {
				variant = &product.Variants[i]
				break
			}
		}
		if variant == nil {
			return nil, ErrVariantMismatch
		}
	}

	// Merge with an existing line for the same product and variant.
	existing, err := s.carts.FindItem(userID, productID, variantID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	requested := quantity
	if existing != nil {
		requested += existing.Quantity
	}
	if err := checkStock(variant, requested); err != nil {
		return nil, err
	}

	if existing != nil {
		existing.Quantity = requested
		if err := s.carts.Update(existing); err != nil {
			return nil, err
		}
		return s.carts.FindItemByID(existing.ID)
	}

	item := &model.CartItem{
		UserID:    userID,
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
	}
	if err := s.carts.Create(item); err != nil {
		return nil, err
	}

	logger.Info("Cart item added", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"variant_id": variantID,
		"quantity":   quantity,
	})
	return s.carts.FindItemByID(item.ID)
}

func checkStock(variant *model.ProductVariant, quantity int) error {
	if variant == nil {
		return nil
	}
	if variant.StockQuantity < quantity {
		return ErrInsufficientStock
	}
	return nil
}

func (s *cartService) UpdateQuantity(userID, itemID uint, quantity int) (*model.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.ownedItem(userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := checkStock(item.Variant, quantity); err != nil {
		return nil, err
	}

	item.Quantity = quantity
	if err := s.carts.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *cartService) RemoveItem(userID, itemID uint) error {
	item, err := s.ownedItem(userID, itemID)
	if err != nil {
		return err
	}
	return s.carts.Delete(item.ID)
}

func (s *cartService) ClearCart(userID uint) error {
	return s.carts.DeleteByUserID(userID)
}

// ownedItem loads a cart item and verifies it belongs to the user.
// Items of other users are reported as not found.
func (s *cartService) ownedItem(userID, itemID uint) (*model.CartItem, error) {
	item, err := s.carts.FindItemByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	if item.UserID != userID {
		return nil, ErrCartItemNotFound
	}
	return item, nil
}
