package service

import (
	"context"
	"errors"
	"time"

	"github.com/clothely/clothely-backend/internal/app/model"
	"github.com/clothely/clothely-backend/internal/app/repository"
	"github.com/clothely/clothely-backend/pkg/logger"
	"github.com/clothely/clothely-backend/pkg/redis"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrVariantNotFound = errors.New("variant not found")
)

const (
	filterMetadataCacheKey = "catalog:filters"
	filterMetadataCacheTTL = 5 * time.Minute
)

// FilterMetadata feeds the storefront filter sidebar: the option
// catalog with every value in use, plus categories and brands.
type FilterMetadata struct {
	Options    []OptionMetadata `json:"options"`
	Categories []model.Category `json:"categories"`
	Brands     []model.Brand    `json:"brands"`
}

type OptionMetadata struct {
	ID     uint             `json:"id"`
	Name   string           `json:"name"`
	Slug   string           `json:"slug"`
	Type   model.OptionType `json:"type"`
	Values []string         `json:"values"`
}

type ProductService interface {
	ListProducts(filter repository.ProductFilter) ([]model.Product, int64, error)
	GetProduct(id uint) (*model.Product, error)
	GetProductBySlug(slug string) (*model.Product, error)
	GetFilterMetadata(ctx context.Context) (*FilterMetadata, error)
	InvalidateFilterCache(ctx context.Context)
}

type productService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	brands     repository.BrandRepository
	attributes repository.AttributeRepository
	db         *gorm.DB
}

func NewProductService(
	db *gorm.DB,
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	brands repository.BrandRepository,
	attributes repository.AttributeRepository,
) ProductService {
	return &productService{
		products:   products,
		categories: categories,
		brands:     brands,
		attributes: attributes,
		db:         db,
	}
}

func (s *productService) ListProducts(filter repository.ProductFilter) ([]model.Product, int64, error) {
	filter.ActiveOnly = true
	return s.products.FindWithFilter(filter)
}

func (s *productService) GetProduct(id uint) (*model.Product, error) {
	product, err := s.products.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) GetProductBySlug(slug string) (*model.Product, error) {
	product, err := s.products.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetFilterMetadata aggregates the filter sidebar data, served from
// Redis when warm. Values per option come from the denormalized
// per-product option index so only values actually in use appear.
func (s *productService) GetFilterMetadata(ctx context.Context) (*FilterMetadata, error) {
	var cached FilterMetadata
	if hit, err := redis.GetJSON(ctx, filterMetadataCacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	options, err := s.attributes.FindOptions()
	if err != nil {
		return nil, err
	}

	metadata := &FilterMetadata{}
	for _, option := range options {
		values, err := s.valuesInUse(option.ID)
		if err != nil {
			return nil, err
		}
		if len(values) == 0 {
			continue
		}
		metadata.Options = append(metadata.Options, OptionMetadata{
			ID:     option.ID,
			Name:   option.Name,
			Slug:   option.Slug,
			Type:   option.Type,
			Values: values,
		})
	}

	categories, err := s.categories.FindAll(true)
	if err != nil {
		return nil, err
	}
	metadata.Categories = categories

	brands, err := s.brands.FindAll()
	if err != nil {
		return nil, err
	}
	metadata.Brands = brands

	if err := redis.SetJSON(ctx, filterMetadataCacheKey, metadata, filterMetadataCacheTTL); err != nil {
		logger.Warn("Failed to cache filter metadata", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return metadata, nil
}

func (s *productService) valuesInUse(optionID uint) ([]string, error) {
	var values []string
	err := s.db.Model(&model.VariantOptionValue{}).
		Distinct().
		Where("option_id = ?", optionID).
		Order("value ASC").
		Pluck("value", &values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}

// InvalidateFilterCache drops the cached sidebar after catalog writes.
func (s *productService) InvalidateFilterCache(ctx context.Context) {
	if err := redis.Invalidate(ctx, filterMetadataCacheKey); err != nil {
		logger.Warn("Failed to invalidate filter metadata cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
