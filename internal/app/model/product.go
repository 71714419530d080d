package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Product struct {
	ID             uint    `gorm:"primarykey" json:"id"`
	Slug           string  `gorm:"uniqueIndex:idx_products_slug;not null" json:"slug"`
	Title          string  `gorm:"not null" json:"title"`
	Description    string  `gorm:"type:text" json:"description"`
	Price          float64 `gorm:"not null" json:"price"`
	CompareAtPrice float64 `json:"compare_at_price"`
	// Shipping dimensions
	Weight float64 `json:"weight"` // g
	Length float64 `json:"length"` // cm
	Width  float64 `json:"width"`  // cm
	Height float64 `json:"height"` // cm
	// SEO metadata
	SeoTitle       string `json:"seo_title"`
	SeoDescription string `gorm:"type:text" json:"seo_description"`

	Tags     pq.StringArray `gorm:"type:text[];default:'{}'" json:"tags"`
	IsActive bool           `gorm:"default:true" json:"is_active"`
	// Version is an optimistic lock counter, bumped on every save.
	// A stale submission fails the whole save with a conflict error.
	Version   int            `gorm:"default:1" json:"version"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Variants      []ProductVariant       `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	Images        []ProductImage         `gorm:"foreignKey:ProductID" json:"images,omitempty"`
	CategoryLinks []ProductCategoryLink  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"category_links,omitempty"`
	BrandLink     *ProductBrandLink      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"brand_link,omitempty"`
	OptionIndex   []ProductVariantOption `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"option_index,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// ProductImage belongs to either a product (general gallery) or a
// variant, never both.
type ProductImage struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	ProductID *uint          `gorm:"index" json:"product_id,omitempty"`
	VariantID *uint          `gorm:"index" json:"variant_id,omitempty"`
	URL       string         `gorm:"not null" json:"url"`
	SortOrder int            `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ProductImage) TableName() string {
	return "product_images"
}
