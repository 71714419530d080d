package model

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Slug      string         `gorm:"uniqueIndex:idx_categories_slug;not null" json:"slug"`
	ParentID  *uint          `gorm:"index" json:"parent_id,omitempty"`
	Position  int            `gorm:"default:0" json:"position"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}

// ProductCategoryLink assigns a product to a category. The first
// submitted category is marked primary; links are fully replaced on
// every product save, never diffed.
type ProductCategoryLink struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	ProductID  uint      `gorm:"index;not null" json:"product_id"`
	CategoryID uint      `gorm:"index;not null" json:"category_id"`
	IsPrimary  bool      `gorm:"default:false" json:"is_primary"`
	Position   int       `gorm:"default:0" json:"position"`
	CreatedAt  time.Time `json:"created_at"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (ProductCategoryLink) TableName() string {
	return "product_category_links"
}

type Brand struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Slug      string         `gorm:"uniqueIndex:idx_brands_slug;not null" json:"slug"`
	LogoURL   string         `json:"logo_url"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Brand) TableName() string {
	return "brands"
}

type ProductBrandLink struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ProductID uint      `gorm:"uniqueIndex:idx_product_brand_links_product;not null" json:"product_id"`
	BrandID   uint      `gorm:"index;not null" json:"brand_id"`
	IsPrimary bool      `gorm:"default:true" json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`

	Brand Brand `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
}

func (ProductBrandLink) TableName() string {
	return "product_brand_links"
}
