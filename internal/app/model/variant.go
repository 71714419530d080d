package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type OptionType string

const (
	OptionTypeText   OptionType = "TEXT"
	OptionTypeColor  OptionType = "COLOR"
	OptionTypeSize   OptionType = "SIZE"
	OptionTypeSelect OptionType = "SELECT"
	OptionTypeNumber OptionType = "NUMBER"
)

// VariantOption is a catalog-level attribute definition (e.g. "Color",
// "Size") shared across products.
type VariantOption struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Slug      string         `gorm:"uniqueIndex:idx_variant_options_slug;not null" json:"slug"`
	Type      OptionType     `gorm:"type:varchar(20);default:'TEXT'" json:"type"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	GlobalValues []GlobalValue `gorm:"foreignKey:OptionID;constraint:OnDelete:CASCADE" json:"global_values,omitempty"`
}

func (VariantOption) TableName() string {
	return "variant_options"
}

// GlobalValue is a predefined, reusable value for a VariantOption
// (e.g. "Red" with its display hex).
type GlobalValue struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	OptionID  uint           `gorm:"index;not null" json:"option_id"`
	Value     string         `gorm:"not null" json:"value"`
	ColorHex  string         `json:"color_hex"`
	SortOrder int            `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Option VariantOption `gorm:"foreignKey:OptionID" json:"-"`
}

func (GlobalValue) TableName() string {
	return "global_values"
}

// ProductVariant is one purchasable combination of attribute values
// for a product.
type ProductVariant struct {
	ID            uint    `gorm:"primarykey" json:"id"`
	ProductID     uint    `gorm:"index;not null" json:"product_id"`
	SKU           string  `gorm:"index;not null" json:"sku"`
	Barcode       string  `json:"barcode"`
	Price         float64 `gorm:"not null" json:"price"`
	StockQuantity int     `gorm:"default:0" json:"stock_quantity"`
	IsActive      bool    `gorm:"default:true" json:"is_active"`
	// Legacy flat fields, predating the option-value model. Kept only
	// as a fallback matching and SKU-generation path.
	Color string `json:"color"`
	Size  string `json:"size"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OptionValues []VariantOptionValue `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE" json:"option_values,omitempty"`
	Images       []ProductImage       `gorm:"foreignKey:VariantID" json:"images,omitempty"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}

// VariantOptionValue joins a variant to a VariantOption with a literal
// value, optionally referencing a GlobalValue.
type VariantOptionValue struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	VariantID     uint           `gorm:"index;not null" json:"variant_id"`
	OptionID      uint           `gorm:"index;not null" json:"option_id"`
	Value         string         `gorm:"not null" json:"value"`
	GlobalValueID *uint          `json:"global_value_id,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Option VariantOption `gorm:"foreignKey:OptionID" json:"-"`
}

func (VariantOptionValue) TableName() string {
	return "variant_option_values"
}

// ProductVariantOption is the denormalized per-product filter index:
// for each option used by the product's variants, the distinct set of
// values in use. Fully derived; rebuilt from scratch on every save.
type ProductVariantOption struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	ProductID uint           `gorm:"index;not null" json:"product_id"`
	OptionID  uint           `gorm:"index;not null" json:"option_id"`
	Values    pq.StringArray `gorm:"type:text[];default:'{}'" json:"values"`
	Position  int            `gorm:"default:0" json:"position"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	Option VariantOption `gorm:"foreignKey:OptionID" json:"option,omitempty"`
}

func (ProductVariantOption) TableName() string {
	return "product_variant_options"
}
