package service

import (
	"strings"

	"github.com/clothely/clothely-backend/internal/app/model"
)

// OptionValueInput is a submitted option-value pair for one variant.
type OptionValueInput struct {
	OptionID      uint   `json:"option_id" binding:"required"`
	Value         string `json:"value" binding:"required"`
	GlobalValueID *uint  `json:"global_value_id,omitempty"`
}

// VariantInput describes one submitted variant of a product save.
// ImageURLs distinguishes omitted (nil: images untouched) from empty
// (delete all images of the variant).
type VariantInput struct {
	SKU           string             `json:"sku"`
	Barcode       string             `json:"barcode"`
	Price         float64            `json:"price" binding:"required,gt=0"`
	StockQuantity int                `json:"stock_quantity" binding:"gte=0"`
	OptionValues  []OptionValueInput `json:"option_values,omitempty"`
	// Legacy flat attributes, used only when no option values are given.
	Color     string   `json:"color"`
	Size      string   `json:"size"`
	ImageURLs []string `json:"image_urls,omitempty"`
}

func (v VariantInput) optionPairs() []OptionPair {
	pairs := make([]OptionPair, 0, len(v.OptionValues))
	for _, ov := range v.OptionValues {
		pairs = append(pairs, OptionPair{OptionID: ov.OptionID, Value: ov.Value})
	}
	return pairs
}

// matchStrategy tries to find the persisted variant a submission refers
// to. Strategies are pure and independently testable.
type matchStrategy func(existing []model.ProductVariant, submitted VariantInput) *model.ProductVariant

// variantMatchers is the identity priority chain: an explicit SKU is
// the strongest user-supplied identity and wins even when computed
// attributes drifted; the signature is the structural identity for
// attribute-driven variants; the legacy bridge lets old color/size-only
// definitions interoperate with the option-value model.
var variantMatchers = []matchStrategy{
	matchBySKU,
	matchBySignature,
	matchByLegacyFields,
}

// MatchVariant returns the best persisted match for a submitted
// variant, or nil when the variant is new. Strategies are evaluated in
// priority order; the first hit wins.
func MatchVariant(existing []model.ProductVariant, submitted VariantInput) *model.ProductVariant {
	for _, match := range variantMatchers {
		if v := match(existing, submitted); v != nil {
			return v
		}
	}
	return nil
}

func matchBySKU(existing []model.ProductVariant, submitted VariantInput) *model.ProductVariant {
	sku := strings.TrimSpace(submitted.SKU)
	if sku == "" {
		return nil
	}
	for i := range existing {
		if existing[i].SKU == sku {
			return &existing[i]
		}
	}
	return nil
}

func matchBySignature(existing []model.ProductVariant, submitted VariantInput) *model.ProductVariant {
	if len(submitted.OptionValues) == 0 {
		return nil
	}
	signature := Signature(submitted.optionPairs())
	for i := range existing {
		if VariantSignature(&existing[i]) == signature {
			return &existing[i]
		}
	}
	return nil
}

// matchByLegacyFields is an approximate bridge, not a strict schema
// match: the color and size strings only have to appear among the
// existing variant's option values, regardless of which option they
// were declared under.
func matchByLegacyFields(existing []model.ProductVariant, submitted VariantInput) *model.ProductVariant {
	if len(submitted.OptionValues) > 0 || submitted.Color == "" || submitted.Size == "" {
		return nil
	}
	for i := range existing {
		var hasColor, hasSize bool
		for _, ov := range existing[i].OptionValues {
			if ov.Value == submitted.Color {
				hasColor = true
			}
			if ov.Value == submitted.Size {
				hasSize = true
			}
		}
		if hasColor && hasSize {
			return &existing[i]
		}
	}
	return nil
}
