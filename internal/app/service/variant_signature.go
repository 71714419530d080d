package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/clothely/clothely-backend/internal/app/model"
)

// OptionPair is one (option, value) attribute of a variant.
type OptionPair struct {
	OptionID uint
	Value    string
}

// Signature canonicalizes a variant's option-value set into an
// order-independent identity string: pairs formatted as
// "optionID:value", sorted, joined with "|". An empty pair set yields
// the empty string. The same function must be applied to submitted and
// persisted pairs before comparison or matching silently fails.
func Signature(pairs []OptionPair) string {
	if len(pairs) == 0 {
		return ""
	}
	segments := make([]string, 0, len(pairs))
	for _, p := range pairs {
		segments = append(segments, fmt.Sprintf("%d:%s", p.OptionID, p.Value))
	}
	sort.Strings(segments)
	return strings.Join(segments, "|")
}

// VariantSignature computes the signature of a persisted variant from
// its option-value rows.
func VariantSignature(v *model.ProductVariant) string {
	pairs := make([]OptionPair, 0, len(v.OptionValues))
	for _, ov := range v.OptionValues {
		pairs = append(pairs, OptionPair{OptionID: ov.OptionID, Value: ov.Value})
	}
	return Signature(pairs)
}
