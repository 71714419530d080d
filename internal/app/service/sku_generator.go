package service

import (
	"strings"

	"github.com/google/uuid"
)

// UniqueIDSource supplies process-wide unique strings. It is injected
// so tests can substitute a deterministic stub; production code uses
// random UUIDs.
type UniqueIDSource interface {
	NewID() string
}

type uuidSource struct{}

func (uuidSource) NewID() string {
	return uuid.NewString()
}

// NewUUIDSource returns the production UniqueIDSource backed by
// random UUIDs.
func NewUUIDSource() UniqueIDSource {
	return uuidSource{}
}

// SKUGenerator derives human-readable SKUs for variants that were not
// given one explicitly. All paths except the random fallback are pure:
// re-running a save with identical variant data regenerates the
// identical SKU.
type SKUGenerator struct {
	ids UniqueIDSource
}

func NewSKUGenerator(ids UniqueIDSource) *SKUGenerator {
	if ids == nil {
		ids = uuidSource{}
	}
	return &SKUGenerator{ids: ids}
}

// Generate derives a SKU for one variant, in priority order:
// explicit SKU verbatim; slug prefix plus cleaned option values in
// submission order; slug prefix plus legacy color/size; slug prefix
// plus a random unique suffix when nothing distinguishes the variant.
func (g *SKUGenerator) Generate(productSlug string, v VariantInput) string {
	if sku := strings.TrimSpace(v.SKU); sku != "" {
		return sku
	}

	prefix := cleanSegment(productSlug, 4)

	if len(v.OptionValues) > 0 {
		segments := []string{prefix}
		for _, ov := range v.OptionValues {
			if seg := cleanSegment(ov.Value, 4); seg != "" {
				segments = append(segments, seg)
			}
		}
		return strings.Join(segments, "-")
	}

	if v.Color != "" || v.Size != "" {
		segments := []string{prefix}
		if seg := cleanSegment(v.Color, 3); seg != "" {
			segments = append(segments, seg)
		}
		if seg := strings.ToUpper(strings.TrimSpace(v.Size)); seg != "" {
			segments = append(segments, seg)
		}
		return strings.Join(segments, "-")
	}

	// No attribute data to derive identity from: fall back to entropy.
	suffix := strings.ToUpper(strings.ReplaceAll(g.ids.NewID(), "-", ""))
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return prefix + "-" + suffix
}

// cleanSegment strips non-alphanumeric characters, uppercases and
// truncates to maxLen.
func cleanSegment(s string, maxLen int) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() >= maxLen {
				break
			}
		}
	}
	return b.String()
}
