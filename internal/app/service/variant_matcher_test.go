package service

import (
	"testing"

	"github.com/clothely/clothely-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matcherFixture() []model.ProductVariant {
	return []model.ProductVariant{
		{
			ID:  1,
			SKU: "SHRT-RED-M",
			OptionValues: []model.VariantOptionValue{
				{OptionID: 1, Value: "Red"},
				{OptionID: 2, Value: "M"},
			},
		},
		{
			ID:  2,
			SKU: "SHRT-BLU-L",
			OptionValues: []model.VariantOptionValue{
				{OptionID: 1, Value: "Blue"},
				{OptionID: 2, Value: "L"},
			},
		},
		{
			ID:    3,
			SKU:   "LEGACY-1",
			Color: "Black",
			Size:  "S",
			OptionValues: []model.VariantOptionValue{
				{OptionID: 1, Value: "Black"},
				{OptionID: 2, Value: "S"},
			},
		},
	}
}

func TestMatchVariant_BySKU(t *testing.T) {
	existing := matcherFixture()

	matched := MatchVariant(existing, VariantInput{SKU: "SHRT-BLU-L"})
	require.NotNil(t, matched)
	assert.Equal(t, uint(2), matched.ID)
}

func TestMatchVariant_SKUTrimmed(t *testing.T) {
	existing := matcherFixture()

	matched := MatchVariant(existing, VariantInput{SKU: "  SHRT-RED-M  "})
	require.NotNil(t, matched)
	assert.Equal(t, uint(1), matched.ID)
}

func TestMatchVariant_SKUWinsOverSignature(t *testing.T) {
	existing := matcherFixture()

	// SKU points at variant 2 while the option values describe
	// variant 1. SKU has priority.
	matched := MatchVariant(existing, VariantInput{
		SKU: "SHRT-BLU-L",
		OptionValues: []OptionValueInput{
			{OptionID: 1, Value: "Red"},
			{OptionID: 2, Value: "M"},
		},
	})
	require.NotNil(t, matched)
	assert.Equal(t, uint(2), matched.ID)
}

func TestMatchVariant_BySignature(t *testing.T) {
	existing := matcherFixture()

	matched := MatchVariant(existing, VariantInput{
		OptionValues: []OptionValueInput{
			{OptionID: 2, Value: "M"},
			{OptionID: 1, Value: "Red"},
		},
	})
	require.NotNil(t, matched)
	assert.Equal(t, uint(1), matched.ID)
}

func TestMatchVariant_ByLegacyFields(t *testing.T) {
	existing := matcherFixture()

	matched := MatchVariant(existing, VariantInput{Color: "Black", Size: "S"})
	require.NotNil(t, matched)
	assert.Equal(t, uint(3), matched.ID)
}

func TestMatchVariant_LegacySkippedWhenOptionValuesPresent(t *testing.T) {
	existing := matcherFixture()

	// Option values are authoritative; the legacy fields describing
	// variant 3 must not rescue a failed signature match.
	matched := MatchVariant(existing, VariantInput{
		Color: "Black",
		Size:  "S",
		OptionValues: []OptionValueInput{
			{OptionID: 1, Value: "Green"},
			{OptionID: 2, Value: "S"},
		},
	})
	assert.Nil(t, matched)
}

func TestMatchVariant_NoMatch(t *testing.T) {
	existing := matcherFixture()

	tests := []struct {
		name  string
		input VariantInput
	}{
		{
			name:  "unknown SKU without option values",
			input: VariantInput{SKU: "UNKNOWN"},
		},
		{
			name: "unknown signature",
			input: VariantInput{OptionValues: []OptionValueInput{
				{OptionID: 1, Value: "Green"},
				{OptionID: 2, Value: "M"},
			}},
		},
		{
			name:  "legacy fields with no counterpart",
			input: VariantInput{Color: "White", Size: "XL"},
		},
		{
			name:  "empty submission",
			input: VariantInput{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, MatchVariant(existing, tt.input))
		})
	}
}

func TestMatchVariant_EmptyExisting(t *testing.T) {
	assert.Nil(t, MatchVariant(nil, VariantInput{SKU: "ANY"}))
}
