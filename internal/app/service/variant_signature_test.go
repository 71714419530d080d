package service

import (
	"testing"

	"github.com/clothely/clothely-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
)

func TestSignature_OrderIndependent(t *testing.T) {
	a := Signature([]OptionPair{
		{OptionID: 1, Value: "Red"},
		{OptionID: 2, Value: "M"},
	})
	b := Signature([]OptionPair{
		{OptionID: 2, Value: "M"},
		{OptionID: 1, Value: "Red"},
	})

	assert.Equal(t, a, b)
	assert.Equal(t, "1:Red|2:M", a)
}

func TestSignature_DistinguishesValues(t *testing.T) {
	tests := []struct {
		name  string
		left  []OptionPair
		right []OptionPair
	}{
		{
			name:  "different value",
			left:  []OptionPair{{OptionID: 1, Value: "Red"}, {OptionID: 2, Value: "M"}},
			right: []OptionPair{{OptionID: 1, Value: "Red"}, {OptionID: 2, Value: "L"}},
		},
		{
			name:  "different option",
			left:  []OptionPair{{OptionID: 1, Value: "Red"}},
			right: []OptionPair{{OptionID: 3, Value: "Red"}},
		},
		{
			name:  "value swapped between options",
			left:  []OptionPair{{OptionID: 1, Value: "Red"}, {OptionID: 2, Value: "M"}},
			right: []OptionPair{{OptionID: 1, Value: "M"}, {OptionID: 2, Value: "Red"}},
		},
		{
			name:  "subset",
			left:  []OptionPair{{OptionID: 1, Value: "Red"}, {OptionID: 2, Value: "M"}},
			right: []OptionPair{{OptionID: 1, Value: "Red"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, Signature(tt.left), Signature(tt.right))
		})
	}
}

func TestSignature_Empty(t *testing.T) {
	assert.Equal(t, "", Signature(nil))
	assert.Equal(t, "", Signature([]OptionPair{}))
}

func TestVariantSignature_FromPersistedRows(t *testing.T) {
	variant := &model.ProductVariant{
		OptionValues: []model.VariantOptionValue{
			{OptionID: 7, Value: "Navy"},
			{OptionID: 3, Value: "XL"},
		},
	}

	assert.Equal(t, "3:XL|7:Navy", VariantSignature(variant))
}

func TestVariantSignature_NoOptionValues(t *testing.T) {
	assert.Equal(t, "", VariantSignature(&model.ProductVariant{}))
}
