package service

import (
	"testing"

	"github.com/clothely/clothely-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
)

func TestReconcileImages_NilIncomingUntouched(t *testing.T) {
	existing := []model.ProductImage{
		{ID: 1, URL: "https://cdn.example.com/a.jpg", SortOrder: 0},
	}

	adds, removes := ReconcileImages(existing, nil)
	assert.Nil(t, adds)
	assert.Nil(t, removes)
}

func TestReconcileImages_EmptyIncomingRemovesAll(t *testing.T) {
	existing := []model.ProductImage{
		{ID: 1, URL: "https://cdn.example.com/a.jpg", SortOrder: 0},
		{ID: 2, URL: "https://cdn.example.com/b.jpg", SortOrder: 1},
	}

	adds, removes := ReconcileImages(existing, []string{})
	assert.Empty(t, adds)
	assert.Equal(t, []uint{1, 2}, removes)
}

func TestReconcileImages_AddsAndRemoves(t *testing.T) {
	existing := []model.ProductImage{
		{ID: 1, URL: "https://cdn.example.com/keep.jpg", SortOrder: 0},
		{ID: 2, URL: "https://cdn.example.com/drop.jpg", SortOrder: 1},
	}
	incoming := []string{
		"https://cdn.example.com/keep.jpg",
		"https://cdn.example.com/new.jpg",
	}

	adds, removes := ReconcileImages(existing, incoming)
	assert.Equal(t, []ImageAdd{
		{URL: "https://cdn.example.com/new.jpg", SortOrder: 2},
	}, adds)
	assert.Equal(t, []uint{2}, removes)
}

func TestReconcileImages_OrdersContinueAfterMax(t *testing.T) {
	existing := []model.ProductImage{
		{ID: 1, URL: "https://cdn.example.com/a.jpg", SortOrder: 5},
	}
	incoming := []string{
		"https://cdn.example.com/a.jpg",
		"https://cdn.example.com/b.jpg",
		"https://cdn.example.com/c.jpg",
	}

	adds, removes := ReconcileImages(existing, incoming)
	assert.Empty(t, removes)
	assert.Equal(t, []ImageAdd{
		{URL: "https://cdn.example.com/b.jpg", SortOrder: 6},
		{URL: "https://cdn.example.com/c.jpg", SortOrder: 7},
	}, adds)
}

func TestReconcileImages_FreshVariant(t *testing.T) {
	adds, removes := ReconcileImages(nil, []string{"https://cdn.example.com/a.jpg"})
	assert.Empty(t, removes)
	assert.Equal(t, []ImageAdd{
		{URL: "https://cdn.example.com/a.jpg", SortOrder: 0},
	}, adds)
}

func TestReconcileImages_SkipsEmptyAndDuplicateURLs(t *testing.T) {
	incoming := []string{
		"",
		"https://cdn.example.com/a.jpg",
		"https://cdn.example.com/a.jpg",
	}

	adds, removes := ReconcileImages(nil, incoming)
	assert.Empty(t, removes)
	assert.Len(t, adds, 1)
}
