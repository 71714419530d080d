package service

import (
	"testing"

	"github.com/clothely/clothely-backend/internal/app/model"
	"github.com/clothely/clothely-backend/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartFixture struct {
	*catalogFixture
	service CartService
	product *model.Product
}

func setupCartTest(t *testing.T) *cartFixture {
	f := setupCatalogTest(t)

	product, err := f.service.SaveProduct(f.baseInput())
	require.NoError(t, err)

	carts := repository.NewCartRepository(f.db)
	products := repository.NewProductRepository(f.db)
	return &cartFixture{
		catalogFixture: f,
		service:        NewCartService(f.db, carts, products),
		product:        product,
	}
}

func TestCartService_AddItemAndTotal(t *testing.T) {
	f := setupCartTest(t)
	variantID := f.product.Variants[0].ID

	item, err := f.service.AddItem(1, f.product.ID, &variantID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)

	items, total, err := f.service.GetCart(1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.InDelta(t, 59.98, total, 0.001)
}

func TestCartService_AddItemMergesLines(t *testing.T) {
	f := setupCartTest(t)
	variantID := f.product.Variants[0].ID

	_, err := f.service.AddItem(1, f.product.ID, &variantID, 2)
	require.NoError(t, err)
	item, err := f.service.AddItem(1, f.product.ID, &variantID, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)

	items, _, err := f.service.GetCart(1)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCartService_AddItemStockChecked(t *testing.T) {
	f := setupCartTest(t)
	// Second variant was created with 5 in stock.
	variantID := f.product.Variants[1].ID

	_, err := f.service.AddItem(1, f.product.ID, &variantID, 6)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = f.service.AddItem(1, f.product.ID, &variantID, 3)
	require.NoError(t, err)
	// Merging past the stock level is also rejected.
	_, err = f.service.AddItem(1, f.product.ID, &variantID, 3)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartService_AddItemValidation(t *testing.T) {
	f := setupCartTest(t)

	_, err := f.service.AddItem(1, f.product.ID, nil, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = f.service.AddItem(1, 9999, nil, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)

	foreign := uint(9999)
	_, err = f.service.AddItem(1, f.product.ID, &foreign, 1)
	assert.ErrorIs(t, err, ErrVariantMismatch)
}

func TestCartService_UpdateAndRemove(t *testing.T) {
	f := setupCartTest(t)
	variantID := f.product.Variants[0].ID

	item, err := f.service.AddItem(1, f.product.ID, &variantID, 1)
	require.NoError(t, err)

	updated, err := f.service.UpdateQuantity(1, item.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	// Another user cannot touch the line.
	_, err = f.service.UpdateQuantity(2, item.ID, 1)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
	err = f.service.RemoveItem(2, item.ID)
	assert.ErrorIs(t, err, ErrCartItemNotFound)

	require.NoError(t, f.service.RemoveItem(1, item.ID))
	items, _, err := f.service.GetCart(1)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartService_ClearCart(t *testing.T) {
	f := setupCartTest(t)
	first := f.product.Variants[0].ID
	second := f.product.Variants[1].ID

	_, err := f.service.AddItem(1, f.product.ID, &first, 1)
	require.NoError(t, err)
	_, err = f.service.AddItem(1, f.product.ID, &second, 1)
	require.NoError(t, err)

	require.NoError(t, f.service.ClearCart(1))
	items, _, err := f.service.GetCart(1)
	require.NoError(t, err)
	assert.Empty(t, items)
}
