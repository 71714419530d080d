package service

import (
	"testing"

	"github.com/clothely/clothely-backend/internal/app/model"
	"github.com/clothely/clothely-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type catalogFixture struct {
	db         *gorm.DB
	service    CatalogService
	colorOptID uint
	sizeOptID  uint
	categoryID uint
	brandID    uint
}

func setupCatalogTest(t *testing.T) *catalogFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	color := model.VariantOption{Name: "Color", Slug: "color", Type: model.OptionTypeColor}
	size := model.VariantOption{Name: "Size", Slug: "size", Type: model.OptionTypeSize}
	require.NoError(t, testDB.Create(&color).Error)
	require.NoError(t, testDB.Create(&size).Error)

	category := model.Category{Name: "Shirts", Slug: "shirts", IsActive: true}
	require.NoError(t, testDB.Create(&category).Error)

	brand := model.Brand{Name: "Northline", Slug: "northline"}
	require.NoError(t, testDB.Create(&brand).Error)

	return &catalogFixture{
		db:         testDB,
		service:    NewCatalogService(testDB, &stubIDSource{ids: []string{"abcdef0123456789"}}),
		colorOptID: color.ID,
		sizeOptID:  size.ID,
		categoryID: category.ID,
		brandID:    brand.ID,
	}
}

func (f *catalogFixture) baseInput() SaveProductInput {
	return SaveProductInput{
		Title:       "Red Shirt",
		Slug:        "red-shirt",
		Price:       29.99,
		CategoryIDs: []uint{f.categoryID},
		Variants: []VariantInput{
			{
				Price:         29.99,
				StockQuantity: 10,
				OptionValues: []OptionValueInput{
					{OptionID: f.colorOptID, Value: "Red"},
					{OptionID: f.sizeOptID, Value: "M"},
				},
			},
			{
				Price:         29.99,
				StockQuantity: 5,
				OptionValues: []OptionValueInput{
					{OptionID: f.colorOptID, Value: "Red"},
					{OptionID: f.sizeOptID, Value: "L"},
				},
			},
		},
	}
}

func TestCatalogService_CreateProduct(t *testing.T) {
	f := setupCatalogTest(t)

	product, err := f.service.SaveProduct(f.baseInput())
	require.NoError(t, err)

	assert.Equal(t, "red-shirt", product.Slug)
	assert.Equal(t, 1, product.Version)
	assert.True(t, product.IsActive)
	require.Len(t, product.Variants, 2)

	// SKUs are derived from slug and option values.
	assert.Equal(t, "REDS-RED-M", product.Variants[0].SKU)
	assert.Equal(t, "REDS-RED-L", product.Variants[1].SKU)
	assert.Len(t, product.Variants[0].OptionValues, 2)

	require.Len(t, product.CategoryLinks, 1)
	assert.True(t, product.CategoryLinks[0].IsPrimary)

	// Option index covers both options with their distinct values.
	require.Len(t, product.OptionIndex, 2)
	assert.Equal(t, f.colorOptID, product.OptionIndex[0].OptionID)
	assert.Equal(t, []string{"Red"}, []string(product.OptionIndex[0].Values))
	assert.Equal(t, f.sizeOptID, product.OptionIndex[1].OptionID)
	assert.Equal(t, []string{"M", "L"}, []string(product.OptionIndex[1].Values))
}

func TestCatalogService_SingleOptionVariant(t *testing.T) {
	f := setupCatalogTest(t)

	product, err := f.service.SaveProduct(SaveProductInput{
		Title:       "Red Shirt",
		Slug:        "Red Shirt",
		Price:       20,
		CategoryIDs: []uint{f.categoryID},
		Variants: []VariantInput{
			{
				Price:         20,
				StockQuantity: 5,
				OptionValues: []OptionValueInput{
					{OptionID: f.colorOptID, Value: "Red"},
				},
			},
		},
	})
	require.NoError(t, err)

	// The title slugifies and drives the SKU prefix.
	assert.Equal(t, "red-shirt", product.Slug)
	require.Len(t, product.Variants, 1)
	assert.Equal(t, "REDS-RED", product.Variants[0].SKU)

	require.Len(t, product.OptionIndex, 1)
	assert.Equal(t, f.colorOptID, product.OptionIndex[0].OptionID)
	assert.Equal(t, []string{"Red"}, []string(product.OptionIndex[0].Values))
}

func TestCatalogService_CreateRequiresCategoryAndVariant(t *testing.T) {
	f := setupCatalogTest(t)

	input := f.baseInput()
	input.CategoryIDs = nil
	_, err := f.service.SaveProduct(input)
	assert.ErrorIs(t, err, ErrCategoryRequired)

	input = f.baseInput()
	input.Variants = nil
	_, err = f.service.SaveProduct(input)
	assert.ErrorIs(t, err, ErrVariantRequired)
}

func TestCatalogService_UnknownCategoryRollsBack(t *testing.T) {
	f := setupCatalogTest(t)

	input := f.baseInput()
	input.CategoryIDs = []uint{9999}
	_, err := f.service.SaveProduct(input)
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	var count int64
	f.db.Model(&model.Product{}).Count(&count)
	assert.Zero(t, count)
}

func TestCatalogService_RejectsDuplicateSignatures(t *testing.T) {
	f := setupCatalogTest(t)

	input := f.baseInput()
	// Same option values in a different submission order.
	input.Variants[1].OptionValues = []OptionValueInput{
		{OptionID: f.sizeOptID, Value: "M"},
		{OptionID: f.colorOptID, Value: "Red"},
	}

	_, err := f.service.SaveProduct(input)
	assert.ErrorIs(t, err, ErrDuplicateVariantSignature)

	var count int64
	f.db.Model(&model.Product{}).Count(&count)
	assert.Zero(t, count)
}

func TestCatalogService_UpdateMatchesBySignature(t *testing.T) {
	f := setupCatalogTest(t)

	created, err := f.service.SaveProduct(f.baseInput())
	require.NoError(t, err)
	originalID := created.Variants[0].ID

	input := f.baseInput()
	input.ID = &created.ID
	input.Variants[0].Price = 24.99
	input.Variants[0].StockQuantity = 3

	updated, err := f.service.SaveProduct(input)
	require.NoError(t, err)
	require.Len(t, updated.Variants, 2)

	// Same identity, updated attributes, no duplicate created.
	assert.Equal(t, originalID, updated.Variants[0].ID)
	assert.Equal(t, 24.99, updated.Variants[0].Price)
	assert.Equal(t, 3, updated.Variants[0].StockQuantity)
}

func TestCatalogService_UpdateMatchesBySKUAfterValueRename(t *testing.T) {
	f := setupCatalogTest(t)

	created, err := f.service.SaveProduct(f.baseInput())
	require.NoError(t, err)
	originalID := created.Variants[0].ID
	originalSKU := created.Variants[0].SKU

	// Rename Red to Crimson but keep the SKU: the variant survives
	// with rewritten option values.
	input := f.baseInput()
	input.ID = &created.ID
	input.Variants[0].SKU = originalSKU
	input.Variants[0].OptionValues = []OptionValueInput{
		{OptionID: f.colorOptID, Value: "Crimson"},
		{OptionID: f.sizeOptID, Value: "M"},
	}

	updated, err := f.service.SaveProduct(input)
	require.NoError(t, err)
	require.Len(t, updated.Variants, 2)
	assert.Equal(t, originalID, updated.Variants[0].ID)

	values := []string{}
	for _, ov := range updated.Variants[0].OptionValues {
		values = append(values, ov.Value)
	}
	assert.Contains(t, values, "Crimson")
	assert.NotContains(t, values, "Red")
}

func TestCatalogService_ValueRenameWithoutSKUReplacesVariant(t *testing.T) {
	f := setupCatalogTest(t)

	created, err := f.service.SaveProduct(f.baseInput())
	require.NoError(t, err)
	originalID := created.Variants[0].ID

	// Without a SKU anchor, a renamed value means a new identity: the
	// old variant is deleted and a new one created.
	input := f.baseInput()
	input.ID = &created.ID
	input.Variants[0].OptionValues = []OptionValueInput{
		{OptionID: f.colorOptID, Value: "Crimson"},
		{OptionID: f.sizeOptID, Value: "M"},
	}

	updated, err := f.service.SaveProduct(input)
	require.NoError(t, err)
	require.Len(t, updated.Variants, 2)

	ids := []uint{updated.Variants[0].ID, updated.Variants[1].ID}
	assert.NotContains(t, ids, originalID)
}

func TestCatalogService_DroppedVariantDeleted(t *testing.T) {
	f := setupCatalogTest(t)

	created, err := f.service.SaveProduct(f.baseInput())
	require.NoError(t, err)

	input := f.baseInput()
	input.ID = &created.ID
	input.Variants = input.Variants[:1]

	updated, err := f.service.SaveProduct(input)
	require.NoError(t, err)
	assert.Len(t, updated.Variants, 1)

	var optionValueCount int64
	f.db.Model(&model.VariantOptionValue{}).Count(&optionValueCount)
	assert.Equal(t, int64(2), optionValueCount)
}

func TestCatalogService_VersionConflict(t *testing.T) {
	f := setupCatalogTest(t)

	created, err := f.service.SaveProduct(f.baseInput())
	require.NoError(t, err)
	assert.Equal(t, 1, created.Version)

	// First writer succeeds and bumps the version.
	input := f.baseInput()
	input.ID = &created.ID
	version := 1
	input.Version = &version
	updated, err := f.service.SaveProduct(input)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)

	// Second writer still holds version 1 and is rejected.
	stale := f.baseInput()
	stale.ID = &created.ID
	staleVersion := 1
	stale.Version = &staleVersion
	_, err = f.service.SaveProduct(stale)
	assert.ErrorIs(t, err, ErrProductConflict)
}

func TestCatalogService_UpdateWithoutVersionSkipsCheck(t *testing.T) {
	f := setupCatalogTest(t)

	created, err := f.service.SaveProduct(f.baseInput())
	require.NoError(t, err)

	input := f.baseInput()
	input.ID = &created.ID
	updated, err := f.service.SaveProduct(input)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
}

func TestCatalogService_LegacyFieldsSynthesizeOptionValues(t *testing.T) {
	f := setupCatalogTest(t)

	input := f.baseInput()
	input.Variants = []VariantInput{
		{Price: 29.99, StockQuantity: 4, Color: "Black", Size: "S"},
	}

	product, err := f.service.SaveProduct(input)
	require.NoError(t, err)
	require.Len(t, product.Variants, 1)

	variant := product.Variants[0]
	assert.Equal(t, "REDS-BLA-S", variant.SKU)
	require.Len(t, variant.OptionValues, 2)

	byOption := map[uint]string{}
	for _, ov := range variant.OptionValues {
		byOption[ov.OptionID] = ov.Value
	}
	assert.Equal(t, "Black", byOption[f.colorOptID])
	assert.Equal(t, "S", byOption[f.sizeOptID])
}

func TestCatalogService_GalleryReconciliation(t *testing.T) {
	f := setupCatalogTest(t)

	input := f.baseInput()
	input.ImageURLs = []string{
		"https://cdn.example.com/front.jpg",
		"https://cdn.example.com/back.jpg",
	}
	created, err := f.service.SaveProduct(input)
	require.NoError(t, err)
	require.Len(t, created.Images, 2)

	// Omitting the field leaves the gallery untouched.
	update := f.baseInput()
	update.ID = &created.ID
	updated, err := f.service.SaveProduct(update)
	require.NoError(t, err)
	assert.Len(t, updated.Images, 2)

	// Resubmitting a shorter list drops the missing image.
	update = f.baseInput()
	update.ID = &created.ID
	update.ImageURLs = []string{"https://cdn.example.com/front.jpg"}
	updated, err = f.service.SaveProduct(update)
	require.NoError(t, err)
	require.Len(t, updated.Images, 1)
	assert.Equal(t, "https://cdn.example.com/front.jpg", updated.Images[0].URL)
}

func TestCatalogService_VariantImages(t *testing.T) {
	f := setupCatalogTest(t)

	input := f.baseInput()
	input.Variants[0].ImageURLs = []string{"https://cdn.example.com/red-m.jpg"}
	created, err := f.service.SaveProduct(input)
	require.NoError(t, err)
	require.Len(t, created.Variants[0].Images, 1)
	assert.Empty(t, created.Variants[1].Images)

	// Empty non-nil list clears the variant's images.
	update := f.baseInput()
	update.ID = &created.ID
	update.Variants[0].ImageURLs = []string{}
	updated, err := f.service.SaveProduct(update)
	require.NoError(t, err)
	assert.Empty(t, updated.Variants[0].Images)
}

func TestCatalogService_OptionIndexRebuiltOnUpdate(t *testing.T) {
	f := setupCatalogTest(t)

	created, err := f.service.SaveProduct(f.baseInput())
	require.NoError(t, err)

	input := f.baseInput()
	input.ID = &created.ID
	input.Variants = []VariantInput{
		{
			Price:         29.99,
			StockQuantity: 2,
			OptionValues: []OptionValueInput{
				{OptionID: f.colorOptID, Value: "Blue"},
				{OptionID: f.sizeOptID, Value: "XL"},
			},
		},
	}

	updated, err := f.service.SaveProduct(input)
	require.NoError(t, err)
	require.Len(t, updated.OptionIndex, 2)
	assert.Equal(t, []string{"Blue"}, []string(updated.OptionIndex[0].Values))
	assert.Equal(t, []string{"XL"}, []string(updated.OptionIndex[1].Values))
}

func TestCatalogService_BrandLinkReplaced(t *testing.T) {
	f := setupCatalogTest(t)

	input := f.baseInput()
	input.BrandID = &f.brandID
	created, err := f.service.SaveProduct(input)
	require.NoError(t, err)
	require.NotNil(t, created.BrandLink)
	assert.Equal(t, f.brandID, created.BrandLink.BrandID)

	// Saving without a brand removes the link.
	update := f.baseInput()
	update.ID = &created.ID
	updated, err := f.service.SaveProduct(update)
	require.NoError(t, err)
	assert.Nil(t, updated.BrandLink)
}

func TestCatalogService_UnknownBrandRejected(t *testing.T) {
	f := setupCatalogTest(t)

	unknown := uint(9999)
	input := f.baseInput()
	input.BrandID = &unknown
	_, err := f.service.SaveProduct(input)
	assert.ErrorIs(t, err, ErrBrandNotFound)
}

func TestCatalogService_DeleteProduct(t *testing.T) {
	f := setupCatalogTest(t)

	input := f.baseInput()
	input.ImageURLs = []string{"https://cdn.example.com/front.jpg"}
	created, err := f.service.SaveProduct(input)
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteProduct(created.ID))

	var count int64
	f.db.Model(&model.ProductVariant{}).Count(&count)
	assert.Zero(t, count)
	f.db.Model(&model.VariantOptionValue{}).Count(&count)
	assert.Zero(t, count)
	f.db.Model(&model.ProductImage{}).Count(&count)
	assert.Zero(t, count)
	f.db.Model(&model.ProductVariantOption{}).Count(&count)
	assert.Zero(t, count)

	err = f.service.DeleteProduct(created.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogService_UpdateMissingProduct(t *testing.T) {
	f := setupCatalogTest(t)

	missing := uint(4242)
	input := f.baseInput()
	input.ID = &missing
	_, err := f.service.SaveProduct(input)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

type panickingIDSource struct{}

func (panickingIDSource) NewID() string {
	panic("id source failed")
}

func TestCatalogService_PanicRollsBackAndPropagates(t *testing.T) {
	f := setupCatalogTest(t)

	// A variant with no SKU and no attributes forces the random SKU
	// fallback, which panics here mid-transaction.
	svc := NewCatalogService(f.db, panickingIDSource{})
	input := f.baseInput()
	input.Variants = []VariantInput{{Price: 9.99, StockQuantity: 1}}

	assert.Panics(t, func() {
		_, _ = svc.SaveProduct(input)
	})

	// The transaction rolled back before the panic resurfaced.
	var count int64
	require.NoError(t, f.db.Model(&model.Product{}).Count(&count).Error)
	assert.Zero(t, count)
}
