package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/clothely/clothely-backend/internal/app/model"
	"github.com/clothely/clothely-backend/internal/app/repository"
	"github.com/clothely/clothely-backend/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type brandFixture struct {
	db     *gorm.DB
	router *gin.Engine
	cache  *filterCacheSpy
}

func setupBrandTest(t *testing.T) *brandFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	spy := &filterCacheSpy{}
	ctrl := NewBrandController(repository.NewBrandRepository(testDB), spy)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/admin/brands", ctrl.CreateBrand)
	router.PUT("/admin/brands/:id", ctrl.UpdateBrand)
	router.DELETE("/admin/brands/:id", ctrl.DeleteBrand)

	return &brandFixture{db: testDB, router: router, cache: spy}
}

func TestBrandController_MutationsInvalidateFilterCache(t *testing.T) {
	f := setupBrandTest(t)

	w := doJSON(t, f.router, http.MethodPost, "/admin/brands", map[string]interface{}{
		"name": "Northline",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 1, f.cache.invalidations)

	var response struct {
		Brand model.Brand `json:"brand"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "northline", response.Brand.Slug)

	path := fmt.Sprintf("/admin/brands/%d", response.Brand.ID)
	w = doJSON(t, f.router, http.MethodPut, path, map[string]interface{}{
		"name": "Northline Apparel",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 2, f.cache.invalidations)

	w = doJSON(t, f.router, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 3, f.cache.invalidations)
}

func TestBrandController_DeleteWithProductsKeepsCache(t *testing.T) {
	f := setupBrandTest(t)

	brand := model.Brand{Name: "Northline", Slug: "northline"}
	require.NoError(t, f.db.Create(&brand).Error)
	product := model.Product{Title: "Red Shirt", Slug: "red-shirt", Price: 29.99, IsActive: true}
	require.NoError(t, f.db.Create(&product).Error)
	require.NoError(t, f.db.Create(&model.ProductBrandLink{
		ProductID: product.ID,
		BrandID:   brand.ID,
	}).Error)

	w := doJSON(t, f.router, http.MethodDelete, fmt.Sprintf("/admin/brands/%d", brand.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Zero(t, f.cache.invalidations)
}
