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

type categoryFixture struct {
	db     *gorm.DB
	router *gin.Engine
	cache  *filterCacheSpy
}

func setupCategoryTest(t *testing.T) *categoryFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	spy := &filterCacheSpy{}
	ctrl := NewCategoryController(repository.NewCategoryRepository(testDB), spy)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/admin/categories", ctrl.CreateCategory)
	router.PUT("/admin/categories/:id", ctrl.UpdateCategory)
	router.DELETE("/admin/categories/:id", ctrl.DeleteCategory)

	return &categoryFixture{db: testDB, router: router, cache: spy}
}

func TestCategoryController_MutationsInvalidateFilterCache(t *testing.T) {
	f := setupCategoryTest(t)

	w := doJSON(t, f.router, http.MethodPost, "/admin/categories", map[string]interface{}{
		"name": "Outerwear",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 1, f.cache.invalidations)

	var response struct {
		Category model.Category `json:"category"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "outerwear", response.Category.Slug)

	path := fmt.Sprintf("/admin/categories/%d", response.Category.ID)
	w = doJSON(t, f.router, http.MethodPut, path, map[string]interface{}{
		"name": "Jackets",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 2, f.cache.invalidations)

	w = doJSON(t, f.router, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 3, f.cache.invalidations)
}

func TestCategoryController_DeleteWithProductsKeepsCache(t *testing.T) {
	f := setupCategoryTest(t)

	category := model.Category{Name: "Shirts", Slug: "shirts", IsActive: true}
	require.NoError(t, f.db.Create(&category).Error)
	product := model.Product{Title: "Red Shirt", Slug: "red-shirt", Price: 29.99, IsActive: true}
	require.NoError(t, f.db.Create(&product).Error)
	require.NoError(t, f.db.Create(&model.ProductCategoryLink{
		ProductID:  product.ID,
		CategoryID: category.ID,
		IsPrimary:  true,
	}).Error)

	w := doJSON(t, f.router, http.MethodDelete, fmt.Sprintf("/admin/categories/%d", category.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Zero(t, f.cache.invalidations)
}
