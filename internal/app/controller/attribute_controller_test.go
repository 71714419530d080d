package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/clothely/clothely-backend/internal/app/model"
	"github.com/clothely/clothely-backend/internal/app/repository"
	"github.com/clothely/clothely-backend/internal/app/service"
	"github.com/clothely/clothely-backend/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// filterCacheSpy counts filter cache invalidations so tests can assert
// that admin writes to filter-visible entities drop the cached sidebar.
type filterCacheSpy struct {
	service.ProductService
	invalidations int
}

func (s *filterCacheSpy) InvalidateFilterCache(_ context.Context) {
	s.invalidations++
}

type attributeFixture struct {
	db     *gorm.DB
	router *gin.Engine
	cache  *filterCacheSpy
}

func setupAttributeTest(t *testing.T) *attributeFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	attributes := repository.NewAttributeRepository(testDB)
	spy := &filterCacheSpy{}
	ctrl := NewAttributeController(service.NewAttributeService(attributes), spy)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin/attributes", ctrl.ListOptions)
	router.POST("/admin/attributes", ctrl.CreateOption)
	router.PUT("/admin/attributes/:id", ctrl.UpdateOption)
	router.DELETE("/admin/attributes/:id", ctrl.DeleteOption)
	router.POST("/admin/attributes/:id/values", ctrl.AddGlobalValue)

	return &attributeFixture{db: testDB, router: router, cache: spy}
}

func TestAttributeController_CreateOption(t *testing.T) {
	f := setupAttributeTest(t)

	w := doJSON(t, f.router, http.MethodPost, "/admin/attributes", map[string]interface{}{
		"name": "Material",
		"type": "TEXT",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var response struct {
		Option model.VariantOption `json:"option"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "material", response.Option.Slug)
}

func TestAttributeController_MutationsInvalidateFilterCache(t *testing.T) {
	f := setupAttributeTest(t)

	w := doJSON(t, f.router, http.MethodPost, "/admin/attributes", map[string]interface{}{
		"name": "Material",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 1, f.cache.invalidations)

	var response struct {
		Option model.VariantOption `json:"option"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	optionID := response.Option.ID

	w = doJSON(t, f.router, http.MethodPut, fmt.Sprintf("/admin/attributes/%d", optionID), map[string]interface{}{
		"name": "Fabric",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 2, f.cache.invalidations)

	w = doJSON(t, f.router, http.MethodPost, fmt.Sprintf("/admin/attributes/%d/values", optionID), map[string]interface{}{
		"value": "Cotton",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 3, f.cache.invalidations)
}

func TestAttributeController_FailedWriteKeepsCache(t *testing.T) {
	f := setupAttributeTest(t)

	// Binding failure, nothing written, cache untouched.
	w := doJSON(t, f.router, http.MethodPost, "/admin/attributes", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing option, same story.
	w = doJSON(t, f.router, http.MethodPut, "/admin/attributes/9999", map[string]interface{}{
		"name": "Fabric",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, f.cache.invalidations)
}
