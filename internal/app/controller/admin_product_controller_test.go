package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
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

type adminFixture struct {
	db         *gorm.DB
	router     *gin.Engine
	colorOptID uint
	sizeOptID  uint
	categoryID uint
}

func setupAdminProductTest(t *testing.T) *adminFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	color := model.VariantOption{Name: "Color", Slug: "color", Type: model.OptionTypeColor}
	size := model.VariantOption{Name: "Size", Slug: "size", Type: model.OptionTypeSize}
	require.NoError(t, testDB.Create(&color).Error)
	require.NoError(t, testDB.Create(&size).Error)
	category := model.Category{Name: "Shirts", Slug: "shirts", IsActive: true}
	require.NoError(t, testDB.Create(&category).Error)

	products := repository.NewProductRepository(testDB)
	categories := repository.NewCategoryRepository(testDB)
	brands := repository.NewBrandRepository(testDB)
	attributes := repository.NewAttributeRepository(testDB)

	catalogService := service.NewCatalogService(testDB, nil)
	productService := service.NewProductService(testDB, products, categories, brands, attributes)
	exportService := service.NewExportService(products, attributes)
	controller := NewAdminProductController(catalogService, productService, exportService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/admin/products", controller.CreateProduct)
	router.GET("/admin/products/:id", controller.GetProduct)
	router.PUT("/admin/products/:id", controller.UpdateProduct)
	router.DELETE("/admin/products/:id", controller.DeleteProduct)
	router.GET("/admin/products/export", controller.ExportCatalog)

	return &adminFixture{
		db:         testDB,
		router:     router,
		colorOptID: color.ID,
		sizeOptID:  size.ID,
		categoryID: category.ID,
	}
}

func (f *adminFixture) saveRequest() map[string]interface{} {
	return map[string]interface{}{
		"title":        "Red Shirt",
		"slug":         "red-shirt",
		"price":        29.99,
		"category_ids": []uint{f.categoryID},
		"variants": []map[string]interface{}{
			{
				"price":          29.99,
				"stock_quantity": 10,
				"option_values": []map[string]interface{}{
					{"option_id": f.colorOptID, "value": "Red"},
					{"option_id": f.sizeOptID, "value": "M"},
				},
			},
		},
	}
}

func (f *adminFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *adminFixture) createProduct(t *testing.T) uint {
	w := f.do(t, http.MethodPost, "/admin/products", f.saveRequest())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var response struct {
		Product model.Product `json:"product"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response.Product.ID
}

func TestAdminProductController_CreateProduct(t *testing.T) {
	f := setupAdminProductTest(t)

	w := f.do(t, http.MethodPost, "/admin/products", f.saveRequest())
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	product := response["product"].(map[string]interface{})
	assert.Equal(t, "red-shirt", product["slug"])
	assert.Equal(t, float64(1), product["version"])
	assert.Len(t, product["variants"].([]interface{}), 1)
}

func TestAdminProductController_CreateProduct_Validation(t *testing.T) {
	f := setupAdminProductTest(t)

	body := f.saveRequest()
	delete(body, "variants")
	w := f.do(t, http.MethodPost, "/admin/products", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = f.saveRequest()
	delete(body, "category_ids")
	w = f.do(t, http.MethodPost, "/admin/products", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Binding failures name the offending fields.
	body = f.saveRequest()
	delete(body, "title")
	w = f.do(t, http.MethodPost, "/admin/products", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response.Fields, "title")
}

func TestAdminProductController_DuplicateVariantRejected(t *testing.T) {
	f := setupAdminProductTest(t)

	body := f.saveRequest()
	body["variants"] = []map[string]interface{}{
		{
			"price": 29.99, "stock_quantity": 10,
			"option_values": []map[string]interface{}{
				{"option_id": f.colorOptID, "value": "Red"},
				{"option_id": f.sizeOptID, "value": "M"},
			},
		},
		{
			"price": 31.99, "stock_quantity": 2,
			"option_values": []map[string]interface{}{
				{"option_id": f.sizeOptID, "value": "M"},
				{"option_id": f.colorOptID, "value": "Red"},
			},
		},
	}

	w := f.do(t, http.MethodPost, "/admin/products", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "CATALOG_DUPLICATE_VARIANT", response["error"])
}

func TestAdminProductController_VersionConflict(t *testing.T) {
	f := setupAdminProductTest(t)
	id := f.createProduct(t)

	// First update with the current version succeeds.
	body := f.saveRequest()
	body["version"] = 1
	w := f.do(t, http.MethodPut, fmt.Sprintf("/admin/products/%d", id), body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Replaying the same stale version is rejected.
	w = f.do(t, http.MethodPut, fmt.Sprintf("/admin/products/%d", id), body)
	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "CATALOG_VERSION_CONFLICT", response["error"])
}

func TestAdminProductController_UpdateMissingProduct(t *testing.T) {
	f := setupAdminProductTest(t)

	w := f.do(t, http.MethodPut, "/admin/products/9999", f.saveRequest())
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodPut, "/admin/products/not-a-number", f.saveRequest())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminProductController_DeleteProduct(t *testing.T) {
	f := setupAdminProductTest(t)
	id := f.createProduct(t)

	w := f.do(t, http.MethodDelete, fmt.Sprintf("/admin/products/%d", id), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, fmt.Sprintf("/admin/products/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminProductController_ExportCatalog(t *testing.T) {
	f := setupAdminProductTest(t)
	f.createProduct(t)

	w := f.do(t, http.MethodGet, "/admin/products/export", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.NotZero(t, w.Body.Len())
}
