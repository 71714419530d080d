package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/clothely/clothely-backend/internal/app/repository"
	"github.com/clothely/clothely-backend/internal/app/service"
	apperrors "github.com/clothely/clothely-backend/internal/errors"
	"github.com/clothely/clothely-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListProducts returns active products matching the query filters
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.ProductFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Tag:    strings.TrimSpace(c.Query("tag")),
		SortBy: repository.ProductSort(c.Query("sort")),
	}
	filter.SortAscending = c.Query("direction") == "asc"

	if idStr := c.Query("category_id"); idStr != "" {
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid category ID")
			return
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}
	if idStr := c.Query("brand_id"); idStr != "" {
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid brand ID")
			return
		}
		brandID := uint(id)
		filter.BrandID = &brandID
	}
	if priceStr := c.Query("min_price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid minimum price")
			return
		}
		filter.MinPrice = &price
	}
	if priceStr := c.Query("max_price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid maximum price")
			return
		}
		filter.MaxPrice = &price
	}
	filter.InStockOnly = c.Query("in_stock") == "true"

	// Option filters arrive as option_<id>=<value> pairs.
	for key, values := range c.Request.URL.Query() {
		if !strings.HasPrefix(key, "option_") || len(values) == 0 {
			continue
		}
		id, err := strconv.ParseUint(strings.TrimPrefix(key, "option_"), 10, 32)
		if err != nil {
			continue
		}
		for _, value := range values {
			if value == "" {
				continue
			}
			filter.Options = append(filter.Options, repository.OptionFilter{
				OptionID: uint(id),
				Value:    value,
			})
		}
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	products, total, err := ctrl.productService.ListProducts(filter)
	if err != nil {
		log.Error("Failed to fetch products", err, nil)
		apperrors.InternalError(c, "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":  products,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetProduct returns a product by numeric ID or slug
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	idOrSlug := c.Param("id")

	var product interface{}
	var err error
	if id, parseErr := strconv.ParseUint(idOrSlug, 10, 32); parseErr == nil {
		product, err = ctrl.productService.GetProduct(uint(id))
	} else {
		product, err = ctrl.productService.GetProductBySlug(idOrSlug)
	}

	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.CatalogProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"id_or_slug": idOrSlug,
		})
		apperrors.InternalError(c, "Failed to fetch product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// GetFilters returns filter sidebar metadata
// GET /api/v1/products/filters
func (ctrl *ProductController) GetFilters(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	metadata, err := ctrl.productService.GetFilterMetadata(c.Request.Context())
	if err != nil {
		log.Error("Failed to fetch filter metadata", err, nil)
		apperrors.InternalError(c, "Failed to fetch filters")
		return
	}

	c.JSON(http.StatusOK, metadata)
}
