package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/clothely/clothely-backend/internal/app/service"
	apperrors "github.com/clothely/clothely-backend/internal/errors"
	"github.com/clothely/clothely-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type AdminProductController struct {
	catalogService service.CatalogService
	productService service.ProductService
	exportService  service.ExportService
}

func NewAdminProductController(
	catalogService service.CatalogService,
	productService service.ProductService,
	exportService service.ExportService,
) *AdminProductController {
	return &AdminProductController{
		catalogService: catalogService,
		productService: productService,
		exportService:  exportService,
	}
}

type SaveVariantRequest struct {
	SKU           string                     `json:"sku"`
	Barcode       string                     `json:"barcode"`
	Price         float64                    `json:"price" binding:"gte=0"`
	StockQuantity int                        `json:"stock_quantity" binding:"gte=0"`
	OptionValues  []service.OptionValueInput `json:"option_values" binding:"omitempty,dive"`
	Color         string                     `json:"color"`
	Size          string                     `json:"size"`
	ImageURLs     []string                   `json:"image_urls"`
}

type SaveProductRequest struct {
	Title          string               `json:"title" binding:"required"`
	Slug           string               `json:"slug"`
	Description    string               `json:"description"`
	Price          float64              `json:"price" binding:"required,gt=0"`
	CompareAtPrice float64              `json:"compare_at_price" binding:"gte=0"`
	Weight         float64              `json:"weight"`
	Length         float64              `json:"length"`
	Width          float64              `json:"width"`
	Height         float64              `json:"height"`
	SeoTitle       string               `json:"seo_title"`
	SeoDescription string               `json:"seo_description"`
	Tags           string               `json:"tags"`
	IsActive       *bool                `json:"is_active"`
	Version        *int                 `json:"version"`
	CategoryIDs    []uint               `json:"category_ids" binding:"required,min=1"`
	BrandID        *uint                `json:"brand_id"`
	Variants       []SaveVariantRequest `json:"variants" binding:"required,min=1,dive"`
	ImageURLs      []string             `json:"image_urls"`
}

func (req *SaveProductRequest) toInput(id *uint) service.SaveProductInput {
	input := service.SaveProductInput{
		ID:             id,
		Title:          req.Title,
		Slug:           req.Slug,
		Description:    req.Description,
		Price:          req.Price,
		CompareAtPrice: req.CompareAtPrice,
		Weight:         req.Weight,
		Length:         req.Length,
		Width:          req.Width,
		Height:         req.Height,
		SeoTitle:       req.SeoTitle,
		SeoDescription: req.SeoDescription,
		Tags:           req.Tags,
		IsActive:       req.IsActive,
		Version:        req.Version,
		CategoryIDs:    req.CategoryIDs,
		BrandID:        req.BrandID,
		ImageURLs:      req.ImageURLs,
	}
	for _, v := range req.Variants {
		input.Variants = append(input.Variants, service.VariantInput{
			SKU:           v.SKU,
			Barcode:       v.Barcode,
			Price:         v.Price,
			StockQuantity: v.StockQuantity,
			OptionValues:  v.OptionValues,
			Color:         v.Color,
			Size:          v.Size,
			ImageURLs:     v.ImageURLs,
		})
	}
	return input
}

// CreateProduct creates a product with its variants
// POST /api/v1/admin/products
func (ctrl *AdminProductController) CreateProduct(c *gin.Context) {
	var req SaveProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if fields := apperrors.FieldErrors(err); fields != nil {
			apperrors.RespondWithValidationError(c, fields)
			return
		}
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product data")
		return
	}
	ctrl.saveProduct(c, req.toInput(nil), http.StatusCreated)
}

// UpdateProduct reconciles a product against the submitted state
// PUT /api/v1/admin/products/:id
func (ctrl *AdminProductController) UpdateProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product ID")
		return
	}

	var req SaveProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if fields := apperrors.FieldErrors(err); fields != nil {
			apperrors.RespondWithValidationError(c, fields)
			return
		}
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product data")
		return
	}
	ctrl.saveProduct(c, req.toInput(&id), http.StatusOK)
}

func (ctrl *AdminProductController) saveProduct(c *gin.Context, input service.SaveProductInput, successStatus int) {
	log := middleware.GetLoggerFromContext(c)

	product, err := ctrl.catalogService.SaveProduct(input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.CatalogProductNotFound, "Product not found")
		case errors.Is(err, service.ErrDuplicateVariantSignature):
			apperrors.BadRequest(c, apperrors.CatalogDuplicateVariant, "Two variants have identical option values")
		case errors.Is(err, service.ErrProductConflict):
			apperrors.Conflict(c, apperrors.CatalogVersionConflict, "Product was modified by someone else, reload and retry")
		case errors.Is(err, service.ErrCategoryRequired):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "At least one category is required")
		case errors.Is(err, service.ErrVariantRequired):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "At least one variant is required")
		case errors.Is(err, service.ErrCategoryNotFound):
			apperrors.BadRequest(c, apperrors.CatalogCategoryNotFound, "Category does not exist")
		case errors.Is(err, service.ErrBrandNotFound):
			apperrors.BadRequest(c, apperrors.CatalogBrandNotFound, "Brand does not exist")
		default:
			info := apperrors.ParseError(err, "product save")
			status := info.HTTPStatus()
			if status >= 500 {
				log.Error("Failed to save product", err, map[string]interface{}{
					"product_id": input.ID,
					"title":      input.Title,
				})
			}
			apperrors.RespondWithError(c, status, info.Code, info.Message)
		}
		return
	}

	ctrl.productService.InvalidateFilterCache(c.Request.Context())
	c.JSON(successStatus, gin.H{"product": product})
}

// GetProduct returns a product including inactive ones
// GET /api/v1/admin/products/:id
func (ctrl *AdminProductController) GetProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product ID")
		return
	}

	product, err := ctrl.productService.GetProduct(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.CatalogProductNotFound, "Product not found")
			return
		}
		apperrors.InternalError(c, "Failed to fetch product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct removes a product and all of its variants
// DELETE /api/v1/admin/products/:id
func (ctrl *AdminProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseID(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product ID")
		return
	}

	if err := ctrl.catalogService.DeleteProduct(id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.CatalogProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "Failed to delete product")
		return
	}

	ctrl.productService.InvalidateFilterCache(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// ExportCatalog streams the catalog as an XLSX workbook
// GET /api/v1/admin/products/export
func (ctrl *AdminProductController) ExportCatalog(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	buf, err := ctrl.exportService.ExportCatalog()
	if err != nil {
		log.Error("Failed to export catalog", err, nil)
		apperrors.InternalError(c, "Failed to export catalog")
		return
	}

	filename := fmt.Sprintf("catalog-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
