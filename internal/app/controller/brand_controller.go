package controller

import (
	"errors"
	"net/http"

	"github.com/clothely/clothely-backend/internal/app/model"
	"github.com/clothely/clothely-backend/internal/app/repository"
	"github.com/clothely/clothely-backend/internal/app/service"
	apperrors "github.com/clothely/clothely-backend/internal/errors"
	"github.com/clothely/clothely-backend/pkg/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BrandController struct {
	brands         repository.BrandRepository
	productService service.ProductService
}

func NewBrandController(brands repository.BrandRepository, productService service.ProductService) *BrandController {
	return &BrandController{
		brands:         brands,
		productService: productService,
	}
}

type BrandRequest struct {
	Name    string `json:"name" binding:"required"`
	LogoURL string `json:"logo_url"`
}

// ListBrands returns all brands
// GET /api/v1/brands
func (ctrl *BrandController) ListBrands(c *gin.Context) {
	brands, err := ctrl.brands.FindAll()
	if err != nil {
		apperrors.InternalError(c, "Failed to fetch brands")
		return
	}
	c.JSON(http.StatusOK, gin.H{"brands": brands})
}

// CreateBrand creates a brand
// POST /api/v1/admin/brands
func (ctrl *BrandController) CreateBrand(c *gin.Context) {
	var req BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid brand data")
		return
	}

	brand := &model.Brand{
		Name:    req.Name,
		Slug:    util.Slugify(req.Name),
		LogoURL: req.LogoURL,
	}
	if err := ctrl.brands.Create(brand); err != nil {
		info := apperrors.ParseError(err, "brand create")
		apperrors.RespondWithError(c, info.HTTPStatus(), info.Code, info.Message)
		return
	}

	// Brands feed the cached filter sidebar.
	ctrl.productService.InvalidateFilterCache(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{"brand": brand})
}

// UpdateBrand edits a brand
// PUT /api/v1/admin/brands/:id
func (ctrl *BrandController) UpdateBrand(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid brand ID")
		return
	}

	var req BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid brand data")
		return
	}

	brand, err := ctrl.brands.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.NotFound(c, apperrors.CatalogBrandNotFound, "Brand not found")
			return
		}
		apperrors.InternalError(c, "Failed to fetch brand")
		return
	}

	brand.Name = req.Name
	brand.Slug = util.Slugify(req.Name)
	brand.LogoURL = req.LogoURL
	if err := ctrl.brands.Update(brand); err != nil {
		info := apperrors.ParseError(err, "brand update")
		apperrors.RespondWithError(c, info.HTTPStatus(), info.Code, info.Message)
		return
	}

	ctrl.productService.InvalidateFilterCache(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"brand": brand})
}

// DeleteBrand removes a brand with no linked products
// DELETE /api/v1/admin/brands/:id
func (ctrl *BrandController) DeleteBrand(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid brand ID")
		return
	}

	count, err := ctrl.brands.CountProducts(id)
	if err != nil {
		apperrors.InternalError(c, "Failed to delete brand")
		return
	}
	if count > 0 {
		apperrors.Conflict(c, apperrors.ResourceConflict, "Brand still has products linked to it")
		return
	}

	if err := ctrl.brands.Delete(id); err != nil {
		apperrors.InternalError(c, "Failed to delete brand")
		return
	}

	ctrl.productService.InvalidateFilterCache(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Brand deleted"})
}
