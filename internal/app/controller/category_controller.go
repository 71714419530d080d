package controller

import (
	"errors"
	"net/http"

	"github.com/clothely/clothely-backend/internal/app/model"
	"github.com/clothely/clothely-backend/internal/app/repository"
	"github.com/clothely/clothely-backend/internal/app/service"
	apperrors "github.com/clothely/clothely-backend/internal/errors"
	"github.com/clothely/clothely-backend/internal/middleware"
	"github.com/clothely/clothely-backend/pkg/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CategoryController struct {
	categories     repository.CategoryRepository
	productService service.ProductService
}

func NewCategoryController(categories repository.CategoryRepository, productService service.ProductService) *CategoryController {
	return &CategoryController{
		categories:     categories,
		productService: productService,
	}
}

type CategoryRequest struct {
	Name     string `json:"name" binding:"required"`
	ParentID *uint  `json:"parent_id"`
	Position int    `json:"position"`
	IsActive *bool  `json:"is_active"`
}

// ListCategories returns the category tree
// GET /api/v1/categories
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	// Admins see inactive categories as well.
	role, _ := middleware.GetUserRole(c)
	activeOnly := role != model.RoleAdmin

	categories, err := ctrl.categories.FindAll(activeOnly)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list categories", err, nil)
		apperrors.InternalError(c, "Failed to fetch categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateCategory creates a category
// POST /api/v1/admin/categories
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid category data")
		return
	}

	category := &model.Category{
		Name:     req.Name,
		Slug:     util.Slugify(req.Name),
		ParentID: req.ParentID,
		Position: req.Position,
		IsActive: true,
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := ctrl.categories.Create(category); err != nil {
		info := apperrors.ParseError(err, "category create")
		apperrors.RespondWithError(c, info.HTTPStatus(), info.Code, info.Message)
		return
	}

	// Categories feed the cached filter sidebar.
	ctrl.productService.InvalidateFilterCache(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// UpdateCategory edits a category
// PUT /api/v1/admin/categories/:id
func (ctrl *CategoryController) UpdateCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid category ID")
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid category data")
		return
	}

	category, err := ctrl.categories.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.NotFound(c, apperrors.CatalogCategoryNotFound, "Category not found")
			return
		}
		apperrors.InternalError(c, "Failed to fetch category")
		return
	}

	category.Name = req.Name
	category.Slug = util.Slugify(req.Name)
	category.ParentID = req.ParentID
	category.Position = req.Position
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := ctrl.categories.Update(category); err != nil {
		info := apperrors.ParseError(err, "category update")
		apperrors.RespondWithError(c, info.HTTPStatus(), info.Code, info.Message)
		return
	}

	ctrl.productService.InvalidateFilterCache(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory removes a category with no linked products
// DELETE /api/v1/admin/categories/:id
func (ctrl *CategoryController) DeleteCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid category ID")
		return
	}

	count, err := ctrl.categories.CountProducts(id)
	if err != nil {
		apperrors.InternalError(c, "Failed to delete category")
		return
	}
	if count > 0 {
		apperrors.Conflict(c, apperrors.ResourceConflict, "Category still has products linked to it")
		return
	}

	if err := ctrl.categories.Delete(id); err != nil {
		apperrors.InternalError(c, "Failed to delete category")
		return
	}

	ctrl.productService.InvalidateFilterCache(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
