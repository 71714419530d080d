package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/clothely/clothely-backend/internal/app/model"
	"github.com/clothely/clothely-backend/internal/app/service"
	apperrors "github.com/clothely/clothely-backend/internal/errors"
	"github.com/clothely/clothely-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type AttributeController struct {
	attributeService service.AttributeService
	productService   service.ProductService
}

func NewAttributeController(attributeService service.AttributeService, productService service.ProductService) *AttributeController {
	return &AttributeController{
		attributeService: attributeService,
		productService:   productService,
	}
}

type OptionRequest struct {
	Name string           `json:"name" binding:"required"`
	Type model.OptionType `json:"type" binding:"omitempty,oneof=TEXT COLOR SIZE SELECT NUMBER"`
}

type GlobalValueRequest struct {
	Value     string `json:"value" binding:"required"`
	ColorHex  string `json:"color_hex"`
	SortOrder int    `json:"sort_order"`
}

// ListOptions returns the variant option catalog
// GET /api/v1/admin/attributes
func (ctrl *AttributeController) ListOptions(c *gin.Context) {
	options, err := ctrl.attributeService.ListOptions()
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list variant options", err, nil)
		apperrors.InternalError(c, "Failed to fetch attributes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"options": options})
}

// CreateOption creates a variant option definition
// POST /api/v1/admin/attributes
func (ctrl *AttributeController) CreateOption(c *gin.Context) {
	var req OptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid attribute data")
		return
	}

	option, err := ctrl.attributeService.CreateOption(service.OptionInput{
		Name: req.Name,
		Type: req.Type,
	})
	if err != nil {
		info := apperrors.ParseError(err, "attribute create")
		apperrors.RespondWithError(c, info.HTTPStatus(), info.Code, info.Message)
		return
	}

	// Options feed the cached filter sidebar.
	ctrl.productService.InvalidateFilterCache(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{"option": option})
}

// UpdateOption renames or retypes a variant option
// PUT /api/v1/admin/attributes/:id
func (ctrl *AttributeController) UpdateOption(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid attribute ID")
		return
	}

	var req OptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid attribute data")
		return
	}

	option, err := ctrl.attributeService.UpdateOption(id, service.OptionInput{
		Name: req.Name,
		Type: req.Type,
	})
	if err != nil {
		if errors.Is(err, service.ErrOptionNotFound) {
			apperrors.NotFound(c, apperrors.CatalogOptionNotFound, "Attribute not found")
			return
		}
		info := apperrors.ParseError(err, "attribute update")
		apperrors.RespondWithError(c, info.HTTPStatus(), info.Code, info.Message)
		return
	}

	ctrl.productService.InvalidateFilterCache(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"option": option})
}

// DeleteOption removes an unused variant option
// DELETE /api/v1/admin/attributes/:id
func (ctrl *AttributeController) DeleteOption(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid attribute ID")
		return
	}

	if err := ctrl.attributeService.DeleteOption(id); err != nil {
		switch {
		case errors.Is(err, service.ErrOptionNotFound):
			apperrors.NotFound(c, apperrors.CatalogOptionNotFound, "Attribute not found")
		case errors.Is(err, service.ErrOptionInUse):
			apperrors.Conflict(c, apperrors.CatalogOptionInUse, "Attribute is used by variants and cannot be deleted")
		default:
			apperrors.InternalError(c, "Failed to delete attribute")
		}
		return
	}

	ctrl.productService.InvalidateFilterCache(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Attribute deleted"})
}

// AddGlobalValue adds a curated value to an option
// POST /api/v1/admin/attributes/:id/values
func (ctrl *AttributeController) AddGlobalValue(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid attribute ID")
		return
	}

	var req GlobalValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid value data")
		return
	}

	value, err := ctrl.attributeService.AddGlobalValue(id, service.GlobalValueInput{
		Value:     req.Value,
		ColorHex:  req.ColorHex,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		if errors.Is(err, service.ErrOptionNotFound) {
			apperrors.NotFound(c, apperrors.CatalogOptionNotFound, "Attribute not found")
			return
		}
		info := apperrors.ParseError(err, "attribute value create")
		apperrors.RespondWithError(c, info.HTTPStatus(), info.Code, info.Message)
		return
	}

	ctrl.productService.InvalidateFilterCache(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{"value": value})
}

// UpdateGlobalValue edits a curated value
// PUT /api/v1/admin/attributes/:id/values/:valueId
func (ctrl *AttributeController) UpdateGlobalValue(c *gin.Context) {
	optionID, err := parseID(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid attribute ID")
		return
	}
	valueID, err := strconv.ParseUint(c.Param("valueId"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid value ID")
		return
	}

	var req GlobalValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid value data")
		return
	}

	value, err := ctrl.attributeService.UpdateGlobalValue(optionID, uint(valueID), service.GlobalValueInput{
		Value:     req.Value,
		ColorHex:  req.ColorHex,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOptionNotFound):
			apperrors.NotFound(c, apperrors.CatalogOptionNotFound, "Attribute not found")
		case errors.Is(err, service.ErrGlobalValueNotFound):
			apperrors.NotFound(c, apperrors.CatalogGlobalValueInvalid, "Value not found")
		default:
			apperrors.InternalError(c, "Failed to update value")
		}
		return
	}

	ctrl.productService.InvalidateFilterCache(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"value": value})
}

// DeleteGlobalValue removes a curated value
// DELETE /api/v1/admin/attributes/:id/values/:valueId
func (ctrl *AttributeController) DeleteGlobalValue(c *gin.Context) {
	optionID, err := parseID(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid attribute ID")
		return
	}
	valueID, err := strconv.ParseUint(c.Param("valueId"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid value ID")
		return
	}

	if err := ctrl.attributeService.DeleteGlobalValue(optionID, uint(valueID)); err != nil {
		switch {
		case errors.Is(err, service.ErrOptionNotFound):
			apperrors.NotFound(c, apperrors.CatalogOptionNotFound, "Attribute not found")
		case errors.Is(err, service.ErrGlobalValueNotFound):
			apperrors.NotFound(c, apperrors.CatalogGlobalValueInvalid, "Value not found")
		default:
			apperrors.InternalError(c, "Failed to delete value")
		}
		return
	}

	ctrl.productService.InvalidateFilterCache(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Value deleted"})
}
