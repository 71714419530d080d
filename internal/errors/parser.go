package errors

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a parsed error: a stable code plus a safe message
type ErrorInfo struct {
	Code    string
	Message string
}

// HTTPStatus picks the response status from the error code category.
func (e ErrorInfo) HTTPStatus() int {
	switch e.Code {
	case ResourceNotFound, CatalogProductNotFound, CatalogVariantNotFound,
		CatalogCategoryNotFound, CatalogBrandNotFound, CatalogOptionNotFound,
		OrderNotFound, CartItemNotFound, AddressNotFound:
		return http.StatusNotFound
	case ResourceAlreadyExists, ResourceConflict, CatalogSlugExists,
		AuthEmailAlreadyExists, CatalogVersionConflict, CatalogOptionInUse:
		return http.StatusConflict
	case ValidationInvalidInput, ValidationRequired, ValidationInvalidRange,
		CatalogDuplicateVariant:
		return http.StatusBadRequest
	case InternalExternalAPI:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// ParseError converts persistence and business errors into a
// user-facing code and message. Sensitive detail stays in the logs;
// the response carries only what the caller can act on.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "An internal error occurred",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM base errors
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. PostgreSQL constraint errors

	// 2-1. Unique constraint violation (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	// 2-2. Foreign key constraint violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr, context)
	}

	// 2-3. Not null constraint violation (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	// 2-4. Check constraint violation (23514)
	if strings.Contains(errStrLower, "check constraint") {
		return ErrorInfo{
			Code:    ValidationInvalidInput,
			Message: "Submitted values are invalid",
		}
	}

	// 3. Network / connection errors
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "An external service is unavailable. Please try again later",
		}
	}

	// 4. Default internal server error
	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "idx_products_slug") || strings.Contains(errLower, "slug") {
		return ErrorInfo{
			Code:    CatalogSlugExists,
			Message: "This slug is already in use",
		}
	}
	if strings.Contains(errLower, "idx_users_email") || strings.Contains(errLower, "email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "This email is already in use",
		}
	}
	if strings.Contains(errLower, "idx_orders_number") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "Duplicate order number. Please try again",
		}
	}
	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This record already exists",
	}
}

func parseForeignKeyError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "still referenced") || strings.Contains(errLower, "is still referenced by") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "Other records reference this one, so it cannot be deleted",
		}
	}

	if strings.Contains(errLower, "category_id") {
		return ErrorInfo{
			Code:    CatalogCategoryNotFound,
			Message: "Referenced category does not exist",
		}
	}
	if strings.Contains(errLower, "brand_id") {
		return ErrorInfo{
			Code:    CatalogBrandNotFound,
			Message: "Referenced brand does not exist",
		}
	}
	if strings.Contains(errLower, "option_id") {
		return ErrorInfo{
			Code:    CatalogOptionNotFound,
			Message: "Referenced attribute does not exist",
		}
	}
	if strings.Contains(errLower, "product_id") {
		return ErrorInfo{
			Code:    CatalogProductNotFound,
			Message: "Referenced product does not exist",
		}
	}
	if strings.Contains(errLower, "user_id") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "Referenced user does not exist",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "A referenced record could not be found",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "product"):
		return "Product not found"
	case strings.Contains(contextLower, "variant"):
		return "Variant not found"
	case strings.Contains(contextLower, "category"):
		return "Category not found"
	case strings.Contains(contextLower, "brand"):
		return "Brand not found"
	case strings.Contains(contextLower, "option"), strings.Contains(contextLower, "attribute"):
		return "Attribute not found"
	case strings.Contains(contextLower, "order"):
		return "Order not found"
	case strings.Contains(contextLower, "cart"):
		return "Cart item not found"
	case strings.Contains(contextLower, "address"):
		return "Address not found"
	case strings.Contains(contextLower, "user"):
		return "User not found"
	}
	return "Requested record not found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "Creation failed. Please try again later"
	case strings.Contains(contextLower, "update"), strings.Contains(contextLower, "save"):
		return "Save failed. Please try again later"
	case strings.Contains(contextLower, "delete"):
		return "Deletion failed. Please try again later"
	}
	return "An internal error occurred. Please try again later"
}
