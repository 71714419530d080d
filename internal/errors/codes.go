package errors

// Error code constants, format: CATEGORY_SPECIFIC_DETAIL.
// The frontend maps these codes to display messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationRequired     = "VALIDATION_REQUIRED"
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE"

	// ==================== Catalog (CATALOG_) ====================
	CatalogProductNotFound    = "CATALOG_PRODUCT_NOT_FOUND"
	CatalogVariantNotFound    = "CATALOG_VARIANT_NOT_FOUND"
	CatalogOptionNotFound     = "CATALOG_OPTION_NOT_FOUND"
	CatalogCategoryNotFound   = "CATALOG_CATEGORY_NOT_FOUND"
	CatalogBrandNotFound      = "CATALOG_BRAND_NOT_FOUND"
	CatalogSlugExists         = "CATALOG_SLUG_EXISTS"
	CatalogDuplicateVariant   = "CATALOG_DUPLICATE_VARIANT"
	CatalogVersionConflict    = "CATALOG_VERSION_CONFLICT"
	CatalogSaveFailed         = "CATALOG_SAVE_FAILED"
	CatalogOptionInUse        = "CATALOG_OPTION_IN_USE"
	CatalogGlobalValueInvalid = "CATALOG_GLOBAL_VALUE_INVALID"

	// ==================== Cart (CART_) ====================
	CartItemNotFound      = "CART_ITEM_NOT_FOUND"
	CartInsufficientStock = "CART_INSUFFICIENT_STOCK"
	CartInvalidVariant    = "CART_INVALID_VARIANT"
	CartEmpty             = "CART_EMPTY"

	// ==================== Order (ORDER_) ====================
	OrderNotFound       = "ORDER_NOT_FOUND"
	OrderInvalidAddress = "ORDER_INVALID_ADDRESS"
	OrderPaymentFailed  = "ORDER_PAYMENT_FAILED"

	// ==================== Address (ADDRESS_) ====================
	AddressNotFound = "ADDRESS_NOT_FOUND"

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFile = "UPLOAD_INVALID_FILE"
	UploadFailed      = "UPLOAD_FAILED"

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR"
	InternalExternalAPI = "INTERNAL_EXTERNAL_API"
)
