// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Errors
	KeyErrorInternal    = "error.internal"
	KeyErrorConflict    = "error.conflict"
	KeyErrorRoute       = "error.route_not_found"
	KeyErrorRateLimited = "error.rate_limited"

	// Validation
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationRequired = "validation.required"
	KeySearchQueryMissing = "search.query_required"
	KeyUploadInvalid      = "upload.invalid"

	// Products
	KeyProductCreated      = "product.created"
	KeyProductUpdated      = "product.updated"
	KeyProductDeleted      = "product.deleted"
	KeyProductDeletedAll   = "product.deleted_all"
	KeyProductNotFound     = "product.not_found"
	KeyProductImported     = "product.imported"
	KeyProductToggled      = "product.toggled"
	KeyProductSaleRecorded = "product.sale_recorded"
	KeyProductBulkUpdated  = "product.bulk_updated"

	// Customers
	KeyCustomerCreated  = "customer.created"
	KeyCustomerUpdated  = "customer.updated"
	KeyCustomerDeleted  = "customer.deleted"
	KeyCustomerNotFound = "customer.not_found"

	// Suppliers
	KeySupplierCreated  = "supplier.created"
	KeySupplierUpdated  = "supplier.updated"
	KeySupplierDeleted  = "supplier.deleted"
	KeySupplierNotFound = "supplier.not_found"

	// Orders
	KeyOrderCreated  = "order.created"
	KeyOrderUpdated  = "order.updated"
	KeyOrderDeleted  = "order.deleted"
	KeyOrderNotFound = "order.not_found"
)
