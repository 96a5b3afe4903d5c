package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// AccountSortFields contains allowed sort fields for accounts
var AccountSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"username":      true,
	"display_name":  true,
	"role":          true,
	"last_login_at": true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"sku":        true,
	"name":       true,
	"category":   true,
	"sell_price": true,
	"cost_price": true,
	"status":     true,
}

// StoreSortFields contains allowed sort fields for stores
var StoreSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"code":         true,
	"name":         true,
	"balance":      true,
	"credit_limit": true,
}

// VendorSortFields contains allowed sort fields for vendors
var VendorSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
}

// BalanceEntrySortFields contains allowed sort fields for store balance history
var BalanceEntrySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"amount":     true,
	"entry_type": true,
}

// AdjustmentSortFields contains allowed sort fields for balance adjustments
var AdjustmentSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"amount":      true,
	"status":      true,
	"reviewed_at": true,
}

// LedgerSortFields contains allowed sort fields for stock ledger entries
var LedgerSortFields = map[string]bool{
	"id":          true,
	"occurred_at": true,
	"entry_type":  true,
	"quantity":    true,
	"week":        true,
}

// StoreInventorySortFields contains allowed sort fields for shelf counts
var StoreInventorySortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"week":         true,
	"submitted_at": true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"order_number":  true,
	"delivery_week": true,
	"status":        true,
	"total_amount":  true,
	"shipped_at":    true,
}

// PreOrderSortFields contains allowed sort fields for preorders
var PreOrderSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"week":         true,
	"status":       true,
	"confirmed_at": true,
}

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"order_number":  true,
	"expected_week": true,
	"status":        true,
	"total_amount":  true,
}

// InvoiceSortFields contains allowed sort fields for store invoices
var InvoiceSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"issued_at":      true,
	"due_date":       true,
	"total_amount":   true,
	"status":         true,
}

// CreditMemoSortFields contains allowed sort fields for credit memos
var CreditMemoSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"memo_number": true,
	"amount":      true,
	"status":      true,
}

// PaymentSortFields contains allowed sort fields for store and vendor payments
var PaymentSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"payment_number": true,
	"amount":         true,
	"received_at":    true,
	"paid_at":        true,
}

// VendorInvoiceSortFields contains allowed sort fields for vendor invoices
var VendorInvoiceSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"invoice_date":   true,
	"due_date":       true,
	"total_amount":   true,
	"status":         true,
}

// DisputeSortFields contains allowed sort fields for vendor disputes
var DisputeSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"disputed_amount": true,
	"status":          true,
	"closed_at":       true,
}

// IssueSortFields contains allowed sort fields for quality issues
var IssueSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"status":        true,
	"credit_amount": true,
	"reviewed_at":   true,
}

// WorkOrderSortFields contains allowed sort fields for work orders
var WorkOrderSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"number":      true,
	"week":        true,
	"status":      true,
	"released_at": true,
}
