package inventory

import (
	"fmt"
	"strings"

	"github.com/freshline/backend/internal/domain/shared"
)

// NewInsufficientStockError describes every shortage in one message
func NewInsufficientStockError(shortages []Shortage) *shared.DomainError {
	parts := make([]string, len(shortages))
	for i, s := range shortages {
		parts[i] = fmt.Sprintf("%s requested %s available %s", s.ProductID, s.Requested.String(), s.Available.String())
	}
	return shared.NewDomainError(shared.ErrInsufficientStock.Code,
		"Insufficient stock: "+strings.Join(parts, "; "))
}

// ErrStockLockTimeout is returned when product locks could not be acquired in time
var ErrStockLockTimeout = shared.NewDomainError("STOCK_LOCK_TIMEOUT", "Stock is busy, please retry")
