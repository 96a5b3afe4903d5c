package shared

import (
	"context"
	"fmt"
)

// NumberGenerator hands out monotonically increasing sequence values per key
type NumberGenerator interface {
	Next(ctx context.Context, key string) (int64, error)
}

// Document number prefixes
const (
	PrefixOrder            = "ORD"
	PrefixPurchaseOrder    = "PO"
	PrefixInvoice          = "INV"
	PrefixCreditMemo       = "CM"
	PrefixStorePayment     = "RCP"
	PrefixVendorPayment    = "VP"
	PrefixVendorCreditMemo = "VCM"
	PrefixWorkOrder        = "WO"
)

// NextDocumentNumber builds numbers like ORD-2026W42-000123. The sequence
// restarts for every prefix and week.
func NextDocumentNumber(ctx context.Context, gen NumberGenerator, prefix string, week Week) (string, error) {
	seq, err := gen.Next(ctx, prefix+":"+week.Compact())
	if err != nil {
		return "", fmt.Errorf("failed to allocate %s number: %w", prefix, err)
	}
	return fmt.Sprintf("%s-%s-%06d", prefix, week.Compact(), seq), nil
}
