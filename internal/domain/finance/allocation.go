package finance

import (
	"sort"
	"time"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationTarget is an open document that can absorb part of a payment
type AllocationTarget struct {
	ID          uuid.UUID
	Number      string
	Outstanding decimal.Decimal
	DueDate     time.Time
	CreatedAt   time.Time
}

// Allocation is an amount applied to one document
type Allocation struct {
	TargetID uuid.UUID       `json:"target_id"`
	Number   string          `json:"number"`
	Amount   decimal.Decimal `json:"amount"`
}

// AllocateOldestFirst spreads amount across targets in due date order,
// falling back to creation time. It returns the allocations and whatever
// could not be placed.
func AllocateOldestFirst(amount decimal.Decimal, targets []AllocationTarget) ([]Allocation, decimal.Decimal, error) {
	if !amount.IsPositive() {
		return nil, decimal.Zero, shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
	}

	sorted := make([]AllocationTarget, len(targets))
	copy(sorted, targets)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].DueDate.Equal(sorted[j].DueDate) {
			return sorted[i].DueDate.Before(sorted[j].DueDate)
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	allocations := make([]Allocation, 0)
	remaining := amount
	for _, target := range sorted {
		if remaining.IsZero() {
			break
		}
		if !target.Outstanding.IsPositive() {
			continue
		}
		alloc := decimal.Min(remaining, target.Outstanding)
		allocations = append(allocations, Allocation{TargetID: target.ID, Number: target.Number, Amount: alloc})
		remaining = remaining.Sub(alloc)
	}
	return allocations, remaining, nil
}

// SumAllocations totals allocation amounts
func SumAllocations(allocs []Allocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocs {
		total = total.Add(a.Amount)
	}
	return total
}

// InvoiceTargets converts open invoices to allocation targets
func InvoiceTargets(invoices []Invoice) []AllocationTarget {
	out := make([]AllocationTarget, 0, len(invoices))
	for _, inv := range invoices {
		if inv.Status.IsTerminal() {
			continue
		}
		out = append(out, AllocationTarget{
			ID:          inv.ID,
			Number:      inv.InvoiceNumber,
			Outstanding: inv.Outstanding(),
			DueDate:     inv.DueDate,
			CreatedAt:   inv.CreatedAt,
		})
	}
	return out
}
