package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockLevel is derived from the ledger, never stored
type StockLevel struct {
	ProductID uuid.UUID       `json:"product_id"`
	OnHand    decimal.Decimal `json:"on_hand"`
	Reserved  decimal.Decimal `json:"reserved"`
	Available decimal.Decimal `json:"available"`
}

// TypeTotal is a per product, per entry type sum as returned by aggregate queries
type TypeTotal struct {
	ProductID uuid.UUID
	EntryType EntryType
	Quantity  decimal.Decimal
}

// ComputeStock folds per-type totals into stock levels. Every id in
// productIDs gets a level, zero when it has no movements.
func ComputeStock(productIDs []uuid.UUID, totals []TypeTotal) map[uuid.UUID]StockLevel {
	levels := make(map[uuid.UUID]StockLevel, len(productIDs))
	for _, id := range productIDs {
		levels[id] = StockLevel{ProductID: id, OnHand: decimal.Zero, Reserved: decimal.Zero, Available: decimal.Zero}
	}
	for _, t := range totals {
		lvl, ok := levels[t.ProductID]
		if !ok {
			lvl = StockLevel{ProductID: t.ProductID, OnHand: decimal.Zero, Reserved: decimal.Zero}
		}
		if s := t.EntryType.OnHandSign(); s != 0 {
			lvl.OnHand = lvl.OnHand.Add(t.Quantity.Mul(decimal.NewFromInt(int64(s))))
		}
		if s := t.EntryType.ReservedSign(); s != 0 {
			lvl.Reserved = lvl.Reserved.Add(t.Quantity.Mul(decimal.NewFromInt(int64(s))))
		}
		levels[t.ProductID] = lvl
	}
	for id, lvl := range levels {
		lvl.Available = lvl.OnHand.Sub(lvl.Reserved)
		levels[id] = lvl
	}
	return levels
}

// ComputeStockFromEntries is ComputeStock over raw entries
func ComputeStockFromEntries(productIDs []uuid.UUID, entries []LedgerEntry) map[uuid.UUID]StockLevel {
	totals := make([]TypeTotal, len(entries))
	for i, e := range entries {
		totals[i] = TypeTotal{ProductID: e.ProductID, EntryType: e.EntryType, Quantity: e.Quantity}
	}
	return ComputeStock(productIDs, totals)
}

// ReservationLine asks for qty of a product
type ReservationLine struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
}

// Shortage describes a line that cannot be covered
type Shortage struct {
	ProductID uuid.UUID       `json:"product_id"`
	Requested decimal.Decimal `json:"requested"`
	Available decimal.Decimal `json:"available"`
}

// CheckAvailability returns the lines that exceed available stock. Lines for
// the same product are summed first.
func CheckAvailability(levels map[uuid.UUID]StockLevel, lines []ReservationLine) []Shortage {
	requested := make(map[uuid.UUID]decimal.Decimal)
	order := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		if _, seen := requested[l.ProductID]; !seen {
			order = append(order, l.ProductID)
			requested[l.ProductID] = decimal.Zero
		}
		requested[l.ProductID] = requested[l.ProductID].Add(l.Quantity)
	}

	var shortages []Shortage
	for _, id := range order {
		avail := levels[id].Available
		if avail.IsNegative() {
			avail = decimal.Zero
		}
		if requested[id].GreaterThan(avail) {
			shortages = append(shortages, Shortage{ProductID: id, Requested: requested[id], Available: avail})
		}
	}
	return shortages
}
