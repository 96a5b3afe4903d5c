package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MatchStatus is the outcome of a three-way match
type MatchStatus string

const (
	MatchStatusMatched   MatchStatus = "MATCHED"
	MatchStatusException MatchStatus = "EXCEPTION"
)

// Match issue codes
const (
	IssueNotOnPO        = "NOT_ON_PO"
	IssueQuantityOver   = "QUANTITY_OVER_RECEIVED"
	IssuePriceVariance  = "PRICE_VARIANCE"
	IssueAmountVariance = "AMOUNT_VARIANCE"
)

// MatchTolerances bound acceptable differences between invoice, PO and receipt.
// QuantityPct and PricePct are fractions (0.02 is 2%).
type MatchTolerances struct {
	QuantityPct decimal.Decimal `json:"quantity_pct"`
	PricePct    decimal.Decimal `json:"price_pct"`
	Amount      decimal.Decimal `json:"amount"`
}

// DefaultMatchTolerances returns 0% quantity, 2% price and 1.00 header amount
func DefaultMatchTolerances() MatchTolerances {
	return MatchTolerances{
		QuantityPct: decimal.Zero,
		PricePct:    decimal.NewFromFloat(0.02),
		Amount:      decimal.NewFromInt(1),
	}
}

// POLineView is what the matcher needs from a purchase order line.
// BilledQty is what other invoices on the same PO already billed.
type POLineView struct {
	ProductID   uuid.UUID
	OrderedQty  decimal.Decimal
	ReceivedQty decimal.Decimal
	BilledQty   decimal.Decimal
	UnitCost    decimal.Decimal
}

// Unbilled returns the received quantity not yet billed, never below zero
func (v POLineView) Unbilled() decimal.Decimal {
	open := v.ReceivedQty.Sub(v.BilledQty)
	if open.IsNegative() {
		return decimal.Zero
	}
	return open
}

// LineMatch is the match result for one invoice line
type LineMatch struct {
	ProductID     uuid.UUID       `json:"product_id"`
	BilledQty     decimal.Decimal `json:"billed_qty"`
	OrderedQty    decimal.Decimal `json:"ordered_qty"`
	ReceivedQty   decimal.Decimal `json:"received_qty"`
	PriorBilled   decimal.Decimal `json:"prior_billed_qty"`
	BilledCost    decimal.Decimal `json:"billed_cost"`
	POCost        decimal.Decimal `json:"po_cost"`
	QtyVariance   decimal.Decimal `json:"qty_variance"`
	PriceVariance decimal.Decimal `json:"price_variance"`
	Issues        []string        `json:"issues"`
}

// MatchResult is the outcome of matching a vendor invoice against its PO
type MatchResult struct {
	Status         MatchStatus     `json:"status"`
	Lines          []LineMatch     `json:"lines"`
	BilledTotal    decimal.Decimal `json:"billed_total"`
	ExpectedTotal  decimal.Decimal `json:"expected_total"`
	AmountVariance decimal.Decimal `json:"amount_variance"`
	HeaderIssues   []string        `json:"header_issues"`
	MatchedAt      time.Time       `json:"matched_at"`
}

// HasIssues reports whether any line or the header failed
func (r *MatchResult) HasIssues() bool {
	if len(r.HeaderIssues) > 0 {
		return true
	}
	for _, l := range r.Lines {
		if len(l.Issues) > 0 {
			return true
		}
	}
	return false
}

// ThreeWayMatch compares billed lines with the PO and what was received.
//
// Per line, billed quantity may not exceed the unbilled receipt
// (received less what other invoices billed) × (1 + QuantityPct), and
// billed cost may differ from PO cost by at most PO cost × PricePct. The
// header compares the billed total with unbilled × PO cost over the billed
// products, within Amount.
func ThreeWayMatch(lines []VendorInvoiceLine, po []POLineView, tol MatchTolerances) MatchResult {
	byProduct := make(map[uuid.UUID]POLineView, len(po))
	for _, l := range po {
		byProduct[l.ProductID] = l
	}

	result := MatchResult{
		Lines:         make([]LineMatch, 0, len(lines)),
		BilledTotal:   decimal.Zero,
		ExpectedTotal: decimal.Zero,
		HeaderIssues:  []string{},
		MatchedAt:     time.Now(),
	}
	qtyFactor := decimal.NewFromInt(1).Add(tol.QuantityPct)

	for _, l := range lines {
		result.BilledTotal = result.BilledTotal.Add(l.Amount)
		m := LineMatch{
			ProductID:  l.ProductID,
			BilledQty:  l.Quantity,
			BilledCost: l.UnitCost,
			Issues:     []string{},
		}
		pl, ok := byProduct[l.ProductID]
		if !ok {
			m.Issues = append(m.Issues, IssueNotOnPO)
			m.QtyVariance = l.Quantity
			m.PriceVariance = decimal.Zero
			result.Lines = append(result.Lines, m)
			continue
		}
		m.OrderedQty = pl.OrderedQty
		m.ReceivedQty = pl.ReceivedQty
		m.PriorBilled = pl.BilledQty
		m.POCost = pl.UnitCost
		unbilled := pl.Unbilled()
		m.QtyVariance = l.Quantity.Sub(unbilled)
		m.PriceVariance = l.UnitCost.Sub(pl.UnitCost)

		if l.Quantity.GreaterThan(unbilled.Mul(qtyFactor)) {
			m.Issues = append(m.Issues, IssueQuantityOver)
		}
		if m.PriceVariance.Abs().GreaterThan(pl.UnitCost.Mul(tol.PricePct)) {
			m.Issues = append(m.Issues, IssuePriceVariance)
		}
		result.ExpectedTotal = result.ExpectedTotal.Add(unbilled.Mul(pl.UnitCost).Round(2))
		result.Lines = append(result.Lines, m)
	}

	result.AmountVariance = result.BilledTotal.Sub(result.ExpectedTotal)
	if result.AmountVariance.Abs().GreaterThan(tol.Amount) {
		result.HeaderIssues = append(result.HeaderIssues, IssueAmountVariance)
	}

	result.Status = MatchStatusMatched
	if result.HasIssues() {
		result.Status = MatchStatusException
	}
	return result
}

// BilledQuantities sums billed quantity per product over invoices that are
// not void, skipping the invoice with id exclude
func BilledQuantities(invoices []VendorInvoice, exclude uuid.UUID) map[uuid.UUID]decimal.Decimal {
	billed := make(map[uuid.UUID]decimal.Decimal)
	for _, inv := range invoices {
		if inv.ID == exclude || inv.Status == VendorInvoiceStatusVoid {
			continue
		}
		for _, l := range inv.Lines {
			billed[l.ProductID] = billed[l.ProductID].Add(l.Quantity)
		}
	}
	return billed
}
