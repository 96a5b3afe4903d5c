package report

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockRow is the current stock of one active product
type StockRow struct {
	ProductID uuid.UUID       `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	OnHand    decimal.Decimal `json:"on_hand"`
	Reserved  decimal.Decimal `json:"reserved"`
	Available decimal.Decimal `json:"available"`
	CostValue decimal.Decimal `json:"cost_value"`
}

// StockReport lists stock for every active product
type StockReport struct {
	Rows           []StockRow      `json:"rows"`
	TotalCostValue decimal.Decimal `json:"total_cost_value"`
}
