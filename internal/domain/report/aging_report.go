package report

import (
	"time"

	"github.com/freshline/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AgingRow is one party's bucketed outstanding, with display fields
type AgingRow struct {
	PartyID   uuid.UUID                               `json:"party_id"`
	PartyCode string                                  `json:"party_code"`
	PartyName string                                  `json:"party_name"`
	Buckets   map[finance.AgingBucket]decimal.Decimal `json:"buckets"`
	Total     decimal.Decimal                         `json:"total"`
}

// Aging is an AR or AP aging report
type Aging struct {
	Kind   string                                  `json:"kind"`
	AsOf   time.Time                               `json:"as_of"`
	Rows   []AgingRow                              `json:"rows"`
	Totals map[finance.AgingBucket]decimal.Decimal `json:"totals"`
	Total  decimal.Decimal                         `json:"total"`
}

// Party names a store or vendor
type Party struct {
	Code string
	Name string
}

// NewAging decorates a bucketed report with party names
func NewAging(kind string, r finance.AgingReport, parties map[uuid.UUID]Party) *Aging {
	rows := make([]AgingRow, 0, len(r.Rows))
	for _, row := range r.Rows {
		p := parties[row.PartyID]
		rows = append(rows, AgingRow{
			PartyID:   row.PartyID,
			PartyCode: p.Code,
			PartyName: p.Name,
			Buckets:   row.Buckets,
			Total:     row.Total,
		})
	}
	return &Aging{Kind: kind, AsOf: r.AsOf, Rows: rows, Totals: r.Totals, Total: r.Total}
}
