package finance

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AgingBucket groups outstanding amounts by days past due
type AgingBucket string

const (
	AgingCurrent AgingBucket = "CURRENT"
	Aging1To30   AgingBucket = "1-30"
	Aging31To60  AgingBucket = "31-60"
	Aging61To90  AgingBucket = "61-90"
	AgingOver90  AgingBucket = "90+"
)

// AgingBuckets lists buckets in display order
var AgingBuckets = []AgingBucket{AgingCurrent, Aging1To30, Aging31To60, Aging61To90, AgingOver90}

// DaysPastDue counts whole calendar days (UTC) from due to asOf. It is zero
// or negative when the document is not yet due.
func DaysPastDue(due, asOf time.Time) int {
	d := truncateDay(due)
	a := truncateDay(asOf)
	return int(a.Sub(d).Hours() / 24)
}

// BucketFor returns the bucket for a due date as of a date
func BucketFor(due, asOf time.Time) AgingBucket {
	days := DaysPastDue(due, asOf)
	switch {
	case days <= 0:
		return AgingCurrent
	case days <= 30:
		return Aging1To30
	case days <= 60:
		return Aging31To60
	case days <= 90:
		return Aging61To90
	}
	return AgingOver90
}

// AgingItem is one open document
type AgingItem struct {
	PartyID     uuid.UUID
	DueDate     time.Time
	Outstanding decimal.Decimal
}

// AgingRow is the bucketed outstanding for one store or vendor
type AgingRow struct {
	PartyID uuid.UUID                       `json:"party_id"`
	Buckets map[AgingBucket]decimal.Decimal `json:"buckets"`
	Total   decimal.Decimal                 `json:"total"`
}

// AgingReport is a full aging as of a date
type AgingReport struct {
	AsOf   time.Time                       `json:"as_of"`
	Rows   []AgingRow                      `json:"rows"`
	Totals map[AgingBucket]decimal.Decimal `json:"totals"`
	Total  decimal.Decimal                 `json:"total"`
}

// BuildAging buckets items per party. Rows are ordered by party id.
func BuildAging(items []AgingItem, asOf time.Time) AgingReport {
	rows := make(map[uuid.UUID]*AgingRow)
	report := AgingReport{AsOf: asOf, Totals: emptyBuckets(), Total: decimal.Zero}

	for _, it := range items {
		if !it.Outstanding.IsPositive() {
			continue
		}
		row, ok := rows[it.PartyID]
		if !ok {
			row = &AgingRow{PartyID: it.PartyID, Buckets: emptyBuckets(), Total: decimal.Zero}
			rows[it.PartyID] = row
		}
		b := BucketFor(it.DueDate, asOf)
		row.Buckets[b] = row.Buckets[b].Add(it.Outstanding)
		row.Total = row.Total.Add(it.Outstanding)
		report.Totals[b] = report.Totals[b].Add(it.Outstanding)
		report.Total = report.Total.Add(it.Outstanding)
	}

	report.Rows = make([]AgingRow, 0, len(rows))
	for _, r := range rows {
		report.Rows = append(report.Rows, *r)
	}
	sort.Slice(report.Rows, func(i, j int) bool {
		return report.Rows[i].PartyID.String() < report.Rows[j].PartyID.String()
	})
	return report
}

func emptyBuckets() map[AgingBucket]decimal.Decimal {
	m := make(map[AgingBucket]decimal.Decimal, len(AgingBuckets))
	for _, b := range AgingBuckets {
		m[b] = decimal.Zero
	}
	return m
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
