package report

import (
	"context"
	"testing"
	"time"

	"github.com/freshline/backend/internal/domain/catalog"
	"github.com/freshline/backend/internal/domain/finance"
	"github.com/freshline/backend/internal/domain/inventory"
	"github.com/freshline/backend/internal/domain/partner"
	"github.com/freshline/backend/internal/domain/report"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type receivables []finance.Invoice

func (r receivables) FindOpenIssuedBefore(_ context.Context, asOf time.Time) ([]finance.Invoice, error) {
	out := make([]finance.Invoice, 0)
	for _, inv := range r {
		if !inv.IssuedAt.After(asOf) {
			out = append(out, inv)
		}
	}
	return out, nil
}

type payables []finance.VendorInvoice

func (p payables) FindOpen(context.Context) ([]finance.VendorInvoice, error) {
	return p, nil
}

type storeDirectory struct {
	partner.StoreRepository
	stores map[uuid.UUID]*partner.Store
}

func (d storeDirectory) FindByID(_ context.Context, id uuid.UUID) (*partner.Store, error) {
	if s, ok := d.stores[id]; ok {
		return s, nil
	}
	return nil, shared.ErrNotFound
}

type vendorDirectory struct {
	partner.VendorRepository
	vendors map[uuid.UUID]*partner.Vendor
}

func (d vendorDirectory) FindByID(_ context.Context, id uuid.UUID) (*partner.Vendor, error) {
	if v, ok := d.vendors[id]; ok {
		return v, nil
	}
	return nil, shared.ErrNotFound
}

type salesRows struct {
	byWeek  []report.WeeklySales
	byStore []report.StoreSales
}

func (s salesRows) SalesByWeek(context.Context, shared.Week, shared.Week) ([]report.WeeklySales, error) {
	return s.byWeek, nil
}

func (s salesRows) SalesByStore(context.Context, shared.Week, shared.Week) ([]report.StoreSales, error) {
	return s.byStore, nil
}

type activeProducts struct {
	catalog.ProductRepository
	products []catalog.Product
}

func (a activeProducts) FindActive(context.Context) ([]catalog.Product, error) {
	return a.products, nil
}

type fixedLevels map[uuid.UUID]inventory.StockLevel

func (f fixedLevels) Levels(_ context.Context, ids []uuid.UUID, _ time.Time) (map[uuid.UUID]inventory.StockLevel, error) {
	out := make(map[uuid.UUID]inventory.StockLevel, len(ids))
	for _, id := range ids {
		out[id] = f[id]
	}
	return out, nil
}

func storeInvoice(t *testing.T, storeID uuid.UUID, number string, amount int64, issued time.Time) finance.Invoice {
	t.Helper()
	inv, err := finance.NewInvoice(finance.InvoiceHeader{
		InvoiceNumber: number,
		StoreID:       storeID,
		OrderID:       uuid.New(),
		OrderNumber:   "ORD-" + number,
		Week:          shared.WeekOf(issued),
		IssuedAt:      issued,
		TermsDays:     14,
	}, []finance.InvoiceLineInput{
		{ProductID: uuid.New(), ProductName: "Produce", SKU: "P-1", Unit: "CASE", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(amount)},
	})
	require.NoError(t, err)
	return *inv
}

func TestReportService_ARAging(t *testing.T) {
	corner, err := partner.NewStore("ST01", "Corner Market")
	require.NoError(t, err)
	asOf := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	svc := NewReportService(ReportRepositories{
		Receivables: receivables{
			storeInvoice(t, corner.ID, "A", 100, asOf.AddDate(0, 0, -5)),  // due in 9 days
			storeInvoice(t, corner.ID, "B", 40, asOf.AddDate(0, 0, -30)),  // 16 days late
			storeInvoice(t, corner.ID, "C", 25, asOf.AddDate(0, 0, -120)), // 106 days late
			storeInvoice(t, uuid.New(), "D", 10, asOf.AddDate(0, 0, -20)), // unknown store
			storeInvoice(t, corner.ID, "E", 999, asOf.AddDate(0, 0, 3)),   // after as-of
		},
		Stores: storeDirectory{stores: map[uuid.UUID]*partner.Store{corner.ID: corner}},
	}, nil)

	aging, err := svc.ARAging(context.Background(), AgingFilter{AsOf: "2026-10-14"})
	require.NoError(t, err)
	assert.Equal(t, "AR", aging.Kind)
	assert.True(t, decimal.NewFromInt(175).Equal(aging.Total))
	require.Len(t, aging.Rows, 2)

	var row report.AgingRow
	for _, r := range aging.Rows {
		if r.PartyID == corner.ID {
			row = r
		}
	}
	assert.Equal(t, "Corner Market", row.PartyName)
	assert.True(t, decimal.NewFromInt(100).Equal(row.Buckets[finance.AgingCurrent]))
	assert.True(t, decimal.NewFromInt(40).Equal(row.Buckets[finance.Aging1To30]))
	assert.True(t, decimal.NewFromInt(25).Equal(row.Buckets[finance.AgingOver90]))
	assert.True(t, decimal.NewFromInt(165).Equal(row.Total))
	assert.True(t, decimal.NewFromInt(50).Equal(aging.Totals[finance.Aging1To30]))

	_, err = svc.ARAging(context.Background(), AgingFilter{AsOf: "14/10/2026"})
	assert.Error(t, err)
}

func TestReportService_APAging(t *testing.T) {
	vendor, err := partner.NewVendor("GRW01", "Valley Growers")
	require.NoError(t, err)
	invoiced := time.Now().AddDate(0, 0, -45)
	vi, err := finance.NewVendorInvoice(vendor.ID, uuid.New(), "V-1", invoiced, 30, []finance.VendorInvoiceLineInput{
		{ProductID: uuid.New(), Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(30)},
	})
	require.NoError(t, err)

	svc := NewReportService(ReportRepositories{
		Payables: payables{*vi},
		Vendors:  vendorDirectory{vendors: map[uuid.UUID]*partner.Vendor{vendor.ID: vendor}},
	}, nil)

	aging, err := svc.APAging(context.Background(), AgingFilter{})
	require.NoError(t, err)
	assert.Equal(t, "AP", aging.Kind)
	require.Len(t, aging.Rows, 1)
	assert.Equal(t, "GRW01", aging.Rows[0].PartyCode)
	assert.True(t, decimal.NewFromInt(300).Equal(aging.Rows[0].Buckets[finance.Aging1To30]))
}

func TestReportService_SalesSummary(t *testing.T) {
	w40 := shared.Week{Year: 2026, Number: 40}
	w42 := shared.Week{Year: 2026, Number: 42}
	big, small := uuid.New(), uuid.New()
	svc := NewReportService(ReportRepositories{
		Sales: salesRows{
			byWeek: []report.WeeklySales{
				{Week: w40, InvoiceCount: 3, TotalAmount: decimal.NewFromInt(900)},
				{Week: w42, InvoiceCount: 1, TotalAmount: decimal.NewFromInt(150)},
			},
			byStore: []report.StoreSales{
				{StoreID: small, InvoiceCount: 1, TotalAmount: decimal.NewFromInt(150)},
				{StoreID: big, InvoiceCount: 3, TotalAmount: decimal.NewFromInt(900)},
			},
		},
	}, nil)

	summary, err := svc.SalesSummary(context.Background(), SalesFilter{FromWeek: "2026-W40", ToWeek: "2026-W42"})
	require.NoError(t, err)
	require.Len(t, summary.ByWeek, 3)
	assert.Equal(t, shared.Week{Year: 2026, Number: 41}, summary.ByWeek[1].Week)
	assert.True(t, summary.ByWeek[1].TotalAmount.IsZero())
	assert.True(t, decimal.NewFromInt(1050).Equal(summary.TotalAmount))
	assert.Equal(t, big, summary.ByStore[0].StoreID)

	_, err = svc.SalesSummary(context.Background(), SalesFilter{FromWeek: "2026-W42", ToWeek: "2026-W40"})
	assert.Error(t, err)
	_, err = svc.SalesSummary(context.Background(), SalesFilter{FromWeek: "2020-W01", ToWeek: "2026-W40"})
	assert.Error(t, err)
}

func product(t *testing.T, sku, name string, category catalog.Category, cost, sell float64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(sku, name, category, catalog.UnitCase)
	require.NoError(t, err)
	require.NoError(t, p.SetPrices(decimal.NewFromFloat(cost), decimal.NewFromFloat(sell)))
	return p
}

func TestReportService_StockReport(t *testing.T) {
	apples := product(t, "APL-01", "Gala Apples", catalog.CategoryFruit, 18, 25)
	kale := product(t, "KAL-01", "Kale", catalog.CategoryVegetable, 1.5, 3)

	svc := NewReportService(ReportRepositories{
		Products: activeProducts{products: []catalog.Product{*kale, *apples}},
		Stock: fixedLevels{
			apples.ID: {ProductID: apples.ID, OnHand: decimal.NewFromInt(10), Reserved: decimal.NewFromInt(4), Available: decimal.NewFromInt(6)},
		},
	}, nil)

	r, err := svc.StockReport(context.Background())
	require.NoError(t, err)
	require.Len(t, r.Rows, 2)
	assert.Equal(t, "APL-01", r.Rows[0].SKU)
	assert.True(t, decimal.NewFromInt(6).Equal(r.Rows[0].Available))
	assert.True(t, decimal.NewFromInt(180).Equal(r.Rows[0].CostValue))
	assert.True(t, r.Rows[1].OnHand.IsZero())
	assert.True(t, decimal.NewFromInt(180).Equal(r.TotalCostValue))
}
