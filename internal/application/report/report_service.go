package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/freshline/backend/internal/domain/catalog"
	"github.com/freshline/backend/internal/domain/finance"
	"github.com/freshline/backend/internal/domain/inventory"
	"github.com/freshline/backend/internal/domain/partner"
	"github.com/freshline/backend/internal/domain/report"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReceivableSource lists store invoices still owed
type ReceivableSource interface {
	FindOpenIssuedBefore(ctx context.Context, asOf time.Time) ([]finance.Invoice, error)
}

// PayableSource lists vendor invoices still owed
type PayableSource interface {
	FindOpen(ctx context.Context) ([]finance.VendorInvoice, error)
}

// StockLevels computes ledger stock
type StockLevels interface {
	Levels(ctx context.Context, productIDs []uuid.UUID, before time.Time) (map[uuid.UUID]inventory.StockLevel, error)
}

// ReportRepositories groups the read sides the reports draw on
type ReportRepositories struct {
	Receivables ReceivableSource
	Payables    PayableSource
	Sales       report.SalesReportRepository
	Stores      partner.StoreRepository
	Vendors     partner.VendorRepository
	Products    catalog.ProductRepository
	Stock       StockLevels
}

// ReportService provides application-level report operations
type ReportService struct {
	repos  ReportRepositories
	logger *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(repos ReportRepositories, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{repos: repos, logger: logger}
}

// ===================== Aging =====================

// AgingFilter selects the as-of date of an aging report
type AgingFilter struct {
	AsOf string `form:"as_of" binding:"omitempty,datetime=2006-01-02"`
}

func (f AgingFilter) asOf(now time.Time) (time.Time, error) {
	if f.AsOf == "" {
		return now, nil
	}
	t, err := time.Parse("2006-01-02", f.AsOf)
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_DATE", fmt.Sprintf("Invalid as_of date: %s", f.AsOf))
	}
	// the whole as-of day counts
	return t.Add(24*time.Hour - time.Nanosecond), nil
}

// ARAging buckets what each store owes by days past due
func (s *ReportService) ARAging(ctx context.Context, filter AgingFilter) (*report.Aging, error) {
	asOf, err := filter.asOf(time.Now())
	if err != nil {
		return nil, err
	}
	invoices, err := s.repos.Receivables.FindOpenIssuedBefore(ctx, asOf)
	if err != nil {
		return nil, err
	}
	items := make([]finance.AgingItem, 0, len(invoices))
	for i := range invoices {
		items = append(items, finance.AgingItem{
			PartyID:     invoices[i].StoreID,
			DueDate:     invoices[i].DueDate,
			Outstanding: invoices[i].Outstanding(),
		})
	}
	aging := finance.BuildAging(items, asOf)

	parties := make(map[uuid.UUID]report.Party, len(aging.Rows))
	for _, row := range aging.Rows {
		store, err := s.repos.Stores.FindByID(ctx, row.PartyID)
		if err != nil {
			s.logger.Warn("aging row for unknown store", zap.String("store_id", row.PartyID.String()), zap.Error(err))
			continue
		}
		parties[row.PartyID] = report.Party{Code: store.Code, Name: store.Name}
	}
	return report.NewAging("AR", aging, parties), nil
}

// APAging buckets what is owed to each vendor by days past due
func (s *ReportService) APAging(ctx context.Context, filter AgingFilter) (*report.Aging, error) {
	asOf, err := filter.asOf(time.Now())
	if err != nil {
		return nil, err
	}
	invoices, err := s.repos.Payables.FindOpen(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]finance.AgingItem, 0, len(invoices))
	for i := range invoices {
		if invoices[i].InvoiceDate.After(asOf) {
			continue
		}
		items = append(items, finance.AgingItem{
			PartyID:     invoices[i].VendorID,
			DueDate:     invoices[i].DueDate,
			Outstanding: invoices[i].Outstanding(),
		})
	}
	aging := finance.BuildAging(items, asOf)

	parties := make(map[uuid.UUID]report.Party, len(aging.Rows))
	for _, row := range aging.Rows {
		vendor, err := s.repos.Vendors.FindByID(ctx, row.PartyID)
		if err != nil {
			s.logger.Warn("aging row for unknown vendor", zap.String("vendor_id", row.PartyID.String()), zap.Error(err))
			continue
		}
		parties[row.PartyID] = report.Party{Code: vendor.Code, Name: vendor.Name}
	}
	return report.NewAging("AP", aging, parties), nil
}

// ===================== Sales =====================

// SalesFilter is an inclusive week range
type SalesFilter struct {
	FromWeek string `form:"from_week" binding:"required,iso_week"`
	ToWeek   string `form:"to_week" binding:"required,iso_week"`
}

// maxSalesWeeks bounds one sales summary request
const maxSalesWeeks = 104

// SalesSummary totals invoiced revenue by week and by store
func (s *ReportService) SalesSummary(ctx context.Context, filter SalesFilter) (*report.SalesSummary, error) {
	from, err := shared.ParseWeek(filter.FromWeek)
	if err != nil {
		return nil, err
	}
	to, err := shared.ParseWeek(filter.ToWeek)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, shared.NewDomainError("INVALID_RANGE", "to_week is before from_week")
	}
	if to.Start().Sub(from.Start()) > maxSalesWeeks*7*24*time.Hour {
		return nil, shared.NewDomainError("INVALID_RANGE", fmt.Sprintf("A sales summary covers at most %d weeks", maxSalesWeeks))
	}

	byWeek, err := s.repos.Sales.SalesByWeek(ctx, from, to)
	if err != nil {
		return nil, err
	}
	byStore, err := s.repos.Sales.SalesByStore(ctx, from, to)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(byStore, func(i, j int) bool {
		return byStore[i].TotalAmount.GreaterThan(byStore[j].TotalAmount)
	})
	return report.NewSalesSummary(from, to, fillWeeks(from, to, byWeek), byStore), nil
}

// fillWeeks returns one row per week in range, zero where nothing was invoiced
func fillWeeks(from, to shared.Week, rows []report.WeeklySales) []report.WeeklySales {
	byWeek := make(map[shared.Week]report.WeeklySales, len(rows))
	for _, r := range rows {
		byWeek[r.Week] = r
	}
	out := make([]report.WeeklySales, 0)
	for w := from; !to.Before(w); w = w.Next() {
		if r, ok := byWeek[w]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, report.WeeklySales{Week: w, TotalAmount: decimal.Zero})
	}
	return out
}

// ===================== Stock =====================

// StockReport lists on-hand, reserved and available stock for every active
// product, valued at cost
func (s *ReportService) StockReport(ctx context.Context) (*report.StockReport, error) {
	products, err := s.repos.Products.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	levels := map[uuid.UUID]inventory.StockLevel{}
	if len(ids) > 0 {
		levels, err = s.repos.Stock.Levels(ctx, ids, time.Time{})
		if err != nil {
			return nil, err
		}
	}

	out := &report.StockReport{Rows: make([]report.StockRow, 0, len(products)), TotalCostValue: decimal.Zero}
	for i := range products {
		p := &products[i]
		level := levels[p.ID]
		value := level.OnHand.Mul(p.CostPrice).Round(2)
		out.Rows = append(out.Rows, report.StockRow{
			ProductID: p.ID,
			SKU:       p.SKU,
			Name:      p.Name,
			Unit:      string(p.Unit),
			OnHand:    level.OnHand,
			Reserved:  level.Reserved,
			Available: level.Available,
			CostValue: value,
		})
		out.TotalCostValue = out.TotalCostValue.Add(value)
	}
	sort.Slice(out.Rows, func(i, j int) bool { return out.Rows[i].SKU < out.Rows[j].SKU })
	return out, nil
}
