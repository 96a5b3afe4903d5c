// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics tracks order intake, shortages, invoicing, payments,
// vendor invoice matching and stock health.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	orderCreatedTotal  *Counter
	orderAmountTotal   *Counter
	shortageUnitsTotal *Counter
	invoiceIssuedTotal *Counter
	invoiceAmountTotal *Counter
	paymentTotal       *Counter
	paymentAmountTotal *Counter
	matchResultTotal   *Counter

	// Gauge metrics (point-in-time values)
	stockReservedUnits *Gauge
	stockOutCount      *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	stockProvider StockMetricsProvider
}

// StockMetricsProvider provides warehouse stock figures for periodic
// collection without the telemetry layer depending on the inventory domain.
type StockMetricsProvider interface {
	// ReservedUnits returns the units currently held for confirmed orders
	ReservedUnits(ctx context.Context) (int64, error)

	// OutOfStockCount returns active products with nothing on hand
	OutOfStockCount(ctx context.Context) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	StockProvider   StockMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:         cfg.Meter,
		logger:        logger,
		stopChan:      make(chan struct{}),
		stockProvider: cfg.StockProvider,
	}

	counters := []struct {
		target      **Counter
		name        string
		description string
		unit        string
	}{
		{&bm.orderCreatedTotal, "freshline_order_created_total", "Total number of orders created", "{orders}"},
		{&bm.orderAmountTotal, "freshline_order_amount_total", "Total order amount in cents", "{cents}"},
		{&bm.shortageUnitsTotal, "freshline_shortage_units_total", "Units requested but not available at promotion", "{units}"},
		{&bm.invoiceIssuedTotal, "freshline_invoice_issued_total", "Total number of store invoices issued", "{invoices}"},
		{&bm.invoiceAmountTotal, "freshline_invoice_amount_total", "Total invoiced amount in cents", "{cents}"},
		{&bm.paymentTotal, "freshline_payment_total", "Total number of payments recorded", "{payments}"},
		{&bm.paymentAmountTotal, "freshline_payment_amount_total", "Total payment amount in cents", "{cents}"},
		{&bm.matchResultTotal, "freshline_vendor_invoice_match_total", "Vendor invoice three-way match outcomes", "{matches}"},
	}
	for _, c := range counters {
		counter, err := NewCounter(cfg.Meter, c.name, c.description, c.unit)
		if err != nil {
			return nil, err
		}
		*c.target = counter
	}

	var err error
	bm.stockReservedUnits, err = NewGauge(
		cfg.Meter,
		"freshline_stock_reserved_units",
		"Units currently reserved for confirmed orders",
		"{units}",
	)
	if err != nil {
		return nil, err
	}

	bm.stockOutCount, err = NewGauge(
		cfg.Meter,
		"freshline_stock_out_count",
		"Number of active products with nothing on hand",
		"{products}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Order Metrics
// =============================================================================

// OrderType represents the type of order for metrics labeling.
type OrderType string

const (
	OrderTypeStore    OrderType = "store"
	OrderTypePreOrder OrderType = "preorder"
	OrderTypePurchase OrderType = "purchase"
)

// RecordOrderWithAmount records an order and its total.
func (bm *BusinessMetrics) RecordOrderWithAmount(ctx context.Context, orderType OrderType, amount decimal.Decimal) {
	attrs := AttrOrderType.String(string(orderType))
	bm.orderCreatedTotal.Inc(ctx, attrs)
	bm.orderAmountTotal.Add(ctx, toCents(amount), attrs)
}

// RecordShortage records units a promoted preorder could not get.
func (bm *BusinessMetrics) RecordShortage(ctx context.Context, units decimal.Decimal) {
	if !units.IsPositive() {
		return
	}
	bm.shortageUnitsTotal.Add(ctx, units.Ceil().IntPart())
}

// =============================================================================
// Finance Metrics
// =============================================================================

// PaymentDirection tells money received from stores from money paid to vendors.
type PaymentDirection string

const (
	PaymentReceived PaymentDirection = "received"
	PaymentPaid     PaymentDirection = "paid"
)

// RecordInvoiceIssued records a store invoice.
func (bm *BusinessMetrics) RecordInvoiceIssued(ctx context.Context, amount decimal.Decimal) {
	bm.invoiceIssuedTotal.Inc(ctx)
	bm.invoiceAmountTotal.Add(ctx, toCents(amount))
}

// RecordPayment records a store receipt or a vendor payment.
func (bm *BusinessMetrics) RecordPayment(ctx context.Context, direction PaymentDirection, method string, amount decimal.Decimal) {
	attrs := []attribute.KeyValue{
		AttrPaymentDirection.String(string(direction)),
		AttrPaymentMethod.String(method),
	}
	bm.paymentTotal.Inc(ctx, attrs...)
	bm.paymentAmountTotal.Add(ctx, toCents(amount), attrs...)
}

// RecordMatchResult records the outcome of a three-way match.
func (bm *BusinessMetrics) RecordMatchResult(ctx context.Context, status string) {
	bm.matchResultTotal.Inc(ctx, AttrMatchStatus.String(status))
}

// =============================================================================
// Stock Metrics
// =============================================================================

// RecordReservedUnits records the reserved unit gauge.
func (bm *BusinessMetrics) RecordReservedUnits(ctx context.Context, units int64) {
	bm.stockReservedUnits.Record(ctx, units)
}

// RecordOutOfStockCount records the out-of-stock product gauge.
func (bm *BusinessMetrics) RecordOutOfStockCount(ctx context.Context, count int64) {
	bm.stockOutCount.Record(ctx, count)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of gauge metrics.
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, interval)
	})
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectStockMetrics(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectStockMetrics(ctx)
		}
	}
}

func (bm *BusinessMetrics) collectStockMetrics(ctx context.Context) {
	if bm.stockProvider == nil {
		bm.logger.Debug("No stock provider configured, skipping stock metrics collection")
		return
	}

	reserved, err := bm.stockProvider.ReservedUnits(ctx)
	if err != nil {
		bm.logger.Warn("Failed to get reserved units", zap.Error(err))
	} else {
		bm.RecordReservedUnits(ctx, reserved)
	}

	outOfStock, err := bm.stockProvider.OutOfStockCount(ctx)
	if err != nil {
		bm.logger.Warn("Failed to get out of stock count", zap.Error(err))
	} else {
		bm.RecordOutOfStockCount(ctx, outOfStock)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

func toCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// Business metrics attribute keys not already defined in metrics.go
var (
	AttrPaymentDirection = attribute.Key("payment_direction")
	AttrMatchStatus      = attribute.Key("match_status")
)
