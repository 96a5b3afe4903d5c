package finance

import (
	"context"
	"errors"
	"fmt"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// OrderShippedHandler invoices an order as soon as it ships
type OrderShippedHandler struct {
	invoices *InvoiceService
	logger   *zap.Logger
}

// NewOrderShippedHandler creates a new handler for order shipped events
func NewOrderShippedHandler(invoices *InvoiceService, logger *zap.Logger) *OrderShippedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderShippedHandler{invoices: invoices, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderShippedHandler) EventTypes() []string {
	return []string{trade.EventTypeOrderShipped}
}

// Handle generates the invoice for the shipped order. Redelivered events
// for an order that is already invoiced are skipped.
func (h *OrderShippedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	shipped, ok := event.(*trade.OrderShippedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", trade.EventTypeOrderShipped),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			trade.EventTypeOrderShipped, event.EventType())
	}

	h.logger.Info("processing order shipped event for invoicing",
		zap.String("order_id", shipped.AggregateID().String()),
		zap.String("order_number", shipped.OrderNumber),
		zap.String("shipped_total", shipped.ShippedTotal.StringFixed(2)),
	)

	inv, err := h.invoices.GenerateForOrder(ctx, shipped.AggregateID())
	if err != nil {
		var de *shared.DomainError
		if errors.As(err, &de) && de.Code == "ALREADY_INVOICED" {
			h.logger.Warn("order already invoiced, skipping",
				zap.String("order_number", shipped.OrderNumber))
			return nil
		}
		h.logger.Error("failed to generate invoice for shipped order",
			zap.String("order_number", shipped.OrderNumber),
			zap.Error(err),
		)
		return fmt.Errorf("generate invoice for order %s: %w", shipped.OrderNumber, err)
	}

	h.logger.Info("invoice created from shipped order",
		zap.String("order_number", shipped.OrderNumber),
		zap.String("invoice_number", inv.InvoiceNumber),
	)
	return nil
}
