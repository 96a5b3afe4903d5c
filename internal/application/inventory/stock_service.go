package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/freshline/backend/internal/domain/catalog"
	"github.com/freshline/backend/internal/domain/inventory"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockService answers stock questions from the ledger and records
// movements. It is also the reservation gateway used by trade and workorder.
type StockService struct {
	ledgerRepo  inventory.LedgerRepository
	productRepo catalog.ProductRepository
	locker      inventory.StockLocker
	transactor  shared.Transactor
	logger      *zap.Logger
}

// NewStockService creates a new stock service
func NewStockService(
	ledgerRepo inventory.LedgerRepository,
	productRepo catalog.ProductRepository,
	locker inventory.StockLocker,
	transactor shared.Transactor,
	logger *zap.Logger,
) *StockService {
	if transactor == nil {
		transactor = shared.NoopTransactor{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockService{
		ledgerRepo:  ledgerRepo,
		productRepo: productRepo,
		locker:      locker,
		transactor:  transactor,
		logger:      logger,
	}
}

// Levels computes stock for productIDs from entries that occurred before
// the given time. A zero time means all history.
func (s *StockService) Levels(ctx context.Context, productIDs []uuid.UUID, before time.Time) (map[uuid.UUID]inventory.StockLevel, error) {
	totals, err := s.ledgerRepo.SumByProduct(ctx, productIDs, before)
	if err != nil {
		return nil, fmt.Errorf("failed to sum ledger: %w", err)
	}
	return inventory.ComputeStock(productIDs, totals), nil
}

// WithLockedStock locks the products, opens a transaction and calls fn with
// their current levels. Locks are released only after the transaction has
// committed or rolled back.
func (s *StockService) WithLockedStock(ctx context.Context, productIDs []uuid.UUID, fn func(ctx context.Context, levels map[uuid.UUID]inventory.StockLevel) error) error {
	ids := inventory.SortedUnique(productIDs)
	unlock, err := s.locker.Lock(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to lock stock: %w", err)
	}
	defer unlock()

	return s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		levels, err := s.Levels(txCtx, ids, time.Time{})
		if err != nil {
			return err
		}
		return fn(txCtx, levels)
	})
}

// Append writes ledger entries, joining any transaction carried by ctx
func (s *StockService) Append(ctx context.Context, entries ...inventory.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := s.ledgerRepo.Append(ctx, entries...); err != nil {
		return fmt.Errorf("failed to append ledger entries: %w", err)
	}
	return nil
}

// GetStock returns current levels. An empty id list means every active product.
func (s *StockService) GetStock(ctx context.Context, productIDs []uuid.UUID) ([]StockLevelResponse, error) {
	return s.stockAt(ctx, productIDs, time.Time{})
}

// GetStockAsOf returns levels as they stood at the end of week
func (s *StockService) GetStockAsOf(ctx context.Context, week shared.Week, productIDs []uuid.UUID) ([]StockLevelResponse, error) {
	if !week.IsValid() {
		return nil, shared.NewDomainError("INVALID_WEEK", "Invalid week")
	}
	return s.stockAt(ctx, productIDs, week.End())
}

func (s *StockService) stockAt(ctx context.Context, productIDs []uuid.UUID, before time.Time) ([]StockLevelResponse, error) {
	var products []catalog.Product
	var err error
	if len(productIDs) == 0 {
		products, err = s.productRepo.FindActive(ctx)
	} else {
		products, err = s.productRepo.FindByIDs(ctx, productIDs)
	}
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	if len(ids) == 0 {
		return []StockLevelResponse{}, nil
	}

	levels, err := s.Levels(ctx, ids, before)
	if err != nil {
		return nil, err
	}
	responses := make([]StockLevelResponse, len(products))
	for i := range products {
		responses[i] = ToStockLevelResponse(levels[products[i].ID], &products[i])
	}
	return responses, nil
}

// ListLedger returns a product's movements, newest first
func (s *StockService) ListLedger(ctx context.Context, productID uuid.UUID, filter LedgerListFilter) ([]LedgerEntryResponse, int64, error) {
	entries, total, err := s.ledgerRepo.FindByProduct(ctx, productID, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = ToLedgerEntryResponse(e)
	}
	return responses, total, nil
}

// RecordAdjustment writes a manual count correction. An OUT correction may
// not take on-hand below zero.
func (s *StockService) RecordAdjustment(ctx context.Context, req AdjustStockRequest) (*StockLevelResponse, error) {
	entryType := inventory.EntryAdjustmentIn
	if req.Direction == "OUT" {
		entryType = inventory.EntryAdjustmentOut
	}
	return s.writeOff(ctx, req.ProductID, entryType, req.Quantity.String(), func() (*inventory.LedgerEntry, error) {
		e, err := inventory.NewLedgerEntry(req.ProductID, entryType, req.Quantity, inventory.SourceManual, nil, req.Note)
		if err != nil {
			return nil, err
		}
		e.CreatedBy = req.ActorID
		return e, nil
	})
}

// RecordQualityLoss writes off spoiled or damaged warehouse stock
func (s *StockService) RecordQualityLoss(ctx context.Context, req QualityLossRequest) (*StockLevelResponse, error) {
	source := inventory.SourceManual
	if req.IssueID != nil {
		source = inventory.SourceQualityIssue
	}
	return s.writeOff(ctx, req.ProductID, inventory.EntryQualityLoss, req.Quantity.String(), func() (*inventory.LedgerEntry, error) {
		e, err := inventory.NewLedgerEntry(req.ProductID, inventory.EntryQualityLoss, req.Quantity, source, req.IssueID, req.Note)
		if err != nil {
			return nil, err
		}
		e.CreatedBy = req.ActorID
		return e, nil
	})
}

func (s *StockService) writeOff(ctx context.Context, productID uuid.UUID, entryType inventory.EntryType, qty string, build func() (*inventory.LedgerEntry, error)) (*StockLevelResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	var result inventory.StockLevel
	err = s.WithLockedStock(ctx, []uuid.UUID{productID}, func(txCtx context.Context, levels map[uuid.UUID]inventory.StockLevel) error {
		entry, err := build()
		if err != nil {
			return err
		}
		lvl := levels[productID]
		if entryType.OnHandSign() < 0 && entry.Quantity.GreaterThan(lvl.OnHand) {
			return inventory.NewInsufficientStockError([]inventory.Shortage{{
				ProductID: productID,
				Requested: entry.Quantity,
				Available: lvl.OnHand,
			}})
		}
		if err := s.Append(txCtx, *entry); err != nil {
			return err
		}
		lvl.OnHand = lvl.OnHand.Add(entry.SignedOnHand())
		lvl.Available = lvl.OnHand.Sub(lvl.Reserved)
		result = lvl
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock written",
		zap.String("product_id", productID.String()),
		zap.String("entry_type", string(entryType)),
		zap.String("quantity", qty),
	)
	resp := ToStockLevelResponse(result, product)
	return &resp, nil
}
