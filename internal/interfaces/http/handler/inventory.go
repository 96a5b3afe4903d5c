package handler

import (
	"context"
	"strings"

	inventoryapp "github.com/freshline/backend/internal/application/inventory"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StockService reads and adjusts the warehouse stock ledger
type StockService interface {
	GetStock(ctx context.Context, productIDs []uuid.UUID) ([]inventoryapp.StockLevelResponse, error)
	GetStockAsOf(ctx context.Context, week shared.Week, productIDs []uuid.UUID) ([]inventoryapp.StockLevelResponse, error)
	ListLedger(ctx context.Context, productID uuid.UUID, filter inventoryapp.LedgerListFilter) ([]inventoryapp.LedgerEntryResponse, int64, error)
	RecordAdjustment(ctx context.Context, req inventoryapp.AdjustStockRequest) (*inventoryapp.StockLevelResponse, error)
	RecordQualityLoss(ctx context.Context, req inventoryapp.QualityLossRequest) (*inventoryapp.StockLevelResponse, error)
}

// StoreInventoryService records the weekly on-hand counts stores submit
type StoreInventoryService interface {
	Submit(ctx context.Context, req inventoryapp.SubmitCountRequest) (*inventoryapp.StoreInventoryResponse, error)
	Get(ctx context.Context, storeID uuid.UUID, week shared.Week) (*inventoryapp.StoreInventoryResponse, error)
	List(ctx context.Context, storeID uuid.UUID, page, pageSize int) ([]inventoryapp.StoreInventoryResponse, int64, error)
}

// InventoryHandler handles warehouse stock and store count endpoints
type InventoryHandler struct {
	BaseHandler
	stock  StockService
	counts StoreInventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(stock StockService, counts StoreInventoryService) *InventoryHandler {
	return &InventoryHandler{stock: stock, counts: counts}
}

// Stock godoc
// @Summary      Return current levels
// @Description  Return current levels. product_ids narrows the result to a comma separated list. Admin only.
// @Tags         inventory
// @Produce      json
// @Param        product_ids query string false "Comma separated product IDs"
// @Success      200 {object} dto.Response{data=[]inventoryapp.StockLevelResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/stock [get]
func (h *InventoryHandler) Stock(c *gin.Context) {
	ids, ok := h.productIDs(c)
	if !ok {
		return
	}
	levels, err := h.stock.GetStock(c.Request.Context(), ids)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, levels)
}

// StockAsOf godoc
// @Summary      Return levels at the start of the week given in the path
// @Description  Return levels at the start of the week given in the path. Admin only.
// @Tags         inventory
// @Produce      json
// @Param        week path string true "ISO week" example(2026-W07)
// @Param        product_ids query string false "Comma separated product IDs"
// @Success      200 {object} dto.Response{data=[]inventoryapp.StockLevelResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/stock/weeks/{week} [get]
func (h *InventoryHandler) StockAsOf(c *gin.Context) {
	week, err := shared.ParseWeek(c.Param("week"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	ids, ok := h.productIDs(c)
	if !ok {
		return
	}
	levels, err := h.stock.GetStockAsOf(c.Request.Context(), week, ids)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, levels)
}

// Ledger godoc
// @Summary      Page through the movements of one product
// @Description  Page through the movements of one product. Admin only.
// @Tags         inventory
// @Produce      json
// @Param        product_id path string true "Product ID" format(uuid)
// @Param        entry_type query string false "Entry type"
// @Param        week query string false "Week (ISO week, e.g. 2026-W07)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]inventoryapp.LedgerEntryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/ledger/{product_id} [get]
func (h *InventoryHandler) Ledger(c *gin.Context) {
	productID, ok := h.parseID(c, "product_id")
	if !ok {
		return
	}
	var filter inventoryapp.LedgerListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	entries, total, err := h.stock.ListLedger(c.Request.Context(), productID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, entries, total, filter.Page, filter.PageSize)
}

// Adjust godoc
// @Summary      Book a manual stock correction
// @Description  Book a manual stock correction. Admin only.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.AdjustStockRequest true "Adjust stock request"
// @Success      200 {object} dto.Response{data=inventoryapp.StockLevelResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req inventoryapp.AdjustStockRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.ActorID = h.actorID(c)
	level, err := h.stock.RecordAdjustment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, level)
}

// QualityLoss godoc
// @Summary      Write off spoiled or damaged warehouse stock
// @Description  Write off spoiled or damaged warehouse stock. Admin only.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.QualityLossRequest true "Quality loss request"
// @Success      200 {object} dto.Response{data=inventoryapp.StockLevelResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/quality-losses [post]
func (h *InventoryHandler) QualityLoss(c *gin.Context) {
	var req inventoryapp.QualityLossRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.ActorID = h.actorID(c)
	level, err := h.stock.RecordQualityLoss(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, level)
}

// SubmitCount godoc
// @Summary      Store a store's weekly count, replacing an earlier one
// @Description  Store a store's weekly count, replacing an earlier one. Admins and store accounts.
// @Tags         store-inventory
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.SubmitCountRequest true "Submit count request"
// @Success      200 {object} dto.Response{data=inventoryapp.StoreInventoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /store-inventory [post]
func (h *InventoryHandler) SubmitCount(c *gin.Context) {
	var req inventoryapp.SubmitCountRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if !h.checkStore(c, req.StoreID) {
		return
	}
	count, err := h.counts.Submit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, count)
}

// GetCount godoc
// @Summary      Return the count of a store for one week
// @Description  Return the count of a store for one week. Admins and store accounts.
// @Tags         stores
// @Produce      json
// @Param        id path string true "Store ID" format(uuid)
// @Param        week path string true "ISO week" example(2026-W07)
// @Success      200 {object} dto.Response{data=inventoryapp.StoreInventoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores/{id}/inventory-counts/{week} [get]
func (h *InventoryHandler) GetCount(c *gin.Context) {
	storeID, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	week, err := shared.ParseWeek(c.Param("week"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	count, err := h.counts.Get(c.Request.Context(), storeID, week)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, count)
}

type countListQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ListCounts godoc
// @Summary      Page through a store's counts, newest week first
// @Description  Page through a store's counts, newest week first. Admins and store accounts.
// @Tags         stores
// @Produce      json
// @Param        id path string true "Store ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]inventoryapp.StoreInventoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores/{id}/inventory-counts [get]
func (h *InventoryHandler) ListCounts(c *gin.Context) {
	storeID, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var q countListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	counts, total, err := h.counts.List(c.Request.Context(), storeID, q.Page, q.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, counts, total, q.Page, q.PageSize)
}

func (h *InventoryHandler) productIDs(c *gin.Context) ([]uuid.UUID, bool) {
	raw := c.Query("product_ids")
	if raw == "" {
		return nil, true
	}
	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		id, err := uuid.Parse(strings.TrimSpace(p))
		if err != nil {
			h.ValidationError(c, []dto.ValidationDetail{{Field: "product_ids", Message: "Invalid UUID format"}})
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
