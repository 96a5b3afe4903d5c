package handler

import (
	"context"

	workorderapp "github.com/freshline/backend/internal/application/workorder"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WorkOrderService plans and tracks weekly picking
type WorkOrderService interface {
	Generate(ctx context.Context, week shared.Week) (*workorderapp.WorkOrderResponse, error)
	Release(ctx context.Context, id uuid.UUID) (*workorderapp.WorkOrderResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) (*workorderapp.WorkOrderResponse, error)
	RecordPick(ctx context.Context, id uuid.UUID, req workorderapp.RecordPickRequest) (*workorderapp.WorkOrderResponse, error)
	Complete(ctx context.Context, id uuid.UUID) (*workorderapp.WorkOrderResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*workorderapp.WorkOrderResponse, error)
	List(ctx context.Context, filter workorderapp.ListFilter) ([]workorderapp.WorkOrderResponse, int64, error)
}

// WorkOrderHandler handles work order endpoints
type WorkOrderHandler struct {
	BaseHandler
	workOrders WorkOrderService
}

// NewWorkOrderHandler creates a new WorkOrderHandler
func NewWorkOrderHandler(workOrders WorkOrderService) *WorkOrderHandler {
	return &WorkOrderHandler{workOrders: workOrders}
}

// Generate godoc
// @Summary      Allocate the week's confirmed orders into a draft work order
// @Description  Allocate the week's confirmed orders into a draft work order. Admin only.
// @Tags         work-orders
// @Accept       json
// @Produce      json
// @Param        request body weekRequest true "Week request"
// @Success      201 {object} dto.Response{data=workorderapp.WorkOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /work-orders [post]
func (h *WorkOrderHandler) Generate(c *gin.Context) {
	week, ok := h.bindWeek(c)
	if !ok {
		return
	}
	wo, err := h.workOrders.Generate(c.Request.Context(), week)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, wo)
}

// Release godoc
// @Summary      Hand a draft work order to the floor
// @Description  Hand a draft work order to the floor. Admin only.
// @Tags         work-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Work order ID" format(uuid)
// @Success      200 {object} dto.Response{data=workorderapp.WorkOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /work-orders/{id}/release [post]
func (h *WorkOrderHandler) Release(c *gin.Context) {
	h.transition(c, h.workOrders.Release)
}

// Cancel godoc
// @Summary      Drop a draft work order and free its orders
// @Description  Drop a draft work order and free its orders. Admin only.
// @Tags         work-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Work order ID" format(uuid)
// @Success      200 {object} dto.Response{data=workorderapp.WorkOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /work-orders/{id}/cancel [post]
func (h *WorkOrderHandler) Cancel(c *gin.Context) {
	h.transition(c, h.workOrders.Cancel)
}

// Complete godoc
// @Summary      Ship the picked quantities
// @Description  Ship the picked quantities. Admin only.
// @Tags         work-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Work order ID" format(uuid)
// @Success      200 {object} dto.Response{data=workorderapp.WorkOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /work-orders/{id}/complete [post]
func (h *WorkOrderHandler) Complete(c *gin.Context) {
	h.transition(c, h.workOrders.Complete)
}

func (h *WorkOrderHandler) transition(c *gin.Context, fn func(context.Context, uuid.UUID) (*workorderapp.WorkOrderResponse, error)) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	wo, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, wo)
}

// RecordPick godoc
// @Summary      Set the picked quantity of one line
// @Description  Set the picked quantity of one line. Admin only.
// @Tags         work-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Work order ID" format(uuid)
// @Param        request body workorderapp.RecordPickRequest true "Record pick request"
// @Success      200 {object} dto.Response{data=workorderapp.WorkOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /work-orders/{id}/picks [post]
func (h *WorkOrderHandler) RecordPick(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req workorderapp.RecordPickRequest
	if !h.bindJSON(c, &req) {
		return
	}
	wo, err := h.workOrders.RecordPick(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, wo)
}

// GetByID godoc
// @Summary      Return one work order with its lines
// @Description  Return one work order with its lines. Admin only.
// @Tags         work-orders
// @Produce      json
// @Param        id path string true "Work order ID" format(uuid)
// @Success      200 {object} dto.Response{data=workorderapp.WorkOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /work-orders/{id} [get]
func (h *WorkOrderHandler) GetByID(c *gin.Context) {
	h.transition(c, h.workOrders.GetByID)
}

// List godoc
// @Summary      Return a page of work orders
// @Description  Return a page of work orders. Admin only.
// @Tags         work-orders
// @Produce      json
// @Param        week query string false "Week (ISO week, e.g. 2026-W07)"
// @Param        status query string false "Status" Enums(DRAFT, RELEASED, COMPLETED, CANCELLED)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]workorderapp.WorkOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /work-orders [get]
func (h *WorkOrderHandler) List(c *gin.Context) {
	var filter workorderapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	wos, total, err := h.workOrders.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, wos, total, filter.Page, filter.PageSize)
}
