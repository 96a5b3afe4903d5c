package handler

import (
	"context"

	reportapp "github.com/freshline/backend/internal/application/report"
	"github.com/freshline/backend/internal/domain/report"
	"github.com/gin-gonic/gin"
)

// ReportService builds the read-only finance and stock reports
type ReportService interface {
	ARAging(ctx context.Context, filter reportapp.AgingFilter) (*report.Aging, error)
	APAging(ctx context.Context, filter reportapp.AgingFilter) (*report.Aging, error)
	SalesSummary(ctx context.Context, filter reportapp.SalesFilter) (*report.SalesSummary, error)
	StockReport(ctx context.Context) (*report.StockReport, error)
}

// ReportHandler handles report endpoints
type ReportHandler struct {
	BaseHandler
	reports ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// ARAging godoc
// @Summary      Bucket open store invoices by days past due
// @Description  Bucket open store invoices by days past due. Admin only.
// @Tags         reports
// @Produce      json
// @Param        as_of query string false "As of (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=report.Aging}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/ar-aging [get]
func (h *ReportHandler) ARAging(c *gin.Context) {
	var filter reportapp.AgingFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	aging, err := h.reports.ARAging(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, aging)
}

// APAging godoc
// @Summary      Bucket unpaid vendor invoices by days past due
// @Description  Bucket unpaid vendor invoices by days past due. Admin only.
// @Tags         reports
// @Produce      json
// @Param        as_of query string false "As of (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=report.Aging}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/ap-aging [get]
func (h *ReportHandler) APAging(c *gin.Context) {
	var filter reportapp.AgingFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	aging, err := h.reports.APAging(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, aging)
}

// SalesSummary godoc
// @Summary      Total invoiced sales per week between from_week and to_week
// @Description  Total invoiced sales per week between from_week and to_week. Admin only.
// @Tags         reports
// @Produce      json
// @Param        from_week query string true "From week (ISO week, e.g. 2026-W07)"
// @Param        to_week query string true "To week (ISO week, e.g. 2026-W07)"
// @Success      200 {object} dto.Response{data=report.SalesSummary}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/sales [get]
func (h *ReportHandler) SalesSummary(c *gin.Context) {
	var filter reportapp.SalesFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	summary, err := h.reports.SalesSummary(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Stock godoc
// @Summary      List on-hand, reserved and available per product
// @Description  List on-hand, reserved and available per product. Admin only.
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response{data=report.StockReport}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/stock [get]
func (h *ReportHandler) Stock(c *gin.Context) {
	stock, err := h.reports.StockReport(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}
