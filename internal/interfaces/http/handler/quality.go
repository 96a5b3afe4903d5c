package handler

import (
	"context"

	qualityapp "github.com/freshline/backend/internal/application/quality"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IssueService handles the quality issue workflow
type IssueService interface {
	Report(ctx context.Context, req qualityapp.ReportIssueRequest) (*qualityapp.IssueResponse, error)
	RequestPhotoUpload(ctx context.Context, id uuid.UUID, req qualityapp.PhotoUploadRequest) (*qualityapp.PhotoUploadResponse, error)
	Approve(ctx context.Context, id uuid.UUID, req qualityapp.ApproveIssueRequest) (*qualityapp.IssueResponse, error)
	Reject(ctx context.Context, id uuid.UUID, req qualityapp.RejectIssueRequest) (*qualityapp.IssueResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*qualityapp.IssueResponse, error)
	List(ctx context.Context, filter qualityapp.IssueListFilter) ([]qualityapp.IssueResponse, int64, error)
}

// IssueHandler handles quality issue endpoints
type IssueHandler struct {
	BaseHandler
	issues IssueService
}

// NewIssueHandler creates a new IssueHandler
func NewIssueHandler(issues IssueService) *IssueHandler {
	return &IssueHandler{issues: issues}
}

// Report godoc
// @Summary      File an issue against a delivered order line
// @Description  File an issue against a delivered order line. Admins and store accounts.
// @Tags         quality-issues
// @Accept       json
// @Produce      json
// @Param        request body qualityapp.ReportIssueRequest true "Report issue request"
// @Success      201 {object} dto.Response{data=qualityapp.IssueResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quality-issues [post]
func (h *IssueHandler) Report(c *gin.Context) {
	var req qualityapp.ReportIssueRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if !h.checkStore(c, req.StoreID) {
		return
	}
	if by := h.actorID(c); by != nil {
		req.ReportedBy = *by
	}
	issue, err := h.issues.Report(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, issue)
}

// PhotoUpload godoc
// @Summary      Return a presigned link the store uploads a photo to
// @Description  Return a presigned link the store uploads a photo to. Admins and store accounts.
// @Tags         quality-issues
// @Accept       json
// @Produce      json
// @Param        id path string true "Issue ID" format(uuid)
// @Param        request body qualityapp.PhotoUploadRequest true "Photo upload request"
// @Success      200 {object} dto.Response{data=qualityapp.PhotoUploadResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quality-issues/{id}/photos [post]
func (h *IssueHandler) PhotoUpload(c *gin.Context) {
	issue, ok := h.owned(c)
	if !ok {
		return
	}
	var req qualityapp.PhotoUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	upload, err := h.issues.RequestPhotoUpload(c.Request.Context(), issue.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, upload)
}

// Approve godoc
// @Summary      Accept an issue and issues the store credit
// @Description  Accept an issue and issues the store credit. Admin only.
// @Tags         quality-issues
// @Accept       json
// @Produce      json
// @Param        id path string true "Issue ID" format(uuid)
// @Param        request body qualityapp.ApproveIssueRequest true "Approve issue request"
// @Success      200 {object} dto.Response{data=qualityapp.IssueResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quality-issues/{id}/approve [post]
func (h *IssueHandler) Approve(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req qualityapp.ApproveIssueRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if by := h.actorID(c); by != nil {
		req.ReviewedBy = *by
	}
	issue, err := h.issues.Approve(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, issue)
}

// Reject godoc
// @Summary      Close an issue without credit
// @Description  Close an issue without credit. Admin only.
// @Tags         quality-issues
// @Accept       json
// @Produce      json
// @Param        id path string true "Issue ID" format(uuid)
// @Param        request body qualityapp.RejectIssueRequest true "Reject issue request"
// @Success      200 {object} dto.Response{data=qualityapp.IssueResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quality-issues/{id}/reject [post]
func (h *IssueHandler) Reject(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req qualityapp.RejectIssueRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if by := h.actorID(c); by != nil {
		req.ReviewedBy = *by
	}
	issue, err := h.issues.Reject(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, issue)
}

// GetByID godoc
// @Summary      Return one issue with photo links
// @Description  Return one issue with photo links. Admins and store accounts.
// @Tags         quality-issues
// @Produce      json
// @Param        id path string true "Issue ID" format(uuid)
// @Success      200 {object} dto.Response{data=qualityapp.IssueResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quality-issues/{id} [get]
func (h *IssueHandler) GetByID(c *gin.Context) {
	issue, ok := h.owned(c)
	if !ok {
		return
	}
	h.Success(c, issue)
}

// List godoc
// @Summary      Return a page of issues
// @Description  Return a page of issues. Admins and store accounts.
// @Tags         quality-issues
// @Produce      json
// @Param        store_id query string false "Store ID" format(uuid)
// @Param        order_id query string false "Order ID" format(uuid)
// @Param        status query string false "Status" Enums(OPEN, APPROVED, REJECTED)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]qualityapp.IssueResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quality-issues [get]
func (h *IssueHandler) List(c *gin.Context) {
	var filter qualityapp.IssueListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	var ok bool
	if filter.StoreID, ok = h.queryUUID(c, "store_id"); !ok {
		return
	}
	if filter.OrderID, ok = h.queryUUID(c, "order_id"); !ok {
		return
	}
	if !h.scopeStore(c, &filter.StoreID) {
		return
	}
	issues, total, err := h.issues.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, issues, total, filter.Page, filter.PageSize)
}

func (h *IssueHandler) owned(c *gin.Context) (*qualityapp.IssueResponse, bool) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return nil, false
	}
	issue, err := h.issues.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	if !h.checkStore(c, issue.StoreID) {
		return nil, false
	}
	return issue, true
}
