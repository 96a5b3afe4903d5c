package handler

import (
	"errors"
	"net/http"

	"github.com/freshline/backend/internal/domain/identity"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/infrastructure/logger"
	"github.com/freshline/backend/internal/interfaces/http/dto"
	"github.com/freshline/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a list page with pagination meta. Zero page values
// fall back to the repository defaults.
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	if page <= 0 {
		page = defaultPage
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Message sends a 200 response carrying only a message
func (h *BaseHandler) Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, dto.NewMessageResponse(message))
}

// Error sends an error response with the given status
func (h *BaseHandler) Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.NewErrorResponse(code, message, middleware.RequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Forbidden sends a 403 forbidden response
func (h *BaseHandler) Forbidden(c *gin.Context, message string) {
	h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, message)
}

// ValidationError sends a 400 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, details []dto.ValidationDetail) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		middleware.RequestID(c),
		details,
	))
}

// HandleError converts domain errors to their mapped status. Anything else
// is logged and hidden behind a 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, dto.HTTPStatus(domainErr.Code), dto.APICode(domainErr.Code), domainErr.Message)
		return
	}

	logger.L(c.Request.Context()).Error("Request failed",
		zap.String("route", c.FullPath()),
		zap.Error(err),
	)
	_ = c.Error(err)
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}

// bindJSON decodes the body into req, answering the request itself on failure
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if details := middleware.ValidationDetails(err); details != nil {
			h.ValidationError(c, details)
			return false
		}
		h.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}

// bindQuery decodes query parameters into filter
func (h *BaseHandler) bindQuery(c *gin.Context, filter any) bool {
	if err := c.ShouldBindQuery(filter); err != nil {
		if details := middleware.ValidationDetails(err); details != nil {
			h.ValidationError(c, details)
			return false
		}
		h.BadRequest(c, "Invalid query parameters")
		return false
	}
	return true
}

// parseID reads a uuid path parameter
func (h *BaseHandler) parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		h.BadRequest(c, "Invalid "+param)
		return uuid.Nil, false
	}
	return id, true
}

// queryUUID reads an optional uuid query parameter
func (h *BaseHandler) queryUUID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		h.ValidationError(c, []dto.ValidationDetail{{Field: name, Message: "Invalid UUID format"}})
		return nil, false
	}
	return &id, true
}

type weekRequest struct {
	Week string `json:"week" binding:"required,iso_week"`
}

// bindWeek reads a {"week": "2026-W07"} body
func (h *BaseHandler) bindWeek(c *gin.Context) (shared.Week, bool) {
	var req weekRequest
	if !h.bindJSON(c, &req) {
		return shared.Week{}, false
	}
	week, err := shared.ParseWeek(req.Week)
	if err != nil {
		h.HandleError(c, err)
		return shared.Week{}, false
	}
	return week, true
}

// actorID returns the caller's account id for audit fields
func (h *BaseHandler) actorID(c *gin.Context) *uuid.UUID {
	actor := middleware.GetActor(c)
	if actor == nil {
		return nil
	}
	id := actor.UserID
	return &id
}

// checkStore answers 403 when the caller may not act for storeID
func (h *BaseHandler) checkStore(c *gin.Context, storeID uuid.UUID) bool {
	if !middleware.GetActor(c).CanAccessStore(storeID) {
		h.Error(c, http.StatusForbidden, dto.APICode("STORE_MISMATCH"), "Access to this store is not allowed")
		return false
	}
	return true
}

// checkVendor answers 403 when the caller may not act for vendorID
func (h *BaseHandler) checkVendor(c *gin.Context, vendorID uuid.UUID) bool {
	if !middleware.GetActor(c).CanAccessVendor(vendorID) {
		h.Forbidden(c, "Access to this vendor is not allowed")
		return false
	}
	return true
}

// scopeStore pins a list filter to the caller's store for STORE accounts.
// Admins keep whatever filter they asked for.
func (h *BaseHandler) scopeStore(c *gin.Context, storeID **uuid.UUID) bool {
	actor := middleware.GetActor(c)
	switch {
	case actor.IsAdmin():
		return true
	case actor != nil && actor.Role == identity.RoleStore && actor.StoreID != nil:
		if *storeID != nil && **storeID != *actor.StoreID {
			h.Error(c, http.StatusForbidden, dto.APICode("STORE_MISMATCH"), "Access to this store is not allowed")
			return false
		}
		own := *actor.StoreID
		*storeID = &own
		return true
	default:
		h.Forbidden(c, "Insufficient permissions")
		return false
	}
}

// scopeVendor pins a list filter to the caller's vendor for VENDOR accounts
func (h *BaseHandler) scopeVendor(c *gin.Context, vendorID **uuid.UUID) bool {
	actor := middleware.GetActor(c)
	switch {
	case actor.IsAdmin():
		return true
	case actor != nil && actor.Role == identity.RoleVendor && actor.VendorID != nil:
		if *vendorID != nil && **vendorID != *actor.VendorID {
			h.Forbidden(c, "Access to this vendor is not allowed")
			return false
		}
		own := *actor.VendorID
		*vendorID = &own
		return true
	default:
		h.Forbidden(c, "Insufficient permissions")
		return false
	}
}
