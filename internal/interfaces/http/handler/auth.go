package handler

import (
	"context"

	identityapp "github.com/freshline/backend/internal/application/identity"
	"github.com/freshline/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthService is the part of the identity service the auth endpoints use
type AuthService interface {
	Login(ctx context.Context, input identityapp.LoginInput) (*identityapp.TokenResult, error)
	Refresh(ctx context.Context, input identityapp.RefreshInput) (*identityapp.TokenResult, error)
	Logout(ctx context.Context, input identityapp.LogoutInput) error
}

// AccountService manages login accounts
type AccountService interface {
	Create(ctx context.Context, req identityapp.CreateAccountRequest) (*identityapp.AccountResponse, error)
	Me(ctx context.Context, accountID uuid.UUID) (*identityapp.AccountResponse, error)
	ChangePassword(ctx context.Context, accountID uuid.UUID, req identityapp.ChangePasswordRequest) error
	Deactivate(ctx context.Context, accountID uuid.UUID) (*identityapp.AccountResponse, error)
	Activate(ctx context.Context, accountID uuid.UUID) (*identityapp.AccountResponse, error)
	List(ctx context.Context, filter identityapp.AccountListFilter) ([]identityapp.AccountResponse, int64, error)
}

// AuthHandler handles login, token refresh and the caller's own account
type AuthHandler struct {
	BaseHandler
	auth     AuthService
	accounts AccountService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth AuthService, accounts AccountService) *AuthHandler {
	return &AuthHandler{auth: auth, accounts: accounts}
}

// Login godoc
// @Summary      Exchange credentials for a token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.LoginInput true "Login input"
// @Success      200 {object} dto.Response{data=identityapp.TokenResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginInput
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Refresh godoc
// @Summary      Rotate a refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.RefreshInput true "Refresh input"
// @Success      200 {object} dto.Response{data=identityapp.TokenResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identityapp.RefreshInput
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.auth.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Logout godoc
// @Summary      Log out
// @Description  Revoke the access token the request was made with, and the refresh token from the body when one is sent.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.LogoutInput false "Logout input"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req identityapp.LogoutInput
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	actor := middleware.GetActor(c)
	req.JTI = actor.TokenID
	req.ExpiresAt = actor.ExpiresAt
	req.UserID = actor.UserID.String()
	if err := h.auth.Logout(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Logged out")
}

// Me godoc
// @Summary      Return the caller's account
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=identityapp.AccountResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	account, err := h.accounts.Me(c.Request.Context(), middleware.GetActor(c).UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// ChangePassword godoc
// @Summary      Change the caller's password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.ChangePasswordRequest true "Change password request"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/me/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req identityapp.ChangePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.accounts.ChangePassword(c.Request.Context(), middleware.GetActor(c).UserID, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Password changed")
}

// AccountHandler lets admins manage accounts
type AccountHandler struct {
	BaseHandler
	accounts AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accounts AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Create godoc
// @Summary      Register an account
// @Description  Register an account. Admin only.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        request body identityapp.CreateAccountRequest true "Create account request"
// @Success      201 {object} dto.Response{data=identityapp.AccountResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	var req identityapp.CreateAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}
	account, err := h.accounts.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// List godoc
// @Summary      Return a page of accounts
// @Description  Return a page of accounts. Admin only.
// @Tags         accounts
// @Produce      json
// @Param        search query string false "Search keyword"
// @Param        role query string false "Role" Enums(ADMIN, STORE, VENDOR)
// @Param        active query bool false "Active"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]identityapp.AccountResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /accounts [get]
func (h *AccountHandler) List(c *gin.Context) {
	var filter identityapp.AccountListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	accounts, total, err := h.accounts.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, accounts, total, filter.Page, filter.PageSize)
}

// Activate godoc
// @Summary      Re-enable an account
// @Description  Re-enable an account. Admin only.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        id path string true "Account ID" format(uuid)
// @Success      200 {object} dto.Response{data=identityapp.AccountResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /accounts/{id}/activate [post]
func (h *AccountHandler) Activate(c *gin.Context) {
	h.toggle(c, h.accounts.Activate)
}

// Deactivate godoc
// @Summary      Disable an account
// @Description  Disable an account. Admin only.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        id path string true "Account ID" format(uuid)
// @Success      200 {object} dto.Response{data=identityapp.AccountResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /accounts/{id}/deactivate [post]
func (h *AccountHandler) Deactivate(c *gin.Context) {
	h.toggle(c, h.accounts.Deactivate)
}

func (h *AccountHandler) toggle(c *gin.Context, fn func(context.Context, uuid.UUID) (*identityapp.AccountResponse, error)) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	account, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}
