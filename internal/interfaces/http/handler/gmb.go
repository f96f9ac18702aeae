package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	businessapp "github.com/gbpdash/backend/internal/application/business"
	integrationapp "github.com/gbpdash/backend/internal/application/integration"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/gbpdash/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OAuthFlow runs the Google consent handshake
type OAuthFlow interface {
	Start(ctx context.Context, tenantID, userID uuid.UUID, returnPath string) (*businessapp.OAuthStartResponse, error)
	Callback(ctx context.Context, in businessapp.CallbackInput) (*businessapp.CallbackResult, error)
}

// AccountManager reads and unlinks connected accounts
type AccountManager interface {
	GetByID(ctx context.Context, tenantID, accountID uuid.UUID) (*businessapp.AccountResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter businessapp.AccountListFilter) ([]businessapp.AccountResponse, int64, error)
	Disconnect(ctx context.Context, tenantID, accountID uuid.UUID) (*businessapp.AccountResponse, error)
	Delete(ctx context.Context, tenantID, accountID uuid.UUID) error
}

// AccountSyncer imports the locations of one account
type AccountSyncer interface {
	SyncAccountLocations(ctx context.Context, tenantID, accountID uuid.UUID) (*integrationapp.AccountSyncResult, error)
}

// GMBHandler serves the Google connection endpoints
type GMBHandler struct {
	BaseHandler
	oauth       OAuthFlow
	accounts    AccountManager
	syncer      AccountSyncer
	frontendURL string
}

// NewGMBHandler creates a new GMBHandler. The callback redirects the browser
// to frontendURL; an empty value makes it answer JSON.
func NewGMBHandler(oauth OAuthFlow, accounts AccountManager, syncer AccountSyncer, frontendURL string) *GMBHandler {
	return &GMBHandler{
		oauth:       oauth,
		accounts:    accounts,
		syncer:      syncer,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

// StartOAuth godoc
// @Summary      Start Google authorization
// @Description  Creates a single-use state and returns the Google consent URL
// @Tags         gmb
// @Produce      json
// @Param        return_path query string false "Frontend path to return to" example(/settings/integrations)
// @Success      200 {object} dto.Response{data=businessapp.OAuthStartResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /gmb/oauth/start [get]
func (h *GMBHandler) StartOAuth(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}

	resp, err := h.oauth.Start(c.Request.Context(), tenantID, userID, c.Query("return_path"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Callback godoc
// @Summary      Google authorization callback
// @Description  Completes the consent, links every account of the Google user and redirects to the frontend. Answers JSON when the client accepts application/json.
// @Tags         gmb
// @Produce      json
// @Param        code  query string false "Authorization code"
// @Param        state query string true  "OAuth state"
// @Param        error query string false "Error reported by Google"
// @Success      200 {object} dto.Response{data=OAuthCallbackData}
// @Success      302 "Redirect to the frontend"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      424 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /gmb/oauth/callback [get]
func (h *GMBHandler) Callback(c *gin.Context) {
	var in businessapp.CallbackInput
	if !h.bindQuery(c, &in) {
		return
	}

	result, err := h.oauth.Callback(c.Request.Context(), in)
	returnPath := "/"
	if result != nil && result.ReturnPath != "" {
		returnPath = result.ReturnPath
	}

	if h.wantsJSON(c) {
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, OAuthCallbackData{
			Connected:  true,
			Accounts:   len(result.Accounts),
			ReturnPath: returnPath,
			SyncErrors: result.SyncErrors,
		})
		return
	}

	params := url.Values{}
	if err != nil {
		logger.GetGinLogger(c).Warn("OAuth callback failed", zap.Error(err))
		params.Set("error", callbackErrorCode(err))
	} else {
		params.Set("connected", "true")
		params.Set("accounts", strconv.Itoa(len(result.Accounts)))
	}
	c.Redirect(http.StatusFound, h.frontendURL+returnPath+querySeparator(returnPath)+params.Encode())
}

func (h *GMBHandler) wantsJSON(c *gin.Context) bool {
	return h.frontendURL == "" || strings.Contains(c.GetHeader("Accept"), "application/json")
}

func callbackErrorCode(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return "INTERNAL_ERROR"
}

func querySeparator(path string) string {
	if strings.Contains(path, "?") {
		return "&"
	}
	return "?"
}

// ListAccounts godoc
// @Summary      List connected accounts
// @Tags         gmb
// @Produce      json
// @Param        search    query string false "Name or email contains"
// @Param        is_active query bool   false "Filter by active flag"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]businessapp.AccountResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /gmb/accounts [get]
func (h *GMBHandler) ListAccounts(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter businessapp.AccountListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageDefaults(filter.Page, filter.PageSize)

	accounts, total, err := h.accounts.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, accounts, total, filter.Page, filter.PageSize)
}

// GetAccount godoc
// @Summary      Get a connected account
// @Tags         gmb
// @Produce      json
// @Param        id path string true "Account ID" format(uuid)
// @Success      200 {object} dto.Response{data=businessapp.AccountResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /gmb/accounts/{id} [get]
func (h *GMBHandler) GetAccount(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "account")
	if !ok {
		return
	}

	account, err := h.accounts.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// SyncAccount godoc
// @Summary      Import the locations of an account
// @Description  Lists the account's locations on Google and upserts them
// @Tags         gmb
// @Produce      json
// @Param        id path string true "Account ID" format(uuid)
// @Success      200 {object} dto.Response{data=integrationapp.AccountSyncResult}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      424 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /gmb/accounts/{id}/sync [post]
func (h *GMBHandler) SyncAccount(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "account")
	if !ok {
		return
	}

	result, err := h.syncer.SyncAccountLocations(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// DisconnectAccount godoc
// @Summary      Disconnect an account
// @Description  Revokes the Google grant, clears stored credentials and deactivates the account
// @Tags         gmb
// @Produce      json
// @Param        id path string true "Account ID" format(uuid)
// @Success      200 {object} dto.Response{data=businessapp.AccountResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /gmb/accounts/{id}/disconnect [post]
func (h *GMBHandler) DisconnectAccount(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "account")
	if !ok {
		return
	}

	account, err := h.accounts.Disconnect(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// DeleteAccount godoc
// @Summary      Delete an account
// @Description  Disconnects the account and deactivates its locations
// @Tags         gmb
// @Param        id path string true "Account ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /gmb/accounts/{id} [delete]
func (h *GMBHandler) DeleteAccount(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "account")
	if !ok {
		return
	}

	if err := h.accounts.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
