package handler

import (
	"net/http"

	"user_accounts/internal/middleware"
	"user_accounts/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccountHandler serves the authenticated account's own data
type AccountHandler struct {
	service service.AccountService
	logger  *zap.Logger
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(s service.AccountService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{service: s, logger: logger}
}

// Me returns the account named by the token's user ID
func (h *AccountHandler) Me(c *gin.Context) {
	id, ok := middleware.AuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account ID not found in context"})
		return
	}

	account, err := h.service.GetAccount(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, account)
}

// RegisterAccountRoutes registers routes for any logged-in account
func (h *AccountHandler) RegisterAccountRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	accounts := rg.Group("/accounts", authMW)
	accounts.GET("/me", h.Me)
}
