package handler

import (
	"net/http"
	"strings"

	"user_accounts/internal/model"
	"user_accounts/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AdminHandler exposes account administration to admin accounts
type AdminHandler struct {
	service service.AccountService
	logger  *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(s service.AccountService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{service: s, logger: logger}
}

type listAccountsQuery struct {
	IsVerified *bool  `form:"is_verified"`
	IsAdmin    *bool  `form:"is_admin"`
	Search     string `form:"search" validate:"max=100"`
	Limit      int    `form:"limit" validate:"gte=0,lte=200"`
	Offset     int    `form:"offset" validate:"gte=0"`
}

type createAccountRequest struct {
	Email       string `json:"email" validate:"required_without=PhoneNumber,omitempty,email,max=100"`
	PhoneNumber string `json:"phone_number" validate:"required_without=Email,omitempty,max=15"`
	Password    string `json:"password" validate:"omitempty,min=8"`
	IsVerified  *bool  `json:"is_verified"`
	IsAdmin     *bool  `json:"is_admin"`
}

// An empty string clears email or phone_number; null leaves it unchanged.
// A non-empty email is format-checked by UpdateAccount.
type updateAccountRequest struct {
	Email       *string `json:"email" validate:"omitempty,max=100"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=15"`
	Password    *string `json:"password" validate:"omitempty,min=8"`
	IsVerified  *bool   `json:"is_verified"`
	IsAdmin     *bool   `json:"is_admin"`
}

func (h *AdminHandler) ListAccounts(c *gin.Context) {
	var q listAccountsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}
	if verrs := ValidateRequest(q); verrs != nil {
		respondWithValidationError(c, verrs)
		return
	}

	accounts, err := h.service.ListAccounts(c.Request.Context(), model.AccountFilter{
		IsVerified: q.IsVerified,
		IsAdmin:    q.IsAdmin,
		Search:     q.Search,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to list accounts")
		return
	}
	if accounts == nil {
		accounts = []model.Account{}
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *AdminHandler) GetAccount(c *gin.Context) {
	id, ok := accountIDParam(c)
	if !ok {
		return
	}

	account, err := h.service.GetAccount(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *AdminHandler) CreateAccount(c *gin.Context) {
	var req createAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	account, err := h.service.CreateAccount(c.Request.Context(), service.CreateAccountInput{
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		IsVerified:  req.IsVerified,
		IsAdmin:     req.IsAdmin,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to create account")
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (h *AdminHandler) UpdateAccount(c *gin.Context) {
	id, ok := accountIDParam(c)
	if !ok {
		return
	}

	var req updateAccountRequest
	if !bindJSON(c, &req) {
		return
	}
	// only the literal empty string clears; blank input is a malformed address
	if req.Email != nil && *req.Email != "" {
		if verrs := ValidateField("email", strings.TrimSpace(*req.Email), "email"); verrs != nil {
			respondWithValidationError(c, verrs)
			return
		}
	}

	account, err := h.service.UpdateAccount(c.Request.Context(), id, service.UpdateAccountInput{
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		IsVerified:  req.IsVerified,
		IsAdmin:     req.IsAdmin,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to update account")
		return
	}
	c.JSON(http.StatusOK, account)
}

func accountIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID"})
		return uuid.Nil, false
	}
	return id, true
}

// RegisterAdminRoutes registers the admin account routes behind both middlewares
func (h *AdminHandler) RegisterAdminRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	admin := rg.Group("/admin/accounts", authMW, adminMW)
	{
		admin.GET("", h.ListAccounts)
		admin.POST("", h.CreateAccount)
		admin.GET("/:id", h.GetAccount)
		admin.PATCH("/:id", h.UpdateAccount)
	}
}
