package handler

import (
	"net/http"

	"user_accounts/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	service service.AccountService
	logger  *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AccountService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{service: s, logger: logger}
}

type registerRequest struct {
	Email       string `json:"email" validate:"required_without=PhoneNumber,omitempty,email,max=100"`
	PhoneNumber string `json:"phone_number" validate:"required_without=Email,omitempty,max=15"`
	Password    string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	account, err := h.service.CreateAccount(c.Request.Context(), service.CreateAccountInput{
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to register account")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account registered successfully",
		"account": account,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	account, token, err := h.service.Authenticate(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		respondError(c, h.logger, err, "Failed to login")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"account": account,
		"role":    account.Role(),
		"token":   token,
	})
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}
