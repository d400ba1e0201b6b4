package handler

import (
	"errors"
	"net/http"

	"user_accounts/internal/model"
	"user_accounts/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps domain errors to status codes. Anything unrecognised is
// logged and answered with a 500 carrying fallback.
func respondError(c *gin.Context, logger *zap.Logger, err error, fallback string) {
	var uniq *model.UniquenessError
	switch {
	case errors.As(err, &uniq):
		c.JSON(http.StatusConflict, gin.H{"error": uniq.Error(), "field": uniq.Field})
	case errors.Is(err, model.ErrIdentifierRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": model.ErrIdentifierRequired.Error()})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": model.ErrNotFound.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrInvalidCredentials.Error()})
	default:
		logger.Error(fallback,
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
