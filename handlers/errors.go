package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/solarlink-recon/logger"
	"github.com/yourusername/solarlink-recon/reconcile"
)

// respondError maps service errors onto HTTP statuses. Unexpected errors are logged and reported
// as retryable; nothing was committed for them.
func respondError(c *gin.Context, err error) {
	var verr *reconcile.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "code": "ValidationFailed", "field": verr.Field})
	case errors.Is(err, reconcile.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "NotFound"})
	case errors.Is(err, reconcile.ErrAlreadyMatched):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "AlreadyMatched"})
	case errors.Is(err, reconcile.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "InvalidTransition"})
	case errors.Is(err, reconcile.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "Conflict"})
	default:
		log := logger.WithComponent("http")
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error, nothing was saved; please retry", "code": "Internal"})
	}
}
