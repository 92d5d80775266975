package handlers

import (
	"errors"
	"net/http"

	"catalog-svc/services"
	"catalog-svc/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError maps service failures onto the HTTP taxonomy: missing
// records are 404, rejected input and illegal transitions are 400,
// anything else is a 500 whose cause goes to the log, not the client.
func writeError(c *gin.Context, logger *zap.Logger, err error, notFound string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrIllegalState):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
