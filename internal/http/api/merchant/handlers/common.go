package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trailperks/trailperks-server/internal/merchants"
	"github.com/trailperks/trailperks-server/internal/offers"
)

// getUserID extracts the verifier user ID from gin context.
func getUserID(c *gin.Context) uint64 {
	val, exists := c.Get("userID")
	if !exists {
		return 0
	}
	if v, ok := val.(uint64); ok {
		return v
	}
	return 0
}

// getMerchantID extracts the merchant ID from gin context.
func getMerchantID(c *gin.Context) uint64 {
	val, exists := c.Get("merchantID")
	if !exists {
		return 0
	}
	if v, ok := val.(uint64); ok {
		return v
	}
	return 0
}

// respondError maps core errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, offers.ErrOfferNotFound),
		errors.Is(err, offers.ErrRedemptionNotFound),
		errors.Is(err, merchants.ErrMerchantNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, offers.ErrMerchantMismatch):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case offers.IsInvalidArgument(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case offers.IsInvalidState(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
