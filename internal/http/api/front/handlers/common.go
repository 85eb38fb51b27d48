package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trailperks/trailperks-server/internal/merchants"
	"github.com/trailperks/trailperks-server/internal/offers"
	"github.com/trailperks/trailperks-server/internal/referrals"
)

// getUserID extracts the user ID from gin context.
func getUserID(c *gin.Context) uint64 {
	val, exists := c.Get("userID")
	if !exists {
		return 0
	}
	switch v := val.(type) {
	case uint64:
		return v
	case int64:
		return uint64(v)
	case uint:
		return uint64(v)
	case int:
		return uint64(v)
	default:
		return 0
	}
}

// respondError maps core errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, offers.ErrOfferNotFound),
		errors.Is(err, offers.ErrRedemptionNotFound),
		errors.Is(err, merchants.ErrMerchantNotFound),
		errors.Is(err, referrals.ErrCodeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case offers.IsInvalidArgument(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case offers.IsInvalidState(err),
		errors.Is(err, referrals.ErrCodeAlreadyClaimed),
		errors.Is(err, referrals.ErrSelfReferral):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
