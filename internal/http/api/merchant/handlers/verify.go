package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/trailperks/trailperks-server/internal/offers"
)

// VerifyMerchantHandler handles redemption verification for merchants.
type VerifyMerchantHandler struct {
	offers *offers.Service
}

// NewVerifyMerchantHandler constructs a VerifyMerchantHandler.
func NewVerifyMerchantHandler(offerSvc *offers.Service) *VerifyMerchantHandler {
	return &VerifyMerchantHandler{offers: offerSvc}
}

// verifyRequest defines the request body for redemption verification.
type verifyRequest struct {
	Code string `json:"code"`
}

// verifiedDTO defines the verification response payload.
type verifiedDTO struct {
	UUID           string          `json:"uuid"`
	OfferID        uint64          `json:"offer_id"`
	UserID         uint64          `json:"user_id"`
	PurchaseAmount decimal.Decimal `json:"purchase_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
	Status         string          `json:"status"`
	VerifiedAt     *time.Time      `json:"verified_at"`
}

// Verify completes a pending redemption by its verification code.
func (h *VerifyMerchantHandler) Verify(c *gin.Context) {
	userID := getUserID(c)
	merchantID := getMerchantID(c)
	if userID == 0 || merchantID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body verifyRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	redemption, errVerify := h.offers.Verify(c.Request.Context(), body.Code, merchantID, userID)
	if errVerify != nil {
		respondError(c, errVerify)
		return
	}

	c.JSON(http.StatusOK, gin.H{"redemption": verifiedDTO{
		UUID:           redemption.UUID,
		OfferID:        redemption.OfferID,
		UserID:         redemption.UserID,
		PurchaseAmount: redemption.PurchaseAmount,
		DiscountAmount: redemption.DiscountAmount,
		FinalAmount:    redemption.FinalAmount,
		Status:         string(redemption.Status),
		VerifiedAt:     redemption.VerifiedAt,
	}})
}

// ListRedemptions returns the merchant's redemptions, newest first.
func (h *VerifyMerchantHandler) ListRedemptions(c *gin.Context) {
	merchantID := getMerchantID(c)
	if merchantID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	redemptions, errList := h.offers.ListMerchantRedemptions(c.Request.Context(), merchantID)
	if errList != nil {
		respondError(c, errList)
		return
	}
	resp := make([]gin.H, 0, len(redemptions))
	for _, redemption := range redemptions {
		resp = append(resp, gin.H{
			"uuid":            redemption.UUID,
			"offer_id":        redemption.OfferID,
			"user_id":         redemption.UserID,
			"purchase_amount": redemption.PurchaseAmount,
			"discount_amount": redemption.DiscountAmount,
			"final_amount":    redemption.FinalAmount,
			"status":          string(redemption.Status),
			"created_at":      redemption.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"redemptions": resp})
}
