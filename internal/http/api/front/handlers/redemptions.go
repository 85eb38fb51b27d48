package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/trailperks/trailperks-server/internal/models"
	"github.com/trailperks/trailperks-server/internal/offers"
)

// RedemptionFrontHandler handles redemption endpoints for members.
type RedemptionFrontHandler struct {
	offers *offers.Service
}

// NewRedemptionFrontHandler constructs a RedemptionFrontHandler.
func NewRedemptionFrontHandler(offerSvc *offers.Service) *RedemptionFrontHandler {
	return &RedemptionFrontHandler{offers: offerSvc}
}

// redeemRequest defines the request body for a redemption attempt.
type redeemRequest struct {
	PurchaseAmount     *decimal.Decimal `json:"purchase_amount"`
	MerchantLocationID *uint64          `json:"merchant_location_id"`
	Method             string           `json:"method"`
	Notes              string           `json:"notes"`
}

// redemptionDTO defines the redemption response payload.
type redemptionDTO struct {
	UUID             string          `json:"uuid"`
	OfferID          uint64          `json:"offer_id"`
	MerchantID       uint64          `json:"merchant_id"`
	PurchaseAmount   decimal.Decimal `json:"purchase_amount"`
	DiscountAmount   decimal.Decimal `json:"discount_amount"`
	FinalAmount      decimal.Decimal `json:"final_amount"`
	VerificationCode string          `json:"verification_code"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	VerifiedAt       *time.Time      `json:"verified_at,omitempty"`
	RedeemedAt       *time.Time      `json:"redeemed_at,omitempty"`
}

func toRedemptionDTO(redemption *models.Redemption) redemptionDTO {
	return redemptionDTO{
		UUID:             redemption.UUID,
		OfferID:          redemption.OfferID,
		MerchantID:       redemption.MerchantID,
		PurchaseAmount:   redemption.PurchaseAmount,
		DiscountAmount:   redemption.DiscountAmount,
		FinalAmount:      redemption.FinalAmount,
		VerificationCode: redemption.VerificationCode,
		Status:           string(redemption.Status),
		CreatedAt:        redemption.CreatedAt,
		VerifiedAt:       redemption.VerifiedAt,
		RedeemedAt:       redemption.RedeemedAt,
	}
}

// Redeem creates a pending redemption against an offer.
func (h *RedemptionFrontHandler) Redeem(c *gin.Context) {
	userID := getUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body redeemRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	redemption, errRedeem := h.offers.Redeem(c.Request.Context(), offers.RedeemParams{
		OfferUUID:          c.Param("uuid"),
		UserID:             userID,
		PurchaseAmount:     body.PurchaseAmount,
		MerchantLocationID: body.MerchantLocationID,
		Method:             strings.TrimSpace(body.Method),
		Notes:              strings.TrimSpace(body.Notes),
	})
	if errRedeem != nil {
		respondError(c, errRedeem)
		return
	}

	c.JSON(http.StatusOK, gin.H{"redemption": toRedemptionDTO(redemption)})
}

// List returns the member's redemptions, newest first.
func (h *RedemptionFrontHandler) List(c *gin.Context) {
	userID := getUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	redemptions, errList := h.offers.ListUserRedemptions(c.Request.Context(), userID)
	if errList != nil {
		respondError(c, errList)
		return
	}
	resp := make([]redemptionDTO, 0, len(redemptions))
	for i := range redemptions {
		resp = append(resp, toRedemptionDTO(&redemptions[i]))
	}
	c.JSON(http.StatusOK, gin.H{"redemptions": resp})
}
