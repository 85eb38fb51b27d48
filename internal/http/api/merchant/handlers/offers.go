package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/trailperks/trailperks-server/internal/cache"
	"github.com/trailperks/trailperks-server/internal/models"
	"github.com/trailperks/trailperks-server/internal/offers"
)

// OfferMerchantHandler handles offer management endpoints for merchants.
type OfferMerchantHandler struct {
	offers *offers.Service
	cache  *cache.OfferCache
}

// NewOfferMerchantHandler constructs an OfferMerchantHandler.
func NewOfferMerchantHandler(offerSvc *offers.Service, offerCache *cache.OfferCache) *OfferMerchantHandler {
	return &OfferMerchantHandler{offers: offerSvc, cache: offerCache}
}

// offerRequest defines the request body for offer creation and updates.
type offerRequest struct {
	Title             string           `json:"title"`
	Details           string           `json:"details"`
	DiscountType      string           `json:"discount_type"`
	DiscountValue     decimal.Decimal  `json:"discount_value"`
	MinPurchaseAmount *decimal.Decimal `json:"min_purchase_amount"`
	MaxDiscountAmount *decimal.Decimal `json:"max_discount_amount"`
	ValidFrom         time.Time        `json:"valid_from"`
	ValidUntil        time.Time        `json:"valid_until"`
	UsageLimit        *int             `json:"usage_limit"`
	UsageLimitPerUser *int             `json:"usage_limit_per_user"`
	Publish           bool             `json:"publish"`
}

// offerDTO defines the merchant-facing offer response payload.
type offerDTO struct {
	UUID              string           `json:"uuid"`
	Title             string           `json:"title"`
	Details           string           `json:"details,omitempty"`
	DiscountType      string           `json:"discount_type"`
	DiscountValue     decimal.Decimal  `json:"discount_value"`
	MinPurchaseAmount *decimal.Decimal `json:"min_purchase_amount,omitempty"`
	MaxDiscountAmount *decimal.Decimal `json:"max_discount_amount,omitempty"`
	ValidFrom         time.Time        `json:"valid_from"`
	ValidUntil        time.Time        `json:"valid_until"`
	UsageLimit        *int             `json:"usage_limit,omitempty"`
	UsageLimitPerUser *int             `json:"usage_limit_per_user,omitempty"`
	TotalRedemptions  int              `json:"total_redemptions"`
	Status            string           `json:"status"`
}

func toOfferDTO(offer *models.Offer) offerDTO {
	return offerDTO{
		UUID:              offer.UUID,
		Title:             offer.Title,
		Details:           offer.Details,
		DiscountType:      string(offer.DiscountType),
		DiscountValue:     offer.DiscountValue,
		MinPurchaseAmount: offer.MinPurchaseAmount,
		MaxDiscountAmount: offer.MaxDiscountAmount,
		ValidFrom:         offer.ValidFrom,
		ValidUntil:        offer.ValidUntil,
		UsageLimit:        offer.UsageLimit,
		UsageLimitPerUser: offer.UsageLimitPerUser,
		TotalRedemptions:  offer.TotalRedemptions,
		Status:            string(offer.Status),
	}
}

// Create creates a new offer for the merchant.
func (h *OfferMerchantHandler) Create(c *gin.Context) {
	merchantID := getMerchantID(c)
	if merchantID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body offerRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	offer, errCreate := h.offers.CreateOffer(c.Request.Context(), offers.CreateOfferParams{
		MerchantID:        merchantID,
		Title:             body.Title,
		Details:           body.Details,
		DiscountType:      models.DiscountType(body.DiscountType),
		DiscountValue:     body.DiscountValue,
		MinPurchaseAmount: body.MinPurchaseAmount,
		MaxDiscountAmount: body.MaxDiscountAmount,
		ValidFrom:         body.ValidFrom,
		ValidUntil:        body.ValidUntil,
		UsageLimit:        body.UsageLimit,
		UsageLimitPerUser: body.UsageLimitPerUser,
		Publish:           body.Publish,
	})
	if errCreate != nil {
		respondError(c, errCreate)
		return
	}

	c.JSON(http.StatusOK, gin.H{"offer": toOfferDTO(offer)})
}

// Update applies updates to one of the merchant's offers.
func (h *OfferMerchantHandler) Update(c *gin.Context) {
	merchantID := getMerchantID(c)
	if merchantID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	offerUUID := c.Param("uuid")
	if !h.ownsOffer(c, merchantID, offerUUID) {
		return
	}

	var body offerRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	offer, errUpdate := h.offers.UpdateOffer(c.Request.Context(), offerUUID, offers.UpdateOfferParams{
		Title:             body.Title,
		Details:           body.Details,
		DiscountType:      models.DiscountType(body.DiscountType),
		DiscountValue:     body.DiscountValue,
		MinPurchaseAmount: body.MinPurchaseAmount,
		MaxDiscountAmount: body.MaxDiscountAmount,
		ValidFrom:         body.ValidFrom,
		ValidUntil:        body.ValidUntil,
		UsageLimit:        body.UsageLimit,
		UsageLimitPerUser: body.UsageLimitPerUser,
	})
	if errUpdate != nil {
		respondError(c, errUpdate)
		return
	}
	h.cache.Invalidate(c.Request.Context(), offerUUID)

	c.JSON(http.StatusOK, gin.H{"offer": toOfferDTO(offer)})
}

// Publish moves a draft offer to ACTIVE.
func (h *OfferMerchantHandler) Publish(c *gin.Context) {
	h.transition(c, h.offers.PublishOffer)
}

// Pause moves an active offer to PAUSED.
func (h *OfferMerchantHandler) Pause(c *gin.Context) {
	h.transition(c, h.offers.PauseOffer)
}

// Resume moves a paused offer back to ACTIVE.
func (h *OfferMerchantHandler) Resume(c *gin.Context) {
	h.transition(c, h.offers.ResumeOffer)
}

// List returns the merchant's offers with an optional title search.
func (h *OfferMerchantHandler) List(c *gin.Context) {
	merchantID := getMerchantID(c)
	if merchantID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	listed, errList := h.offers.ListMerchantOffers(c.Request.Context(), merchantID, c.Query("search"))
	if errList != nil {
		respondError(c, errList)
		return
	}
	resp := make([]offerDTO, 0, len(listed))
	for i := range listed {
		resp = append(resp, toOfferDTO(&listed[i]))
	}
	c.JSON(http.StatusOK, gin.H{"offers": resp})
}

func (h *OfferMerchantHandler) transition(c *gin.Context, apply func(ctx context.Context, offerUUID string) (*models.Offer, error)) {
	merchantID := getMerchantID(c)
	if merchantID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	offerUUID := c.Param("uuid")
	if !h.ownsOffer(c, merchantID, offerUUID) {
		return
	}

	offer, errApply := apply(c.Request.Context(), offerUUID)
	if errApply != nil {
		respondError(c, errApply)
		return
	}
	h.cache.Invalidate(c.Request.Context(), offerUUID)

	c.JSON(http.StatusOK, gin.H{"offer": toOfferDTO(offer)})
}

// ownsOffer verifies the offer belongs to the merchant, writing the error
// response when it does not.
func (h *OfferMerchantHandler) ownsOffer(c *gin.Context, merchantID uint64, offerUUID string) bool {
	offer, errGet := h.offers.GetOffer(c.Request.Context(), offerUUID)
	if errGet != nil {
		respondError(c, errGet)
		return false
	}
	if offer.MerchantID != merchantID {
		c.JSON(http.StatusForbidden, gin.H{"error": "offer belongs to another merchant"})
		return false
	}
	return true
}
