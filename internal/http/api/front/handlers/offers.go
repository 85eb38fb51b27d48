package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/trailperks/trailperks-server/internal/cache"
	"github.com/trailperks/trailperks-server/internal/models"
	"github.com/trailperks/trailperks-server/internal/offers"
)

// OfferFrontHandler handles offer browsing endpoints for members.
type OfferFrontHandler struct {
	offers *offers.Service
	cache  *cache.OfferCache
}

// NewOfferFrontHandler constructs an OfferFrontHandler.
func NewOfferFrontHandler(offerSvc *offers.Service, offerCache *cache.OfferCache) *OfferFrontHandler {
	return &OfferFrontHandler{offers: offerSvc, cache: offerCache}
}

// offerDTO defines the offer response payload.
type offerDTO struct {
	UUID              string           `json:"uuid"`
	MerchantID        uint64           `json:"merchant_id"`
	Title             string           `json:"title"`
	Details           string           `json:"details,omitempty"`
	DiscountType      string           `json:"discount_type"`
	DiscountValue     decimal.Decimal  `json:"discount_value"`
	MinPurchaseAmount *decimal.Decimal `json:"min_purchase_amount,omitempty"`
	MaxDiscountAmount *decimal.Decimal `json:"max_discount_amount,omitempty"`
	ValidFrom         time.Time        `json:"valid_from"`
	ValidUntil        time.Time        `json:"valid_until"`
	Status            string           `json:"status"`
}

func toOfferDTO(offer *models.Offer) offerDTO {
	return offerDTO{
		UUID:              offer.UUID,
		MerchantID:        offer.MerchantID,
		Title:             offer.Title,
		Details:           offer.Details,
		DiscountType:      string(offer.DiscountType),
		DiscountValue:     offer.DiscountValue,
		MinPurchaseAmount: offer.MinPurchaseAmount,
		MaxDiscountAmount: offer.MaxDiscountAmount,
		ValidFrom:         offer.ValidFrom,
		ValidUntil:        offer.ValidUntil,
		Status:            string(offer.Status),
	}
}

// List returns offers currently open for redemption.
func (h *OfferFrontHandler) List(c *gin.Context) {
	active, errList := h.offers.ListActiveOffers(c.Request.Context())
	if errList != nil {
		respondError(c, errList)
		return
	}
	resp := make([]offerDTO, 0, len(active))
	for i := range active {
		resp = append(resp, toOfferDTO(&active[i]))
	}
	c.JSON(http.StatusOK, gin.H{"offers": resp})
}

// Get returns a single offer by UUID, served from the snapshot cache when
// possible.
func (h *OfferFrontHandler) Get(c *gin.Context) {
	offerUUID := c.Param("uuid")
	if offer, ok := h.cache.Get(c.Request.Context(), offerUUID); ok {
		c.JSON(http.StatusOK, gin.H{"offer": toOfferDTO(offer)})
		return
	}

	offer, errGet := h.offers.GetOffer(c.Request.Context(), offerUUID)
	if errGet != nil {
		respondError(c, errGet)
		return
	}
	h.cache.Put(c.Request.Context(), offer)
	c.JSON(http.StatusOK, gin.H{"offer": toOfferDTO(offer)})
}
