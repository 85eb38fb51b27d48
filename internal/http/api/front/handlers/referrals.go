package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trailperks/trailperks-server/internal/referrals"
)

// ReferralFrontHandler handles referral code endpoints for members.
type ReferralFrontHandler struct {
	referrals *referrals.Service
}

// NewReferralFrontHandler constructs a ReferralFrontHandler.
func NewReferralFrontHandler(referralSvc *referrals.Service) *ReferralFrontHandler {
	return &ReferralFrontHandler{referrals: referralSvc}
}

// claimReferralRequest defines the request body for claiming a code.
type claimReferralRequest struct {
	Code string `json:"code"`
}

// GetCode returns the member's referral code, issuing one on first use.
func (h *ReferralFrontHandler) GetCode(c *gin.Context) {
	userID := getUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	record, errIssue := h.referrals.IssueCode(c.Request.Context(), userID)
	if errIssue != nil {
		respondError(c, errIssue)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": record.Code, "claimed": record.ClaimedByUserID != nil})
}

// Claim claims another member's referral code.
func (h *ReferralFrontHandler) Claim(c *gin.Context) {
	userID := getUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body claimReferralRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	record, errClaim := h.referrals.ClaimCode(c.Request.Context(), body.Code, userID)
	if errClaim != nil {
		respondError(c, errClaim)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": record.Code, "claimed_at": record.ClaimedAt})
}
