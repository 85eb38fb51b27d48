package front

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/trailperks/trailperks-server/internal/cache"
	"github.com/trailperks/trailperks-server/internal/config"
	"github.com/trailperks/trailperks-server/internal/http/api/front/handlers"
	"github.com/trailperks/trailperks-server/internal/models"
	"github.com/trailperks/trailperks-server/internal/offers"
	"github.com/trailperks/trailperks-server/internal/referrals"
	"github.com/trailperks/trailperks-server/internal/security"
	"gorm.io/gorm"
)

// RegisterFrontRoutes registers public and authenticated member routes.
func RegisterFrontRoutes(r *gin.Engine, db *gorm.DB, jwtCfg config.JWTConfig,
	offerSvc *offers.Service, referralSvc *referrals.Service, offerCache *cache.OfferCache) {
	if r == nil || db == nil || offerSvc == nil {
		return
	}

	front := r.Group("/v0/front")

	authHandler := handlers.NewAuthHandler(db, jwtCfg)
	front.POST("/register", authHandler.Register)
	front.POST("/login", authHandler.Login)

	offerHandler := handlers.NewOfferFrontHandler(offerSvc, offerCache)
	front.GET("/offers", offerHandler.List)
	front.GET("/offers/:uuid", offerHandler.Get)

	authed := front.Group("")
	authed.Use(memberAuthMiddleware(db, jwtCfg))

	redemptionHandler := handlers.NewRedemptionFrontHandler(offerSvc)
	authed.POST("/offers/:uuid/redeem", redemptionHandler.Redeem)
	authed.GET("/redemptions", redemptionHandler.List)

	referralHandler := handlers.NewReferralFrontHandler(referralSvc)
	authed.GET("/referral-code", referralHandler.GetCode)
	authed.POST("/referral-code/claim", referralHandler.Claim)
}

// memberAuthMiddleware validates member JWTs and loads the user into context.
func memberAuthMiddleware(db *gorm.DB, jwtCfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		token = strings.TrimSpace(token)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "empty token"})
			return
		}

		claims, errJWT := security.ParseMemberToken(jwtCfg.Secret, token)
		if errJWT != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		var user models.User
		if errFind := db.WithContext(c.Request.Context()).First(&user, claims.UserID).Error; errFind != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		if user.Disabled {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "user disabled"})
			return
		}

		c.Set("userID", user.ID)
		c.Next()
	}
}
