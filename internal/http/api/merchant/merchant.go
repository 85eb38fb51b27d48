package merchant

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/trailperks/trailperks-server/internal/cache"
	"github.com/trailperks/trailperks-server/internal/config"
	"github.com/trailperks/trailperks-server/internal/http/api/merchant/handlers"
	"github.com/trailperks/trailperks-server/internal/models"
	"github.com/trailperks/trailperks-server/internal/offers"
	"github.com/trailperks/trailperks-server/internal/security"
	"gorm.io/gorm"
)

// RegisterMerchantRoutes registers authenticated merchant portal routes.
func RegisterMerchantRoutes(r *gin.Engine, db *gorm.DB, jwtCfg config.JWTConfig,
	offerSvc *offers.Service, offerCache *cache.OfferCache) {
	if r == nil || db == nil || offerSvc == nil {
		return
	}

	portal := r.Group("/v0/merchant")
	portal.Use(merchantAuthMiddleware(db, jwtCfg))

	offerHandler := handlers.NewOfferMerchantHandler(offerSvc, offerCache)
	portal.GET("/offers", offerHandler.List)
	portal.POST("/offers", offerHandler.Create)
	portal.PUT("/offers/:uuid", offerHandler.Update)
	portal.POST("/offers/:uuid/publish", offerHandler.Publish)
	portal.POST("/offers/:uuid/pause", offerHandler.Pause)
	portal.POST("/offers/:uuid/resume", offerHandler.Resume)

	verifyHandler := handlers.NewVerifyMerchantHandler(offerSvc)
	portal.POST("/verify", verifyHandler.Verify)
	portal.GET("/redemptions", verifyHandler.ListRedemptions)
}

// merchantAuthMiddleware validates merchant verifier JWTs and loads the
// verifier and merchant into context.
func merchantAuthMiddleware(db *gorm.DB, jwtCfg config.JWTConfig) gin.HandlerFunc {
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

		claims, errJWT := security.ParseMerchantToken(jwtCfg.Secret, token)
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
		if user.MerchantID == nil || *user.MerchantID != claims.MerchantID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not a merchant account"})
			return
		}

		c.Set("userID", user.ID)
		c.Set("merchantID", claims.MerchantID)
		c.Next()
	}
}
