package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/trailperks/trailperks-server/internal/cache"
	"github.com/trailperks/trailperks-server/internal/config"
	"github.com/trailperks/trailperks-server/internal/db"
	"github.com/trailperks/trailperks-server/internal/http/api/front"
	"github.com/trailperks/trailperks-server/internal/http/api/merchant"
	"github.com/trailperks/trailperks-server/internal/merchants"
	"github.com/trailperks/trailperks-server/internal/offers"
	"github.com/trailperks/trailperks-server/internal/referrals"
	"github.com/trailperks/trailperks-server/internal/settings"
	"github.com/trailperks/trailperks-server/internal/sweeper"
)

// shutdownTimeout bounds graceful drain on termination.
const shutdownTimeout = 10 * time.Second

// Migrate opens the database and runs migrations.
func Migrate(cfg *config.Config) error {
	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}
	log.Info("migrations applied")
	return nil
}

// RunServer boots the offer redemption API server with database-backed
// components and the expiry sweeper attached. It blocks until ctx is
// cancelled, then drains in-flight requests.
func RunServer(ctx context.Context, cfg *config.Config) error {
	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}
	if errSettings := settings.RefreshDBConfigSnapshot(ctx, conn); errSettings != nil {
		log.WithError(errSettings).Warn("load settings snapshot failed")
	}

	var offerCache *cache.OfferCache
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if errPing := client.Ping(ctx).Err(); errPing != nil {
			log.WithError(errPing).Warn("redis unreachable, offer cache disabled")
		} else {
			offerCache = cache.NewOfferCache(client)
		}
	}

	merchantStore := merchants.NewStore(conn)
	offerSvc := offers.NewService(conn, merchantStore)
	referralSvc := referrals.NewService(conn)

	if expirySweeper := sweeper.New(conn, merchantStore); expirySweeper != nil {
		expirySweeper.Start(ctx)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	front.RegisterFrontRoutes(engine, conn, cfg.JWT, offerSvc, referralSvc, offerCache)
	merchant.RegisterMerchantRoutes(engine, conn, cfg.JWT, offerSvc, offerCache)

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", cfg.Server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case errServe := <-errCh:
		if errors.Is(errServe, http.ErrServerClosed) {
			return nil
		}
		return errServe
	}
}
