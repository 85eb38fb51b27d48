package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/trailperks/trailperks-server/internal/models"
	internalsettings "github.com/trailperks/trailperks-server/internal/settings"
)

// offerKeyPrefix namespaces cached offer snapshots in Redis.
const offerKeyPrefix = "trailperks:offer:"

// OfferCache caches offer snapshots in Redis keyed by offer UUID. It serves
// read paths only; admission decisions always hit the database. A nil cache
// or nil client disables caching entirely.
type OfferCache struct {
	client *redis.Client
}

// NewOfferCache constructs an offer cache. Returns nil when client is nil.
func NewOfferCache(client *redis.Client) *OfferCache {
	if client == nil {
		return nil
	}
	return &OfferCache{client: client}
}

// Get returns a cached offer snapshot, if present.
func (c *OfferCache) Get(ctx context.Context, offerUUID string) (*models.Offer, bool) {
	if c == nil || c.client == nil || offerUUID == "" {
		return nil, false
	}
	payload, errGet := c.client.Get(ctx, offerKeyPrefix+offerUUID).Bytes()
	if errGet != nil {
		if errGet != redis.Nil {
			log.WithError(errGet).Debug("offer cache: get failed")
		}
		return nil, false
	}
	var offer models.Offer
	if errUnmarshal := json.Unmarshal(payload, &offer); errUnmarshal != nil {
		log.WithError(errUnmarshal).Debug("offer cache: decode failed")
		return nil, false
	}
	return &offer, true
}

// Put stores an offer snapshot with the configured TTL.
func (c *OfferCache) Put(ctx context.Context, offer *models.Offer) {
	if c == nil || c.client == nil || offer == nil || offer.UUID == "" {
		return
	}
	payload, errMarshal := json.Marshal(offer)
	if errMarshal != nil {
		log.WithError(errMarshal).Debug("offer cache: encode failed")
		return
	}
	ttlSeconds := internalsettings.IntValue(internalsettings.OfferCacheTTLSecondsKey,
		internalsettings.DefaultOfferCacheTTLSeconds)
	if ttlSeconds <= 0 {
		ttlSeconds = internalsettings.DefaultOfferCacheTTLSeconds
	}
	if errSet := c.client.Set(ctx, offerKeyPrefix+offer.UUID, payload,
		time.Duration(ttlSeconds)*time.Second).Err(); errSet != nil {
		log.WithError(errSet).Debug("offer cache: set failed")
	}
}

// Invalidate drops a cached offer snapshot after a mutation.
func (c *OfferCache) Invalidate(ctx context.Context, offerUUID string) {
	if c == nil || c.client == nil || offerUUID == "" {
		return
	}
	if errDel := c.client.Del(ctx, offerKeyPrefix+offerUUID).Err(); errDel != nil {
		log.WithError(errDel).Debug("offer cache: invalidate failed")
	}
}
