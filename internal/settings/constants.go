package settings

// DB config keys and defaults for settings.
const (
	// PendingRedemptionTTLDaysKey controls how long a redemption may stay pending.
	PendingRedemptionTTLDaysKey = "PENDING_REDEMPTION_TTL_DAYS"
	// SweepIntervalMinutesKey controls the expiry sweeper cadence in minutes.
	SweepIntervalMinutesKey = "SWEEP_INTERVAL_MINUTES"
	// OfferCacheTTLSecondsKey controls the offer snapshot cache TTL in seconds.
	OfferCacheTTLSecondsKey = "OFFER_CACHE_TTL_SECONDS"
	// DefaultPendingRedemptionTTLDays is the fallback pending staleness window.
	DefaultPendingRedemptionTTLDays = 7
	// DefaultSweepIntervalMinutes is the fallback sweeper cadence (minutes).
	DefaultSweepIntervalMinutes = 15
	// DefaultOfferCacheTTLSeconds is the fallback offer cache TTL (seconds).
	DefaultOfferCacheTTLSeconds = 60
)
