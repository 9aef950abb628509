package service

import "time"

// Config controls the expiry sweep thresholds.
type Config struct {
	// AbandonedTTL is how long an unpaid checkout may linger before the
	// sweep reclassifies it as expired.
	AbandonedTTL time.Duration

	// PostEventGrace is how long after an event's end approved and pending
	// tickets survive before being closed out.
	PostEventGrace time.Duration
}

func DefaultConfig() Config {
	return Config{
		AbandonedTTL:   30 * time.Minute,
		PostEventGrace: 48 * time.Hour,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.AbandonedTTL <= 0 {
		c.AbandonedTTL = defaults.AbandonedTTL
	}
	if c.PostEventGrace <= 0 {
		c.PostEventGrace = defaults.PostEventGrace
	}
	return c
}
