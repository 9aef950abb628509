package service

import "time"

// Config controls payout eligibility.
type Config struct {
	// SettleDelay is how long after an event's end date a payout is held
	// back, giving disputes and late cancellations time to surface.
	SettleDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		SettleDelay: 72 * time.Hour,
	}
}

func (c Config) withDefaults() Config {
	if c.SettleDelay <= 0 {
		c.SettleDelay = DefaultConfig().SettleDelay
	}
	return c
}
