// internal/workers/audit/score-checklist-integrity/config.go
package scorechecklistintegrity

import (
	"fmt"
	"time"
)

type Config struct {
	Timeout  time.Duration
	CacheTTL time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:  10 * time.Second,
		CacheTTL: 24 * time.Hour,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache ttl must not be negative")
	}
	return nil
}
