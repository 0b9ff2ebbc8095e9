// internal/workers/notification/send-integrity-alert/config.go
package sendintegrityalert

import (
	"fmt"
	"time"

	"checklist-audit-workers/internal/common/config"
)

type Config struct {
	Enabled        bool
	FromEmail      string
	ReviewerEmails []string
	SNSTopicARN    string
	ScoreThreshold int
	Timeout        time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		ScoreThreshold: 60,
		Timeout:        30 * time.Second,
	}
}

// ConfigFrom maps the alerts section onto the worker config. A zero
// threshold keeps the default.
func ConfigFrom(cfg config.AlertsConfig) *Config {
	c := DefaultConfig()
	c.Enabled = cfg.Enabled
	c.FromEmail = cfg.FromEmail
	c.ReviewerEmails = append([]string(nil), cfg.ReviewerEmails...)
	c.SNSTopicARN = cfg.SNSTopicARN
	if cfg.ScoreThreshold > 0 {
		c.ScoreThreshold = cfg.ScoreThreshold
	}
	return c
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.ScoreThreshold < 0 || c.ScoreThreshold > 100 {
		return fmt.Errorf("score threshold must be between 0 and 100, got %d", c.ScoreThreshold)
	}
	if c.Enabled && len(c.ReviewerEmails) > 0 && c.FromEmail == "" {
		return fmt.Errorf("from email is required when reviewer emails are set")
	}
	return nil
}

// HasRecipients reports whether any delivery channel is configured.
func (c *Config) HasRecipients() bool {
	return len(c.ReviewerEmails) > 0 || c.SNSTopicARN != ""
}
