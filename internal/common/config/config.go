// internal/common/config/config.go
package config

import (
	"fmt"
	"time"

	"checklist-audit-workers/internal/integrity"
)

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig               `mapstructure:"app"`
	Camunda    CamundaConfig           `mapstructure:"camunda"`
	Database   DatabaseConfig          `mapstructure:"database"`
	Workers    map[string]WorkerConfig `mapstructure:"workers"`
	Logging    LoggingConfig           `mapstructure:"logging"`
	Audit      AuditConfig             `mapstructure:"audit"`
	Scoring    integrity.Policy        `mapstructure:"scoring"`
	Vocabulary map[string][]string     `mapstructure:"vocabulary"`
	Alerts     AlertsConfig            `mapstructure:"alerts"`
	Metrics    MetricsConfig           `mapstructure:"metrics"`
	Registry   RegistryConfig          `mapstructure:"registry"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
	Plaintext      bool   `mapstructure:"plaintext"`
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig configures the optional audit result cache. An empty address
// disables caching.
type RedisConfig struct {
	Address      string `mapstructure:"address"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
	DialTimeout  int    `mapstructure:"dial_timeout"`  // milliseconds
	ReadTimeout  int    `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int    `mapstructure:"write_timeout"` // milliseconds
}

// Enabled reports whether a cache address is configured.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// AuditConfig tunes the integrity engine and its result cache.
type AuditConfig struct {
	Timezone        string `mapstructure:"timezone"`
	MaxDepth        int    `mapstructure:"max_depth"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds"`
}

// CacheTTL returns the audit cache lifetime.
func (a AuditConfig) CacheTTL() time.Duration {
	return time.Duration(a.CacheTTLSeconds) * time.Second
}

// Location resolves the configured time zone; empty means the host zone.
func (a AuditConfig) Location() (*time.Location, error) {
	if a.Timezone == "" || a.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, fmt.Errorf("audit.timezone %q: %w", a.Timezone, err)
	}
	return loc, nil
}

// AlertsConfig holds settings for the send-integrity-alert worker.
type AlertsConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	Region         string   `mapstructure:"region"`
	FromEmail      string   `mapstructure:"from_email"`
	ReviewerEmails []string `mapstructure:"reviewer_emails"`
	SNSTopicARN    string   `mapstructure:"sns_topic_arn"`
	ScoreThreshold int      `mapstructure:"score_threshold"`
}

type MetricsConfig struct {
	Address string `mapstructure:"address"`
}

// RegistryConfig points at an activity registry file; empty uses the embedded one.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

// Engine builds the integrity engine described by the audit, scoring and
// vocabulary sections.
func (c *Config) Engine(opts ...integrity.Option) (*integrity.Engine, error) {
	loc, err := c.Audit.Location()
	if err != nil {
		return nil, err
	}

	vocab := integrity.DefaultVocabulary()
	if len(c.Vocabulary) > 0 {
		overrides := make(integrity.Vocabulary, len(c.Vocabulary))
		for cat, words := range c.Vocabulary {
			overrides[integrity.Category(cat)] = words
		}
		vocab = vocab.Merge(overrides)
	}

	base := []integrity.Option{
		integrity.WithVocabulary(vocab),
		integrity.WithPolicy(c.Scoring),
		integrity.WithMaxDepth(c.Audit.MaxDepth),
		integrity.WithLocation(loc),
	}
	return integrity.New(append(base, opts...)...), nil
}
