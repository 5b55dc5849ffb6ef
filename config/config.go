package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// Config carries the environment knobs of the client. Staleness windows are
// tunable per deployment; none of the defaults is semantically load-bearing.
type Config struct {
	APIBaseURL     string `env:"FIKIRI_API_URL" envDefault:"https://api.fikirisolutions.com"`
	UseMockData    bool   `env:"FIKIRI_USE_MOCK" envDefault:"false"`
	LiveStreamPath string `env:"FIKIRI_STREAM_PATH" envDefault:"/stream"`

	CacheGCWindow time.Duration `env:"FIKIRI_CACHE_GC_WINDOW" envDefault:"5m"`

	// Per-page freshness windows.
	StaleAfterBilling   time.Duration `env:"FIKIRI_STALE_BILLING" envDefault:"2m"`
	StaleAfterLeads     time.Duration `env:"FIKIRI_STALE_LEADS" envDefault:"1m"`
	StaleAfterEmails    time.Duration `env:"FIKIRI_STALE_EMAILS" envDefault:"30s"`
	StaleAfterDashboard time.Duration `env:"FIKIRI_STALE_DASHBOARD" envDefault:"30s"`
}

// FromEnv loads configuration from environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrapf(err, "Failed to parse environment config")
	}
	return cfg, nil
}
