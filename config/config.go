// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/YuminosukeSato/cybershield/pkg/errors"
)

// Config carries all runtime settings. Every field has a working default;
// the environment (prefix CYBERSHIELD_) overrides them.
type Config struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Corpus files. Dataset 2 is optional; an empty path skips it.
	Dataset1Path string `envconfig:"DATASET1_PATH" default:"data/cyberbullying.csv"`
	Dataset2Path string `envconfig:"DATASET2_PATH" default:""`
	TextColumn   string `envconfig:"TEXT_COLUMN" default:"text"`
	LabelColumn  string `envconfig:"LABEL_COLUMN" default:"label"`

	// Split and subsampling parameters.
	TestFraction float64 `envconfig:"TEST_FRACTION" default:"0.2"`
	MaxSamples   int     `envconfig:"MAX_SAMPLES" default:"50000"`
	RandomSeed   int64   `envconfig:"RANDOM_SEED" default:"42"`

	// SMTP settings for high-confidence detection alerts.
	SMTPHost     string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser     string `envconfig:"SMTP_USER" default:""`
	SMTPPassword string `envconfig:"SMTP_PASSWORD" default:""`
	AlertTo      string `envconfig:"ALERT_TO" default:""`
}

// Load reads .env if present, then the process environment.
func Load() (*Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("cybershield", &cfg); err != nil {
		return nil, errors.Wrap(err, "config: process environment")
	}
	if cfg.TestFraction <= 0 || cfg.TestFraction >= 1 {
		return nil, errors.NewConfigurationError("test_fraction", "must be in (0, 1)")
	}
	return &cfg, nil
}
