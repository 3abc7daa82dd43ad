// Package config loads application configuration from the environment.
package config

import (
	"fmt"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds the application configuration loaded from environment
// variables. Command-line flags, where present, take precedence.
type Config struct {
	// RulesPath points at the categorization rule table (CSV or TXT).
	// Environment variable: RATETRACK_RULES
	RulesPath string `koanf:"RATETRACK_RULES"`

	// OutputPath is the workbook the converter appends statement sheets to.
	// Environment variable: RATETRACK_OUTPUT
	OutputPath string `koanf:"RATETRACK_OUTPUT"`

	// Language selects output header labels ("en" or "ro").
	// Environment variable: RATETRACK_LANG
	Language string `koanf:"RATETRACK_LANG"`

	// ListenAddr is the API server bind address.
	// Environment variable: RATETRACK_ADDR
	ListenAddr string `koanf:"RATETRACK_ADDR"`
}

// Load reads configuration from the environment and applies defaults.
func Load() (Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", nil), nil); err != nil {
		return Config{}, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf", FlatPaths: true}); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	return cfg, nil
}
