// Package config loads draw defaults from the environment.
package config

import (
	"fmt"
	"math"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the defaults a draw falls back to when no flag overrides them.
type Config struct {
	Policy        string  `env:"LOTTERY_POLICY" envDefault:"uniform"`
	Winners       int     `env:"LOTTERY_WINNERS" envDefault:"1"`
	Seed          string  `env:"LOTTERY_SEED"`
	DefaultWeight float64 `env:"LOTTERY_WEIGHT_DEFAULT" envDefault:"1"`
	LogFile       string  `env:"LOTTERY_LOG_FILE"`
	Verbose       bool    `env:"LOTTERY_VERBOSE"`
}

// Load reads an optional .env file from the working directory and then
// parses Config from the environment. Variables already set in the
// environment win over the file.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DefaultWeight < 0 || math.IsNaN(cfg.DefaultWeight) || math.IsInf(cfg.DefaultWeight, 0) {
		return Config{}, fmt.Errorf("LOTTERY_WEIGHT_DEFAULT must be finite and non-negative, got %v", cfg.DefaultWeight)
	}
	return cfg, nil
}
