package game

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds game configuration options read from the environment.
type Config struct {
	PlayerName string `env:"CRYPTCRAWL_PLAYER_NAME" envDefault:"Arthon"`
	SaveDir    string `env:"CRYPTCRAWL_SAVE_DIR"    envDefault:"saves"`

	// Seed for the combat random source. A seed of 0 means a random seed
	// will be generated.
	Seed int64 `env:"CRYPTCRAWL_SEED" envDefault:"0"`

	LogLevel  string `env:"CRYPTCRAWL_LOG_LEVEL" envDefault:"info"`
	LogFile   string `env:"CRYPTCRAWL_LOG_FILE"  envDefault:"cryptcrawl.log"`
	Telemetry bool   `env:"CRYPTCRAWL_TELEMETRY" envDefault:"false"`
}

// LoadConfig parses Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
