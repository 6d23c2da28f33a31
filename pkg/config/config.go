package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Addr      string `env:"BANK_ADDR, default=:8080"`
	BankName  string `env:"BANK_NAME, default=IBK"`
	LogLevel  string `env:"BANK_LOG_LEVEL, default=INFO"`
	LogMode   string `env:"BANK_LOG_MODE, default=FULL"`
	Telemetry bool   `env:"BANK_TELEMETRY, default=false"`
}

// Load reads the configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &cfg, lookuper); err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}
	return &cfg, nil
}
