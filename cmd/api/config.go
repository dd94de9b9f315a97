package main

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/minicart/minicart/internal/config"
)

type apiConfig struct {
	Port            uint16          `env:"APP_PORT"`
	LogLevel        slog.Level      `env:"APP_LOG_LEVEL"`
	ShutdownTimeout time.Duration   `env:"APP_SHUTDOWN_TIMEOUT"`
	StartingBalance decimal.Decimal `env:"APP_STARTING_BALANCE"`
	Postgres        config.PostgresConfig
	Auth            config.AuthConfig
}
