package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Global config instance
var global *Config

// Config global configuration (loaded from environment / .env)
// Only holds calculation-layer defaults; per-grid parameters live on each
// grid configuration.
type Config struct {
	// DefaultLeverage is applied to new futures grids until SetLeverage is
	// called. Must stay within [1, 125].
	DefaultLeverage int

	// MaintenanceMarginRate default used by new futures grids
	// (e.g. 0.004 for ETHUSDT perp below 50k USDT notional).
	MaintenanceMarginRate decimal.Decimal

	// BinanceBaseURL overrides the Binance USD-M futures REST endpoint.
	// Empty means the client default.
	BinanceBaseURL string

	// LogLevel for the global logger
	LogLevel string
}

// Init initializes the global configuration from the environment.
// A .env file in the working directory is loaded first if present.
func Init() {
	_ = godotenv.Load()

	cfg := &Config{
		DefaultLeverage:       1,
		MaintenanceMarginRate: decimal.RequireFromString("0.004"),
		LogLevel:              "info",
	}

	if v := os.Getenv("GRID_DEFAULT_LEVERAGE"); v != "" {
		if lev, err := strconv.Atoi(v); err == nil && lev >= 1 && lev <= 125 {
			cfg.DefaultLeverage = lev
		}
	}

	if v := os.Getenv("GRID_MAINT_MARGIN_RATE"); v != "" {
		if rate, err := decimal.NewFromString(v); err == nil && !rate.IsNegative() {
			cfg.MaintenanceMarginRate = rate
		}
	}

	if v := os.Getenv("BINANCE_FUTURES_BASE_URL"); v != "" {
		cfg.BinanceBaseURL = strings.TrimSpace(v)
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(v))
	}

	global = cfg
}

// Get returns the global configuration
func Get() *Config {
	if global == nil {
		Init()
	}
	return global
}
