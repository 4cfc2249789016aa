package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ayo6706/transfer-simulator/internal/domain"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrInvalidInput marks malformed arguments, flags or environment values.
var ErrInvalidInput = errors.New("invalid input")

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config holds all runtime configuration derived from arguments, flags and
// environment variables.
type Config struct {
	Workers  int
	Amount   decimal.Decimal
	Accounts int
	Seed     uint64

	LogLevel           string
	Format             string
	MetricsAddr        string
	PublicRateLimitRPS int
	Timeout            time.Duration
	ProgressInterval   time.Duration
}

// flagKeys maps viper keys to the command-line flags that override them.
var flagKeys = map[string]string{
	"seed":                  "seed",
	"log_level":             "log-level",
	"format":                "format",
	"metrics_addr":          "metrics-addr",
	"public_rate_limit_rps": "rate-limit",
	"timeout":               "timeout",
	"progress_interval":     "progress-interval",
}

// Load reads configuration with viper. Precedence, highest first: positional
// args (workers, amount, accounts), changed flags, environment, .env file,
// defaults. Range checks are left to the simulation.
func Load(flags *pflag.FlagSet, args []string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	bindEnv(v, "workers", "SIM_WORKERS")
	bindEnv(v, "amount", "SIM_AMOUNT")
	bindEnv(v, "accounts", "SIM_ACCOUNTS")
	bindEnv(v, "seed", "SIM_SEED")
	bindEnv(v, "log_level", "LOG_LEVEL", "SIM_LOG_LEVEL")
	bindEnv(v, "format", "SIM_FORMAT")
	bindEnv(v, "metrics_addr", "SIM_METRICS_ADDR")
	bindEnv(v, "public_rate_limit_rps", "PUBLIC_RATE_LIMIT_RPS", "SIM_PUBLIC_RATE_LIMIT_RPS")
	bindEnv(v, "timeout", "SIM_TIMEOUT")
	bindEnv(v, "progress_interval", "SIM_PROGRESS_INTERVAL")

	v.SetDefault("workers", "")
	v.SetDefault("amount", "")
	v.SetDefault("accounts", "")
	v.SetDefault("seed", "0")
	v.SetDefault("log_level", "info")
	v.SetDefault("format", FormatText)
	v.SetDefault("metrics_addr", "")
	v.SetDefault("public_rate_limit_rps", 10)
	v.SetDefault("timeout", "0s")
	v.SetDefault("progress_interval", "0s")

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	switch len(args) {
	case 0:
	case 3:
		v.Set("workers", args[0])
		v.Set("amount", args[1])
		v.Set("accounts", args[2])
	default:
		return nil, fmt.Errorf("%w: expected <workers> <amount> <accounts>, got %d arguments", ErrInvalidInput, len(args))
	}

	workers, err := parseInt("workers", v.GetString("workers"))
	if err != nil {
		return nil, err
	}
	accounts, err := parseInt("accounts", v.GetString("accounts"))
	if err != nil {
		return nil, err
	}
	rawAmount := v.GetString("amount")
	if strings.TrimSpace(rawAmount) == "" {
		return nil, fmt.Errorf("%w: amount is required", ErrInvalidInput)
	}
	amount, err := domain.ParseAmount(rawAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	seed, err := strconv.ParseUint(strings.TrimSpace(v.GetString("seed")), 0, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: seed %q: %w", ErrInvalidInput, v.GetString("seed"), err)
	}
	timeout, err := parseDuration("timeout", v.GetString("timeout"))
	if err != nil {
		return nil, err
	}
	progress, err := parseDuration("progress_interval", v.GetString("progress_interval"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Workers:            workers,
		Amount:             amount,
		Accounts:           accounts,
		Seed:               seed,
		LogLevel:           strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
		Format:             strings.ToLower(strings.TrimSpace(v.GetString("format"))),
		MetricsAddr:        strings.TrimSpace(v.GetString("metrics_addr")),
		PublicRateLimitRPS: max(v.GetInt("public_rate_limit_rps"), 1),
		Timeout:            timeout,
		ProgressInterval:   progress,
	}

	switch cfg.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("%w: format %q must be one of text, json, yaml", ErrInvalidInput, cfg.Format)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("%w: log level %q must be one of debug, info, warn, error", ErrInvalidInput, cfg.LogLevel)
	}

	return cfg, nil
}

// parseInt accepts decimal, 0x hex, 0o octal and 0b binary integers.
func parseInt(key, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidInput, key)
	}
	n, err := strconv.ParseInt(raw, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %w", ErrInvalidInput, key, raw, err)
	}
	return int(n), nil
}

func parseDuration(key, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrInvalidInput, key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative", ErrInvalidInput, key)
	}
	return d, nil
}

func bindEnv(v *viper.Viper, key string, names ...string) {
	args := append([]string{key}, names...)
	_ = v.BindEnv(args...)
}
