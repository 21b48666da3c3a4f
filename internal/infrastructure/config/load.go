package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"donationflow/internal/domain/model"
)

var ErrInvalidConfig = errors.New("invalid config")

// Load reads the YAML file at path (skipped when path is empty), applies
// .env files and environment overrides, then fills defaults and validates.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env", ".env.local"); err != nil {
		return nil, err
	}

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if err := parseDurations(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.Donation.EVMAddress = model.NormalizeAddress(model.ChainEVM, cfg.Donation.EVMAddress)

	return &cfg, nil
}

// loadDotEnv loads each file that exists. Variables already set in the
// environment win.
func loadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	// PostgreSQL
	if v := os.Getenv("POSTGRES_HOST"); v != "" {
		cfg.PostgreSQL.Host = v
	}
	if v := os.Getenv("POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.PostgreSQL.Port = port
		}
	}
	if v := os.Getenv("POSTGRES_USER"); v != "" {
		cfg.PostgreSQL.User = v
	}
	if v := os.Getenv("POSTGRES_PASSWORD"); v != "" {
		cfg.PostgreSQL.Password = v
	}
	if v := os.Getenv("POSTGRES_DB"); v != "" {
		cfg.PostgreSQL.Database = v
	}

	// Redis
	if v := os.Getenv("REDIS_HOST"); v != "" {
		cfg.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Redis.Port = port
		}
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}

	// Price feeds
	if v := os.Getenv("JUPITER_BASE_URL"); v != "" {
		cfg.PriceFeed.JupiterBaseURL = v
	}
	if v := os.Getenv("COINGECKO_BASE_URL"); v != "" {
		cfg.PriceFeed.CoinGeckoBaseURL = v
	}

	// Donation addresses
	if v := os.Getenv("SOLANA_DONATION_ADDRESS"); v != "" {
		cfg.Donation.SolanaAddress = v
	}
	if v := os.Getenv("EVM_DONATION_ADDRESS"); v != "" {
		cfg.Donation.EVMAddress = v
	}

	// Server
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func applyDefaults(cfg *Config) {
	setString := func(dst *string, def string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = def
		}
	}
	setInt := func(dst *int, def int) {
		if *dst == 0 {
			*dst = def
		}
	}

	setInt(&cfg.Server.Port, 8080)
	setString(&cfg.Server.ReadTimeoutStr, "10s")
	setString(&cfg.Server.WriteTimeoutStr, "10s")
	setString(&cfg.Server.ShutdownTimeoutStr, "30s")

	setString(&cfg.PostgreSQL.Host, "localhost")
	setInt(&cfg.PostgreSQL.Port, 5432)
	setString(&cfg.PostgreSQL.User, "postgres")
	setString(&cfg.PostgreSQL.Database, "donationflow")
	setString(&cfg.PostgreSQL.SSLMode, "disable")
	setInt(&cfg.PostgreSQL.MaxOpenConns, 10)
	setInt(&cfg.PostgreSQL.MaxIdleConns, 5)
	setString(&cfg.PostgreSQL.ConnMaxLifetimeStr, "5m")

	setString(&cfg.Redis.Host, "localhost")
	setInt(&cfg.Redis.Port, 6379)

	// Empty feed base URLs select the feeds' public endpoints.
	setString(&cfg.PriceFeed.TimeoutStr, "5s")

	setString(&cfg.Donation.SolanaAddress, model.DefaultSolanaAddress)
	setString(&cfg.Donation.EVMAddress, model.DefaultEVMAddress)
	setString(&cfg.Donation.IdempotencyTTLStr, "24h")
	if len(cfg.Donation.PresetAmounts) == 0 {
		cfg.Donation.PresetAmounts = append([]float64(nil), model.DefaultPresetAmounts...)
	}

	setString(&cfg.Mode, model.LiveMode.String())
	if len(cfg.TestPrices.Prices) == 0 {
		cfg.TestPrices.Prices = map[string]float64{
			model.SOLMint:   150,
			"ethereum":      3000,
			"matic-network": 0.5,
		}
	}

	if cfg.RateLimit.RequestsPerMinute == 0 {
		cfg.RateLimit.RequestsPerMinute = 120
	}
	setInt(&cfg.RateLimit.Burst, 20)

	setString(&cfg.Logging.Level, "info")
	setString(&cfg.Logging.Format, "json")
}

func parseDurations(cfg *Config) error {
	var err error
	if cfg.Server.ReadTimeout, err = parseDuration("server.read_timeout", cfg.Server.ReadTimeoutStr); err != nil {
		return err
	}
	if cfg.Server.WriteTimeout, err = parseDuration("server.write_timeout", cfg.Server.WriteTimeoutStr); err != nil {
		return err
	}
	if cfg.Server.ShutdownTimeout, err = parseDuration("server.shutdown_timeout", cfg.Server.ShutdownTimeoutStr); err != nil {
		return err
	}
	if cfg.PostgreSQL.ConnMaxLifetime, err = parseDuration("postgresql.conn_max_lifetime", cfg.PostgreSQL.ConnMaxLifetimeStr); err != nil {
		return err
	}
	if cfg.PriceFeed.Timeout, err = parseDuration("price_feed.timeout", cfg.PriceFeed.TimeoutStr); err != nil {
		return err
	}
	if cfg.Donation.IdempotencyTTL, err = parseDuration("donation.idempotency_ttl", cfg.Donation.IdempotencyTTLStr); err != nil {
		return err
	}
	return nil
}

func parseDuration(field, v string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, field)
	}
	return d, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if _, err := c.DataMode(); err != nil {
		return err
	}
	if err := model.ValidateAddress(model.ChainSolana, c.Donation.SolanaAddress); err != nil {
		return fmt.Errorf("%w: donation.solana_address: %v", ErrInvalidConfig, err)
	}
	if err := model.ValidateAddress(model.ChainEVM, c.Donation.EVMAddress); err != nil {
		return fmt.Errorf("%w: donation.evm_address: %v", ErrInvalidConfig, err)
	}
	for _, amount := range c.Donation.PresetAmounts {
		if !(amount > 0) {
			return fmt.Errorf("%w: donation.preset_amounts must be positive", ErrInvalidConfig)
		}
	}
	if c.TestPrices.Jitter < 0 || c.TestPrices.Jitter >= 1 {
		return fmt.Errorf("%w: test_prices.jitter must be in [0, 1)", ErrInvalidConfig)
	}
	if c.RateLimit.RequestsPerMinute < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("%w: rate_limit must not be negative", ErrInvalidConfig)
	}
	return nil
}

// DataMode parses the startup mode.
func (c *Config) DataMode() (model.DataMode, error) {
	switch strings.ToLower(strings.TrimSpace(c.Mode)) {
	case "", "live":
		return model.LiveMode, nil
	case "test":
		return model.TestMode, nil
	default:
		return model.LiveMode, fmt.Errorf("%w: mode %q must be live or test", ErrInvalidConfig, c.Mode)
	}
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host, c.PostgreSQL.Port, c.PostgreSQL.User,
		c.PostgreSQL.Password, c.PostgreSQL.Database, c.PostgreSQL.SSLMode,
	)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
