package config

import "time"

type Config struct {
	Server struct {
		Port               int    `yaml:"port"`
		ReadTimeoutStr     string `yaml:"read_timeout"`
		WriteTimeoutStr    string `yaml:"write_timeout"`
		ShutdownTimeoutStr string `yaml:"shutdown_timeout"`

		ReadTimeout     time.Duration `yaml:"-"`
		WriteTimeout    time.Duration `yaml:"-"`
		ShutdownTimeout time.Duration `yaml:"-"`
	} `yaml:"server"`

	PostgreSQL struct {
		Host               string `yaml:"host"`
		Port               int    `yaml:"port"`
		User               string `yaml:"user"`
		Password           string `yaml:"password"`
		Database           string `yaml:"database"`
		SSLMode            string `yaml:"sslmode"`
		MaxOpenConns       int    `yaml:"max_open_conns"`
		MaxIdleConns       int    `yaml:"max_idle_conns"`
		ConnMaxLifetimeStr string `yaml:"conn_max_lifetime"`

		ConnMaxLifetime time.Duration `yaml:"-"`
	} `yaml:"postgresql"`

	Redis struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	PriceFeed struct {
		JupiterBaseURL   string `yaml:"jupiter_base_url"`
		CoinGeckoBaseURL string `yaml:"coingecko_base_url"`
		TimeoutStr       string `yaml:"timeout"`

		Timeout time.Duration `yaml:"-"`
	} `yaml:"price_feed"`

	Donation struct {
		SolanaAddress     string    `yaml:"solana_address"`
		EVMAddress        string    `yaml:"evm_address"`
		PresetAmounts     []float64 `yaml:"preset_amounts"`
		IdempotencyTTLStr string    `yaml:"idempotency_ttl"`

		IdempotencyTTL time.Duration `yaml:"-"`
	} `yaml:"donation"`

	// Mode is "live" or "test" at startup.
	Mode string `yaml:"mode"`

	TestPrices struct {
		Prices map[string]float64 `yaml:"prices"`
		Jitter float64            `yaml:"jitter"`
	} `yaml:"test_prices"`

	RateLimit struct {
		Enabled           bool    `yaml:"enabled"`
		RequestsPerMinute float64 `yaml:"requests_per_minute"`
		Burst             int     `yaml:"burst"`
		TrustProxyHeaders bool    `yaml:"trust_proxy_headers"`
	} `yaml:"rate_limit"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}
