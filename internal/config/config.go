package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Trading  TradingConfig
	Binance  BinanceConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Metrics  MetricsConfig
	Logging  LoggingConfig
}

// TradingConfig defines the arbitrage strategy settings.
type TradingConfig struct {
	Venue string `mapstructure:"venue"`
	// FiatSymbol is the settlement asset closing every triangle, e.g. USDT.
	FiatSymbol string `mapstructure:"fiat_symbol"`
	// ProfitThreshold is the minimum net round-trip return, as a fraction.
	ProfitThreshold float64 `mapstructure:"profit_threshold"`
	// TransactionFees is the per-leg fee fraction, applied three times per cycle.
	TransactionFees float64 `mapstructure:"transaction_fees"`
	// MaxFiatPerAttempt caps the settlement amount deployed per attempt
	// regardless of computed liquidity.
	MaxFiatPerAttempt float64 `mapstructure:"max_fiat_per_attempt"`
	// DryRun simulates order placement instead of submitting to the venue.
	DryRun bool `mapstructure:"dry_run"`
}

// BinanceConfig defines connectivity and credentials for the venue.
type BinanceConfig struct {
	APIKey    string `mapstructure:"api_key"`
	SecretKey string `mapstructure:"secret_key"`
	RestURL   string `mapstructure:"rest_url"`
	WsURL     string `mapstructure:"ws_url"`
}

// DatabaseConfig defines the optional Postgres journal connection.
type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// DSN returns the pgx connection string for the configured database.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s", c.User, c.Password, c.Host, c.Port, c.DBName)
}

// RedisConfig defines the optional Redis Stream notification feed.
type RedisConfig struct {
	Enabled bool
	Addr    string
	DB      int
	Stream  string
}

// MetricsConfig defines the Prometheus endpoint. Empty Addr disables it.
type MetricsConfig struct {
	Addr string
}

// LoggingConfig defines the slog level.
type LoggingConfig struct {
	Level string
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("trading.venue", "binance")
	viper.SetDefault("trading.max_fiat_per_attempt", 30.0)
	viper.SetDefault("binance.rest_url", "https://api.binance.com")
	viper.SetDefault("binance.ws_url", "wss://stream.binance.com:9443")
	viper.SetDefault("redis.stream", "triarb:events")
	viper.SetDefault("logging.level", "info")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
