package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Store backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// DefaultQuoteTokens are the BSC quote assets skipped when picking a pool's token:
// WBNB, USDT, BUSD and USDC.
var DefaultQuoteTokens = []string{
	"0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c",
	"0x55d398326f99059fF775485246999027B3197955",
	"0xe9e7CEA3DedcA5984780Bafc599bD69ADd087D56",
	"0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d",
}

// Pagination holds listing defaults.
type Pagination struct {
	DefaultLimit int
	DefaultPage  int
	MaxLimit     int
}

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	Listen          string
	ShutdownTimeout time.Duration

	RPCURL          string
	QuoteTokens     []string
	ResolverTimeout time.Duration
	MaxRetries      int
	RetryBackoff    time.Duration

	Store string
	PGDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	Pagination Pagination
	LogLevel   string
}

// Load merges .env, config file, environment variables, and flags into Config.
// Variables already present in the environment win over .env entries.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("POOLREGISTRY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen", ":8080")
	v.SetDefault("shutdown-timeout", 10*time.Second)
	v.SetDefault("store", StorePostgres)
	v.SetDefault("redis-db", 0)
	v.SetDefault("cache-ttl", 10*time.Minute)
	v.SetDefault("quote-tokens", DefaultQuoteTokens)
	v.SetDefault("resolver-timeout", 10*time.Second)
	v.SetDefault("rpc-max-retries", 3)
	v.SetDefault("rpc-retry-backoff", 500*time.Millisecond)
	v.SetDefault("page-limit-default", 10)
	v.SetDefault("page-default", 0)
	v.SetDefault("page-limit-max", 100)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		Listen:          v.GetString("listen"),
		ShutdownTimeout: v.GetDuration("shutdown-timeout"),
		RPCURL:          v.GetString("rpc"),
		QuoteTokens:     getStringSlice(v, "quote-tokens"),
		ResolverTimeout: v.GetDuration("resolver-timeout"),
		MaxRetries:      v.GetInt("rpc-max-retries"),
		RetryBackoff:    v.GetDuration("rpc-retry-backoff"),
		Store:           strings.ToLower(strings.TrimSpace(v.GetString("store"))),
		PGDSN:           v.GetString("pg-dsn"),
		RedisAddr:       v.GetString("redis-addr"),
		RedisPassword:   v.GetString("redis-password"),
		RedisDB:         v.GetInt("redis-db"),
		CacheTTL:        v.GetDuration("cache-ttl"),
		Pagination: Pagination{
			DefaultLimit: v.GetInt("page-limit-default"),
			DefaultPage:  v.GetInt("page-default"),
			MaxLimit:     v.GetInt("page-limit-max"),
		},
		LogLevel: v.GetString("log-level"),
	}

	return cfg, nil
}

// Validate checks the settings the server needs to start.
func (c Config) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	switch c.Store {
	case StorePostgres:
		if c.PGDSN == "" {
			return fmt.Errorf("pg dsn is required for store %q", c.Store)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	p := c.Pagination
	if p.MaxLimit <= 0 {
		return fmt.Errorf("page-limit-max must be positive")
	}
	if p.DefaultLimit <= 0 || p.DefaultLimit > p.MaxLimit {
		return fmt.Errorf("page-limit-default must be between 1 and %d", p.MaxLimit)
	}
	if p.DefaultPage < 0 {
		return fmt.Errorf("page-default must not be negative")
	}
	return nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	return cleanStrings(strings.Split(input, ","))
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
