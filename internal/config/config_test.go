package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, Pagination{DefaultLimit: 10, DefaultPage: 0, MaxLimit: 100}, cfg.Pagination)
	assert.Equal(t, DefaultQuoteTokens, cfg.QuoteTokens)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EnvAndFlags(t *testing.T) {
	chdirTemp(t)
	t.Setenv("POOLREGISTRY_RPC", "https://bsc.example")
	t.Setenv("POOLREGISTRY_PAGE_LIMIT_DEFAULT", "25")
	t.Setenv("POOLREGISTRY_QUOTE_TOKENS", " 0xaaa, ,0xbbb ")
	t.Setenv("POOLREGISTRY_STORE", "Memory")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("listen", ":8080", "")
	require.NoError(t, flags.Parse([]string{"--listen", "127.0.0.1:9000"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, "https://bsc.example", cfg.RPCURL)
	assert.Equal(t, 25, cfg.Pagination.DefaultLimit)
	assert.Equal(t, []string{"0xaaa", "0xbbb"}, cfg.QuoteTokens)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, "127.0.0.1:9000", cfg.Listen)
	require.NoError(t, cfg.Validate())
}

func TestLoad_ConfigFileAndDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("POOLREGISTRY_REDIS_ADDR=localhost:6379\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("POOLREGISTRY_REDIS_ADDR") })

	cfgPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("rpc: https://rpc.example\npg-dsn: postgres://u:p@db/pools\ncache-ttl: 30s\n"), 0o600))

	cfg, err := Load(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://rpc.example", cfg.RPCURL)
	assert.Equal(t, "postgres://u:p@db/pools", cfg.PGDSN)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingConfigFile(t *testing.T) {
	chdirTemp(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{
		RPCURL:     "https://rpc.example",
		Store:      StoreMemory,
		Pagination: Pagination{DefaultLimit: 10, MaxLimit: 100},
	}
	require.NoError(t, base.Validate())

	cases := map[string]func(c *Config){
		"missing rpc":        func(c *Config) { c.RPCURL = "" },
		"postgres no dsn":    func(c *Config) { c.Store = StorePostgres },
		"unknown store":      func(c *Config) { c.Store = "mongo" },
		"limit over max":     func(c *Config) { c.Pagination.DefaultLimit = 500 },
		"zero max":           func(c *Config) { c.Pagination.MaxLimit = 0 },
		"negative page":      func(c *Config) { c.Pagination.DefaultPage = -1 },
		"zero default limit": func(c *Config) { c.Pagination.DefaultLimit = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
