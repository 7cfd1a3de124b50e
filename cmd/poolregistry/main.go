package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "poolregistry",
		Short:        "Liquidity pool registry API",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pool HTTP API",
		RunE:  runServe,
	}

	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().Duration("shutdown-timeout", 10*time.Second, "graceful shutdown timeout")
	serveCmd.Flags().String("rpc", "", "BSC RPC URL")
	serveCmd.Flags().StringSlice("quote-tokens", nil, "quote token addresses skipped when picking a pool's token (comma-separated)")
	serveCmd.Flags().Duration("resolver-timeout", 10*time.Second, "timeout for one pool resolution")
	serveCmd.Flags().Int("rpc-max-retries", 3, "maximum retry attempts per eth_call")
	serveCmd.Flags().Duration("rpc-retry-backoff", 500*time.Millisecond, "initial retry backoff")
	serveCmd.Flags().String("store", "postgres", "record store (postgres, memory)")
	serveCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	serveCmd.Flags().String("redis-addr", "", "Redis address for the resolution cache (empty uses in-process cache)")
	serveCmd.Flags().String("redis-password", "", "Redis password")
	serveCmd.Flags().Int("redis-db", 0, "Redis database")
	serveCmd.Flags().Duration("cache-ttl", 10*time.Minute, "resolution cache TTL")
	serveCmd.Flags().Int("page-limit-default", 10, "default listing page size")
	serveCmd.Flags().Int("page-default", 0, "default listing page")
	serveCmd.Flags().Int("page-limit-max", 100, "maximum listing page size")
	serveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(serveCmd)

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply Postgres schema migrations",
		RunE:  runMigrate,
	}

	migrateCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	migrateCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(migrateCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
