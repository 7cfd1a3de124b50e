package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"poolRegistry/internal/api"
	"poolRegistry/internal/chain"
	"poolRegistry/internal/config"
	"poolRegistry/internal/observability"
	"poolRegistry/internal/pool"
	"poolRegistry/internal/resolver"
	"poolRegistry/internal/storage"
	"poolRegistry/internal/storage/memory"
	"poolRegistry/internal/storage/postgres"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		return err
	}

	quoteTokens, err := chain.ParseAddresses(cfg.QuoteTokens)
	if err != nil {
		return fmt.Errorf("parse quote tokens: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, chain.Config{
		RPCURL:       cfg.RPCURL,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, logger)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	chainID, err := chainClient.GetChainID(ctx)
	if err != nil {
		return fmt.Errorf("get chain id: %w", err)
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	cache, closeCache, err := openCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	metrics := observability.NewMetrics("")

	var res resolver.Resolver = resolver.NewChainResolver(chainClient, resolver.ChainConfig{
		QuoteTokens: quoteTokens,
		Timeout:     cfg.ResolverTimeout,
	}, logger)
	res = metrics.InstrumentResolver(res)
	res = resolver.NewCachedResolver(res, cache, metrics, logger)

	svc := pool.NewService(store, pool.NewEnricher(res, logger), pool.Config{
		DefaultLimit: cfg.Pagination.DefaultLimit,
		DefaultPage:  cfg.Pagination.DefaultPage,
		MaxLimit:     cfg.Pagination.MaxLimit,
	}, logger)

	srv := &http.Server{
		Addr: cfg.Listen,
		Handler: api.NewRouter(api.Options{
			Service:  svc,
			Logger:   logger,
			Metrics:  metrics.Handler(),
			Observer: metrics,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.ResolverTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("server start",
		zap.String("listen", cfg.Listen),
		zap.String("rpc", cfg.RPCURL),
		zap.String("chain_id", chainID.String()),
		zap.String("store", cfg.Store),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.Bool("redis_cache", cfg.RedisAddr != ""),
		zap.Int("quote_tokens", len(quoteTokens)),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func openStore(ctx context.Context, cfg config.Config) (storage.PoolStore, func(), error) {
	switch cfg.Store {
	case config.StoreMemory:
		return memory.NewStore(), func() {}, nil
	default:
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return store, store.Close, nil
	}
}

func openCache(ctx context.Context, cfg config.Config) (resolver.Cache, func(), error) {
	if cfg.RedisAddr == "" {
		return resolver.NewMemoryCache(cfg.CacheTTL), func() {}, nil
	}
	cache, err := resolver.NewRedisCache(ctx, resolver.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.CacheTTL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	return cache, func() { _ = cache.Close() }, nil
}
