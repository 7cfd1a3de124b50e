package pool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"poolRegistry/internal/model"
	"poolRegistry/internal/resolver"
)

// Enricher attaches resolved token identity to a pool.
type Enricher struct {
	resolver  resolver.Resolver
	normalize func(string) string
	logger    *zap.Logger
}

// NewEnricher builds an Enricher that normalizes symbols with resolver.NormalizeSymbol.
func NewEnricher(r resolver.Resolver, logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{resolver: r, normalize: resolver.NormalizeSymbol, logger: logger}
}

// Enrich resolves p.Address and overwrites p.Token and p.Symbol in place.
// Both are cleared before the lookup, so they are empty after a failure.
// On success p.Address takes the resolver's canonical form of the address.
func (e *Enricher) Enrich(ctx context.Context, p *model.Pool) error {
	if p == nil {
		return fmt.Errorf("%w: pool is required", ErrInvalidInput)
	}
	p.Address = strings.TrimSpace(p.Address)
	if p.Address == "" {
		return fmt.Errorf("%w: pool address is required", ErrInvalidInput)
	}
	p.Token = ""
	p.Symbol = ""

	res, err := e.resolver.Resolve(ctx, p.Address)
	if err != nil {
		if errors.Is(err, resolver.ErrInvalidAddress) {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		e.logger.Warn("pool resolve failed", zap.String("address", p.Address), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrResolverFailure, err)
	}
	if res.Token.Address == "" {
		return fmt.Errorf("%w: no token resolved for %s", ErrResolverFailure, p.Address)
	}

	if res.Pool != "" {
		p.Address = res.Pool
	}
	p.Token = res.Token.Address
	p.Symbol = e.normalize(res.Token.Symbol)
	return nil
}
