package resolver

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"poolRegistry/internal/chain"
	"poolRegistry/internal/dex"
	"poolRegistry/internal/model"
)

// ChainConfig controls on-chain resolution.
type ChainConfig struct {
	// QuoteTokens are skipped when choosing the pool's token, so a
	// TOKEN/WBNB pool resolves to TOKEN.
	QuoteTokens []common.Address
	Timeout     time.Duration
}

// ChainResolver resolves pools by reading token0/token1 and ERC20 metadata.
type ChainResolver struct {
	caller     dex.Caller
	quotes     map[common.Address]struct{}
	timeout    time.Duration
	tokenCache *dex.TokenMetaCache
	logger     *zap.Logger
}

// NewChainResolver builds a ChainResolver over a contract caller.
func NewChainResolver(caller dex.Caller, cfg ChainConfig, logger *zap.Logger) *ChainResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	quotes := make(map[common.Address]struct{}, len(cfg.QuoteTokens))
	for _, q := range cfg.QuoteTokens {
		quotes[q] = struct{}{}
	}
	return &ChainResolver{
		caller:     caller,
		quotes:     quotes,
		timeout:    cfg.Timeout,
		tokenCache: dex.NewTokenMetaCache(),
		logger:     logger,
	}
}

var _ Resolver = (*ChainResolver)(nil)

// Resolve returns the pool's non-quote token with its raw symbol.
func (r *ChainResolver) Resolve(ctx context.Context, address string) (model.Resolution, error) {
	pool, err := chain.ParseAddress(address)
	if err != nil {
		return model.Resolution{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	tokens, err := dex.FetchPoolTokens(ctx, r.caller, pool)
	if err != nil {
		return model.Resolution{}, fmt.Errorf("pool tokens %s: %w", pool.Hex(), err)
	}
	token := r.pickToken(tokens)

	meta, ok := r.tokenCache.Get(token)
	if !ok {
		meta, err = dex.FetchTokenMeta(ctx, r.caller, token, r.logger)
		if err != nil {
			return model.Resolution{}, fmt.Errorf("token meta %s: %w", token.Hex(), err)
		}
		r.tokenCache.Set(token, meta)
	}

	r.logger.Debug("pool resolved",
		zap.String("pool", pool.Hex()),
		zap.String("token", meta.Address),
		zap.String("symbol", meta.Symbol),
	)

	return model.Resolution{Pool: pool.Hex(), Token: meta}, nil
}

// pickToken prefers token0 unless it is a quote token and token1 is not.
func (r *ChainResolver) pickToken(tokens model.PoolTokens) common.Address {
	token0 := common.HexToAddress(tokens.Token0)
	token1 := common.HexToAddress(tokens.Token1)
	_, quote0 := r.quotes[token0]
	_, quote1 := r.quotes[token1]
	if quote0 && !quote1 {
		return token1
	}
	return token0
}
