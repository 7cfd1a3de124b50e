package dex

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"poolRegistry/internal/model"
)

// Caller performs read-only contract calls. *chain.Client satisfies it.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// TokenMetaCache caches token metadata by address.
type TokenMetaCache struct {
	mu   sync.RWMutex
	data map[common.Address]model.TokenMeta
}

func NewTokenMetaCache() *TokenMetaCache {
	return &TokenMetaCache{data: make(map[common.Address]model.TokenMeta)}
}

func (c *TokenMetaCache) Get(address common.Address) (model.TokenMeta, bool) {
	c.mu.RLock()
	meta, ok := c.data[address]
	c.mu.RUnlock()
	return meta, ok
}

func (c *TokenMetaCache) Set(address common.Address, meta model.TokenMeta) {
	c.mu.Lock()
	c.data[address] = meta
	c.mu.Unlock()
}

// FetchPoolTokens reads token0 and token1 from a pool contract.
func FetchPoolTokens(ctx context.Context, caller Caller, pool common.Address) (model.PoolTokens, error) {
	if caller == nil {
		return model.PoolTokens{}, fmt.Errorf("chain client is nil")
	}
	parsed, err := PoolABI()
	if err != nil {
		return model.PoolTokens{}, fmt.Errorf("parse pool abi: %w", err)
	}

	token0, err := callAddress(ctx, caller, pool, parsed, "token0")
	if err != nil {
		return model.PoolTokens{}, err
	}
	token1, err := callAddress(ctx, caller, pool, parsed, "token1")
	if err != nil {
		return model.PoolTokens{}, err
	}
	if token0 == (common.Address{}) && token1 == (common.Address{}) {
		return model.PoolTokens{}, fmt.Errorf("pool %s has no tokens", pool.Hex())
	}

	return model.PoolTokens{Token0: token0.Hex(), Token1: token1.Hex()}, nil
}

// FetchTokenMeta loads token metadata via ERC20 calls. Decimals and symbol are
// required; name is best effort.
func FetchTokenMeta(ctx context.Context, caller Caller, token common.Address, logger *zap.Logger) (model.TokenMeta, error) {
	meta := model.TokenMeta{Address: token.Hex()}
	if caller == nil {
		return meta, fmt.Errorf("chain client is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	stringABI, err := ERC20StringABI()
	if err != nil {
		return meta, fmt.Errorf("parse erc20 string abi: %w", err)
	}
	bytes32ABI, err := ERC20Bytes32ABI()
	if err != nil {
		return meta, fmt.Errorf("parse erc20 bytes32 abi: %w", err)
	}

	values, err := call(ctx, caller, token, stringABI, "decimals")
	if err != nil {
		return meta, err
	}
	decimals, err := asUint8(values[0])
	if err != nil {
		return meta, fmt.Errorf("decimals: %w", err)
	}
	meta.Decimals = decimals

	symbol, err := callText(ctx, caller, token, stringABI, bytes32ABI, "symbol", logger)
	if err != nil {
		return meta, err
	}
	meta.Symbol = symbol

	if name, err := callText(ctx, caller, token, stringABI, bytes32ABI, "name", logger); err == nil {
		meta.Name = name
	} else {
		logger.Debug("name call failed", zap.String("token", token.Hex()), zap.Error(err))
	}

	return meta, nil
}

// callText reads a string getter, falling back to the bytes32 variant.
func callText(ctx context.Context, caller Caller, token common.Address, stringABI, bytes32ABI abi.ABI, method string, logger *zap.Logger) (string, error) {
	values, err := call(ctx, caller, token, stringABI, method)
	if err == nil {
		if text, ok := values[0].(string); ok {
			return text, nil
		}
	}
	logger.Debug("string getter failed, trying bytes32", zap.String("token", token.Hex()), zap.String("method", method), zap.Error(err))

	values, err = call(ctx, caller, token, bytes32ABI, method)
	if err != nil {
		return "", err
	}
	text, ok := bytes32ToString(values[0])
	if !ok {
		return "", fmt.Errorf("%s: unsupported type %T", method, values[0])
	}
	return text, nil
}

func callAddress(ctx context.Context, caller Caller, contract common.Address, parsed abi.ABI, method string) (common.Address, error) {
	values, err := call(ctx, caller, contract, parsed, method)
	if err != nil {
		return common.Address{}, err
	}
	addr, err := asAddress(values[0])
	if err != nil {
		return common.Address{}, fmt.Errorf("%s: %w", method, err)
	}
	return addr, nil
}

func call(ctx context.Context, caller Caller, contract common.Address, parsed abi.ABI, method string) ([]interface{}, error) {
	data, err := parsed.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &contract, Data: data}
	resp, err := caller.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("unpack %s: empty result", method)
	}
	return values, nil
}

func bytes32ToString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case [32]byte:
		return string(bytes.TrimRight(v[:], "\x00")), true
	case []byte:
		return string(bytes.TrimRight(v, "\x00")), true
	default:
		return "", false
	}
}

func asAddress(value interface{}) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case *common.Address:
		return *v, nil
	default:
		return common.Address{}, fmt.Errorf("unsupported address type %T", value)
	}
}

func asUint8(value interface{}) (uint8, error) {
	switch v := value.(type) {
	case uint8:
		return v, nil
	case *big.Int:
		return uint8(v.Uint64()), nil
	default:
		return 0, fmt.Errorf("unsupported uint8 type %T", value)
	}
}
