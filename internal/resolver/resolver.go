package resolver

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"poolRegistry/internal/model"
)

// ErrInvalidAddress is returned when the pool address is not a hex address.
var ErrInvalidAddress = errors.New("invalid pool address")

// Resolver maps a pool address to the identity of its token.
type Resolver interface {
	Resolve(ctx context.Context, address string) (model.Resolution, error)
}

// Func adapts a function to Resolver.
type Func func(ctx context.Context, address string) (model.Resolution, error)

func (f Func) Resolve(ctx context.Context, address string) (model.Resolution, error) {
	return f(ctx, address)
}

// NormalizeSymbol turns a raw on-chain symbol into its display form:
// NUL padding and surrounding whitespace removed, upper-cased.
func NormalizeSymbol(raw string) string {
	trimmed := strings.TrimFunc(raw, func(r rune) bool {
		return r == 0 || unicode.IsSpace(r)
	})
	return strings.ToUpper(trimmed)
}
