package model

import "time"

// Pool is a liquidity pool record enriched with its resolved token identity.
type Pool struct {
	ID        string    `json:"id"`
	Address   string    `json:"address"`
	Token     string    `json:"token"`
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name,omitempty"`
	Dex       string    `json:"dex,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PoolInput is the client-writable subset of a pool.
// Token and Symbol are decoded but never trusted; enrichment overwrites them.
type PoolInput struct {
	ID      string `json:"id,omitempty"`
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
	Dex     string `json:"dex,omitempty"`
	Token   string `json:"token,omitempty"`
	Symbol  string `json:"symbol,omitempty"`
}

// ToPool copies the writable fields into a new record.
func (in PoolInput) ToPool() *Pool {
	return &Pool{
		ID:      in.ID,
		Address: in.Address,
		Name:    in.Name,
		Dex:     in.Dex,
		Token:   in.Token,
		Symbol:  in.Symbol,
	}
}

// PoolFilter selects pools by exact field match. Empty fields are ignored.
type PoolFilter struct {
	Address string `json:"address,omitempty"`
	Token   string `json:"token,omitempty"`
	Symbol  string `json:"symbol,omitempty"`
	Dex     string `json:"dex,omitempty"`
}

// Matches reports whether p satisfies every non-empty filter field.
func (f PoolFilter) Matches(p *Pool) bool {
	if p == nil {
		return false
	}
	if f.Address != "" && f.Address != p.Address {
		return false
	}
	if f.Token != "" && f.Token != p.Token {
		return false
	}
	if f.Symbol != "" && f.Symbol != p.Symbol {
		return false
	}
	if f.Dex != "" && f.Dex != p.Dex {
		return false
	}
	return true
}
