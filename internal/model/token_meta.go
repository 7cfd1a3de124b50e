package model

// TokenMeta captures ERC20 metadata.
type TokenMeta struct {
	Address  string `json:"address"`
	Decimals uint8  `json:"decimals"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
}

// PoolTokens holds the two sides of a pool contract.
type PoolTokens struct {
	Token0 string `json:"token0"`
	Token1 string `json:"token1"`
}

// Resolution is the token identity resolved for a pool address.
type Resolution struct {
	Pool  string    `json:"pool"`
	Token TokenMeta `json:"token"`
}
