package entity

// TokenIdentity is the canonical per-chain key of a fungible asset and the aggregation merge key.
type TokenIdentity string

// UnknownTokenLabel is used as symbol and name when nothing better can be derived.
const UnknownTokenLabel = "UNKNOWN"

// TokenInfo holds the configured details of a specific token (used where a chain cannot
// describe its tokens on its own, e.g. ERC20 contracts).
type TokenInfo struct {
	Chain    ChainID `json:"chain" yaml:"chain"`
	Address  string  `json:"address" yaml:"address"`
	Name     string  `json:"name" yaml:"name"`
	Symbol   string  `json:"symbol" yaml:"symbol"`
	Decimals *uint8  `json:"decimals,omitempty" yaml:"decimals,omitempty"`
}

// TokenMeta is the token descriptor of a balance on the wire.
type TokenMeta struct {
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name"`
	Decimals uint8   `json:"decimals"`
	Address  string  `json:"address"`
	Chain    ChainID `json:"chain"`
	Verified bool    `json:"verified"`
}
