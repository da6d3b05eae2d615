package entity

import (
	"fmt"
	"math/big"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TokenBalance is one normalized fungible balance. RawBalance is exact; UIAmount is only a
// display projection derived from it.
type TokenBalance struct {
	Identity   TokenIdentity
	Symbol     string
	Name       string
	Decimals   uint8
	Chain      ChainID
	Verified   bool
	RawBalance *big.Int
	UIAmount   float64
}

type tokenBalanceWire struct {
	Token    TokenMeta `json:"token"`
	Balance  string    `json:"balance"`
	UIAmount float64   `json:"uiAmount"`
}

// MarshalJSON renders the balance as decimal integer text so no precision is lost.
func (b TokenBalance) MarshalJSON() ([]byte, error) {
	raw := "0"
	if b.RawBalance != nil {
		raw = b.RawBalance.String()
	}
	return json.Marshal(tokenBalanceWire{
		Token: TokenMeta{
			Symbol:   b.Symbol,
			Name:     b.Name,
			Decimals: b.Decimals,
			Address:  string(b.Identity),
			Chain:    b.Chain,
			Verified: b.Verified,
		},
		Balance:  raw,
		UIAmount: b.UIAmount,
	})
}

// UnmarshalJSON parses the wire form back, rejecting balances that are not decimal integers.
func (b *TokenBalance) UnmarshalJSON(data []byte) error {
	var w tokenBalanceWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	raw, ok := new(big.Int).SetString(w.Balance, 10)
	if !ok {
		return fmt.Errorf("invalid balance %q", w.Balance)
	}
	*b = TokenBalance{
		Identity:   TokenIdentity(w.Token.Address),
		Symbol:     w.Token.Symbol,
		Name:       w.Token.Name,
		Decimals:   w.Token.Decimals,
		Chain:      w.Token.Chain,
		Verified:   w.Token.Verified,
		RawBalance: raw,
		UIAmount:   w.UIAmount,
	}
	return nil
}
