package aggregator

import (
	"math/big"

	"asset_gateway/internal/domain/entity"
	"asset_gateway/internal/pkg/utils"
)

// Aggregate merges balances that share a TokenIdentity. The output keeps the order in which
// each identity was first seen; raw balances are summed exactly and the display amount is
// recomputed from the accumulated raw value. Inputs are not modified.
func Aggregate(balances []entity.TokenBalance) []entity.TokenBalance {
	out := make([]entity.TokenBalance, 0, len(balances))
	index := make(map[entity.TokenIdentity]int, len(balances))

	for _, b := range balances {
		raw := new(big.Int)
		if b.RawBalance != nil {
			raw.Set(b.RawBalance)
		}

		i, seen := index[b.Identity]
		if !seen {
			b.RawBalance = raw
			b.UIAmount = utils.ToUIAmount(raw, b.Decimals)
			index[b.Identity] = len(out)
			out = append(out, b)
			continue
		}

		merged := &out[i]
		merged.RawBalance.Add(merged.RawBalance, raw)
		merged.UIAmount = utils.ToUIAmount(merged.RawBalance, merged.Decimals)
	}
	return out
}
