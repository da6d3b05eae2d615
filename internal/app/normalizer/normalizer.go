package normalizer

import (
	"math/big"

	"asset_gateway/internal/app/port"
	"asset_gateway/internal/domain/entity"
	"asset_gateway/internal/pkg/utils"
)

// Result is the normalized content of one upstream response.
type Result struct {
	// Fungibles holds native and token balances in arrival order, not yet merged.
	Fungibles []entity.TokenBalance
	// Nfts is nil unless NFTs were requested; duplicates by id are dropped.
	Nfts []entity.NftItem
	// Skipped counts records that matched no known shape.
	Skipped int
	// OmittedNfts counts NFT records dropped because NFTs were not requested.
	OmittedNfts int
}

// Normalize classifies every record with the chain's classifier. Malformed records are
// counted and dropped; they never fail the whole response.
func Normalize(records []entity.RawRecord, classifier port.RecordClassifier, includeNfts bool) Result {
	res := Result{Fungibles: make([]entity.TokenBalance, 0, len(records))}
	var seenNfts map[string]struct{}
	if includeNfts {
		res.Nfts = []entity.NftItem{}
		seenNfts = make(map[string]struct{})
	}

	for _, record := range records {
		c := classifier.Classify(record, true)
		switch c.Kind {
		case port.ClassNativeCoin, port.ClassFungibleToken:
			res.Fungibles = append(res.Fungibles, c.Balance)
		case port.ClassNonFungible:
			if !includeNfts {
				res.OmittedNfts++
				continue
			}
			if _, dup := seenNfts[c.Nft.ID]; dup {
				continue
			}
			seenNfts[c.Nft.ID] = struct{}{}
			res.Nfts = append(res.Nfts, c.Nft)
		default:
			res.Skipped++
		}
	}
	return res
}

// nativeBalance builds the always-verified balance of the chain's native asset.
func nativeBalance(def entity.NetworkDefinition, raw *big.Int) entity.TokenBalance {
	return entity.TokenBalance{
		Identity:   def.NativeIdentity,
		Symbol:     def.NativeSymbol,
		Name:       def.NativeName,
		Decimals:   def.NativeDecimals,
		Chain:      def.ID,
		Verified:   true,
		RawBalance: raw,
		UIAmount:   utils.ToUIAmount(raw, def.NativeDecimals),
	}
}
