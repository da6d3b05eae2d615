package normalizer

import (
	"asset_gateway/internal/app/port"
	"asset_gateway/internal/domain/entity"
	"asset_gateway/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
)

// EVMClassifier classifies balance records of EVM chains. The native record carries the
// chain's native identity (the zero address) as its type; token records carry the contract.
type EVMClassifier struct {
	def entity.NetworkDefinition
}

var _ port.RecordClassifier = (*EVMClassifier)(nil)

func NewEVMClassifier(def entity.NetworkDefinition) *EVMClassifier {
	return &EVMClassifier{def: def}
}

// Classify implements port.RecordClassifier. EVM records never describe NFTs.
func (c *EVMClassifier) Classify(record entity.RawRecord, _ bool) port.Classified {
	if record.IsEmpty() || !common.IsHexAddress(record.Type) {
		return port.Classified{Kind: port.ClassSkip}
	}
	raw, ok := utils.ParseRawAmount(record.Balance)
	if !ok {
		return port.Classified{Kind: port.ClassSkip}
	}

	contract := common.HexToAddress(record.Type)
	if contract == common.HexToAddress(string(c.def.NativeIdentity)) {
		return port.Classified{Kind: port.ClassNativeCoin, Balance: nativeBalance(c.def, raw)}
	}

	decimals := c.def.DefaultTokenDecimals
	if record.Decimals != nil {
		decimals = *record.Decimals
	}
	symbol, name := record.Symbol, record.Name
	if symbol == "" {
		symbol = entity.UnknownTokenLabel
	}
	if name == "" {
		name = symbol
	}
	return port.Classified{
		Kind: port.ClassFungibleToken,
		Balance: entity.TokenBalance{
			Identity:   entity.TokenIdentity(contract.Hex()),
			Symbol:     symbol,
			Name:       name,
			Decimals:   decimals,
			Chain:      c.def.ID,
			RawBalance: raw,
			UIAmount:   utils.ToUIAmount(raw, decimals),
		},
	}
}
