package networkdefinition

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"asset_gateway/internal/app/port"
	"asset_gateway/internal/domain/entity"
	"asset_gateway/internal/infrastructure/configloader"
	"asset_gateway/internal/pkg/apperrors"

	"github.com/ethereum/go-ethereum/common"
)

var (
	suiAddressRe     = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
	aptosAddressRe   = regexp.MustCompile(`^0x[0-9a-fA-F]{1,64}$`)
	bitcoinAddressRe = regexp.MustCompile(`^(bc1[02-9ac-hj-np-z]{11,71}|[13][1-9A-HJ-NP-Za-km-z]{25,34})$`)
	solanaAddressRe  = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)
)

func isEVMAddress(address string) bool {
	return strings.HasPrefix(address, "0x") && common.IsHexAddress(address)
}

// Predefined network definitions
var ( //nolint:gochecknoglobals // Global for definitions
	Sui = entity.NetworkDefinition{
		ID:                   entity.ChainSui,
		Name:                 "Sui Mainnet",
		Driver:               entity.DriverSui,
		RPCURL:               "https://fullnode.mainnet.sui.io:443",
		NativeSymbol:         "SUI",
		NativeName:           "Sui",
		NativeDecimals:       9,
		NativeIdentity:       "0x2::sui::SUI",
		DefaultTokenDecimals: 9,
		AssetQueries:         true,
		ValidateAddress:      suiAddressRe.MatchString,
	}
	Aptos = entity.NetworkDefinition{
		ID:                   entity.ChainAptos,
		Name:                 "Aptos Mainnet",
		Driver:               entity.DriverAptos,
		RPCURL:               "https://fullnode.mainnet.aptoslabs.com",
		NativeSymbol:         "APT",
		NativeName:           "Aptos Coin",
		NativeDecimals:       8,
		NativeIdentity:       "0x1::aptos_coin::AptosCoin",
		DefaultTokenDecimals: 8,
		AssetQueries:         true,
		ValidateAddress:      aptosAddressRe.MatchString,
	}
	Ethereum = entity.NetworkDefinition{
		ID:                   entity.ChainEthereum,
		Name:                 "Ethereum Mainnet",
		Driver:               entity.DriverEVM,
		RPCURL:               "https://ethereum-rpc.publicnode.com",
		NativeSymbol:         "ETH",
		NativeName:           "Ether",
		NativeDecimals:       18,
		NativeIdentity:       entity.TokenIdentity(common.Address{}.Hex()),
		DefaultTokenDecimals: 18,
		AssetQueries:         true,
		ValidateAddress:      isEVMAddress,
	}
	Bitcoin = entity.NetworkDefinition{
		ID:              entity.ChainBitcoin,
		Name:            "Bitcoin",
		Driver:          entity.DriverREST,
		RPCURL:          "https://blockstream.info/api",
		NativeSymbol:    "BTC",
		NativeName:      "Bitcoin",
		NativeDecimals:  8,
		NativeIdentity:  "BTC",
		ValidateAddress: bitcoinAddressRe.MatchString,
	}
	Solana = entity.NetworkDefinition{
		ID:              entity.ChainSolana,
		Name:            "Solana Mainnet",
		Driver:          entity.DriverREST,
		RPCURL:          "https://api.mainnet-beta.solana.com",
		NativeSymbol:    "SOL",
		NativeName:      "Solana",
		NativeDecimals:  9,
		NativeIdentity:  "SOL",
		ValidateAddress: solanaAddressRe.MatchString,
	}
)

var _ port.ChainRegistry = (*NetworkDefinitionProvider)(nil)

// NetworkDefinitionProvider is the read-only chain registry. It is safe for concurrent use
// because nothing mutates it after NewNetworkDefinitionProvider returns.
type NetworkDefinitionProvider struct {
	defs    map[entity.ChainID]entity.NetworkDefinition
	ordered []entity.NetworkDefinition
}

// NewNetworkDefinitionProvider builds the registry from the predefined networks and the
// overrides in cfg (RPC URL, asset query toggle).
func NewNetworkDefinitionProvider(cfg *configloader.Config, logger port.Logger) (*NetworkDefinitionProvider, error) {
	p := &NetworkDefinitionProvider{defs: make(map[entity.ChainID]entity.NetworkDefinition)}

	for _, def := range []entity.NetworkDefinition{Sui, Aptos, Ethereum, Bitcoin, Solana} {
		if override, ok := cfg.Network(def.ID); ok {
			if override.RPCURL != "" {
				def.RPCURL = strings.TrimRight(override.RPCURL, "/")
			}
			if override.AssetQueries != nil {
				if *override.AssetQueries && def.Driver == entity.DriverREST {
					return nil, fmt.Errorf("network %s has no asset adapter and cannot enable asset queries", def.ID)
				}
				def.AssetQueries = *override.AssetQueries
			}
		}
		p.defs[def.ID] = def
		logger.Debug("Network registered", "chain", def.ID, "driver", def.Driver, "assetQueries", def.AssetQueries)
	}

	for _, n := range cfg.Networks {
		if _, ok := p.defs[entity.ChainID(strings.ToLower(n.Identifier))]; !ok {
			logger.Warn("Configuration references an unknown network, ignoring it", "identifier", n.Identifier)
		}
	}

	p.ordered = make([]entity.NetworkDefinition, 0, len(p.defs))
	for _, def := range p.defs {
		p.ordered = append(p.ordered, def)
	}
	sort.Slice(p.ordered, func(i, j int) bool { return p.ordered[i].ID < p.ordered[j].ID })

	logger.Info("NetworkDefinitionProvider initialized", "networks", len(p.ordered))
	return p, nil
}

// Resolve returns the definition for id. Unknown identifiers fail closed.
func (p *NetworkDefinitionProvider) Resolve(id entity.ChainID) (entity.NetworkDefinition, error) {
	def, ok := p.defs[id]
	if !ok {
		return entity.NetworkDefinition{}, apperrors.NotFound("unsupported chain %q", string(id))
	}
	return def, nil
}

// All returns a copy of every registered definition, sorted by identifier.
func (p *NetworkDefinitionProvider) All() []entity.NetworkDefinition {
	defsCopy := make([]entity.NetworkDefinition, len(p.ordered))
	copy(defsCopy, p.ordered)
	return defsCopy
}
