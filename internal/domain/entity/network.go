package entity

// ChainID identifies a supported network, e.g. "sui" or "ethereum".
type ChainID string

const (
	ChainSui      ChainID = "sui"
	ChainAptos    ChainID = "aptos"
	ChainEthereum ChainID = "ethereum"
	ChainBitcoin  ChainID = "bitcoin"
	ChainSolana   ChainID = "solana"
)

// KnownChains lists every chain the service has a definition for.
var KnownChains = []ChainID{ChainSui, ChainAptos, ChainEthereum, ChainBitcoin, ChainSolana}

func (c ChainID) String() string {
	return string(c)
}

// Driver names the wire protocol family a chain speaks.
type Driver string

const (
	DriverSui   Driver = "sui"
	DriverAptos Driver = "aptos"
	DriverEVM   Driver = "evm"
	// DriverREST chains are only reachable through the raw proxy.
	DriverREST Driver = "rest"
)

// NetworkDefinition holds the configuration for a specific blockchain network.
// Values are built once at start-up and never mutated afterwards.
type NetworkDefinition struct {
	ID             ChainID `json:"id" yaml:"id"`
	Name           string  `json:"name" yaml:"name"`
	Driver         Driver  `json:"driver" yaml:"driver"`
	RPCURL         string  `json:"-" yaml:"rpcUrl"`
	NativeSymbol   string  `json:"nativeSymbol" yaml:"nativeSymbol"`
	NativeName     string  `json:"nativeName" yaml:"nativeName"`
	NativeDecimals uint8   `json:"nativeDecimals" yaml:"nativeDecimals"`
	// NativeIdentity is the canonical identity string of the native asset (its type path or pseudo address).
	NativeIdentity TokenIdentity `json:"nativeIdentity" yaml:"nativeIdentity"`
	// DefaultTokenDecimals is assumed for unverified tokens whose record does not carry decimals.
	DefaultTokenDecimals uint8 `json:"-" yaml:"defaultTokenDecimals"`
	// AssetQueries marks chains wired into the asset query endpoint.
	AssetQueries bool `json:"assetQueries" yaml:"assetQueries"`

	ValidateAddress func(address string) bool `json:"-" yaml:"-"`
}

// IsValidAddress applies the chain's address validator. Chains without one accept nothing.
func (n NetworkDefinition) IsValidAddress(address string) bool {
	if n.ValidateAddress == nil {
		return false
	}
	return n.ValidateAddress(address)
}
