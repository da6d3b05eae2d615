package normalizer

import (
	"regexp"
	"strings"

	"asset_gateway/internal/app/port"
	"asset_gateway/internal/domain/entity"
	"asset_gateway/internal/pkg/utils"
)

const (
	// SuiCoinWrapper is the type of every Sui coin object: 0x2::coin::Coin<T>.
	SuiCoinWrapper = "0x2::coin::Coin"
	// AptosCoinWrapper is the type of every Aptos coin store resource: 0x1::coin::CoinStore<T>.
	AptosCoinWrapper = "0x1::coin::CoinStore"
)

var moveAddressRe = regexp.MustCompile(`0x[0-9a-fA-F]+`)

// MoveClassifier classifies records of Move chains (Sui, Aptos) by their type tag.
type MoveClassifier struct {
	def         entity.NetworkDefinition
	coinWrapper string
	nonFungible func(typeTag string) bool
}

var _ port.RecordClassifier = (*MoveClassifier)(nil)

// NewMoveClassifier creates a classifier for a chain whose fungible containers are typed
// coinWrapper<T>. nonFungible decides which remaining typed records are NFTs.
func NewMoveClassifier(def entity.NetworkDefinition, coinWrapper string, nonFungible func(typeTag string) bool) *MoveClassifier {
	return &MoveClassifier{def: def, coinWrapper: CanonicalTypeTag(coinWrapper), nonFungible: nonFungible}
}

// SuiNonFungible treats every typed object that is not a coin as non-fungible.
func SuiNonFungible(string) bool { return true }

// AptosNonFungible recognizes token-standard resources (0x3::token::TokenStore, 0x4::token::Token).
func AptosNonFungible(typeTag string) bool {
	parts := strings.Split(stripTypeArgs(typeTag), "::")
	return len(parts) == 3 && parts[1] == "token"
}

// Classify implements port.RecordClassifier.
func (c *MoveClassifier) Classify(record entity.RawRecord, includeNfts bool) port.Classified {
	if record.IsEmpty() || record.Type == "" {
		return port.Classified{Kind: port.ClassSkip}
	}

	typeTag := CanonicalTypeTag(record.Type)
	if inner, ok := unwrap(typeTag, c.coinWrapper); ok {
		return c.classifyCoin(record, entity.TokenIdentity(inner))
	}
	if stripTypeArgs(typeTag) == c.coinWrapper {
		return port.Classified{Kind: port.ClassSkip}
	}

	if !includeNfts || c.nonFungible == nil || !c.nonFungible(typeTag) {
		return port.Classified{Kind: port.ClassSkip}
	}
	id := record.ObjectID
	if id == "" {
		id = record.Type
	}
	content := make([]byte, len(record.Content))
	copy(content, record.Content)
	return port.Classified{
		Kind: port.ClassNonFungible,
		Nft:  entity.NftItem{ID: id, Type: record.Type, Content: content},
	}
}

func (c *MoveClassifier) classifyCoin(record entity.RawRecord, identity entity.TokenIdentity) port.Classified {
	raw, ok := utils.ParseRawAmount(record.Balance)
	if !ok {
		return port.Classified{Kind: port.ClassSkip}
	}

	if identity == CanonicalIdentity(c.def.NativeIdentity) {
		return port.Classified{Kind: port.ClassNativeCoin, Balance: nativeBalance(c.def, raw)}
	}

	decimals := c.def.DefaultTokenDecimals
	if record.Decimals != nil {
		decimals = *record.Decimals
	}
	label := trailingSegment(string(identity))
	symbol, name := record.Symbol, record.Name
	if symbol == "" {
		symbol = label
	}
	if name == "" {
		name = label
	}
	return port.Classified{
		Kind: port.ClassFungibleToken,
		Balance: entity.TokenBalance{
			Identity:   identity,
			Symbol:     symbol,
			Name:       name,
			Decimals:   decimals,
			Chain:      c.def.ID,
			Verified:   false,
			RawBalance: raw,
			UIAmount:   utils.ToUIAmount(raw, decimals),
		},
	}
}

// CanonicalTypeTag lowercases every address in a Move type tag and strips leading zeros, so
// 0x0000...0002::sui::SUI and 0x2::sui::SUI are the same identity. Whitespace is removed.
func CanonicalTypeTag(typeTag string) string {
	typeTag = strings.Join(strings.Fields(typeTag), "")
	return moveAddressRe.ReplaceAllStringFunc(typeTag, func(addr string) string {
		digits := strings.TrimLeft(strings.ToLower(addr[2:]), "0")
		if digits == "" {
			digits = "0"
		}
		return "0x" + digits
	})
}

// CanonicalIdentity applies CanonicalTypeTag to an identity.
func CanonicalIdentity(id entity.TokenIdentity) entity.TokenIdentity {
	return entity.TokenIdentity(CanonicalTypeTag(string(id)))
}

// unwrap returns T when typeTag is wrapper<T>.
func unwrap(typeTag, wrapper string) (string, bool) {
	if !strings.HasPrefix(typeTag, wrapper+"<") || !strings.HasSuffix(typeTag, ">") {
		return "", false
	}
	inner := typeTag[len(wrapper)+1 : len(typeTag)-1]
	if inner == "" {
		return "", false
	}
	return inner, true
}

func stripTypeArgs(typeTag string) string {
	if i := strings.IndexByte(typeTag, '<'); i >= 0 {
		return typeTag[:i]
	}
	return typeTag
}

// trailingSegment returns the struct name of a type path, e.g. USDC for 0xa::usdc::USDC.
func trailingSegment(typeTag string) string {
	parts := strings.Split(stripTypeArgs(typeTag), "::")
	if len(parts) < 2 || parts[len(parts)-1] == "" {
		return entity.UnknownTokenLabel
	}
	return parts[len(parts)-1]
}
