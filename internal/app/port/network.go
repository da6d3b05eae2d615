package port

import (
	"context"

	"asset_gateway/internal/domain/entity"
)

// AssetAdapter fetches everything an address owns on one chain and shapes the chain's raw
// response into entity.RawRecord values. Implementations issue exactly one outbound call per
// invocation and never retry on their own.
type AssetAdapter interface {
	// FetchOwnedAssets returns the raw records, or an *apperrors.Error classifying the failure.
	FetchOwnedAssets(ctx context.Context, address string) ([]entity.RawRecord, error)

	// Definition returns the network definition associated with this adapter.
	Definition() entity.NetworkDefinition

	// Classifier returns the record classification rules of the adapter's chain.
	Classifier() RecordClassifier
}

// ChainRegistry resolves chain identifiers to their immutable definitions.
type ChainRegistry interface {
	// Resolve returns the definition for id, or an apperrors.ErrNotFound error.
	Resolve(id entity.ChainID) (entity.NetworkDefinition, error)

	// All returns every registered definition in a stable order.
	All() []entity.NetworkDefinition
}

// RecordClassifier turns a raw record into a normalized classification for one chain.
type RecordClassifier interface {
	Classify(record entity.RawRecord, includeNfts bool) Classified
}

// ClassKind enumerates the normalizer outcomes.
type ClassKind int

const (
	ClassSkip ClassKind = iota
	ClassNativeCoin
	ClassFungibleToken
	ClassNonFungible
)

// Classified is the outcome of classifying one raw record. Balance is set for the two
// fungible kinds, Nft for ClassNonFungible.
type Classified struct {
	Kind    ClassKind
	Balance entity.TokenBalance
	Nft     entity.NftItem
}

// AdapterProvider looks up the asset adapter wired for a chain.
type AdapterProvider interface {
	Adapter(chain entity.ChainID) (AssetAdapter, bool)
}
