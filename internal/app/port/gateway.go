package port

import (
	"context"

	"asset_gateway/internal/domain/entity"
)

// AssetGateway is the externally reachable asset query entry point.
type AssetGateway interface {
	// Handle validates the query, fetches and normalizes the chain's records and returns
	// the aggregated result or an *apperrors.Error.
	Handle(ctx context.Context, query entity.AssetQuery) (*entity.AggregationResult, error)

	// HandleBatch runs independent queries concurrently; outcomes keep the order of queries.
	HandleBatch(ctx context.Context, queries []entity.AssetQuery) []BatchOutcome

	// SupportedChains lists the chains wired into the asset query.
	SupportedChains() []entity.ChainID
}

// BatchOutcome pairs a query with either its result or its error.
type BatchOutcome struct {
	Query  entity.AssetQuery
	Result *entity.AggregationResult
	Err    error
}

// RPCProxy forwards raw read requests to a chain's configured base URL.
type RPCProxy interface {
	Forward(ctx context.Context, chain entity.ChainID, endpoint string) (ProxyResponse, error)
}

// ProxyResponse is an upstream body forwarded verbatim.
type ProxyResponse struct {
	ContentType string
	Body        []byte
}
