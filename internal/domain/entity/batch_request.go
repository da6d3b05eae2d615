package entity

// AssetQuery is one request for the assets of an address on a chain.
type AssetQuery struct {
	Address     string  `json:"address"`
	Chain       ChainID `json:"chain"`
	IncludeNfts bool    `json:"includeNfts"`
}

// BatchQueryResult is the per-query outcome of a batch request. Exactly one of Result or Error is set.
type BatchQueryResult struct {
	Address           string             `json:"address"`
	Chain             ChainID            `json:"chain"`
	Status            int                `json:"status"`
	Result            *AggregationResult `json:"result,omitempty"`
	Error             string             `json:"error,omitempty"`
	RetryAfterSeconds int                `json:"retryAfterSeconds,omitempty"`
}
