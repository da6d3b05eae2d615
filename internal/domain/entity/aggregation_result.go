package entity

// AggregationResult is the outcome of one asset query. Nfts is nil when NFTs were not requested
// and an empty, non-nil slice when they were requested but none were found.
type AggregationResult struct {
	Balances []TokenBalance `json:"balances"`
	Nfts     []NftItem      `json:"nfts,omitempty"`
}

// MarshalJSON keeps the distinction between "not requested" (field absent) and "none found" ([]).
func (r AggregationResult) MarshalJSON() ([]byte, error) {
	balances := r.Balances
	if balances == nil {
		balances = []TokenBalance{}
	}
	if r.Nfts == nil {
		return json.Marshal(struct {
			Balances []TokenBalance `json:"balances"`
		}{balances})
	}
	return json.Marshal(struct {
		Balances []TokenBalance `json:"balances"`
		Nfts     []NftItem      `json:"nfts"`
	}{balances, r.Nfts})
}
