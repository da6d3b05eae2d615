package entity

import stdjson "encoding/json"

// NftItem is a non-fungible object owned by the address. Content is passed through untouched.
type NftItem struct {
	ID      string             `json:"id"`
	Type    string             `json:"type"`
	Content stdjson.RawMessage `json:"content,omitempty"`
}
