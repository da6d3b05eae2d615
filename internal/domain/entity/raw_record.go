package entity

import stdjson "encoding/json"

// RawRecord is the intermediate shape an adapter produces for every owned object, resource
// or balance entry. Fields are left empty when the upstream entry did not carry them.
type RawRecord struct {
	// ObjectID identifies the upstream object (Sui object id, Aptos resource type, EVM contract).
	ObjectID string
	// Type is the chain-specific type string the record is classified by.
	Type string
	// Balance is the raw integer amount as text, when the record holds one.
	Balance string
	// Symbol, Name and Decimals are set only when the adapter knows them independently of the type.
	Symbol   string
	Name     string
	Decimals *uint8
	// Content is the chain-specific payload, referenced rather than copied.
	Content stdjson.RawMessage
}

// IsEmpty reports whether the record lacks both a type and content.
func (r RawRecord) IsEmpty() bool {
	return r.Type == "" && len(r.Content) == 0
}
