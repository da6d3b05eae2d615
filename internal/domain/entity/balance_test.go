package entity

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregationResult_WireRoundTripKeepsRawBalance(t *testing.T) {
	t.Parallel()

	huge, ok := new(big.Int).SetString("340282366920938463463374607431768211457123", 10)
	require.True(t, ok)

	in := AggregationResult{Balances: []TokenBalance{
		{
			Identity:   "0x2::sui::SUI",
			Symbol:     "SUI",
			Name:       "Sui",
			Decimals:   9,
			Chain:      "sui",
			Verified:   true,
			RawBalance: huge,
			UIAmount:   3.402823669209385e32,
		},
		{
			Identity:   "0xabc::fish::FISH",
			Symbol:     "FISH",
			Name:       "FISH",
			Decimals:   9,
			Chain:      "sui",
			RawBalance: big.NewInt(1),
		},
	}}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"balance":"340282366920938463463374607431768211457123"`)
	assert.NotContains(t, string(data), `"nfts"`)

	var out AggregationResult
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out.Balances, 2)
	for i := range in.Balances {
		assert.Equal(t, in.Balances[i].RawBalance.String(), out.Balances[i].RawBalance.String())
		assert.Equal(t, in.Balances[i].Identity, out.Balances[i].Identity)
		assert.Equal(t, in.Balances[i].Verified, out.Balances[i].Verified)
	}
}

func TestAggregationResult_NftsFieldPresence(t *testing.T) {
	t.Parallel()

	notRequested, err := json.Marshal(AggregationResult{})
	require.NoError(t, err)
	assert.Equal(t, `{"balances":[]}`, string(notRequested))

	noneFound, err := json.Marshal(AggregationResult{Nfts: []NftItem{}})
	require.NoError(t, err)
	assert.Equal(t, `{"balances":[],"nfts":[]}`, string(noneFound))
}

func TestTokenBalance_UnmarshalRejectsNonIntegerBalance(t *testing.T) {
	t.Parallel()

	var b TokenBalance
	err := json.Unmarshal([]byte(`{"token":{"symbol":"X"},"balance":"1.5","uiAmount":1.5}`), &b)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid balance"))
}

func TestRawRecord_IsEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, RawRecord{ObjectID: "0x1"}.IsEmpty())
	assert.False(t, RawRecord{Type: "0x2::coin::Coin<0x2::sui::SUI>"}.IsEmpty())
	assert.False(t, RawRecord{Content: []byte(`{}`)}.IsEmpty())
}
