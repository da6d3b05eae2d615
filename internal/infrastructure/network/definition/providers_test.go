package networkdefinition

import (
	"testing"

	"asset_gateway/internal/domain/entity"
	"asset_gateway/internal/infrastructure/configloader"
	"asset_gateway/internal/pkg/apperrors"
	"asset_gateway/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestRegistry_ResolveAndFailClosed(t *testing.T) {
	t.Parallel()

	reg, err := NewNetworkDefinitionProvider(&configloader.Config{}, logger.Nop())
	require.NoError(t, err)

	sui, err := reg.Resolve(entity.ChainSui)
	require.NoError(t, err)
	assert.Equal(t, entity.TokenIdentity("0x2::sui::SUI"), sui.NativeIdentity)
	assert.Equal(t, uint8(9), sui.NativeDecimals)
	assert.True(t, sui.AssetQueries)

	_, err = reg.Resolve("dogecoin")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// No case folding or defaulting to another chain.
	_, err = reg.Resolve("SUI")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	all := reg.All()
	require.Len(t, all, len(entity.KnownChains))
	assert.Equal(t, entity.ChainAptos, all[0].ID)
}

func TestRegistry_AppliesOverrides(t *testing.T) {
	t.Parallel()

	cfg := &configloader.Config{Networks: []configloader.NetworkNodeConfig{
		{Identifier: "sui", RPCURL: "https://sui.example.org/"},
		{Identifier: "ethereum", AssetQueries: boolPtr(false)},
		{Identifier: "nowhere", RPCURL: "https://x.example.org"},
	}}
	reg, err := NewNetworkDefinitionProvider(cfg, logger.Nop())
	require.NoError(t, err)

	sui, _ := reg.Resolve(entity.ChainSui)
	assert.Equal(t, "https://sui.example.org", sui.RPCURL)

	eth, _ := reg.Resolve(entity.ChainEthereum)
	assert.False(t, eth.AssetQueries)
}

func TestRegistry_RejectsAssetQueriesOnProxyOnlyChain(t *testing.T) {
	t.Parallel()

	cfg := &configloader.Config{Networks: []configloader.NetworkNodeConfig{
		{Identifier: "bitcoin", AssetQueries: boolPtr(true)},
	}}
	_, err := NewNetworkDefinitionProvider(cfg, logger.Nop())
	require.Error(t, err)
}

func TestAddressValidators(t *testing.T) {
	t.Parallel()

	cases := []struct {
		def   entity.NetworkDefinition
		addr  string
		valid bool
	}{
		{Sui, "0x" + repeat("a", 64), true},
		{Sui, "0x" + repeat("a", 63), false},
		{Sui, repeat("a", 64), false},
		{Sui, "0x" + repeat("g", 64), false},
		{Aptos, "0x1", true},
		{Aptos, "0x" + repeat("F", 64), true},
		{Aptos, "0x" + repeat("F", 65), false},
		{Ethereum, "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045", true},
		{Ethereum, "d8dA6BF26964aF9D7eEd9e03E53415D37aA96045", false},
		{Ethereum, "0x1234", false},
		{Bitcoin, "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq", true},
		{Bitcoin, "0xabc", false},
		{Solana, "Vote111111111111111111111111111111111111111", true},
		{Solana, "0OIl", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.valid, tc.def.IsValidAddress(tc.addr), "%s %s", tc.def.ID, tc.addr)
	}

	assert.False(t, entity.NetworkDefinition{}.IsValidAddress("anything"))
}

func repeat(s string, n int) string {
	out := make([]byte, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, s[0])
	}
	return string(out)
}
