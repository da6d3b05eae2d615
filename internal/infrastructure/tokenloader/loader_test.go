package tokenloader

import (
	"os"
	"path/filepath"
	"testing"

	"asset_gateway/internal/domain/entity"
	"asset_gateway/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoadTokens(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "ethereum.json", `[
		{"address":"0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48","symbol":"USDC","name":"USD Coin","decimals":6},
		{"chain":"polygon","address":"0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174","symbol":"USDC.e"},
		{"symbol":"NOADDR"}
	]`)
	writeFile(t, dir, "sui.json", `[{"address":"0x2::sui::SUI"}]`)
	writeFile(t, dir, "README.md", "ignored")

	tokens, err := LoadTokens(dir, []entity.ChainID{entity.ChainEthereum}, logger.Nop())
	require.NoError(t, err)
	require.Len(t, tokens[entity.ChainEthereum], 1)

	usdc := tokens[entity.ChainEthereum][0]
	assert.Equal(t, entity.ChainEthereum, usdc.Chain)
	assert.Equal(t, "USDC", usdc.Symbol)
	require.NotNil(t, usdc.Decimals)
	assert.Equal(t, uint8(6), *usdc.Decimals)
	assert.NotContains(t, tokens, entity.ChainSui)
}

func TestLoadTokens_MissingDirectoryIsEmpty(t *testing.T) {
	t.Parallel()

	tokens, err := LoadTokens(filepath.Join(t.TempDir(), "absent"), []entity.ChainID{entity.ChainEthereum}, logger.Nop())
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestLoadTokens_MalformedFileFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "ethereum.json", `{"not":"a list"}`)

	_, err := LoadTokens(dir, []entity.ChainID{entity.ChainEthereum}, logger.Nop())
	require.Error(t, err)
}
