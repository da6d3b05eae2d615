package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"asset_gateway/internal/domain/entity"
	"asset_gateway/internal/infrastructure/configloader"
	clientprovider "asset_gateway/internal/infrastructure/network/client"
	networkdefinition "asset_gateway/internal/infrastructure/network/definition"
	"asset_gateway/internal/pkg/apperrors"
	"asset_gateway/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticTokens struct{}

func (staticTokens) TokensFor(entity.ChainID) []entity.TokenInfo { return nil }

// newUpstreamGateway wires the real Sui adapter against handler.
func newUpstreamGateway(t *testing.T, handler http.HandlerFunc) (*GatewayServiceImpl, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := &configloader.Config{
		RpcClient:   configloader.RpcClientConfig{DefaultTimeoutMs: 2000, MaxIdleConnsPerHost: 4},
		Performance: configloader.PerformanceConfig{MaxConcurrentRoutines: 2},
		Networks: []configloader.NetworkNodeConfig{
			{Identifier: "sui", RPCURL: srv.URL},
			{Identifier: "aptos", AssetQueries: new(bool)},
			{Identifier: "ethereum", AssetQueries: new(bool)},
		},
	}
	reg, err := networkdefinition.NewNetworkDefinitionProvider(cfg, logger.Nop())
	require.NoError(t, err)
	adapters, err := clientprovider.NewAdapterProvider(context.Background(), cfg, reg, staticTokens{},
		clientprovider.NewFastHTTPClient(cfg.RpcClient), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(adapters.Close)

	return NewGatewayService(reg, adapters, logger.Nop(), cfg), &hits
}

const ownedObjectsBody = `{"jsonrpc":"2.0","id":1,"result":{"data":[
	{"data":{"objectId":"0xa1","type":"0x2::coin::Coin<0x2::sui::SUI>","content":{"fields":{"balance":"18446744073709551615"}}}},
	{"data":{"objectId":"0xa2","type":"0x2::coin::Coin<0x0000000000000000000000000000000000000000000000000000000000000002::sui::SUI>","content":{"fields":{"balance":"18446744073709551617"}}}},
	{"data":{"objectId":"0xa3","type":"0xfeed::capy::Capy","content":{"fields":{"name":"capy"}}}},
	{"data":{"objectId":"0xa4","type":"0x2::coin::Coin<0xbeef::usdc::USDC>","content":{"fields":{"balance":"not-a-number"}}}}
],"hasNextPage":false}}`

func TestGateway_SuiEndToEnd(t *testing.T) {
	t.Parallel()

	g, hits := newUpstreamGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, ownedObjectsBody)
	})

	res, err := g.Handle(context.Background(), entity.AssetQuery{Chain: entity.ChainSui, Address: validSuiAddress})
	require.NoError(t, err)
	require.Len(t, res.Balances, 1)
	assert.Equal(t, "36893488147419103232", res.Balances[0].RawBalance.String())
	assert.True(t, res.Balances[0].Verified)
	assert.Nil(t, res.Nfts)

	res, err = g.Handle(context.Background(), entity.AssetQuery{Chain: entity.ChainSui, Address: validSuiAddress, IncludeNfts: true})
	require.NoError(t, err)
	require.Len(t, res.Nfts, 1)
	assert.Equal(t, "0xa3", res.Nfts[0].ID)
	assert.Equal(t, int32(2), hits.Load())

	_, err = g.Handle(context.Background(), entity.AssetQuery{Chain: entity.ChainSolana, Address: validSuiAddress})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, int32(2), hits.Load())
}

func TestGateway_UpstreamFailuresEscalate(t *testing.T) {
	t.Parallel()

	limited, _ := newUpstreamGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	_, err := limited.Handle(context.Background(), entity.AssetQuery{Chain: entity.ChainSui, Address: validSuiAddress})
	require.ErrorIs(t, err, apperrors.ErrRateLimited)
	assert.Equal(t, apperrors.DefaultRetryAfter, apperrors.As(err).RetryAfter)

	embedded, _ := newUpstreamGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"node is syncing"}}`)
	})
	res, err := embedded.Handle(context.Background(), entity.AssetQuery{Chain: entity.ChainSui, Address: validSuiAddress})
	require.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.Nil(t, res)
	assert.Equal(t, "rpc error -32000: node is syncing", apperrors.As(err).Message)
}
