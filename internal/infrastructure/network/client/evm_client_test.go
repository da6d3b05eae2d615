package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"asset_gateway/internal/app/port"
	"asset_gateway/internal/domain/entity"
	"asset_gateway/internal/infrastructure/metrics"
	networkdefinition "asset_gateway/internal/infrastructure/network/definition"
	"asset_gateway/internal/pkg/apperrors"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	testEVMOwner = "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"
	testUSDC     = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
	testDead     = "0x000000000000000000000000000000000000dEaD"
)

type rpcMessage struct {
	ID     []byte
	Method string
}

func evmServer(t *testing.T, respond func(msg rpcMessage) string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var batch []map[string]any
		if err := json.Unmarshal(body, &batch); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		out := "["
		for i, raw := range batch {
			id, _ := json.Marshal(raw["id"])
			method, _ := raw["method"].(string)
			if i > 0 {
				out += ","
			}
			out += `{"jsonrpc":"2.0","id":` + string(id) + `,` + respond(rpcMessage{ID: id, Method: method}) + `}`
		}
		out += "]"
		_, _ = io.WriteString(w, out)
	}))
}

func evmDef(url string) entity.NetworkDefinition {
	def := networkdefinition.Ethereum
	def.RPCURL = url
	return def
}

func uint8Ptr(v uint8) *uint8 { return &v }

func TestEVMClient_BatchesNativeAndTokens(t *testing.T) {
	t.Parallel()

	srv := evmServer(t, func(msg rpcMessage) string {
		switch msg.Method {
		case "eth_getBalance":
			return `"result":"0xde0b6b3a7640000"`
		default:
			return `"result":"0x00000000000000000000000000000000000000000000000000000000002625a0"`
		}
	})
	defer srv.Close()

	tokens := []entity.TokenInfo{{Chain: entity.ChainEthereum, Address: testUSDC, Symbol: "USDC", Name: "USD Coin", Decimals: uint8Ptr(6)}}
	c, err := NewEVMClient(context.Background(), evmDef(srv.URL), tokens, http.DefaultClient, zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	records, err := c.FetchOwnedAssets(context.Background(), testEVMOwner)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, string(networkdefinition.Ethereum.NativeIdentity), records[0].Type)
	assert.Equal(t, "1000000000000000000", records[0].Balance)
	assert.Equal(t, testUSDC, records[1].Type)
	assert.Equal(t, "2500000", records[1].Balance)
	assert.Equal(t, "USDC", records[1].Symbol)
	require.NotNil(t, records[1].Decimals)
	assert.Equal(t, uint8(6), *records[1].Decimals)
}

func TestEVMClient_EmptyCallResultLeavesBalanceUnset(t *testing.T) {
	t.Parallel()

	srv := evmServer(t, func(msg rpcMessage) string {
		if msg.Method == "eth_getBalance" {
			return `"result":"0x0"`
		}
		return `"result":"0x"`
	})
	defer srv.Close()

	tokens := []entity.TokenInfo{{Chain: entity.ChainEthereum, Address: testDead, Symbol: "DEAD"}}
	c, err := NewEVMClient(context.Background(), evmDef(srv.URL), tokens, http.DefaultClient, zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	records, err := c.FetchOwnedAssets(context.Background(), testEVMOwner)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "0", records[0].Balance)
	assert.Empty(t, records[1].Balance)
}

func TestEVMClient_EmbeddedElementErrorFailsTheRequest(t *testing.T) {
	t.Parallel()

	srv := evmServer(t, func(rpcMessage) string {
		return `"error":{"code":-32005,"message":"daily request count exceeded"}`
	})
	defer srv.Close()

	c, err := NewEVMClient(context.Background(), evmDef(srv.URL), nil, http.DefaultClient, zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	records, err := c.FetchOwnedAssets(context.Background(), testEVMOwner)
	require.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.Nil(t, records)
	assert.Contains(t, err.Error(), "daily request count exceeded")
}

func TestEVMClient_HTTPStatusClassification(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := NewEVMClient(context.Background(), evmDef(srv.URL), nil, http.DefaultClient, zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	_, err = c.FetchOwnedAssets(context.Background(), testEVMOwner)
	require.ErrorIs(t, err, apperrors.ErrRateLimited)
	assert.Equal(t, apperrors.DefaultRetryAfter, apperrors.As(err).RetryAfter)
}

func TestNewEVMClient_RejectsBadTokenAddress(t *testing.T) {
	t.Parallel()

	tokens := []entity.TokenInfo{{Chain: entity.ChainEthereum, Address: "not-an-address", Symbol: "BAD"}}
	_, err := NewEVMClient(context.Background(), evmDef("http://127.0.0.1:1"), tokens, http.DefaultClient, zap.NewNop())
	require.Error(t, err)
}

type countingAdapter struct {
	calls atomic.Int32
	def   entity.NetworkDefinition
	err   error
}

func (a *countingAdapter) FetchOwnedAssets(context.Context, string) ([]entity.RawRecord, error) {
	a.calls.Add(1)
	return nil, a.err
}

func (a *countingAdapter) Definition() entity.NetworkDefinition { return a.def }

func (a *countingAdapter) Classifier() port.RecordClassifier { return nil }

func TestInstrumentedAdapter_RecordsOutcome(t *testing.T) {
	def := networkdefinition.Aptos
	def.ID = "instrumented-test"

	inner := &countingAdapter{def: def, err: apperrors.Timeout(context.DeadlineExceeded)}
	a := NewInstrumentedAdapter(inner, nil)

	_, err := a.FetchOwnedAssets(context.Background(), "0x1")
	require.ErrorIs(t, err, apperrors.ErrTimeout)
	assert.Equal(t, int32(1), inner.calls.Load())
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.UpstreamRequests.WithLabelValues("instrumented-test", metrics.OutcomeTimeout)))
}

func TestInstrumentedAdapter_LimiterHonoursContext(t *testing.T) {
	t.Parallel()

	def := networkdefinition.Aptos
	def.ID = "limited-test"
	inner := &countingAdapter{def: def}
	a := NewInstrumentedAdapter(inner, rate.NewLimiter(rate.Every(time.Hour), 1))

	_, err := a.FetchOwnedAssets(context.Background(), "0x1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = a.FetchOwnedAssets(ctx, "0x1")
	require.ErrorIs(t, err, apperrors.ErrRateLimited)
	assert.Equal(t, int32(1), inner.calls.Load())
}
