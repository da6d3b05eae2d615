package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"asset_gateway/internal/app/port"
	"asset_gateway/internal/domain/entity"
	"asset_gateway/internal/infrastructure/configloader"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Options holds the per-call settings shared by every adapter.
type Options struct {
	Timeout time.Duration
	// RateLimit caps outbound calls per chain (req/s). 0 disables the limiter.
	RateLimit float64
	Burst     int
}

// OptionsFromConfig derives adapter options from the RPC client configuration.
func OptionsFromConfig(cfg configloader.RpcClientConfig) Options {
	return Options{Timeout: cfg.Timeout(), RateLimit: cfg.RateLimit, Burst: cfg.BurstLimit}
}

// NewFastHTTPClient builds the pooled client shared by the fasthttp-based adapters and the proxy.
func NewFastHTTPClient(cfg configloader.RpcClientConfig) *fasthttp.Client {
	return &fasthttp.Client{
		Name:                "asset_gateway",
		MaxConnsPerHost:     cfg.MaxIdleConnsPerHost,
		ReadTimeout:         cfg.Timeout(),
		WriteTimeout:        cfg.Timeout(),
		MaxIdleConnDuration: 90 * time.Second,
	}
}

// AdapterProvider builds and holds the asset adapter of every chain with asset queries enabled.
type AdapterProvider struct {
	adapters map[entity.ChainID]port.AssetAdapter
	closers  []func()
	logger   *zap.Logger
}

// NewAdapterProvider creates one adapter per asset-queryable network of registry. EVM adapters
// read the contracts listed by tokens. Every adapter is instrumented and, when
// rpcClient.rateLimit > 0, rate limited.
func NewAdapterProvider(
	ctx context.Context,
	cfg *configloader.Config,
	registry port.ChainRegistry,
	tokens port.TokenProvider,
	fastClient *fasthttp.Client,
	logger *zap.Logger,
) (*AdapterProvider, error) {
	opts := OptionsFromConfig(cfg.RpcClient)
	httpClient := &http.Client{
		Timeout: opts.Timeout,
		Transport: &http.Transport{
			MaxIdleConnsPerHost: cfg.RpcClient.MaxIdleConnsPerHost,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	p := &AdapterProvider{
		adapters: make(map[entity.ChainID]port.AssetAdapter),
		logger:   logger.Named("AdapterProvider"),
	}

	for _, def := range registry.All() {
		if !def.AssetQueries {
			continue
		}

		var adapter port.AssetAdapter
		switch def.Driver {
		case entity.DriverSui:
			adapter = NewSuiClient(def, fastClient, opts, logger)
		case entity.DriverAptos:
			adapter = NewAptosClient(def, fastClient, opts, logger)
		case entity.DriverEVM:
			evm, err := NewEVMClient(ctx, def, tokens.TokensFor(def.ID), httpClient, logger)
			if err != nil {
				p.Close()
				return nil, err
			}
			p.closers = append(p.closers, evm.Close)
			adapter = evm
		default:
			p.Close()
			return nil, fmt.Errorf("network %s: no asset adapter for driver %q", def.ID, def.Driver)
		}

		var limiter *rate.Limiter
		if opts.RateLimit > 0 {
			limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), opts.Burst)
		}
		p.adapters[def.ID] = NewInstrumentedAdapter(adapter, limiter)
		p.logger.Info("Asset adapter ready", zap.String("chain", def.ID.String()), zap.String("driver", string(def.Driver)))
	}

	return p, nil
}

// Adapter returns the adapter of chain, if one was built.
func (p *AdapterProvider) Adapter(chain entity.ChainID) (port.AssetAdapter, bool) {
	a, ok := p.adapters[chain]
	return a, ok
}

// Adapters returns every built adapter keyed by chain.
func (p *AdapterProvider) Adapters() map[entity.ChainID]port.AssetAdapter {
	out := make(map[entity.ChainID]port.AssetAdapter, len(p.adapters))
	for k, v := range p.adapters {
		out[k] = v
	}
	return out
}

// Close releases clients that hold resources.
func (p *AdapterProvider) Close() {
	for _, c := range p.closers {
		c()
	}
	p.closers = nil
}
