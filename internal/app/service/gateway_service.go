package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"asset_gateway/internal/app/aggregator"
	"asset_gateway/internal/app/normalizer"
	"asset_gateway/internal/app/port"
	"asset_gateway/internal/domain/entity"
	"asset_gateway/internal/infrastructure/configloader"
	"asset_gateway/internal/pkg/apperrors"
	"asset_gateway/internal/pkg/utils"

	"golang.org/x/sync/errgroup"
)

// maxBackoff caps a single wait between retries.
const maxBackoff = 30 * time.Second

// GatewayServiceImpl implements port.AssetGateway.
type GatewayServiceImpl struct {
	registry              port.ChainRegistry
	adapters              port.AdapterProvider
	logger                port.Logger
	maxRetries            int
	retryDelay            time.Duration
	maxConcurrentRoutines int
	sleep                 func(ctx context.Context, d time.Duration) error
}

var _ port.AssetGateway = (*GatewayServiceImpl)(nil)

// NewGatewayService creates a new instance of GatewayServiceImpl.
func NewGatewayService(
	registry port.ChainRegistry,
	adapters port.AdapterProvider,
	l port.Logger,
	config *configloader.Config,
) *GatewayServiceImpl {
	maxRoutines := config.Performance.MaxConcurrentRoutines
	if maxRoutines <= 0 {
		maxRoutines = 1
	}
	return &GatewayServiceImpl{
		registry:              registry,
		adapters:              adapters,
		logger:                l,
		maxRetries:            config.RpcClient.MaxRetries,
		retryDelay:            config.RpcClient.RetryDelay(),
		maxConcurrentRoutines: maxRoutines,
		sleep:                 sleepContext,
	}
}

// Handle validates the query, then fetches, normalizes and aggregates the address's assets.
// Nothing touches the network until both the chain and the address have been accepted.
func (s *GatewayServiceImpl) Handle(ctx context.Context, query entity.AssetQuery) (*entity.AggregationResult, error) {
	chain := entity.ChainID(strings.TrimSpace(string(query.Chain)))
	address := strings.TrimSpace(query.Address)

	if chain == "" {
		return nil, apperrors.InvalidInput("chain is required")
	}
	def, adapter, err := s.resolve(chain)
	if err != nil {
		return nil, err
	}
	if address == "" {
		return nil, apperrors.InvalidInput("address is required")
	}
	if !def.IsValidAddress(address) {
		return nil, apperrors.InvalidInput("invalid %s address %q", def.Name, address)
	}

	records, err := s.fetchWithRetry(ctx, adapter, address)
	if err != nil {
		appErr := apperrors.As(err)
		s.logger.Error("Asset query failed",
			"chain", chain, "address", address, "kind", appErr.Kind.String(), "error", err)
		return nil, appErr
	}

	normalized := normalizer.Normalize(records, adapter.Classifier(), query.IncludeNfts)
	if normalized.Skipped > 0 {
		s.logger.Debug("Skipped unrecognized records", "chain", chain, "address", address, "count", normalized.Skipped)
	}
	if normalized.OmittedNfts > 0 {
		s.logger.Debug("Omitted NFT records", "chain", chain, "address", address, "count", normalized.OmittedNfts)
	}

	result := &entity.AggregationResult{
		Balances: aggregator.Aggregate(normalized.Fungibles),
		Nfts:     normalized.Nfts,
	}
	for _, b := range result.Balances {
		s.logger.Debug("Balance aggregated", "chain", chain, "address", address,
			"token", b.Identity, "symbol", b.Symbol, "amount", utils.FormatBigInt(b.RawBalance, b.Decimals))
	}
	s.logger.Debug("Asset query completed", "chain", chain, "address", address,
		"records", len(records), "balances", len(result.Balances), "nfts", len(result.Nfts))
	return result, nil
}

// resolve accepts only chains that are registered and wired into the asset query.
func (s *GatewayServiceImpl) resolve(chain entity.ChainID) (entity.NetworkDefinition, port.AssetAdapter, error) {
	def, err := s.registry.Resolve(chain)
	if err != nil {
		return entity.NetworkDefinition{}, nil, err
	}
	if !def.AssetQueries {
		return entity.NetworkDefinition{}, nil, apperrors.NotFound("chain %q does not support asset queries", string(chain))
	}
	adapter, ok := s.adapters.Adapter(chain)
	if !ok {
		return entity.NetworkDefinition{}, nil, apperrors.NotFound("chain %q does not support asset queries", string(chain))
	}
	return def, adapter, nil
}

// fetchWithRetry calls the adapter once, plus up to maxRetries more times for retryable
// failures, doubling the wait after every attempt.
func (s *GatewayServiceImpl) fetchWithRetry(ctx context.Context, adapter port.AssetAdapter, address string) ([]entity.RawRecord, error) {
	var delay time.Duration
	for attempt := 0; ; attempt++ {
		records, err := adapter.FetchOwnedAssets(ctx, address)
		if err == nil {
			return records, nil
		}

		var appErr *apperrors.Error
		if attempt >= s.maxRetries || !errors.As(err, &appErr) || !appErr.Retryable() || ctx.Err() != nil {
			return nil, err
		}

		switch {
		case attempt == 0 && appErr.RetryAfter > 0:
			delay = appErr.RetryAfter
		case attempt == 0:
			delay = s.retryDelay
		default:
			delay *= 2
		}
		if appErr.RetryAfter > delay {
			delay = appErr.RetryAfter
		}
		if delay > maxBackoff {
			delay = maxBackoff
		}

		s.logger.Warn("Retrying upstream call",
			"chain", adapter.Definition().ID, "attempt", attempt+1, "delay", delay.String(), "error", err)
		if sleepErr := s.sleep(ctx, delay); sleepErr != nil {
			return nil, err
		}
	}
}

// HandleBatch runs every query through Handle with at most maxConcurrentRoutines in flight.
// A failing query never affects the others.
func (s *GatewayServiceImpl) HandleBatch(ctx context.Context, queries []entity.AssetQuery) []port.BatchOutcome {
	outcomes := make([]port.BatchOutcome, len(queries))

	var g errgroup.Group
	g.SetLimit(s.maxConcurrentRoutines)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			result, err := s.Handle(ctx, q)
			outcomes[i] = port.BatchOutcome{Query: q, Result: result, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Debug("Batch completed", "queries", len(queries))
	return outcomes
}

// SupportedChains lists the chains accepted by Handle in registry order.
func (s *GatewayServiceImpl) SupportedChains() []entity.ChainID {
	var chains []entity.ChainID
	for _, def := range s.registry.All() {
		if _, _, err := s.resolve(def.ID); err == nil {
			chains = append(chains, def.ID)
		}
	}
	return chains
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
