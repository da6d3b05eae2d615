package client

import (
	"context"
	"errors"
	"time"

	"asset_gateway/internal/app/port"
	"asset_gateway/internal/domain/entity"
	"asset_gateway/internal/infrastructure/metrics"
	"asset_gateway/internal/pkg/apperrors"

	"golang.org/x/time/rate"
)

// InstrumentedAdapter records call metrics for an adapter and paces it with an optional limiter.
type InstrumentedAdapter struct {
	port.AssetAdapter
	limiter *rate.Limiter
}

// NewInstrumentedAdapter wraps next. A nil limiter disables outbound pacing.
func NewInstrumentedAdapter(next port.AssetAdapter, limiter *rate.Limiter) *InstrumentedAdapter {
	return &InstrumentedAdapter{AssetAdapter: next, limiter: limiter}
}

// FetchOwnedAssets waits for the limiter, then delegates and records the outcome.
func (a *InstrumentedAdapter) FetchOwnedAssets(ctx context.Context, address string) ([]entity.RawRecord, error) {
	chain := a.Definition().ID.String()

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			metrics.UpstreamRequests.WithLabelValues(chain, metrics.OutcomeRateLimited).Inc()
			if errors.Is(err, context.Canceled) {
				return nil, apperrors.Upstream("request cancelled", err)
			}
			return nil, apperrors.RateLimited(0, err)
		}
	}

	start := time.Now()
	records, err := a.AssetAdapter.FetchOwnedAssets(ctx, address)
	metrics.UpstreamDuration.WithLabelValues(chain).Observe(time.Since(start).Seconds())
	metrics.UpstreamRequests.WithLabelValues(chain, outcomeOf(err)).Inc()
	return records, err
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, apperrors.ErrRateLimited):
		return metrics.OutcomeRateLimited
	case errors.Is(err, apperrors.ErrTimeout):
		return metrics.OutcomeTimeout
	default:
		return metrics.OutcomeError
	}
}
