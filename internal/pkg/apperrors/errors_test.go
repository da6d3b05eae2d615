package apperrors

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesKindSentinel(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("fetch: %w", RateLimited(0, errors.New("429")))
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.NotErrorIs(t, err, ErrUpstream)

	e := As(err)
	require.NotNil(t, e)
	assert.Equal(t, KindRateLimited, e.Kind)
	assert.Equal(t, DefaultRetryAfter, e.RetryAfter)
	assert.True(t, e.Retryable())
}

func TestRateLimited_KeepsSuppliedDelay(t *testing.T) {
	t.Parallel()

	e := RateLimited(7*time.Second, nil)
	assert.Equal(t, 7*time.Second, e.RetryAfter)
}

func TestAs_UntypedBecomesUpstream(t *testing.T) {
	t.Parallel()

	e := As(errors.New("boom"))
	require.NotNil(t, e)
	assert.Equal(t, KindUpstream, e.Kind)
	assert.Equal(t, "internal error", e.Message)
	assert.False(t, e.Retryable())
	assert.Nil(t, As(nil))
}

func TestError_UnwrapKeepsDetail(t *testing.T) {
	t.Parallel()

	cause := errors.New("dial tcp: connection refused")
	e := Upstream("upstream request failed", cause)
	assert.ErrorIs(t, e, cause)
	assert.Contains(t, e.Error(), "connection refused")
	assert.Equal(t, "upstream request failed", e.Message)
}

func TestTransport_IsRetryableUpstream(t *testing.T) {
	t.Parallel()

	e := Transport(errors.New("connection reset by peer"))
	assert.ErrorIs(t, e, ErrUpstream)
	assert.True(t, e.Retryable())
	assert.False(t, Upstream("rpc error -32000: bad", nil).Retryable())
}
