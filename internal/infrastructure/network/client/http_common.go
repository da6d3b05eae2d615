package client

import (
	"context"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"asset_gateway/internal/pkg/apperrors"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxLoggedBody = 512

// JSONRPCError defines the structure for a JSON-RPC error.
type JSONRPCError struct {
	Code    int                `json:"code"`
	Message string             `json:"message"`
	Data    stdjson.RawMessage `json:"data,omitempty"`
}

// httpResult is what survives of a fasthttp response once it is released.
type httpResult struct {
	status      int
	retryAfter  string
	contentType string
	body        []byte
}

// fastDoer runs fasthttp requests under a context. fasthttp has no context support, so the
// call runs with a hard deadline (the earlier of ctx's deadline and timeout) in its own
// goroutine; cancellation returns immediately and the connection is dropped at that deadline.
type fastDoer struct {
	client  *fasthttp.Client
	timeout time.Duration
}

func (d *fastDoer) do(ctx context.Context, build func(req *fasthttp.Request)) (httpResult, error) {
	if err := ctx.Err(); err != nil {
		return httpResult{}, err
	}

	deadline := time.Now().Add(d.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	type outcome struct {
		res httpResult
		err error
	}
	done := make(chan outcome, 1)

	go func() {
		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)

		build(req)
		if err := d.client.DoDeadline(req, resp, deadline); err != nil {
			done <- outcome{err: err}
			return
		}
		body := make([]byte, len(resp.Body()))
		copy(body, resp.Body())
		done <- outcome{res: httpResult{
			status:      resp.StatusCode(),
			retryAfter:  string(resp.Header.Peek(fasthttp.HeaderRetryAfter)),
			contentType: string(resp.Header.ContentType()),
			body:        body,
		}}
	}()

	select {
	case o := <-done:
		return o.res, o.err
	case <-ctx.Done():
		return httpResult{}, ctx.Err()
	}
}

// classifyTransportError maps a failed call (no HTTP response) to an *apperrors.Error.
func classifyTransportError(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, fasthttp.ErrTimeout),
		errors.As(err, &netErr) && netErr.Timeout():
		return apperrors.Timeout(err)
	case errors.Is(err, context.Canceled):
		return apperrors.Upstream("request cancelled", err)
	default:
		return apperrors.Transport(err)
	}
}

// classifyStatus maps a non-2xx HTTP status to an *apperrors.Error; 2xx yields nil.
func classifyStatus(status int, retryAfter string, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	detail := fmt.Errorf("http %d: %s", status, truncate(body))
	if status == http.StatusTooManyRequests {
		return apperrors.RateLimited(parseRetryAfter(retryAfter, time.Now()), detail)
	}
	return apperrors.Upstream(fmt.Sprintf("upstream returned HTTP %d", status), detail)
}

// embeddedRPCError builds the error for an RPC error object delivered in a 2xx envelope.
func embeddedRPCError(e *JSONRPCError) error {
	msg := fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
	return apperrors.Upstream(msg, errors.New(msg))
}

// parseRetryAfter accepts delta-seconds or an HTTP date. Unusable values yield 0.
func parseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := t.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}

func truncate(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxLoggedBody {
		return s[:maxLoggedBody] + "..."
	}
	return s
}
