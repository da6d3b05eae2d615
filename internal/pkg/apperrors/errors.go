package apperrors

import (
	"errors"
	"fmt"
	"time"
)

// Standard application errors. Every *Error matches exactly one of them through errors.Is.
var (
	// ErrInvalidInput is returned when the input provided by the client is invalid.
	ErrInvalidInput = errors.New("invalid input provided")

	// ErrNotFound is returned when a requested resource (e.g. a chain) is not registered.
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited is returned when an upstream signalled throttling.
	ErrRateLimited = errors.New("upstream rate limited")

	// ErrUpstream is returned when an upstream call failed at transport, HTTP or RPC level.
	ErrUpstream = errors.New("upstream service failure")

	// ErrTimeout is returned when an upstream call did not complete in time.
	ErrTimeout = errors.New("upstream request timed out")
)

// DefaultRetryAfter is suggested to callers when a throttling upstream gave no delay.
const DefaultRetryAfter = 2 * time.Second

// Kind classifies an Error.
type Kind int

const (
	KindInvalidInput Kind = iota + 1
	KindNotFound
	KindRateLimited
	KindUpstream
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	case KindUpstream:
		return "upstream"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidInput:
		return ErrInvalidInput
	case KindNotFound:
		return ErrNotFound
	case KindRateLimited:
		return ErrRateLimited
	case KindUpstream:
		return ErrUpstream
	case KindTimeout:
		return ErrTimeout
	default:
		return nil
	}
}

// Error is the typed error carried from adapters and the gateway up to the transport layer.
// Message is safe to show to callers; Err holds the full detail and is only logged.
type Error struct {
	Kind       Kind
	Message    string
	RetryAfter time.Duration
	Err        error
	// Transient marks upstream failures below HTTP (connection refused, reset) that may succeed on retry.
	Transient bool
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// Retryable reports whether a caller may reasonably repeat the operation.
func (e *Error) Retryable() bool {
	return e.Kind == KindRateLimited || e.Kind == KindTimeout || e.Transient
}

// InvalidInput builds a KindInvalidInput error with a human readable reason.
func InvalidInput(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a KindNotFound error.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// RateLimited builds a KindRateLimited error; a non-positive delay is replaced by DefaultRetryAfter.
func RateLimited(retryAfter time.Duration, err error) *Error {
	if retryAfter <= 0 {
		retryAfter = DefaultRetryAfter
	}
	return &Error{Kind: KindRateLimited, Message: "upstream rate limit exceeded", RetryAfter: retryAfter, Err: err}
}

// Upstream builds a KindUpstream error. message is what the caller will see.
func Upstream(message string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: message, Err: err}
}

// Transport builds a transient KindUpstream error for a call that produced no HTTP response.
func Transport(err error) *Error {
	return &Error{Kind: KindUpstream, Message: "upstream request failed", Err: err, Transient: true}
}

// Timeout builds a KindTimeout error.
func Timeout(err error) *Error {
	return &Error{Kind: KindTimeout, Message: "upstream request timed out", Err: err}
}

// As extracts an *Error from err. Errors that are not typed are reported as KindUpstream
// so that nothing unclassified leaks to callers.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Upstream("internal error", err)
}
