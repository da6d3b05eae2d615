package restapi

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"asset_gateway/internal/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusFor maps an error kind to its HTTP status. Unknown chains are bad input to callers.
func StatusFor(e *apperrors.Error) int {
	switch e.Kind {
	case apperrors.KindInvalidInput, apperrors.KindNotFound:
		return http.StatusBadRequest
	case apperrors.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// RetryAfterSeconds rounds d up to whole seconds, never below 1.
func RetryAfterSeconds(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

// writeError renders err as {error} with the status of its kind. Only the summary message
// reaches the caller.
func writeError(c *gin.Context, err error) {
	e := apperrors.As(err)
	status := StatusFor(e)
	if status == http.StatusTooManyRequests {
		c.Header("Retry-After", strconv.Itoa(RetryAfterSeconds(e.RetryAfter)))
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: e.Message})
}
