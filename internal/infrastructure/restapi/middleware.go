package restapi

import (
	"net/http"
	"strconv"
	"time"

	"asset_gateway/internal/infrastructure/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Security headers sent with every response.
var securityHeaders = map[string]string{
	"Content-Security-Policy":   "default-src 'none'; frame-ancestors 'none'; base-uri 'none'",
	"X-Content-Type-Options":    "nosniff",
	"X-Frame-Options":           "DENY",
	"Strict-Transport-Security": "max-age=63072000; includeSubDomains; preload",
	"Referrer-Policy":           "no-referrer",
}

// SecurityHeaders sets the fixed security header set before any handler runs, so aborted
// and pre-flight responses carry it too.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		for k, v := range securityHeaders {
			c.Header(k, v)
		}
		c.Next()
	}
}

// CORSConfig is the explicit cross-origin policy of the API and the proxy.
func CORSConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsConfig.ExposeHeaders = []string{"Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	return corsConfig
}

// ZapLoggerMiddleware logs every request and counts it per route and status.
func ZapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("clientIP", c.ClientIP()),
		}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("Request served", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("Request served", fields...)
		default:
			logger.Info("Request served", fields...)
		}
	}
}

// ClientRateLimiter throttles inbound requests per client IP. Limiters of idle clients
// expire from the store.
type ClientRateLimiter struct {
	store *cache.Cache
	limit rate.Limit
	burst int
}

// NewClientRateLimiter creates a limiter allowing perSecond requests with the given burst per client.
func NewClientRateLimiter(perSecond float64, burst int, idle time.Duration) *ClientRateLimiter {
	return &ClientRateLimiter{
		store: cache.New(idle, idle*2),
		limit: rate.Limit(perSecond),
		burst: burst,
	}
}

func (l *ClientRateLimiter) limiterFor(clientIP string) *rate.Limiter {
	if v, ok := l.store.Get(clientIP); ok {
		lim := v.(*rate.Limiter)
		l.store.SetDefault(clientIP, lim)
		return lim
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	if err := l.store.Add(clientIP, lim, cache.DefaultExpiration); err != nil {
		// Lost the race to a concurrent request of the same client.
		if v, ok := l.store.Get(clientIP); ok {
			return v.(*rate.Limiter)
		}
	}
	return lim
}

// Middleware rejects clients over their budget with 429.
func (l *ClientRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.limiterFor(c.ClientIP()).Allow() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many requests"})
			return
		}
		c.Next()
	}
}
