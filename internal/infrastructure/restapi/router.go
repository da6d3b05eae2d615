package restapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterDeps holds what SetupRouter wires into the engine. Limiter may be nil.
type RouterDeps struct {
	Assets  *AssetHandler
	Proxy   *ProxyHandler
	Limiter *ClientRateLimiter
	Logger  *zap.Logger
}

// SetupRouter builds the gin engine with middleware and all routes.
func SetupRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	router.Use(SecurityHeaders())
	router.Use(cors.New(CORSConfig()))
	router.Use(ZapLoggerMiddleware(deps.Logger))
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "OK") })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	if deps.Limiter != nil {
		v1.Use(deps.Limiter.Middleware())
	}
	{
		v1.GET("/assets", deps.Assets.GetAssetsHandler)
		v1.POST("/assets/batch", deps.Assets.BatchAssetsHandler)
		v1.GET("/chains", deps.Assets.ListChainsHandler)
		v1.POST("/proxy/:chain", deps.Proxy.ForwardHandler)
		v1.OPTIONS("/proxy/:chain", deps.Proxy.PreflightHandler)
	}

	return router
}
