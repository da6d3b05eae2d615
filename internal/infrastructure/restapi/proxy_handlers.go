package restapi

import (
	"net/http"

	"asset_gateway/internal/app/port"
	"asset_gateway/internal/domain/entity"
	"asset_gateway/internal/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProxyRequest is the body of POST /api/v1/proxy/:chain.
type ProxyRequest struct {
	Endpoint string `json:"endpoint"`
}

// ProxyHandler forwards raw read requests to chain RPC endpoints.
type ProxyHandler struct {
	proxy  port.RPCProxy
	logger *zap.Logger
}

// NewProxyHandler creates a new instance of ProxyHandler.
func NewProxyHandler(proxy port.RPCProxy, logger *zap.Logger) *ProxyHandler {
	return &ProxyHandler{proxy: proxy, logger: logger.Named("ProxyHandler")}
}

// ForwardHandler handles POST /api/v1/proxy/:chain.
func (h *ProxyHandler) ForwardHandler(c *gin.Context) {
	var req ProxyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.InvalidInput("request body must be {\"endpoint\": \"/...\"}"))
		return
	}

	chain := entity.ChainID(c.Param("chain"))
	resp, err := h.proxy.Forward(c.Request.Context(), chain, req.Endpoint)
	if err != nil {
		h.logger.Error("Proxy request failed",
			zap.String("route", c.FullPath()),
			zap.String("chain", chain.String()),
			zap.String("endpoint", req.Endpoint),
			zap.Error(err))
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, resp.ContentType, resp.Body)
}

// PreflightHandler answers OPTIONS with 204 and no body.
func (h *ProxyHandler) PreflightHandler(c *gin.Context) {
	c.AbortWithStatus(http.StatusNoContent)
}
