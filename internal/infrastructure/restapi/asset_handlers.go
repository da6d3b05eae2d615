package restapi

import (
	"net/http"
	"strconv"

	"asset_gateway/internal/app/port"
	"asset_gateway/internal/domain/entity"
	"asset_gateway/internal/infrastructure/configloader"
	"asset_gateway/internal/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BatchRequest is the body of POST /api/v1/assets/batch.
type BatchRequest struct {
	Queries []entity.AssetQuery `json:"queries"`
}

// BatchResponse carries one result per query, in request order.
type BatchResponse struct {
	Results []entity.BatchQueryResult `json:"results"`
}

// ChainInfo describes a registered chain to API consumers.
type ChainInfo struct {
	ID             entity.ChainID       `json:"id"`
	Name           string               `json:"name"`
	NativeSymbol   string               `json:"nativeSymbol"`
	NativeName     string               `json:"nativeName"`
	NativeDecimals uint8                `json:"nativeDecimals"`
	NativeIdentity entity.TokenIdentity `json:"nativeIdentity"`
	AssetQueries   bool                 `json:"assetQueries"`
}

// AssetHandler serves the asset query endpoints.
type AssetHandler struct {
	gateway         port.AssetGateway
	registry        port.ChainRegistry
	maxBatchQueries int
	logger          *zap.Logger
}

// NewAssetHandler creates a new instance of AssetHandler.
func NewAssetHandler(gw port.AssetGateway, registry port.ChainRegistry, cfg *configloader.Config, logger *zap.Logger) *AssetHandler {
	return &AssetHandler{
		gateway:         gw,
		registry:        registry,
		maxBatchQueries: cfg.Performance.MaxBatchQueries,
		logger:          logger.Named("AssetHandler"),
	}
}

// GetAssetsHandler handles GET /api/v1/assets?address=&chain=&includeNfts=.
func (h *AssetHandler) GetAssetsHandler(c *gin.Context) {
	includeNfts := false
	if raw := c.Query("includeNfts"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(c, apperrors.InvalidInput("includeNfts must be a boolean, got %q", raw))
			return
		}
		includeNfts = v
	}

	result, err := h.gateway.Handle(c.Request.Context(), entity.AssetQuery{
		Address:     c.Query("address"),
		Chain:       entity.ChainID(c.Query("chain")),
		IncludeNfts: includeNfts,
	})
	if err != nil {
		h.logger.Warn("Asset query failed",
			zap.String("route", c.FullPath()),
			zap.String("chain", c.Query("chain")),
			zap.Error(err))
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// BatchAssetsHandler handles POST /api/v1/assets/batch.
func (h *AssetHandler) BatchAssetsHandler(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Rejected batch body", zap.Error(err))
		writeError(c, apperrors.InvalidInput("request body must be {\"queries\": [...]}"))
		return
	}
	if len(req.Queries) == 0 {
		writeError(c, apperrors.InvalidInput("queries must not be empty"))
		return
	}
	if h.maxBatchQueries > 0 && len(req.Queries) > h.maxBatchQueries {
		writeError(c, apperrors.InvalidInput("at most %d queries per batch, got %d", h.maxBatchQueries, len(req.Queries)))
		return
	}

	outcomes := h.gateway.HandleBatch(c.Request.Context(), req.Queries)

	resp := BatchResponse{Results: make([]entity.BatchQueryResult, len(outcomes))}
	for i, o := range outcomes {
		r := entity.BatchQueryResult{Address: o.Query.Address, Chain: o.Query.Chain, Status: http.StatusOK, Result: o.Result}
		if o.Err != nil {
			e := apperrors.As(o.Err)
			r.Status = StatusFor(e)
			r.Result = nil
			r.Error = e.Message
			if r.Status == http.StatusTooManyRequests {
				r.RetryAfterSeconds = RetryAfterSeconds(e.RetryAfter)
			}
		}
		resp.Results[i] = r
	}
	c.JSON(http.StatusOK, resp)
}

// ListChainsHandler handles GET /api/v1/chains.
func (h *AssetHandler) ListChainsHandler(c *gin.Context) {
	supported := make(map[entity.ChainID]bool)
	for _, id := range h.gateway.SupportedChains() {
		supported[id] = true
	}

	defs := h.registry.All()
	chains := make([]ChainInfo, 0, len(defs))
	for _, def := range defs {
		chains = append(chains, ChainInfo{
			ID:             def.ID,
			Name:           def.Name,
			NativeSymbol:   def.NativeSymbol,
			NativeName:     def.NativeName,
			NativeDecimals: def.NativeDecimals,
			NativeIdentity: def.NativeIdentity,
			AssetQueries:   supported[def.ID],
		})
	}
	c.JSON(http.StatusOK, gin.H{"chains": chains})
}
