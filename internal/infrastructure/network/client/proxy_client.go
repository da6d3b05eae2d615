package client

import (
	"context"
	"net/url"
	"strings"

	"asset_gateway/internal/app/port"
	"asset_gateway/internal/domain/entity"
	"asset_gateway/internal/pkg/apperrors"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const defaultProxyContentType = "application/json"

// ProxyClient forwards GET requests to a chain's configured base RPC URL.
type ProxyClient struct {
	doer     *fastDoer
	registry port.ChainRegistry
	logger   *zap.Logger
}

var _ port.RPCProxy = (*ProxyClient)(nil)

// NewProxyClient creates a proxy resolving base URLs through registry.
func NewProxyClient(registry port.ChainRegistry, httpClient *fasthttp.Client, opts Options, logger *zap.Logger) *ProxyClient {
	return &ProxyClient{
		doer:     &fastDoer{client: httpClient, timeout: opts.Timeout},
		registry: registry,
		logger:   logger.Named("ProxyClient"),
	}
}

// ValidateEndpoint accepts a path suffix: it must start with "/" and may not traverse
// upwards or carry a scheme. Both the raw and the percent-decoded form are checked, since
// fasthttp decodes the path before sending it.
func ValidateEndpoint(endpoint string) error {
	if endpoint == "" {
		return apperrors.InvalidInput("endpoint is required")
	}
	decoded, err := url.PathUnescape(endpoint)
	if err != nil {
		return apperrors.InvalidInput("endpoint is not a valid escaped path")
	}
	if err := checkEndpoint(decoded); err != nil {
		return err
	}
	return checkEndpoint(endpoint)
}

func checkEndpoint(endpoint string) error {
	switch {
	case !strings.HasPrefix(endpoint, "/"), strings.HasPrefix(endpoint, "//"):
		return apperrors.InvalidInput("endpoint must be a path starting with /")
	case strings.Contains(endpoint, ".."):
		return apperrors.InvalidInput("endpoint must not contain ..")
	case strings.Contains(endpoint, "://"):
		return apperrors.InvalidInput("endpoint must not contain a scheme")
	case strings.ContainsAny(endpoint, "\r\n\\"):
		return apperrors.InvalidInput("endpoint contains invalid characters")
	}
	return nil
}

// Forward performs GET <base RPC URL of chain><endpoint> and returns the upstream body verbatim.
func (p *ProxyClient) Forward(ctx context.Context, chain entity.ChainID, endpoint string) (port.ProxyResponse, error) {
	def, err := p.registry.Resolve(chain)
	if err != nil {
		return port.ProxyResponse{}, err
	}
	if err := ValidateEndpoint(endpoint); err != nil {
		return port.ProxyResponse{}, err
	}

	requestURL := def.RPCURL + endpoint
	p.logger.Debug("Proxying request", zap.String("chain", chain.String()), zap.String("url", requestURL))

	res, err := p.doer.do(ctx, func(req *fasthttp.Request) {
		req.SetRequestURI(requestURL)
		req.Header.SetMethod(fasthttp.MethodGet)
		req.Header.Set(fasthttp.HeaderAccept, "application/json")
	})
	if err != nil {
		return port.ProxyResponse{}, classifyTransportError(err)
	}
	if err := classifyStatus(res.status, res.retryAfter, res.body); err != nil {
		return port.ProxyResponse{}, err
	}
	contentType := res.contentType
	if contentType == "" {
		contentType = defaultProxyContentType
	}
	return port.ProxyResponse{ContentType: contentType, Body: res.body}, nil
}
