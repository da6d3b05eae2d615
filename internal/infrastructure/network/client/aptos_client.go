package client

import (
	"context"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"asset_gateway/internal/app/normalizer"
	"asset_gateway/internal/app/port"
	"asset_gateway/internal/domain/entity"
	"asset_gateway/internal/pkg/apperrors"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const (
	aptosResourceLimit   = 9999
	aptosAccountNotFound = "account_not_found"
	aptosCoinStorePrefix = normalizer.AptosCoinWrapper + "<"
)

type aptosResource struct {
	Type string             `json:"type"`
	Data stdjson.RawMessage `json:"data"`
}

type aptosCoinStoreData struct {
	Coin *struct {
		Value flexString `json:"value"`
	} `json:"coin"`
}

// aptosAPIError is the object the Aptos REST API returns instead of a resource list.
type aptosAPIError struct {
	Message     string `json:"message"`
	ErrorCode   string `json:"error_code"`
	VMErrorCode *int   `json:"vm_error_code"`
}

// AptosClient fetches account resources from the Aptos node REST API.
type AptosClient struct {
	doer       *fastDoer
	netDef     entity.NetworkDefinition
	classifier port.RecordClassifier
	logger     *zap.Logger
}

var _ port.AssetAdapter = (*AptosClient)(nil)

// NewAptosClient creates an Aptos adapter for netDef sharing httpClient.
func NewAptosClient(netDef entity.NetworkDefinition, httpClient *fasthttp.Client, opts Options, logger *zap.Logger) *AptosClient {
	return &AptosClient{
		doer:       &fastDoer{client: httpClient, timeout: opts.Timeout},
		netDef:     netDef,
		classifier: normalizer.NewMoveClassifier(netDef, normalizer.AptosCoinWrapper, normalizer.AptosNonFungible),
		logger:     logger.Named("AptosClient"),
	}
}

// FetchOwnedAssets returns every resource stored under address.
func (c *AptosClient) FetchOwnedAssets(ctx context.Context, address string) ([]entity.RawRecord, error) {
	requestURL := fmt.Sprintf("%s/v1/accounts/%s/resources?limit=%d", c.netDef.RPCURL, address, aptosResourceLimit)
	c.logger.Debug("Requesting account resources", zap.String("url", requestURL))

	res, err := c.doer.do(ctx, func(req *fasthttp.Request) {
		req.SetRequestURI(requestURL)
		req.Header.SetMethod(fasthttp.MethodGet)
		req.Header.Set(fasthttp.HeaderAccept, "application/json")
	})
	if err != nil {
		return nil, classifyTransportError(err)
	}

	// An account that was never created has no resources rather than being an error.
	if res.status == http.StatusNotFound {
		var apiErr aptosAPIError
		if json.Unmarshal(res.body, &apiErr) == nil && apiErr.ErrorCode == aptosAccountNotFound {
			return []entity.RawRecord{}, nil
		}
	}
	if err := classifyStatus(res.status, res.retryAfter, res.body); err != nil {
		return nil, err
	}

	if body := firstNonSpace(res.body); body == '{' {
		var apiErr aptosAPIError
		if err := json.Unmarshal(res.body, &apiErr); err != nil {
			return nil, apperrors.Upstream("malformed upstream response", fmt.Errorf("decode aptos error: %w", err))
		}
		msg := fmt.Sprintf("aptos error %s: %s", apiErr.ErrorCode, apiErr.Message)
		return nil, apperrors.Upstream(msg, errors.New(msg))
	}

	var resources []aptosResource
	if err := json.Unmarshal(res.body, &resources); err != nil {
		return nil, apperrors.Upstream("malformed upstream response", fmt.Errorf("decode aptos resources: %w", err))
	}

	records := make([]entity.RawRecord, 0, len(resources))
	for _, r := range resources {
		records = append(records, aptosRecord(r))
	}
	return records, nil
}

func aptosRecord(r aptosResource) entity.RawRecord {
	record := entity.RawRecord{ObjectID: r.Type, Type: r.Type, Content: r.Data}
	if strings.HasPrefix(normalizer.CanonicalTypeTag(r.Type), aptosCoinStorePrefix) {
		var data aptosCoinStoreData
		if err := json.Unmarshal(r.Data, &data); err == nil && data.Coin != nil {
			record.Balance = string(data.Coin.Value)
		}
	}
	return record
}

func firstNonSpace(b []byte) byte {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return c
	}
	return 0
}

// Definition returns the network definition for this client.
func (c *AptosClient) Definition() entity.NetworkDefinition {
	return c.netDef
}

// Classifier returns the Aptos record classifier.
func (c *AptosClient) Classifier() port.RecordClassifier {
	return c.classifier
}
