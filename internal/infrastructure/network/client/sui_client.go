package client

import (
	"context"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"strings"

	"asset_gateway/internal/app/normalizer"
	"asset_gateway/internal/app/port"
	"asset_gateway/internal/domain/entity"
	"asset_gateway/internal/pkg/apperrors"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const (
	suiOwnedObjectsMethod = "suix_getOwnedObjects"
	// suiPageLimit is the page size of the single owned-objects call made per query.
	suiPageLimit = 50
)

type jsonRPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type suiOwnedObjectsResponse struct {
	Result *struct {
		Data        []suiObjectResponse `json:"data"`
		HasNextPage bool                `json:"hasNextPage"`
	} `json:"result"`
	Error *JSONRPCError `json:"error"`
}

type suiObjectResponse struct {
	Data *struct {
		ObjectID string             `json:"objectId"`
		Type     string             `json:"type"`
		Content  stdjson.RawMessage `json:"content"`
	} `json:"data"`
	Error stdjson.RawMessage `json:"error"`
}

// coinContent is the part of a Move object's content carrying a coin balance.
type coinContent struct {
	Fields struct {
		Balance flexString `json:"balance"`
	} `json:"fields"`
}

// flexString decodes a JSON string or number into its textual form.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var n stdjson.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// SuiClient fetches owned objects from a Sui full node over JSON-RPC.
type SuiClient struct {
	doer       *fastDoer
	netDef     entity.NetworkDefinition
	classifier port.RecordClassifier
	logger     *zap.Logger
}

var _ port.AssetAdapter = (*SuiClient)(nil)

// NewSuiClient creates a Sui adapter for netDef sharing httpClient.
func NewSuiClient(netDef entity.NetworkDefinition, httpClient *fasthttp.Client, opts Options, logger *zap.Logger) *SuiClient {
	return &SuiClient{
		doer:       &fastDoer{client: httpClient, timeout: opts.Timeout},
		netDef:     netDef,
		classifier: normalizer.NewMoveClassifier(netDef, normalizer.SuiCoinWrapper, normalizer.SuiNonFungible),
		logger:     logger.Named("SuiClient"),
	}
}

// FetchOwnedAssets returns the first page of objects owned by address with type and content.
func (c *SuiClient) FetchOwnedAssets(ctx context.Context, address string) ([]entity.RawRecord, error) {
	payload, err := json.Marshal(jsonRPCRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  suiOwnedObjectsMethod,
		Params: []any{
			address,
			map[string]any{
				"options": map[string]bool{"showType": true, "showContent": true},
			},
			nil,
			suiPageLimit,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", suiOwnedObjectsMethod, err)
	}

	c.logger.Debug("Requesting owned objects", zap.String("address", address))
	res, err := c.doer.do(ctx, func(req *fasthttp.Request) {
		req.SetRequestURI(c.netDef.RPCURL)
		req.Header.SetMethod(fasthttp.MethodPost)
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	})
	if err != nil {
		return nil, classifyTransportError(err)
	}
	if err := classifyStatus(res.status, res.retryAfter, res.body); err != nil {
		return nil, err
	}

	var decoded suiOwnedObjectsResponse
	if err := json.Unmarshal(res.body, &decoded); err != nil {
		return nil, apperrors.Upstream("malformed upstream response", fmt.Errorf("decode %s: %w", suiOwnedObjectsMethod, err))
	}
	if decoded.Error != nil {
		return nil, embeddedRPCError(decoded.Error)
	}
	if decoded.Result == nil {
		return nil, apperrors.Upstream("malformed upstream response", errors.New("response carries neither result nor error"))
	}
	if decoded.Result.HasNextPage {
		c.logger.Debug("Owned objects truncated to first page", zap.String("address", address), zap.Int("limit", suiPageLimit))
	}

	records := make([]entity.RawRecord, 0, len(decoded.Result.Data))
	for _, obj := range decoded.Result.Data {
		records = append(records, suiRecord(obj))
	}
	return records, nil
}

// suiRecord shapes one object entry. Entries with a per-object error or no data come back
// empty and are skipped by the normalizer.
func suiRecord(obj suiObjectResponse) entity.RawRecord {
	if obj.Data == nil || len(obj.Error) > 0 && string(obj.Error) != "null" {
		return entity.RawRecord{}
	}
	record := entity.RawRecord{
		ObjectID: obj.Data.ObjectID,
		Type:     obj.Data.Type,
		Content:  obj.Data.Content,
	}
	if strings.Contains(obj.Data.Type, "::coin::Coin<") && len(obj.Data.Content) > 0 {
		var content coinContent
		if err := json.Unmarshal(obj.Data.Content, &content); err == nil {
			record.Balance = string(content.Fields.Balance)
		}
	}
	return record
}

// Definition returns the network definition for this client.
func (c *SuiClient) Definition() entity.NetworkDefinition {
	return c.netDef
}

// Classifier returns the Sui record classifier.
func (c *SuiClient) Classifier() port.RecordClassifier {
	return c.classifier
}
