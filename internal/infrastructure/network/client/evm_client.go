package client

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"

	"asset_gateway/internal/app/normalizer"
	"asset_gateway/internal/app/port"
	"asset_gateway/internal/domain/entity"
	"asset_gateway/internal/pkg/apperrors"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

// ERC20 ABI minimal part for balanceOf
const erc20ABI = `[{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}]`

var (
	parsedERC20ABI  abi.ABI
	parsedERC20Once sync.Once
)

func initParsedERC20ABI() {
	parsedERC20Once.Do(func() {
		var err error
		parsedERC20ABI, err = abi.JSON(strings.NewReader(erc20ABI))
		if err != nil {
			panic(fmt.Sprintf("failed to parse ERC20 ABI: %v", err))
		}
	})
}

// EVMClient reads the native balance and the configured ERC-20 balances of an account in
// one JSON-RPC batch.
type EVMClient struct {
	rpcClient  *rpc.Client
	netDef     entity.NetworkDefinition
	tokens     []entity.TokenInfo
	classifier port.RecordClassifier
	logger     *zap.Logger
}

var _ port.AssetAdapter = (*EVMClient)(nil)

// NewEVMClient creates an EVM adapter. Dialing an HTTP endpoint does not touch the network.
func NewEVMClient(ctx context.Context, netDef entity.NetworkDefinition, tokens []entity.TokenInfo, httpClient *http.Client, logger *zap.Logger) (*EVMClient, error) {
	initParsedERC20ABI()

	for _, t := range tokens {
		if !common.IsHexAddress(t.Address) {
			return nil, fmt.Errorf("token %s on %s has invalid contract address %q", t.Symbol, netDef.ID, t.Address)
		}
	}

	rpcClient, err := rpc.DialOptions(ctx, netDef.RPCURL, rpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to set up RPC client for %s: %w", netDef.Name, err)
	}
	return &EVMClient{
		rpcClient:  rpcClient,
		netDef:     netDef,
		tokens:     tokens,
		classifier: normalizer.NewEVMClassifier(netDef),
		logger:     logger.Named("EVMClient"),
	}, nil
}

// FetchOwnedAssets returns one record for the native balance followed by one per configured
// token. Tokens whose call returns no data are shaped without a balance.
func (c *EVMClient) FetchOwnedAssets(ctx context.Context, address string) ([]entity.RawRecord, error) {
	owner := common.HexToAddress(address)

	batchElems := make([]rpc.BatchElem, 0, len(c.tokens)+1)
	batchElems = append(batchElems, rpc.BatchElem{
		Method: "eth_getBalance",
		Args:   []interface{}{owner, "latest"},
		Result: new(*hexutil.Big),
	})
	for _, token := range c.tokens {
		callData, err := parsedERC20ABI.Pack("balanceOf", owner)
		if err != nil {
			return nil, apperrors.Upstream("failed to encode balance call", err)
		}
		callArgs := map[string]interface{}{
			"to":   common.HexToAddress(token.Address),
			"data": hexutil.Bytes(callData),
		}
		batchElems = append(batchElems, rpc.BatchElem{
			Method: "eth_call",
			Args:   []interface{}{callArgs, "latest"},
			Result: new(hexutil.Bytes),
		})
	}

	c.logger.Debug("Sending balance batch", zap.String("address", address), zap.Int("calls", len(batchElems)))
	if err := c.rpcClient.BatchCallContext(ctx, batchElems); err != nil {
		return nil, classifyRPCError(err)
	}

	for i, elem := range batchElems {
		if elem.Error != nil {
			c.logger.Debug("Batch element failed", zap.String("method", elem.Method), zap.Int("index", i), zap.Error(elem.Error))
			return nil, classifyRPCError(elem.Error)
		}
	}

	records := make([]entity.RawRecord, 0, len(batchElems))

	native, ok := batchElems[0].Result.(**hexutil.Big)
	if !ok || native == nil || *native == nil {
		return nil, apperrors.Upstream("malformed upstream response", errors.New("eth_getBalance returned no result"))
	}
	records = append(records, entity.RawRecord{
		ObjectID: string(c.netDef.NativeIdentity),
		Type:     string(c.netDef.NativeIdentity),
		Balance:  (*big.Int)(*native).String(),
	})

	for i, token := range c.tokens {
		records = append(records, c.tokenRecord(token, batchElems[i+1]))
	}
	return records, nil
}

func (c *EVMClient) tokenRecord(token entity.TokenInfo, elem rpc.BatchElem) entity.RawRecord {
	record := entity.RawRecord{
		ObjectID: token.Address,
		Type:     token.Address,
		Symbol:   token.Symbol,
		Name:     token.Name,
		Decimals: token.Decimals,
	}

	result, ok := elem.Result.(*hexutil.Bytes)
	if !ok || result == nil || len(*result) == 0 {
		return record
	}
	unpacked, err := parsedERC20ABI.Unpack("balanceOf", *result)
	if err != nil || len(unpacked) == 0 {
		c.logger.Debug("Failed to unpack balanceOf result", zap.String("token", token.Address), zap.String("raw", hexutil.Encode(*result)))
		return record
	}
	if balance, ok := unpacked[0].(*big.Int); ok {
		record.Balance = balance.String()
	}
	return record
}

// classifyRPCError maps go-ethereum client errors onto the gateway's error kinds.
func classifyRPCError(err error) error {
	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		return classifyStatus(httpErr.StatusCode, "", httpErr.Body)
	}
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return embeddedRPCError(&JSONRPCError{Code: rpcErr.ErrorCode(), Message: rpcErr.Error()})
	}
	return classifyTransportError(err)
}

// Definition returns the network definition for this client.
func (c *EVMClient) Definition() entity.NetworkDefinition {
	return c.netDef
}

// Classifier returns the EVM record classifier.
func (c *EVMClient) Classifier() port.RecordClassifier {
	return c.classifier
}

// Close releases the underlying RPC client.
func (c *EVMClient) Close() {
	c.rpcClient.Close()
}
