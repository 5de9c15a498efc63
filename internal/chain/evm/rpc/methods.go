package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/codecrypto-org/viem/internal/domain/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	TagLatest  = "latest"
	TagPending = "pending"
)

func (c *Client) ChainID(ctx context.Context) (uint64, error) {
	return c.quantity(ctx, "eth_chainId", nil)
}

func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	return c.quantity(ctx, "eth_blockNumber", nil)
}

func (c *Client) GetBlockByTag(ctx context.Context, tag string, includeFullTx bool) (*Block, error) {
	result, err := c.call(ctx, "eth_getBlockByNumber", []interface{}{tag, includeFullTx})
	if err != nil {
		return nil, err
	}
	if isNull(result) {
		return nil, nil
	}

	var block Block
	if err := json.Unmarshal(result, &block); err != nil {
		return nil, model.NewTransportError("eth_getBlockByNumber", fmt.Errorf("unmarshal block: %w", err))
	}
	return &block, nil
}

func (c *Client) GetBlockByNumber(ctx context.Context, blockNumber uint64, includeFullTx bool) (*Block, error) {
	return c.GetBlockByTag(ctx, hexutil.EncodeUint64(blockNumber), includeFullTx)
}

func (c *Client) GetBalance(ctx context.Context, address common.Address, tag string) (*big.Int, error) {
	result, err := c.call(ctx, "eth_getBalance", []interface{}{address.Hex(), tag})
	if err != nil {
		return nil, err
	}
	return decodeBig("eth_getBalance", result)
}

// GetBalances reads several balances in one batch. Results follow the order
// of addresses.
func (c *Client) GetBalances(ctx context.Context, addresses []common.Address, tag string) ([]*big.Int, error) {
	if len(addresses) == 0 {
		return []*big.Int{}, nil
	}
	requests := make([]Request, len(addresses))
	for i, addr := range addresses {
		requests[i] = c.newRequest("eth_getBalance", []interface{}{addr.Hex(), tag})
	}

	responses, err := c.callBatch(ctx, requests)
	if err != nil {
		return nil, err
	}

	balances := make([]*big.Int, len(addresses))
	for i, resp := range responses {
		if resp.Error != nil {
			return nil, model.NewTransportError("eth_getBalance", fmt.Errorf("%s: %w", addresses[i].Hex(), resp.Error))
		}
		balance, err := decodeBig("eth_getBalance", resp.Result)
		if err != nil {
			return nil, err
		}
		balances[i] = balance
	}
	return balances, nil
}

func (c *Client) GetTransactionCount(ctx context.Context, address common.Address, tag string) (uint64, error) {
	return c.quantity(ctx, "eth_getTransactionCount", []interface{}{address.Hex(), tag})
}

// GetTransactionReceipt returns nil, nil while the transaction is not mined.
func (c *Client) GetTransactionReceipt(ctx context.Context, hash common.Hash) (*TransactionReceipt, error) {
	result, err := c.call(ctx, "eth_getTransactionReceipt", []interface{}{hash.Hex()})
	if err != nil {
		return nil, err
	}
	if isNull(result) {
		return nil, nil
	}

	var receipt TransactionReceipt
	if err := json.Unmarshal(result, &receipt); err != nil {
		return nil, model.NewTransportError("eth_getTransactionReceipt", fmt.Errorf("unmarshal transaction receipt: %w", err))
	}
	return &receipt, nil
}

func (c *Client) Call(ctx context.Context, args CallArgs, tag string) ([]byte, error) {
	result, err := c.call(ctx, "eth_call", []interface{}{args, tag})
	if err != nil {
		return nil, err
	}
	return decodeBytes("eth_call", result)
}

func (c *Client) EstimateGas(ctx context.Context, args CallArgs) (uint64, error) {
	return c.quantity(ctx, "eth_estimateGas", []interface{}{args})
}

func (c *Client) GasPrice(ctx context.Context) (*big.Int, error) {
	result, err := c.call(ctx, "eth_gasPrice", nil)
	if err != nil {
		return nil, err
	}
	return decodeBig("eth_gasPrice", result)
}

func (c *Client) MaxPriorityFeePerGas(ctx context.Context) (*big.Int, error) {
	result, err := c.call(ctx, "eth_maxPriorityFeePerGas", nil)
	if err != nil {
		return nil, err
	}
	return decodeBig("eth_maxPriorityFeePerGas", result)
}

func (c *Client) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	result, err := c.call(ctx, "eth_sendRawTransaction", []interface{}{hexutil.Encode(raw)})
	if err != nil {
		return common.Hash{}, err
	}
	return decodeHash("eth_sendRawTransaction", result)
}

func (c *Client) quantity(ctx context.Context, method string, params []interface{}) (uint64, error) {
	result, err := c.call(ctx, method, params)
	if err != nil {
		return 0, err
	}
	var hexNum string
	if err := json.Unmarshal(result, &hexNum); err != nil {
		return 0, model.NewTransportError(method, fmt.Errorf("unmarshal quantity: %w", err))
	}
	value, err := ParseHexUint64(hexNum)
	if err != nil {
		return 0, model.NewTransportError(method, err)
	}
	return value, nil
}

func decodeBig(method string, result json.RawMessage) (*big.Int, error) {
	var hexNum string
	if err := json.Unmarshal(result, &hexNum); err != nil {
		return nil, model.NewTransportError(method, fmt.Errorf("unmarshal quantity: %w", err))
	}
	value, err := ParseHexBig(hexNum)
	if err != nil {
		return nil, model.NewTransportError(method, err)
	}
	return value, nil
}

func decodeBytes(method string, result json.RawMessage) ([]byte, error) {
	var data string
	if err := json.Unmarshal(result, &data); err != nil {
		return nil, model.NewTransportError(method, fmt.Errorf("unmarshal data: %w", err))
	}
	out, err := hexutil.Decode(data)
	if err != nil {
		return nil, model.NewTransportError(method, fmt.Errorf("decode data %q: %w", data, err))
	}
	return out, nil
}

// DecodeHashResult parses a JSON string result holding a 32-byte hash.
func DecodeHashResult(method string, result json.RawMessage) (common.Hash, error) {
	return decodeHash(method, result)
}

func decodeHash(method string, result json.RawMessage) (common.Hash, error) {
	var raw string
	if err := json.Unmarshal(result, &raw); err != nil {
		return common.Hash{}, model.NewTransportError(method, fmt.Errorf("unmarshal hash: %w", err))
	}
	b, err := hexutil.Decode(raw)
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, model.NewTransportError(method, fmt.Errorf("malformed hash %q", raw))
	}
	return common.BytesToHash(b), nil
}

func isNull(result json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(result))
	return trimmed == "" || trimmed == "null"
}

// ParseHexUint64 accepts quantities with or without leading zeros.
func ParseHexUint64(value string) (uint64, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return 0, fmt.Errorf("empty hex value")
	}
	raw = strings.TrimPrefix(strings.ToLower(raw), "0x")
	if raw == "" {
		return 0, nil
	}
	parsed, err := strconv.ParseUint(raw, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parse hex %q: %w", value, err)
	}
	return parsed, nil
}

// ParseHexBig parses an arbitrary-size hex quantity.
func ParseHexBig(value string) (*big.Int, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return nil, fmt.Errorf("empty hex value")
	}
	raw = strings.TrimPrefix(strings.ToLower(raw), "0x")
	if raw == "" {
		return new(big.Int), nil
	}
	parsed, ok := new(big.Int).SetString(raw, 16)
	if !ok || parsed.Sign() < 0 {
		return nil, fmt.Errorf("parse hex %q", value)
	}
	return parsed, nil
}
