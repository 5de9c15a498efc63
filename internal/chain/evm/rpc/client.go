package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/codecrypto-org/viem/internal/chain/ratelimit"
	"github.com/codecrypto-org/viem/internal/circuitbreaker"
	"github.com/codecrypto-org/viem/internal/domain/model"
	"github.com/codecrypto-org/viem/internal/metrics"
	"github.com/ethereum/go-ethereum/common"
)

const defaultTimeout = 30 * time.Second

//go:generate mockgen -destination=mocks/mock_client.go -package=mocks . RPCClient

// RPCClient is the node surface the read and transaction layers depend on.
type RPCClient interface {
	ChainID(ctx context.Context) (uint64, error)
	BlockNumber(ctx context.Context) (uint64, error)
	GetBlockByTag(ctx context.Context, tag string, includeFullTx bool) (*Block, error)
	GetBalance(ctx context.Context, address common.Address, tag string) (*big.Int, error)
	GetTransactionCount(ctx context.Context, address common.Address, tag string) (uint64, error)
	GetTransactionReceipt(ctx context.Context, hash common.Hash) (*TransactionReceipt, error)
	Call(ctx context.Context, args CallArgs, tag string) ([]byte, error)
	EstimateGas(ctx context.Context, args CallArgs) (uint64, error)
	GasPrice(ctx context.Context) (*big.Int, error)
	MaxPriorityFeePerGas(ctx context.Context) (*big.Int, error)
	SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error)
}

type Client struct {
	httpClient *http.Client
	rpcURL     string
	chain      string
	limiter    *ratelimit.Limiter
	breaker    *circuitbreaker.Breaker
	requestID  atomic.Int64
	logger     *slog.Logger
}

var _ RPCClient = (*Client)(nil)

// Option configures optional Client behaviour.
type Option func(*Client)

// WithLimiter throttles outbound calls through l.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithBreaker fails calls fast while b considers the endpoint down.
func WithBreaker(b *circuitbreaker.Breaker) Option {
	return func(c *Client) {
		c.breaker = b
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithChainLabel sets the chain label used on metrics.
func WithChainLabel(chain string) Option {
	return func(c *Client) {
		c.chain = chain
	}
}

func NewClient(rpcURL string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		rpcURL:     rpcURL,
		chain:      "unknown",
		logger:     logger.With("component", "rpc", "url", rpcURL),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// URL returns the endpoint this client posts to.
func (c *Client) URL() string {
	return c.rpcURL
}

// Request performs one raw JSON-RPC call. Any failure, including an error
// object returned by the node, comes back as a *model.TransportError.
func (c *Client) Request(ctx context.Context, method string, params []interface{}) (json.RawMessage, error) {
	return c.call(ctx, method, params)
}

func (c *Client) newRequest(method string, params []interface{}) Request {
	if params == nil {
		params = []interface{}{}
	}
	return Request{
		JSONRPC: "2.0",
		ID:      int(c.requestID.Add(1)),
		Method:  method,
		Params:  params,
	}
}

func (c *Client) call(ctx context.Context, method string, params []interface{}) (result json.RawMessage, err error) {
	start := time.Now()
	defer func() {
		ratelimit.RecordRPCCall(c.chain, method, err)
		metrics.RPCCallLatency.WithLabelValues(c.chain, method).Observe(time.Since(start).Seconds())
		if err != nil {
			c.logger.Debug("rpc call failed", "method", method, "error", err)
			err = model.NewTransportError(method, err)
		}
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req := c.newRequest(method, params)
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	respBody, err := c.post(ctx, body)
	if err != nil {
		return nil, err
	}

	var rpcResp Response
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}
	return rpcResp.Result, nil
}

// callBatch sends requests as one JSON-RPC batch and returns the responses in
// request order.
func (c *Client) callBatch(ctx context.Context, requests []Request) (responses []Response, err error) {
	defer func() {
		ratelimit.RecordRPCCall(c.chain, "batch", err)
		if err != nil {
			err = model.NewTransportError("batch", err)
		}
	}()
	if len(requests) == 0 {
		return []Response{}, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	body, err := json.Marshal(requests)
	if err != nil {
		return nil, fmt.Errorf("marshal batch request: %w", err)
	}
	respBody, err := c.post(ctx, body)
	if err != nil {
		return nil, err
	}

	var raw []Response
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal batch response: %w", err)
	}

	byID := make(map[int]Response, len(raw))
	for _, r := range raw {
		byID[r.ID] = r
	}
	ordered := make([]Response, len(requests))
	for i, req := range requests {
		r, ok := byID[req.ID]
		if !ok {
			return nil, fmt.Errorf("missing batch response for id %d (%s)", req.ID, req.Method)
		}
		ordered[i] = r
	}
	return ordered, nil
}

func (c *Client) post(ctx context.Context, body []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	if err := c.breaker.Allow(); err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() == nil {
			c.breaker.Record(true)
		}
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()
	c.breaker.Record(resp.StatusCode >= http.StatusInternalServerError)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http status %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}
