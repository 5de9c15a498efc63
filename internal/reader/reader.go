// Package reader answers read-only questions about chain state. Every method
// issues its node calls directly without retry.
package reader

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/codecrypto-org/viem/internal/chain/evm/rpc"
	"github.com/codecrypto-org/viem/internal/domain/model"
	"github.com/codecrypto-org/viem/internal/units"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ContractCall is a read-only contract invocation that knows its own
// encoding.
type ContractCall interface {
	Method() string
	Pack() ([]byte, error)
	Unpack(data []byte) (any, error)
}

// balanceBatcher is implemented by clients that can batch eth_getBalance.
type balanceBatcher interface {
	GetBalances(ctx context.Context, addresses []common.Address, tag string) ([]*big.Int, error)
}

type Reader struct {
	client rpc.RPCClient
	logger *slog.Logger
}

func New(client rpc.RPCClient, logger *slog.Logger) *Reader {
	return &Reader{
		client: client,
		logger: logger.With("component", "reader"),
	}
}

func (r *Reader) ChainID(ctx context.Context) (uint64, error) {
	return r.client.ChainID(ctx)
}

// GetBalance returns the native balance of address at the latest block.
func (r *Reader) GetBalance(ctx context.Context, address common.Address) (units.Amount, error) {
	wei, err := r.client.GetBalance(ctx, address, rpc.TagLatest)
	if err != nil {
		return units.Amount{}, err
	}
	return units.FromBig(wei)
}

// GetBalances returns balances in the order of addresses, batched when the
// client supports it.
func (r *Reader) GetBalances(ctx context.Context, addresses []common.Address) ([]units.Amount, error) {
	var raw []*big.Int
	if b, ok := r.client.(balanceBatcher); ok {
		var err error
		if raw, err = b.GetBalances(ctx, addresses, rpc.TagLatest); err != nil {
			return nil, err
		}
	} else {
		raw = make([]*big.Int, len(addresses))
		for i, addr := range addresses {
			wei, err := r.client.GetBalance(ctx, addr, rpc.TagLatest)
			if err != nil {
				return nil, err
			}
			raw[i] = wei
		}
	}

	out := make([]units.Amount, len(raw))
	for i, wei := range raw {
		amount, err := units.FromBig(wei)
		if err != nil {
			return nil, err
		}
		out[i] = amount
	}
	return out, nil
}

func (r *Reader) GetBlockNumber(ctx context.Context) (uint64, error) {
	return r.client.BlockNumber(ctx)
}

// GetBlockHead returns metadata of the latest block.
func (r *Reader) GetBlockHead(ctx context.Context) (model.BlockHead, error) {
	block, err := r.client.GetBlockByTag(ctx, rpc.TagLatest, false)
	if err != nil {
		return model.BlockHead{}, err
	}
	if block == nil {
		return model.BlockHead{}, model.NewTransportError("eth_getBlockByNumber", fmt.Errorf("node returned no latest block"))
	}
	return toBlockHead(block)
}

func toBlockHead(b *rpc.Block) (model.BlockHead, error) {
	number, err := rpc.ParseHexUint64(b.Number)
	if err != nil {
		return model.BlockHead{}, model.NewTransportError("eth_getBlockByNumber", fmt.Errorf("block number: %w", err))
	}
	ts, err := rpc.ParseHexUint64(b.Timestamp)
	if err != nil {
		return model.BlockHead{}, model.NewTransportError("eth_getBlockByNumber", fmt.Errorf("block timestamp: %w", err))
	}
	return model.BlockHead{
		Number:       number,
		Hash:         common.HexToHash(b.Hash),
		ParentHash:   common.HexToHash(b.ParentHash),
		Timestamp:    time.Unix(int64(ts), 0).UTC(),
		BaseFee:      b.BaseFeePerGas,
		Transactions: len(b.Transactions),
	}, nil
}

// GetReceipt returns nil while hash is not mined.
func (r *Reader) GetReceipt(ctx context.Context, hash common.Hash) (*model.Receipt, error) {
	raw, err := r.client.GetTransactionReceipt(ctx, hash)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	return toReceipt(raw)
}

func toReceipt(raw *rpc.TransactionReceipt) (*model.Receipt, error) {
	wrap := func(field string, err error) error {
		return model.NewTransportError("eth_getTransactionReceipt", fmt.Errorf("%s: %w", field, err))
	}
	blockNumber, err := rpc.ParseHexUint64(raw.BlockNumber)
	if err != nil {
		return nil, wrap("blockNumber", err)
	}
	gasUsed, err := rpc.ParseHexUint64(raw.GasUsed)
	if err != nil {
		return nil, wrap("gasUsed", err)
	}
	status := model.TxStatusFailed
	if raw.Status == "0x1" {
		status = model.TxStatusSuccess
	}

	receipt := &model.Receipt{
		TxHash:      common.HexToHash(raw.TransactionHash),
		BlockNumber: blockNumber,
		BlockHash:   common.HexToHash(raw.BlockHash),
		Status:      status,
		GasUsed:     gasUsed,
	}
	if raw.EffectiveGasPrice != "" {
		price, err := rpc.ParseHexBig(raw.EffectiveGasPrice)
		if err != nil {
			return nil, wrap("effectiveGasPrice", err)
		}
		receipt.EffectiveGasPrice = price
	}
	if raw.ContractAddress != nil && common.IsHexAddress(*raw.ContractAddress) {
		addr := common.HexToAddress(*raw.ContractAddress)
		receipt.ContractAddress = &addr
	}
	return receipt, nil
}

// Call runs a read-only contract call at the latest block and decodes the
// result.
func (r *Reader) Call(ctx context.Context, contract common.Address, call ContractCall) (any, error) {
	data, err := call.Pack()
	if err != nil {
		return nil, err
	}
	out, err := r.client.Call(ctx, rpc.CallArgs{
		To:   contract.Hex(),
		Data: hexutil.Encode(data),
	}, rpc.TagLatest)
	if err != nil {
		return nil, err
	}
	value, err := call.Unpack(out)
	if err != nil {
		r.logger.Debug("undecodable call result", "contract", contract.Hex(), "method", call.Method(), "bytes", len(out))
		return nil, fmt.Errorf("%s on %s: %w", call.Method(), contract.Hex(), err)
	}
	return value, nil
}
