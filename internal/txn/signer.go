package txn

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/codecrypto-org/viem/internal/chain/evm/rpc"
	"github.com/codecrypto-org/viem/internal/domain/model"
	"github.com/codecrypto-org/viem/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// Signer turns a validated request into a transaction accepted by the node.
type Signer interface {
	Send(ctx context.Context, req Request) (common.Hash, error)
}

// LocalSigner signs with the request's private key and submits the raw
// transaction to the node.
type LocalSigner struct {
	client  rpc.RPCClient
	chainID *big.Int
	logger  *slog.Logger
}

func NewLocalSigner(client rpc.RPCClient, chainID uint64, logger *slog.Logger) *LocalSigner {
	return &LocalSigner{
		client:  client,
		chainID: new(big.Int).SetUint64(chainID),
		logger:  logger.With("component", "local_signer"),
	}
}

func (s *LocalSigner) Send(ctx context.Context, req Request) (common.Hash, error) {
	if !req.From.CanSign() {
		return common.Hash{}, model.Validationf("account %s has no private key", req.From.Display())
	}
	from := req.From.Address
	to := req.Recipient()
	value := req.Value.Big()

	nonce, err := s.client.GetTransactionCount(ctx, from, rpc.TagPending)
	if err != nil {
		return common.Hash{}, err
	}
	tip, err := s.client.MaxPriorityFeePerGas(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	gasPrice, err := s.client.GasPrice(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	feeCap := new(big.Int).Add(new(big.Int).Mul(gasPrice, big.NewInt(2)), tip)

	args := rpc.CallArgs{
		From:  from.Hex(),
		To:    to.Hex(),
		Value: hexutil.EncodeBig(value),
	}
	if len(req.Data) > 0 {
		args.Data = hexutil.Encode(req.Data)
	}
	gas, err := s.client.EstimateGas(ctx, args)
	if err != nil {
		return common.Hash{}, err
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   s.chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &to,
		Value:     value,
		Data:      req.Data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(s.chainID), req.From.PrivateKey)
	if err != nil {
		return common.Hash{}, fmt.Errorf("sign transaction: %w", err)
	}
	raw, err := signed.MarshalBinary()
	if err != nil {
		return common.Hash{}, fmt.Errorf("encode transaction: %w", err)
	}

	hash, err := s.client.SendRawTransaction(ctx, raw)
	if err != nil {
		return common.Hash{}, err
	}
	if hash != signed.Hash() {
		s.logger.Warn("node returned unexpected transaction hash", "want", signed.Hash().Hex(), "got", hash.Hex())
	}
	s.logger.Debug("transaction sent", "hash", hash.Hex(), "nonce", nonce, "gas", gas)
	return hash, nil
}

// ProviderSigner delegates signing to a wallet provider through
// eth_sendTransaction. The call blocks while the user decides.
type ProviderSigner struct {
	provider wallet.Provider
	chainID  uint64
}

func NewProviderSigner(provider wallet.Provider, chainID uint64) *ProviderSigner {
	return &ProviderSigner{provider: provider, chainID: chainID}
}

func (s *ProviderSigner) Send(ctx context.Context, req Request) (common.Hash, error) {
	if s.provider == nil {
		return common.Hash{}, fmt.Errorf("send transaction: %w", model.ErrProviderNotFound)
	}
	args := rpc.CallArgs{
		From:    req.From.Address.Hex(),
		To:      req.Recipient().Hex(),
		Value:   hexutil.EncodeBig(req.Value.Big()),
		ChainID: hexutil.EncodeUint64(s.chainID),
	}
	if len(req.Data) > 0 {
		args.Data = hexutil.Encode(req.Data)
	}
	raw, err := s.provider.Request(ctx, "eth_sendTransaction", []interface{}{args})
	if err != nil {
		return common.Hash{}, model.NewTransportError("eth_sendTransaction", err)
	}
	return rpc.DecodeHashResult("eth_sendTransaction", raw)
}

// AutoSigner signs locally when the sender carries a key and falls back to
// the wallet provider otherwise.
type AutoSigner struct {
	Local    *LocalSigner
	Provider *ProviderSigner
}

func (s AutoSigner) Send(ctx context.Context, req Request) (common.Hash, error) {
	if req.From.CanSign() && s.Local != nil {
		return s.Local.Send(ctx, req)
	}
	if s.Provider != nil {
		return s.Provider.Send(ctx, req)
	}
	return common.Hash{}, model.Validationf("no signer available for %s", req.From.Display())
}
