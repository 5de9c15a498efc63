package token

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/codecrypto-org/viem/internal/accounts"
	"github.com/codecrypto-org/viem/internal/domain/model"
	"github.com/codecrypto-org/viem/internal/reader"
	"github.com/codecrypto-org/viem/internal/txn"
	"github.com/codecrypto-org/viem/internal/units"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tokenAddr = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

// fakeToken answers reads from in-memory state using the real ABI encoding.
type fakeToken struct {
	mu       sync.Mutex
	name     string
	symbol   string
	balances map[common.Address]*big.Int
	err      error
	calls    int
}

func (f *fakeToken) Call(_ context.Context, contract common.Address, call reader.ContractCall) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if contract != tokenAddr {
		return nil, fmt.Errorf("unexpected contract %s", contract.Hex())
	}
	op, ok := call.(Operation)
	if !ok {
		return nil, fmt.Errorf("unexpected call %T", call)
	}
	if _, err := op.Pack(); err != nil {
		return nil, err
	}

	var out []byte
	var err error
	outputs := parsedABI.Methods[op.Method()].Outputs
	switch op.Method() {
	case MethodName:
		out, err = outputs.Pack(f.name)
	case MethodSymbol:
		out, err = outputs.Pack(f.symbol)
	case MethodTotalSupply:
		total := new(big.Int)
		for _, b := range f.balances {
			total.Add(total, b)
		}
		out, err = outputs.Pack(total)
	case MethodBalanceOf:
		b := f.balances[op.Account()]
		if b == nil {
			b = new(big.Int)
		}
		out, err = outputs.Pack(b)
	}
	if err != nil {
		return nil, err
	}
	return op.Unpack(out)
}

type fakeSubmitter struct {
	reqs []txn.Request
	err  error
}

func (f *fakeSubmitter) Submit(_ context.Context, req txn.Request) (model.PendingTransaction, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return model.PendingTransaction{}, f.err
	}
	if err := req.Validate(); err != nil {
		return model.PendingTransaction{}, err
	}
	return model.PendingTransaction{Hash: common.HexToHash("0xabc"), From: req.From.Address, To: req.Recipient(), Call: req.Call}, nil
}

func (f *fakeSubmitter) SubmitAndWait(ctx context.Context, req txn.Request, _ time.Duration) (model.Outcome, error) {
	tx, err := f.Submit(ctx, req)
	if err != nil {
		return model.Outcome{State: model.TxStateBuilding, Err: err}, err
	}
	return model.Outcome{Tx: tx, State: model.TxStateConfirmed, Polls: 1}, nil
}

func wei(s string) *big.Int {
	v, _ := new(big.Int).SetString(s, 10)
	return v
}

func newTestContract(t *testing.T) (*Contract, *fakeToken, *fakeSubmitter) {
	t.Helper()
	tok := &fakeToken{
		name:   "Demo Token",
		symbol: "DEMO",
		balances: map[common.Address]*big.Int{
			holder: wei("1000000000000000000000"),
			other:  wei("500000000000000000"),
		},
	}
	sub := &fakeSubmitter{}
	return NewContract(tokenAddr, tok, sub, slog.Default()), tok, sub
}

func TestContract_Info(t *testing.T) {
	c, tok, _ := newTestContract(t)

	info, err := c.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Demo Token", info.Name)
	assert.Equal(t, "DEMO", info.Symbol)
	assert.Equal(t, "1000.5", units.FormatUnits(info.TotalSupply, Decimals))
	assert.Equal(t, 3, tok.calls)
}

func TestContract_InfoPropagatesTransportError(t *testing.T) {
	c, tok, _ := newTestContract(t)
	tok.err = model.NewTransportError("eth_call", errors.New("connection refused"))

	_, err := c.Info(context.Background())
	assert.ErrorIs(t, err, model.ErrTransport)
}

func TestContract_BalancesOf(t *testing.T) {
	c, _, _ := newTestContract(t)
	stranger := common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")

	got, err := c.BalancesOf(context.Background(), other, holder, stranger)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "0.5", units.FormatUnits(got[0], Decimals))
	assert.Equal(t, "1000", units.FormatUnits(got[1], Decimals))
	assert.True(t, got[2].IsZero())

	single, err := c.BalanceOf(context.Background(), holder)
	require.NoError(t, err)
	assert.True(t, single.Equal(got[1]))
}

func TestContract_ReadRejectsWrites(t *testing.T) {
	c, tok, _ := newTestContract(t)
	op, err := Mint(other, units.FromUint64(1))
	require.NoError(t, err)

	_, err = c.Read(context.Background(), op)
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Zero(t, tok.calls)
}

func TestContract_Write(t *testing.T) {
	c, _, sub := newTestContract(t)
	from, err := accounts.DeriveFromKey("0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")
	require.NoError(t, err)
	amount, err := units.ParseUnits("10", Decimals)
	require.NoError(t, err)
	op, err := Transfer(other, amount)
	require.NoError(t, err)

	tx, err := c.Write(context.Background(), from, op)
	require.NoError(t, err)
	assert.Equal(t, tokenAddr, tx.To)
	assert.Equal(t, MethodTransfer, tx.Call)

	require.Len(t, sub.reqs, 1)
	req := sub.reqs[0]
	assert.True(t, req.Value.IsZero())
	want, err := op.Pack()
	require.NoError(t, err)
	assert.Equal(t, want, req.Data)
}

func TestContract_WriteRejectsReads(t *testing.T) {
	c, _, sub := newTestContract(t)
	from, err := accounts.DeriveFromKey("0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")
	require.NoError(t, err)

	_, err = c.Write(context.Background(), from, TotalSupply())
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Empty(t, sub.reqs)

	out, err := c.WriteAndWait(context.Background(), from, Symbol(), time.Second)
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Equal(t, model.TxStateBuilding, out.State)
}

func TestContract_WriteAndWait(t *testing.T) {
	c, _, _ := newTestContract(t)
	from, err := accounts.DeriveFromKey("0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d")
	require.NoError(t, err)
	op, err := Burn(units.FromUint64(5))
	require.NoError(t, err)

	out, err := c.WriteAndWait(context.Background(), from, op, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, model.TxStateConfirmed, out.State)
	assert.Equal(t, MethodBurn, out.Tx.Call)
}
