package refresh

import (
	"context"
	"errors"
	"log/slog"
	"math/big"
	"testing"

	"github.com/codecrypto-org/viem/internal/domain/model"
	"github.com/codecrypto-org/viem/internal/metrics"
	"github.com/codecrypto-org/viem/internal/token"
	"github.com/codecrypto-org/viem/internal/units"
	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice    = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	bob      = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	carol    = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
	tokenAdr = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
)

type fakeBalances struct {
	values map[common.Address]uint64
	asked  [][]common.Address
	err    error
}

func (f *fakeBalances) GetBalances(_ context.Context, addrs []common.Address) ([]units.Amount, error) {
	f.asked = append(f.asked, addrs)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]units.Amount, len(addrs))
	for i, a := range addrs {
		out[i] = units.FromUint64(f.values[a])
	}
	return out, nil
}

type fakeToken struct {
	fakeBalances
}

func (f *fakeToken) Address() common.Address { return tokenAdr }

func (f *fakeToken) BalancesOf(ctx context.Context, holders ...common.Address) ([]units.Amount, error) {
	return f.GetBalances(ctx, holders)
}

type fixedEpoch uint64

func (e fixedEpoch) Epoch() uint64 { return uint64(e) }

func TestRefresh_NativeTransfer(t *testing.T) {
	bal := &fakeBalances{values: map[common.Address]uint64{alice: 10, bob: 20}}
	r := New(bal, slog.Default(), WithEpochSource(fixedEpoch(3)), WithChainLabel("refresh-test"))

	out := model.Outcome{
		Tx:      model.PendingTransaction{Hash: common.HexToHash("0x01"), From: alice, To: bob, Value: big.NewInt(1)},
		State:   model.TxStateConfirmed,
		Receipt: &model.Receipt{BlockNumber: 12, Status: model.TxStatusSuccess},
	}
	snap, err := r.Refresh(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), snap.Block)
	assert.Equal(t, uint64(3), snap.Epoch)
	assert.Equal(t, "10", snap.Native[alice].String())
	assert.Equal(t, "20", snap.Native[bob].String())
	assert.Nil(t, snap.Token)

	latest, ok := r.Latest()
	require.True(t, ok)
	assert.Equal(t, snap.TxHash, latest.TxHash)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.RefreshTotal.WithLabelValues("refresh-test", "ok")))
}

func TestRefresh_TokenCallIncludesAccountArgument(t *testing.T) {
	bal := &fakeBalances{values: map[common.Address]uint64{alice: 1}}
	tok := &fakeToken{fakeBalances{values: map[common.Address]uint64{alice: 7, carol: 3}}}
	r := New(bal, slog.Default(), WithToken(tok))

	op, err := token.Transfer(carol, units.FromUint64(3))
	require.NoError(t, err)
	data, err := op.Pack()
	require.NoError(t, err)

	out := model.Outcome{
		Tx:    model.PendingTransaction{Hash: common.HexToHash("0x02"), From: alice, To: tokenAdr, Call: token.MethodTransfer, Data: data},
		State: model.TxStateConfirmed,
	}
	snap, err := r.Refresh(context.Background(), out)
	require.NoError(t, err)

	assert.Equal(t, []common.Address{alice, tokenAdr, carol}, bal.asked[0])
	assert.Equal(t, []common.Address{alice, carol}, tok.asked[0])
	assert.Equal(t, "7", snap.Token[alice].String())
	assert.Equal(t, "3", snap.Token[carol].String())
}

func TestOnOutcome_OnlyConfirmed(t *testing.T) {
	bal := &fakeBalances{values: map[common.Address]uint64{}}
	r := New(bal, slog.Default())

	for _, state := range []model.TxState{model.TxStateReverted, model.TxStateTimedOut} {
		r.OnOutcome(model.Outcome{Tx: model.PendingTransaction{From: alice, To: bob}, State: state})
	}
	assert.Empty(t, bal.asked)

	r.OnOutcome(model.Outcome{Tx: model.PendingTransaction{From: alice, To: bob}, State: model.TxStateConfirmed})
	assert.Len(t, bal.asked, 1)
	select {
	case snap := <-r.Updates():
		assert.Len(t, snap.Native, 2)
	default:
		t.Fatal("no snapshot published")
	}
}

func TestRefresh_ErrorNotPublished(t *testing.T) {
	bal := &fakeBalances{err: model.NewTransportError("batch", errors.New("boom"))}
	r := New(bal, slog.Default())

	_, err := r.Refresh(context.Background(), model.Outcome{Tx: model.PendingTransaction{From: alice, To: bob}, State: model.TxStateConfirmed})
	assert.ErrorIs(t, err, model.ErrTransport)
	_, ok := r.Latest()
	assert.False(t, ok)
}

func TestPublish_DropsOldestWhenFull(t *testing.T) {
	r := New(&fakeBalances{}, slog.Default())
	for i := 0; i < updateBuffer+3; i++ {
		r.publish(Snapshot{Block: uint64(i)})
	}
	first := <-r.Updates()
	assert.Equal(t, uint64(3), first.Block)
}

func TestParties(t *testing.T) {
	assert.Equal(t, []common.Address{alice, bob}, Parties(model.PendingTransaction{From: alice, To: bob}))
	assert.Equal(t, []common.Address{alice}, Parties(model.PendingTransaction{From: alice, To: alice}))
}
