package network

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/codecrypto-org/viem/internal/domain/model"
	"github.com/codecrypto-org/viem/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	method string
	params []interface{}
}

// fakeWallet answers each method from a queue of scripted results.
type fakeWallet struct {
	chainID string
	replies map[string][]error
	calls   []call
}

func newFakeWallet(chainID string) *fakeWallet {
	return &fakeWallet{chainID: chainID, replies: map[string][]error{}}
}

func (f *fakeWallet) script(method string, errs ...error) {
	f.replies[method] = append(f.replies[method], errs...)
}

func (f *fakeWallet) Info() wallet.Info {
	return wallet.Info{ID: "w1", Name: "fake", Flags: map[string]bool{wallet.FlagMetaMask: true}}
}

func (f *fakeWallet) Request(_ context.Context, method string, params []interface{}) (json.RawMessage, error) {
	f.calls = append(f.calls, call{method: method, params: params})
	if method == "eth_chainId" {
		return json.Marshal(f.chainID)
	}
	if queue := f.replies[method]; len(queue) > 0 {
		f.replies[method] = queue[1:]
		if queue[0] != nil {
			return nil, queue[0]
		}
	}
	return json.RawMessage(`null`), nil
}

func (f *fakeWallet) AccountsChanged() <-chan []common.Address {
	return nil
}

func (f *fakeWallet) methods() []string {
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.method
	}
	return out
}

func providerErr(code int) error {
	return &model.ProviderError{Code: code, Message: "provider error"}
}

func testDescriptor() Descriptor {
	return Anvil("http://127.0.0.1:55556")
}

func TestDescriptor_Validate(t *testing.T) {
	require.NoError(t, testDescriptor().Validate())

	bad := testDescriptor()
	bad.NativeCurrency.Decimals = 6
	assert.ErrorIs(t, bad.Validate(), model.ErrValidation)

	bad = testDescriptor()
	bad.RPCURLs = nil
	assert.ErrorIs(t, bad.Validate(), model.ErrValidation)

	bad = testDescriptor()
	bad.RPCURLs = []string{"127.0.0.1:8545"}
	assert.ErrorIs(t, bad.Validate(), model.ErrValidation)

	bad = testDescriptor()
	bad.ChainID = 0
	assert.ErrorIs(t, bad.Validate(), model.ErrValidation)
}

func TestDescriptor_AddChainParams(t *testing.T) {
	d := testDescriptor()
	assert.Equal(t, "0xbac8f209", d.HexChainID())

	raw, err := json.Marshal(d.AddChainParams())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"chainId": "0xbac8f209",
		"chainName": "Anvil",
		"nativeCurrency": {"name": "Ether", "symbol": "ETH", "decimals": 18},
		"rpcUrls": ["http://127.0.0.1:55556"],
		"blockExplorerUrls": ["http://127.0.0.1:55556"]
	}`, string(raw))
}

func TestEnsureActiveChain_AlreadyActive(t *testing.T) {
	w := newFakeWallet("0xbac8f209")
	err := EnsureActiveChain(context.Background(), testDescriptor(), w, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, []string{"eth_chainId"}, w.methods())
}

func TestEnsureActiveChain_Switches(t *testing.T) {
	w := newFakeWallet("0x1")
	err := EnsureActiveChain(context.Background(), testDescriptor(), w, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, []string{"eth_chainId", "wallet_switchEthereumChain"}, w.methods())
	assert.Equal(t, map[string]string{"chainId": "0xbac8f209"}, w.calls[1].params[0])
}

func TestEnsureActiveChain_AddsUnknownChainThenSwitchesOnce(t *testing.T) {
	w := newFakeWallet("0x1")
	w.script("wallet_switchEthereumChain", providerErr(model.CodeUnrecognizedChain))

	err := EnsureActiveChain(context.Background(), testDescriptor(), w, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"eth_chainId",
		"wallet_switchEthereumChain",
		"wallet_addEthereumChain",
		"wallet_switchEthereumChain",
	}, w.methods())
	assert.Equal(t, testDescriptor().AddChainParams(), w.calls[2].params[0])
}

func TestEnsureActiveChain_NeverLoops(t *testing.T) {
	w := newFakeWallet("0x1")
	w.script("wallet_switchEthereumChain", providerErr(model.CodeUnrecognizedChain), providerErr(model.CodeUnrecognizedChain))

	err := EnsureActiveChain(context.Background(), testDescriptor(), w, slog.Default())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrTransport)
	assert.Len(t, w.calls, 4)
}

func TestEnsureActiveChain_UserRejectsSwitch(t *testing.T) {
	w := newFakeWallet("0x1")
	w.script("wallet_switchEthereumChain", providerErr(model.CodeUserRejected))

	err := EnsureActiveChain(context.Background(), testDescriptor(), w, slog.Default())
	assert.ErrorIs(t, err, model.ErrChainSwitchRejected)
	code, ok := model.ProviderErrorCode(err)
	require.True(t, ok)
	assert.Equal(t, model.CodeUserRejected, code)
}

func TestEnsureActiveChain_UserRejectsAdd(t *testing.T) {
	w := newFakeWallet("0x1")
	w.script("wallet_switchEthereumChain", providerErr(model.CodeUnrecognizedChain))
	w.script("wallet_addEthereumChain", providerErr(model.CodeUserRejected))

	err := EnsureActiveChain(context.Background(), testDescriptor(), w, slog.Default())
	assert.ErrorIs(t, err, model.ErrChainSwitchRejected)
	assert.Equal(t, []string{"eth_chainId", "wallet_switchEthereumChain", "wallet_addEthereumChain"}, w.methods())
}

func TestEnsureActiveChain_OtherErrorsAreTransport(t *testing.T) {
	w := newFakeWallet("0x1")
	cause := providerErr(-32603)
	w.script("wallet_switchEthereumChain", cause)

	err := EnsureActiveChain(context.Background(), testDescriptor(), w, slog.Default())
	assert.ErrorIs(t, err, model.ErrTransport)
	assert.NotErrorIs(t, err, model.ErrChainSwitchRejected)
	assert.True(t, errors.Is(err, cause))
}

func TestEnsureActiveChain_NilProvider(t *testing.T) {
	err := EnsureActiveChain(context.Background(), testDescriptor(), nil, slog.Default())
	assert.ErrorIs(t, err, model.ErrChainUnavailable)
}

type fixedChain uint64

func (f fixedChain) ChainID(context.Context) (uint64, error) { return uint64(f), nil }

func TestVerifyNode(t *testing.T) {
	d := testDescriptor()
	require.NoError(t, VerifyNode(context.Background(), d, fixedChain(AnvilChainID)))
	assert.ErrorIs(t, VerifyNode(context.Background(), d, fixedChain(31337)), model.ErrChainUnavailable)
}
