package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportError_IsAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewTransportError("eth_getBalance", cause)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "eth_getBalance: connection refused", err.Error())
}

func TestNewTransportError_NilAndIdempotent(t *testing.T) {
	assert.NoError(t, NewTransportError("eth_call", nil))

	inner := NewTransportError("eth_call", errors.New("boom"))
	outer := NewTransportError("eth_getBalance", fmt.Errorf("read: %w", inner))

	var te *TransportError
	require.ErrorAs(t, outer, &te)
	assert.Equal(t, "eth_call", te.Method)
}

func TestProviderErrorCode(t *testing.T) {
	err := NewTransportError("wallet_switchEthereumChain", &ProviderError{Code: CodeUnrecognizedChain, Message: "Unrecognized chain ID"})

	code, ok := ProviderErrorCode(err)
	require.True(t, ok)
	assert.Equal(t, CodeUnrecognizedChain, code)

	_, ok = ProviderErrorCode(errors.New("plain"))
	assert.False(t, ok)
}

func TestValidationf(t *testing.T) {
	err := Validationf("bad address %q", "0x12")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), `bad address "0x12"`)
}

func TestTxStateTerminal(t *testing.T) {
	assert.False(t, TxStateBuilding.Terminal())
	assert.False(t, TxStateSubmitted.Terminal())
	assert.True(t, TxStateConfirmed.Terminal())
	assert.True(t, TxStateReverted.Terminal())
	assert.True(t, TxStateTimedOut.Terminal())
}
