package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrValidation          = errors.New("validation error")
	ErrProviderNotFound    = errors.New("wallet provider not found")
	ErrChainUnavailable    = errors.New("chain unavailable")
	ErrChainSwitchRejected = errors.New("chain switch rejected")
	ErrTransport           = errors.New("transport error")
	ErrReverted            = errors.New("transaction reverted")
	ErrTimedOut            = errors.New("timed out waiting for confirmation")
	ErrUnknownOperation    = errors.New("unknown operation")
)

// TransportError wraps a node or provider failure without reinterpreting it.
type TransportError struct {
	Method string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Method, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// NewTransportError returns nil for a nil err.
func NewTransportError(method string, err error) error {
	if err == nil {
		return nil
	}
	var te *TransportError
	if errors.As(err, &te) {
		return err
	}
	return &TransportError{Method: method, Err: err}
}

// Validationf builds an error matching ErrValidation.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// EIP-1193 provider error codes; JSON-RPC node errors use the -32xxx range.
const (
	CodeUserRejected      = 4001
	CodeUnauthorized      = 4100
	CodeUnsupportedMethod = 4200
	CodeDisconnected      = 4900
	CodeChainDisconnected = 4901
	CodeUnrecognizedChain = 4902
)

// ProviderError is an error object returned by a node or wallet provider.
type ProviderError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *ProviderError) Error() string {
	return e.Message
}

// ProviderErrorCode extracts the code of a wrapped ProviderError.
func ProviderErrorCode(err error) (int, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code, true
	}
	return 0, false
}
