package bridge

import (
	"encoding/json"

	"github.com/codecrypto-org/viem/internal/domain/model"
	"github.com/codecrypto-org/viem/internal/wallet"
)

// Message types exchanged with the browser page.
const (
	typeHello    = "hello"
	typeRequest  = "request"
	typeResponse = "response"
	typeEvent    = "event"
)

const (
	eventAccountsChanged = "accountsChanged"
	eventChainChanged    = "chainChanged"
)

// message is the single envelope for every frame in both directions.
type message struct {
	Type   string               `json:"type"`
	ID     uint64               `json:"id,omitempty"`
	Method string               `json:"method,omitempty"`
	Params []interface{}        `json:"params,omitempty"`
	Result json.RawMessage      `json:"result,omitempty"`
	Error  *model.ProviderError `json:"error,omitempty"`
	Event  string               `json:"event,omitempty"`
	Data   json.RawMessage      `json:"data,omitempty"`
	Info   *wallet.Info         `json:"info,omitempty"`
}

func errDisconnected() *model.ProviderError {
	return &model.ProviderError{Code: model.CodeDisconnected, Message: "wallet bridge session disconnected"}
}
