package rpc

import (
	"encoding/json"

	"github.com/codecrypto-org/viem/internal/domain/model"
)

type Request struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type Response struct {
	JSONRPC string               `json:"jsonrpc"`
	ID      int                  `json:"id"`
	Result  json.RawMessage      `json:"result"`
	Error   *model.ProviderError `json:"error,omitempty"`
}

// Block is the eth_getBlockByNumber payload. Transactions holds hashes or
// full objects depending on the includeFullTx flag of the request.
type Block struct {
	Number        string            `json:"number"`
	Hash          string            `json:"hash"`
	ParentHash    string            `json:"parentHash"`
	Timestamp     string            `json:"timestamp"`
	BaseFeePerGas string            `json:"baseFeePerGas"`
	GasUsed       string            `json:"gasUsed"`
	GasLimit      string            `json:"gasLimit"`
	Transactions  []json.RawMessage `json:"transactions"`
}

type TransactionReceipt struct {
	TransactionHash   string  `json:"transactionHash"`
	BlockNumber       string  `json:"blockNumber"`
	BlockHash         string  `json:"blockHash"`
	TransactionIndex  string  `json:"transactionIndex"`
	Status            string  `json:"status"`
	From              string  `json:"from"`
	To                string  `json:"to"`
	ContractAddress   *string `json:"contractAddress"`
	GasUsed           string  `json:"gasUsed"`
	EffectiveGasPrice string  `json:"effectiveGasPrice"`
	Logs              []*Log  `json:"logs"`
}

type Log struct {
	Address  string   `json:"address"`
	Topics   []string `json:"topics"`
	Data     string   `json:"data"`
	LogIndex string   `json:"logIndex"`
	Removed  bool     `json:"removed"`
}

// CallArgs is the transaction-call object shared by eth_call, eth_estimateGas
// and eth_sendTransaction. Quantities are hex encoded.
type CallArgs struct {
	From                 string `json:"from,omitempty"`
	To                   string `json:"to,omitempty"`
	Gas                  string `json:"gas,omitempty"`
	GasPrice             string `json:"gasPrice,omitempty"`
	MaxFeePerGas         string `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas string `json:"maxPriorityFeePerGas,omitempty"`
	Value                string `json:"value,omitempty"`
	Data                 string `json:"data,omitempty"`
	ChainID              string `json:"chainId,omitempty"`
}
