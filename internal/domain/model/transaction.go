package model

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// PendingTransaction is a submitted, not yet confirmed operation. The hash is
// assigned by the network and is the only identifier retained.
type PendingTransaction struct {
	Hash        common.Hash
	From        common.Address
	To          common.Address
	Call        string // contract operation name; empty for a plain value transfer
	Value       *big.Int
	Data        []byte
	SubmittedAt time.Time
}

// Receipt is the chain's record of a mined transaction.
type Receipt struct {
	TxHash            common.Hash
	BlockNumber       uint64
	BlockHash         common.Hash
	Status            TxStatus
	GasUsed           uint64
	EffectiveGasPrice *big.Int
	ContractAddress   *common.Address
}

func (r *Receipt) Succeeded() bool {
	return r != nil && r.Status == TxStatusSuccess
}

// Outcome is the terminal result of tracking one PendingTransaction.
type Outcome struct {
	Tx      PendingTransaction
	State   TxState
	Receipt *Receipt
	Polls   int
	Err     error
}
