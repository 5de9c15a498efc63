package model

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// BlockHead is the metadata of the most recent block as reported by the node.
type BlockHead struct {
	Number       uint64
	Hash         common.Hash
	ParentHash   common.Hash
	Timestamp    time.Time
	BaseFee      string // hex wei, empty before London
	Transactions int
}
