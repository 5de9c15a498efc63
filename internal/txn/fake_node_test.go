package txn

import (
	"context"
	"math/big"
	"sync"

	"github.com/codecrypto-org/viem/internal/chain/evm/rpc"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

const testChainID = 3133731337

// fakeNode is an in-memory development node. Sent transactions move value
// immediately and their receipts appear after minePolls receipt lookups.
type fakeNode struct {
	mu        sync.Mutex
	balances  map[common.Address]*big.Int
	nonces    map[common.Address]uint64
	receipts  map[common.Hash]*rpc.TransactionReceipt
	lookups   map[common.Hash]int
	minePolls int
	revert    bool
	sent      []*types.Transaction
	calls     []string
	block     uint64
}

var _ rpc.RPCClient = (*fakeNode)(nil)

func newFakeNode(minePolls int) *fakeNode {
	return &fakeNode{
		balances:  map[common.Address]*big.Int{},
		nonces:    map[common.Address]uint64{},
		receipts:  map[common.Hash]*rpc.TransactionReceipt{},
		lookups:   map[common.Hash]int{},
		minePolls: minePolls,
		block:     1,
	}
}

func (n *fakeNode) fund(addr common.Address, wei *big.Int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.balances[addr] = new(big.Int).Set(wei)
}

func (n *fakeNode) record(method string) {
	n.calls = append(n.calls, method)
}

func (n *fakeNode) callCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

func (n *fakeNode) ChainID(context.Context) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.record("eth_chainId")
	return testChainID, nil
}

func (n *fakeNode) BlockNumber(context.Context) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.record("eth_blockNumber")
	return n.block, nil
}

func (n *fakeNode) GetBlockByTag(context.Context, string, bool) (*rpc.Block, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.record("eth_getBlockByNumber")
	return &rpc.Block{Number: hexutil.EncodeUint64(n.block), Timestamp: "0x0"}, nil
}

func (n *fakeNode) GetBalance(_ context.Context, addr common.Address, _ string) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.record("eth_getBalance")
	if b, ok := n.balances[addr]; ok {
		return new(big.Int).Set(b), nil
	}
	return new(big.Int), nil
}

func (n *fakeNode) GetTransactionCount(_ context.Context, addr common.Address, _ string) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.record("eth_getTransactionCount")
	return n.nonces[addr], nil
}

func (n *fakeNode) GetTransactionReceipt(_ context.Context, hash common.Hash) (*rpc.TransactionReceipt, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.record("eth_getTransactionReceipt")
	n.lookups[hash]++
	if n.lookups[hash] < n.minePolls {
		return nil, nil
	}
	return n.receipts[hash], nil
}

func (n *fakeNode) Call(context.Context, rpc.CallArgs, string) ([]byte, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.record("eth_call")
	return nil, nil
}

func (n *fakeNode) EstimateGas(context.Context, rpc.CallArgs) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.record("eth_estimateGas")
	return 21000, nil
}

func (n *fakeNode) GasPrice(context.Context) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.record("eth_gasPrice")
	return big.NewInt(1_000_000_000), nil
}

func (n *fakeNode) MaxPriorityFeePerGas(context.Context) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.record("eth_maxPriorityFeePerGas")
	return big.NewInt(1_000_000), nil
}

// SendRawTransaction applies value transfers without charging gas.
func (n *fakeNode) SendRawTransaction(_ context.Context, raw []byte) (common.Hash, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.record("eth_sendRawTransaction")

	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return common.Hash{}, err
	}
	from, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	if err != nil {
		return common.Hash{}, err
	}
	n.sent = append(n.sent, tx)
	n.nonces[from]++
	n.block++

	status := "0x1"
	if n.revert {
		status = "0x0"
	} else {
		fromBal := n.balances[from]
		if fromBal == nil {
			fromBal = new(big.Int)
		}
		n.balances[from] = new(big.Int).Sub(fromBal, tx.Value())
		toBal := n.balances[*tx.To()]
		if toBal == nil {
			toBal = new(big.Int)
		}
		n.balances[*tx.To()] = new(big.Int).Add(toBal, tx.Value())
	}
	n.receipts[tx.Hash()] = &rpc.TransactionReceipt{
		TransactionHash: tx.Hash().Hex(),
		BlockNumber:     hexutil.EncodeUint64(n.block),
		Status:          status,
		GasUsed:         "0x5208",
	}
	return tx.Hash(), nil
}
