// Package token drives a fixed ERC-20 style contract through the read client
// and the transaction orchestrator.
package token

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/codecrypto-org/viem/internal/domain/model"
	"github.com/codecrypto-org/viem/internal/units"
	"github.com/ethereum/go-ethereum/common"
)

// Method names of the supported operations.
const (
	MethodName        = "name"
	MethodSymbol      = "symbol"
	MethodTotalSupply = "totalSupply"
	MethodBalanceOf   = "balanceOf"
	MethodTransfer    = "transfer"
	MethodApprove     = "approve"
	MethodMint        = "mint"
	MethodBurn        = "burn"
)

// Decimals is the fixed precision of token amounts.
const Decimals = units.EtherDecimals

// Operation is one call against the token contract. The set is closed: values
// are only built by the constructors below.
type Operation struct {
	method  string
	account common.Address
	amount  units.Amount
}

func Name() Operation        { return Operation{method: MethodName} }
func Symbol() Operation      { return Operation{method: MethodSymbol} }
func TotalSupply() Operation { return Operation{method: MethodTotalSupply} }

func BalanceOf(account common.Address) Operation {
	return Operation{method: MethodBalanceOf, account: account}
}

func Transfer(to common.Address, amount units.Amount) (Operation, error) {
	return withAmount(MethodTransfer, to, amount)
}

func Approve(spender common.Address, amount units.Amount) (Operation, error) {
	return withAmount(MethodApprove, spender, amount)
}

func Mint(to common.Address, amount units.Amount) (Operation, error) {
	return withAmount(MethodMint, to, amount)
}

func Burn(amount units.Amount) (Operation, error) {
	return withAmount(MethodBurn, common.Address{}, amount)
}

func withAmount(method string, account common.Address, amount units.Amount) (Operation, error) {
	if !amount.FitsUint256() {
		return Operation{}, model.Validationf("%s amount %s does not fit uint256", method, amount)
	}
	if method != MethodBurn && account == (common.Address{}) {
		return Operation{}, model.Validationf("%s requires a non-zero address", method)
	}
	return Operation{method: method, account: account, amount: amount}, nil
}

// NewOperation builds an operation from its method name and textual
// arguments: addresses in hex, amounts in display units.
func NewOperation(name string, args ...string) (Operation, error) {
	want, ok := arity[name]
	if !ok {
		return Operation{}, fmt.Errorf("%w: %q", model.ErrUnknownOperation, name)
	}
	if len(args) != want {
		return Operation{}, model.Validationf("%s takes %d arguments, got %d", name, want, len(args))
	}

	switch name {
	case MethodName:
		return Name(), nil
	case MethodSymbol:
		return Symbol(), nil
	case MethodTotalSupply:
		return TotalSupply(), nil
	case MethodBalanceOf:
		addr, err := parseAddress(args[0])
		if err != nil {
			return Operation{}, err
		}
		return BalanceOf(addr), nil
	case MethodBurn:
		amount, err := units.ParseUnits(args[0], Decimals)
		if err != nil {
			return Operation{}, err
		}
		return Burn(amount)
	default:
		addr, err := parseAddress(args[0])
		if err != nil {
			return Operation{}, err
		}
		amount, err := units.ParseUnits(args[1], Decimals)
		if err != nil {
			return Operation{}, err
		}
		return withAmount(name, addr, amount)
	}
}

var arity = map[string]int{
	MethodName:        0,
	MethodSymbol:      0,
	MethodTotalSupply: 0,
	MethodBalanceOf:   1,
	MethodTransfer:    2,
	MethodApprove:     2,
	MethodMint:        2,
	MethodBurn:        1,
}

func parseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) || !strings.HasPrefix(s, "0x") {
		return common.Address{}, model.Validationf("malformed address %q", s)
	}
	return common.HexToAddress(s), nil
}

func (o Operation) Method() string {
	return o.method
}

// Writes reports whether the operation changes contract state and must be
// sent as a transaction.
func (o Operation) Writes() bool {
	switch o.method {
	case MethodTransfer, MethodApprove, MethodMint, MethodBurn:
		return true
	default:
		return false
	}
}

func (o Operation) Account() common.Address {
	return o.account
}

func (o Operation) Amount() units.Amount {
	return o.amount
}

func (o Operation) args() []interface{} {
	switch o.method {
	case MethodBalanceOf:
		return []interface{}{o.account}
	case MethodTransfer, MethodApprove, MethodMint:
		return []interface{}{o.account, o.amount.Big()}
	case MethodBurn:
		return []interface{}{o.amount.Big()}
	default:
		return nil
	}
}

// Pack encodes the call data.
func (o Operation) Pack() ([]byte, error) {
	if o.method == "" {
		return nil, fmt.Errorf("%w: empty operation", model.ErrUnknownOperation)
	}
	data, err := parsedABI.Pack(o.method, o.args()...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", o.method, err)
	}
	return data, nil
}

// Unpack decodes return data: string for name and symbol, units.Amount for
// supply and balances, bool for transfer and approve, nil for mint and burn.
func (o Operation) Unpack(data []byte) (any, error) {
	out, err := parsedABI.Unpack(o.method, data)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", o.method, err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	switch v := out[0].(type) {
	case *big.Int:
		return units.FromBig(v)
	case string, bool:
		return v, nil
	default:
		return nil, fmt.Errorf("unpack %s: unexpected %T", o.method, v)
	}
}

func (o Operation) String() string {
	switch o.method {
	case MethodBalanceOf:
		return fmt.Sprintf("balanceOf(%s)", o.account.Hex())
	case MethodTransfer, MethodApprove, MethodMint:
		return fmt.Sprintf("%s(%s, %s)", o.method, o.account.Hex(), units.FormatUnits(o.amount, Decimals))
	case MethodBurn:
		return fmt.Sprintf("burn(%s)", units.FormatUnits(o.amount, Decimals))
	default:
		return o.method + "()"
	}
}

// Decode reverses Pack for call data produced by this package.
func Decode(data []byte) (Operation, error) {
	if len(data) < 4 {
		return Operation{}, fmt.Errorf("%w: call data too short", model.ErrUnknownOperation)
	}
	method, err := parsedABI.MethodById(data[:4])
	if err != nil {
		return Operation{}, fmt.Errorf("%w: %v", model.ErrUnknownOperation, err)
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return Operation{}, fmt.Errorf("decode %s: %w", method.Name, err)
	}

	op := Operation{method: method.Name}
	for _, arg := range args {
		switch v := arg.(type) {
		case common.Address:
			op.account = v
		case *big.Int:
			amount, err := units.FromBig(v)
			if err != nil {
				return Operation{}, err
			}
			op.amount = amount
		}
	}
	return op, nil
}
