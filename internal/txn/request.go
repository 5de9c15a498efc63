package txn

import (
	"regexp"

	"github.com/codecrypto-org/viem/internal/domain/model"
	"github.com/codecrypto-org/viem/internal/units"
	"github.com/ethereum/go-ethereum/common"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Request is a transaction in the Building state.
type Request struct {
	From  model.Account
	To    string
	Value units.Amount
	Data  []byte
	Call  string // contract operation name, empty for a value transfer
}

// Validate checks everything that can be checked without the network.
func (r Request) Validate() error {
	if r.From.Address == (common.Address{}) {
		return model.Validationf("sender account is required")
	}
	if !addressPattern.MatchString(r.To) {
		return model.Validationf("malformed recipient %q", r.To)
	}
	if !r.Value.FitsUint256() {
		return model.Validationf("value %s does not fit uint256", r.Value)
	}
	if r.Call != "" && !r.Value.IsZero() {
		return model.Validationf("%s does not accept a native value", r.Call)
	}
	return nil
}

// Recipient is the parsed To address. Only meaningful after Validate.
func (r Request) Recipient() common.Address {
	return common.HexToAddress(r.To)
}

func (r Request) kind() string {
	if r.Call != "" {
		return "call"
	}
	return "transfer"
}
