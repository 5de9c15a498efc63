package model

import (
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Account is a signing identity. Derived accounts carry their private key;
// injected accounts only carry the address reported by the wallet provider.
type Account struct {
	Address    common.Address
	PrivateKey *ecdsa.PrivateKey
	Origin     Origin
	Index      int // HD derivation index, -1 when not derived from a mnemonic
}

// Display returns the EIP-55 checksummed address.
func (a Account) Display() string {
	return a.Address.Hex()
}

// Canonical returns the lowercase hex address used for comparisons and map keys.
func (a Account) Canonical() string {
	return strings.ToLower(a.Address.Hex())
}

func (a Account) CanSign() bool {
	return a.PrivateKey != nil
}

// SameAddress compares two accounts by address only.
func (a Account) SameAddress(other Account) bool {
	return a.Address == other.Address
}
