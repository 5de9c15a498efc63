package accounts

import (
	"fmt"

	"github.com/codecrypto-org/viem/internal/domain/model"
	"github.com/ethereum/go-ethereum/common"
)

// Keyring is an immutable, offline set of signing accounts.
type Keyring struct {
	accounts []model.Account
	byAddr   map[common.Address]int
}

func NewKeyring(accts ...model.Account) *Keyring {
	k := &Keyring{
		accounts: make([]model.Account, 0, len(accts)),
		byAddr:   make(map[common.Address]int, len(accts)),
	}
	for _, a := range accts {
		if _, dup := k.byAddr[a.Address]; dup {
			continue
		}
		k.byAddr[a.Address] = len(k.accounts)
		k.accounts = append(k.accounts, a)
	}
	return k
}

// KeyringFromMnemonic derives the first count accounts of mnemonic.
func KeyringFromMnemonic(mnemonic string, count int) (*Keyring, error) {
	accts, err := DeriveRange(mnemonic, count)
	if err != nil {
		return nil, err
	}
	return NewKeyring(accts...), nil
}

func (k *Keyring) Len() int {
	return len(k.accounts)
}

// All returns a copy of the accounts in insertion order.
func (k *Keyring) All() []model.Account {
	out := make([]model.Account, len(k.accounts))
	copy(out, k.accounts)
	return out
}

func (k *Keyring) At(i int) (model.Account, error) {
	if i < 0 || i >= len(k.accounts) {
		return model.Account{}, fmt.Errorf("%w: account index %d out of range [0,%d)", model.ErrValidation, i, len(k.accounts))
	}
	return k.accounts[i], nil
}

func (k *Keyring) Lookup(addr common.Address) (model.Account, bool) {
	i, ok := k.byAddr[addr]
	if !ok {
		return model.Account{}, false
	}
	return k.accounts[i], true
}

func (k *Keyring) Addresses() []common.Address {
	out := make([]common.Address, len(k.accounts))
	for i, a := range k.accounts {
		out[i] = a.Address
	}
	return out
}
