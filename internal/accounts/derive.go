// Package accounts derives signing accounts offline and tracks the accounts a
// wallet provider exposes.
package accounts

import (
	"fmt"
	"strings"

	"github.com/codecrypto-org/viem/internal/domain/model"
	gethaccounts "github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
)

// DefaultPathPrefix is the Ethereum BIP-44 path without the address index.
const DefaultPathPrefix = "m/44'/60'/0'/0"

// DeriveFromKey builds an account from hex key material with or without the
// 0x prefix. It performs no I/O.
func DeriveFromKey(material string) (model.Account, error) {
	hexKey := strings.TrimSpace(material)
	hexKey = strings.TrimPrefix(strings.TrimPrefix(hexKey, "0x"), "0X")
	if len(hexKey) != 64 {
		return model.Account{}, model.Validationf("private key must be 32 bytes of hex, got %d chars", len(hexKey))
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return model.Account{}, model.Validationf("private key: %v", err)
	}
	return model.Account{
		Address:    crypto.PubkeyToAddress(key.PublicKey),
		PrivateKey: key,
		Origin:     model.OriginDerived,
		Index:      -1,
	}, nil
}

// PrivateKeyHex returns the 0x-prefixed key of a signing account, or an empty
// string for accounts held by a wallet.
func PrivateKeyHex(acct model.Account) string {
	if !acct.CanSign() {
		return ""
	}
	return hexutil.Encode(crypto.FromECDSA(acct.PrivateKey))
}

// DeriveFromMnemonic derives the account at m/44'/60'/0'/0/index.
func DeriveFromMnemonic(mnemonic string, index int) (model.Account, error) {
	if index < 0 || uint64(index) >= uint64(bip32.FirstHardenedChild) {
		return model.Account{}, model.Validationf("derivation index %d out of range", index)
	}
	master, err := masterKey(mnemonic)
	if err != nil {
		return model.Account{}, err
	}
	return deriveAt(master, fmt.Sprintf("%s/%d", DefaultPathPrefix, index), index)
}

// DeriveRange derives indices 0..count-1 from one seed.
func DeriveRange(mnemonic string, count int) ([]model.Account, error) {
	if count < 0 {
		return nil, model.Validationf("negative account count %d", count)
	}
	master, err := masterKey(mnemonic)
	if err != nil {
		return nil, err
	}
	out := make([]model.Account, 0, count)
	for i := 0; i < count; i++ {
		acct, err := deriveAt(master, fmt.Sprintf("%s/%d", DefaultPathPrefix, i), i)
		if err != nil {
			return nil, err
		}
		out = append(out, acct)
	}
	return out, nil
}

// DeriveFromPath derives the account at an arbitrary BIP-32 path.
func DeriveFromPath(mnemonic, path string) (model.Account, error) {
	master, err := masterKey(mnemonic)
	if err != nil {
		return model.Account{}, err
	}
	return deriveAt(master, path, -1)
}

func masterKey(mnemonic string) (*bip32.Key, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, model.Validationf("mnemonic: %v", err)
	}
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("derive master key: %w", err)
	}
	return master, nil
}

func deriveAt(master *bip32.Key, path string, index int) (model.Account, error) {
	dp, err := gethaccounts.ParseDerivationPath(path)
	if err != nil {
		return model.Account{}, model.Validationf("derivation path %q: %v", path, err)
	}
	ext := master
	for _, component := range dp {
		ext, err = ext.NewChildKey(component)
		if err != nil {
			return model.Account{}, fmt.Errorf("derive %s: %w", path, err)
		}
	}
	// Key bytes may come back shorter than 32 when the scalar has leading zeros.
	key, err := crypto.ToECDSA(common.LeftPadBytes(ext.Key, 32))
	if err != nil {
		return model.Account{}, fmt.Errorf("derive %s: %w", path, err)
	}
	return model.Account{
		Address:    crypto.PubkeyToAddress(key.PublicKey),
		PrivateKey: key,
		Origin:     model.OriginDerived,
		Index:      index,
	}, nil
}
