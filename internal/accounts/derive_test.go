package accounts

import (
	"testing"

	"github.com/codecrypto-org/viem/internal/domain/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip32"
)

const devMnemonic = "test test test test test test test test test test test junk"

var devAccounts = []struct {
	key  string
	addr string
}{
	{"0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80", "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"},
	{"0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d", "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"},
	{"0x5de4111afa1a4b94908f83103eb1f1706367c2e68ca870fc3fb9a804cdab365a", "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"},
}

func TestDeriveFromKey(t *testing.T) {
	for _, tc := range devAccounts {
		acct, err := DeriveFromKey(tc.key)
		require.NoError(t, err)
		assert.Equal(t, tc.addr, acct.Display())
		assert.Equal(t, model.OriginDerived, acct.Origin)
		assert.Equal(t, -1, acct.Index)
		assert.True(t, acct.CanSign())
	}
}

func TestDeriveFromKey_PrefixOptional(t *testing.T) {
	with, err := DeriveFromKey(devAccounts[0].key)
	require.NoError(t, err)
	without, err := DeriveFromKey(devAccounts[0].key[2:])
	require.NoError(t, err)
	assert.Equal(t, with.Address, without.Address)
}

func TestDeriveFromKey_Deterministic(t *testing.T) {
	a, err := DeriveFromKey(devAccounts[1].key)
	require.NoError(t, err)
	b, err := DeriveFromKey(devAccounts[1].key)
	require.NoError(t, err)
	assert.Equal(t, a.Address, b.Address)
	assert.Equal(t, crypto.FromECDSA(a.PrivateKey), crypto.FromECDSA(b.PrivateKey))
}

func TestDeriveFromKey_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty":     "",
		"short":     "0xac0974",
		"not hex":   "0xzz0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
		"zero key":  "0x0000000000000000000000000000000000000000000000000000000000000000",
		"too long":  devAccounts[0].key + "00",
		"above ord": "0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
	}
	for name, material := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DeriveFromKey(material)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestDeriveFromMnemonic_DevAccounts(t *testing.T) {
	for i, tc := range devAccounts {
		acct, err := DeriveFromMnemonic(devMnemonic, i)
		require.NoError(t, err)
		assert.Equal(t, tc.addr, acct.Display())
		assert.Equal(t, i, acct.Index)
		assert.Equal(t, tc.key[2:], common.Bytes2Hex(crypto.FromECDSA(acct.PrivateKey)))
	}
}

func TestDeriveRange(t *testing.T) {
	accts, err := DeriveRange(devMnemonic, 3)
	require.NoError(t, err)
	require.Len(t, accts, 3)
	for i, tc := range devAccounts {
		assert.Equal(t, tc.addr, accts[i].Display())
	}

	none, err := DeriveRange(devMnemonic, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeriveFromPath_MatchesIndex(t *testing.T) {
	acct, err := DeriveFromPath(devMnemonic, "m/44'/60'/0'/0/2")
	require.NoError(t, err)
	assert.Equal(t, devAccounts[2].addr, acct.Display())
	assert.Equal(t, -1, acct.Index)
}

func TestDeriveAt_Bip32Vectors(t *testing.T) {
	seed := common.FromHex("0x000102030405060708090a0b0c0d0e0f")
	master, err := bip32.NewMasterKey(seed)
	require.NoError(t, err)

	cases := map[string]string{
		"m/0'":   "edb2e14f9ee77d26dd93b4ecede8d16ed408ce149b6cd80b0715a2d911a0afea",
		"m/0'/1": "3c6cb8d0f6a264c91ea8b5030fadaa8e538b020f0a387421a12de9319dc93368",
	}
	for path, want := range cases {
		t.Run(path, func(t *testing.T) {
			acct, err := deriveAt(master, path, -1)
			require.NoError(t, err)
			assert.Equal(t, want, common.Bytes2Hex(crypto.FromECDSA(acct.PrivateKey)))
		})
	}
}

func TestDeriveFromMnemonic_HardenedIndexRejected(t *testing.T) {
	_, err := DeriveFromMnemonic(devMnemonic, int(bip32.FirstHardenedChild))
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestDeriveFromMnemonic_Invalid(t *testing.T) {
	_, err := DeriveFromMnemonic("test test test", 0)
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = DeriveFromMnemonic(devMnemonic, -1)
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = DeriveRange(devMnemonic, -2)
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = DeriveFromPath(devMnemonic, "not/a/path")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestKeyring(t *testing.T) {
	ring, err := KeyringFromMnemonic(devMnemonic, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, ring.Len())

	first, err := ring.At(0)
	require.NoError(t, err)
	assert.Equal(t, devAccounts[0].addr, first.Display())

	_, err = ring.At(3)
	assert.ErrorIs(t, err, model.ErrValidation)

	got, ok := ring.Lookup(common.HexToAddress(devAccounts[2].addr))
	require.True(t, ok)
	assert.Equal(t, 2, got.Index)

	_, ok = ring.Lookup(common.HexToAddress("0x000000000000000000000000000000000000dEaD"))
	assert.False(t, ok)

	assert.Len(t, ring.Addresses(), 3)

	dup := NewKeyring(first, first)
	assert.Equal(t, 1, dup.Len())
}

func TestPrivateKeyHex(t *testing.T) {
	acct, err := DeriveFromMnemonic(devMnemonic, 1)
	require.NoError(t, err)
	assert.Equal(t, devAccounts[1].key, PrivateKeyHex(acct))

	injected := model.Account{Address: acct.Address, Origin: model.OriginInjected, Index: -1}
	assert.Empty(t, PrivateKeyHex(injected))
}
