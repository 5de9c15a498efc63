package token

import (
	"math/big"
	"testing"

	"github.com/codecrypto-org/viem/internal/domain/model"
	"github.com/codecrypto-org/viem/internal/units"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	holder = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	other  = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
)

func TestNewOperation_UnknownName(t *testing.T) {
	for _, name := range []string{"transferFrom", "allowance", "", "Name"} {
		_, err := NewOperation(name)
		assert.ErrorIs(t, err, model.ErrUnknownOperation, name)
	}
}

func TestNewOperation_Parses(t *testing.T) {
	op, err := NewOperation("transfer", other.Hex(), "2.5")
	require.NoError(t, err)
	assert.Equal(t, MethodTransfer, op.Method())
	assert.True(t, op.Writes())
	assert.Equal(t, other, op.Account())
	assert.Equal(t, "2500000000000000000", op.Amount().String())
	assert.Equal(t, "transfer("+other.Hex()+", 2.5)", op.String())

	op, err = NewOperation("balanceOf", holder.Hex())
	require.NoError(t, err)
	assert.False(t, op.Writes())

	op, err = NewOperation("burn", "1")
	require.NoError(t, err)
	assert.Equal(t, "burn(1)", op.String())

	op, err = NewOperation("name")
	require.NoError(t, err)
	assert.Equal(t, "name()", op.String())
}

func TestNewOperation_RejectsBadArguments(t *testing.T) {
	_, err := NewOperation("transfer", other.Hex())
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = NewOperation("transfer", "0x1234", "1")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = NewOperation("mint", other.Hex(), "-1")
	assert.ErrorIs(t, err, model.ErrInvalidAmount)

	_, err = NewOperation("approve", common.Address{}.Hex(), "1")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestConstructors_RejectOverflow(t *testing.T) {
	huge, err := units.FromBig(new(big.Int).Lsh(big.NewInt(1), 256))
	require.NoError(t, err)

	_, err = Transfer(other, huge)
	assert.ErrorIs(t, err, model.ErrValidation)
	_, err = Burn(huge)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestPack_Selectors(t *testing.T) {
	amount := units.FromUint64(1)
	transfer, err := Transfer(other, amount)
	require.NoError(t, err)
	mint, err := Mint(other, amount)
	require.NoError(t, err)
	burn, err := Burn(amount)
	require.NoError(t, err)
	approve, err := Approve(other, amount)
	require.NoError(t, err)

	cases := []struct {
		op       Operation
		selector string
		size     int
	}{
		{Name(), "0x06fdde03", 4},
		{Symbol(), "0x95d89b41", 4},
		{TotalSupply(), "0x18160ddd", 4},
		{BalanceOf(holder), "0x70a08231", 36},
		{transfer, "0xa9059cbb", 68},
		{approve, "0x095ea7b3", 68},
		{mint, "0x40c10f19", 68},
		{burn, "0x42966c68", 36},
	}
	for _, tc := range cases {
		data, err := tc.op.Pack()
		require.NoError(t, err, tc.op.Method())
		assert.Equal(t, tc.selector, hexutil.Encode(data[:4]), tc.op.Method())
		assert.Len(t, data, tc.size, tc.op.Method())
	}
}

func TestPack_ZeroOperation(t *testing.T) {
	_, err := Operation{}.Pack()
	assert.ErrorIs(t, err, model.ErrUnknownOperation)
}

func TestUnpack(t *testing.T) {
	nameOut, err := parsedABI.Methods[MethodName].Outputs.Pack("Demo Token")
	require.NoError(t, err)
	v, err := Name().Unpack(nameOut)
	require.NoError(t, err)
	assert.Equal(t, "Demo Token", v)

	supplyOut, err := parsedABI.Methods[MethodTotalSupply].Outputs.Pack(big.NewInt(1000))
	require.NoError(t, err)
	v, err = TotalSupply().Unpack(supplyOut)
	require.NoError(t, err)
	require.IsType(t, units.Amount{}, v)
	assert.Equal(t, "1000", v.(units.Amount).String())

	okOut, err := parsedABI.Methods[MethodTransfer].Outputs.Pack(true)
	require.NoError(t, err)
	transfer, err := Transfer(other, units.FromUint64(1))
	require.NoError(t, err)
	v, err = transfer.Unpack(okOut)
	require.NoError(t, err)
	assert.Equal(t, true, v)

	burn, err := Burn(units.FromUint64(1))
	require.NoError(t, err)
	v, err = burn.Unpack(nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = Name().Unpack(nil)
	assert.Error(t, err)
}

func TestDecode_RoundTrip(t *testing.T) {
	mint, err := Mint(other, units.FromUint64(42))
	require.NoError(t, err)
	data, err := mint.Pack()
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, MethodMint, got.Method())
	assert.Equal(t, other, got.Account())
	assert.Equal(t, "42", got.Amount().String())

	_, err = Decode([]byte{0xde, 0xad, 0xbe, 0xef})
	assert.ErrorIs(t, err, model.ErrUnknownOperation)
	_, err = Decode(nil)
	assert.ErrorIs(t, err, model.ErrUnknownOperation)
}
