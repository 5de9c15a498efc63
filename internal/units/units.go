// Package units converts between human-readable currency amounts and the
// chain's smallest integer unit. All arithmetic is on big.Int; floats are
// never involved.
package units

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/codecrypto-org/viem/internal/domain/model"
	"github.com/holiman/uint256"
)

// EtherDecimals is the fixed-point depth of the native currency.
const EtherDecimals = 18

// maxDecimals keeps 10^decimals inside uint256.
const maxDecimals = 77

// Amount is an immutable non-negative quantity in smallest units.
type Amount struct {
	v *big.Int
}

// Zero is the zero amount.
var Zero = Amount{v: new(big.Int)}

// FromBig copies b into an Amount. Negative or nil values are rejected.
func FromBig(b *big.Int) (Amount, error) {
	if b == nil {
		return Amount{}, fmt.Errorf("%w: nil value", model.ErrInvalidAmount)
	}
	if b.Sign() < 0 {
		return Amount{}, fmt.Errorf("%w: negative value %s", model.ErrInvalidAmount, b.String())
	}
	return Amount{v: new(big.Int).Set(b)}, nil
}

// FromUint64 builds an Amount from a smallest-unit integer.
func FromUint64(n uint64) Amount {
	return Amount{v: new(big.Int).SetUint64(n)}
}

// Big returns a copy of the underlying integer.
func (a Amount) Big() *big.Int {
	if a.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(a.v)
}

// String renders the smallest-unit integer in base 10.
func (a Amount) String() string {
	if a.v == nil {
		return "0"
	}
	return a.v.String()
}

func (a Amount) IsZero() bool {
	return a.v == nil || a.v.Sign() == 0
}

func (a Amount) Cmp(b Amount) int {
	return a.Big().Cmp(b.Big())
}

func (a Amount) Equal(b Amount) bool {
	return a.Cmp(b) == 0
}

func (a Amount) Add(b Amount) Amount {
	return Amount{v: new(big.Int).Add(a.Big(), b.Big())}
}

// Sub returns a-b, failing when the result would be negative.
func (a Amount) Sub(b Amount) (Amount, error) {
	return FromBig(new(big.Int).Sub(a.Big(), b.Big()))
}

// FitsUint256 reports whether a can be passed as a uint256 argument.
func (a Amount) FitsUint256() bool {
	_, overflow := uint256.FromBig(a.Big())
	return !overflow
}

// Uint256 converts a, failing with ErrInvalidAmount on overflow.
func (a Amount) Uint256() (*uint256.Int, error) {
	u, overflow := uint256.FromBig(a.Big())
	if overflow {
		return nil, fmt.Errorf("%w: %s exceeds uint256", model.ErrInvalidAmount, a.String())
	}
	return u, nil
}

// ToSmallestUnit parses an ether-denominated decimal string such as "1.5".
func ToSmallestUnit(display string) (Amount, error) {
	return ParseUnits(display, EtherDecimals)
}

// ToDisplay is the exact inverse of ToSmallestUnit.
func ToDisplay(a Amount) string {
	return FormatUnits(a, EtherDecimals)
}

// ParseUnits parses a decimal string with at most decimals fractional digits.
// Surrounding whitespace is ignored; signs, exponents and separators are not accepted.
func ParseUnits(display string, decimals int) (Amount, error) {
	if decimals < 0 || decimals > maxDecimals {
		return Amount{}, fmt.Errorf("%w: unsupported decimals %d", model.ErrInvalidAmount, decimals)
	}
	raw := strings.TrimSpace(display)
	if raw == "" {
		return Amount{}, fmt.Errorf("%w: empty input", model.ErrInvalidAmount)
	}
	if strings.HasPrefix(raw, "-") {
		return Amount{}, fmt.Errorf("%w: negative value %q", model.ErrInvalidAmount, display)
	}

	intPart, fracPart, _ := strings.Cut(raw, ".")
	if intPart == "" && fracPart == "" {
		return Amount{}, fmt.Errorf("%w: malformed %q", model.ErrInvalidAmount, display)
	}
	if !allDigits(intPart) || !allDigits(fracPart) {
		return Amount{}, fmt.Errorf("%w: malformed %q", model.ErrInvalidAmount, display)
	}
	if len(fracPart) > decimals {
		return Amount{}, fmt.Errorf("%w: %q has more than %d fractional digits", model.ErrInvalidAmount, display, decimals)
	}

	digits := intPart + fracPart + strings.Repeat("0", decimals-len(fracPart))
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return Amount{v: new(big.Int)}, nil
	}
	v, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return Amount{}, fmt.Errorf("%w: malformed %q", model.ErrInvalidAmount, display)
	}
	return Amount{v: v}, nil
}

// FormatUnits renders a with decimals fractional digits, trimming trailing zeros.
func FormatUnits(a Amount, decimals int) string {
	digits := a.String()
	if decimals <= 0 {
		return digits
	}
	if len(digits) <= decimals {
		digits = strings.Repeat("0", decimals-len(digits)+1) + digits
	}
	split := len(digits) - decimals
	whole, frac := digits[:split], strings.TrimRight(digits[split:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
