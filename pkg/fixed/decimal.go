// =============================
// File: pkg/fixed/decimal.go
// =============================

// Package fixed implements a deterministic signed fixed-point decimal with
// 18 fractional digits. Values are stored as a sign and a 256-bit magnitude
// scaled by 10^18, so every arithmetic result is reproducible across
// platforms. Multiplication and division truncate toward zero; any result
// whose magnitude does not fit 256 bits is reported as ErrOverflow.
package fixed

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
)

// Decimals is the number of fractional decimal digits carried by a Decimal.
const Decimals = 18

var (
	ErrOverflow       = errors.New("fixed-point overflow")
	ErrDivisionByZero = errors.New("fixed-point division by zero")
	ErrNotFinite      = errors.New("value is not finite")
	ErrSyntax         = errors.New("invalid decimal syntax")
)

var (
	scale    = uint256.NewInt(1_000_000_000_000_000_000)
	scaleBig = scale.ToBig()

	Zero = Decimal{}
	One  = Decimal{mag: *uint256.NewInt(1_000_000_000_000_000_000)}
)

// Decimal is a signed fixed-point number. The zero value is 0.
type Decimal struct {
	neg bool
	mag uint256.Int
}

func fromMag(neg bool, mag *uint256.Int) Decimal {
	d := Decimal{mag: *mag}
	d.neg = neg && !mag.IsZero()
	return d
}

// FromInt returns v as a Decimal.
func FromInt(v int64) Decimal {
	var mag uint256.Int
	if v < 0 {
		// -MinInt64 does not fit int64, go through uint64.
		mag.SetUint64(uint64(-(v + 1)) + 1)
	} else {
		mag.SetUint64(uint64(v))
	}
	mag.Mul(&mag, scale)
	return fromMag(v < 0, &mag)
}

// FromFloat64 converts f through its shortest round-tripping decimal form,
// so FromFloat64(0.1) is exactly 0.1. Digits beyond the 18th fractional
// place are truncated.
func FromFloat64(f float64) (Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Zero, ErrNotFinite
	}
	return Parse(strconv.FormatFloat(f, 'f', -1, 64))
}

// Parse reads a plain decimal literal such as "-12.5" or "0.0001".
// Fractional digits beyond Decimals are truncated.
func Parse(s string) (Decimal, error) {
	str := strings.TrimSpace(s)
	if str == "" {
		return Zero, fmt.Errorf("%w: empty string", ErrSyntax)
	}

	neg := false
	switch str[0] {
	case '-':
		neg = true
		str = str[1:]
	case '+':
		str = str[1:]
	}

	intPart, fracPart, _ := strings.Cut(str, ".")
	if intPart == "" && fracPart == "" {
		return Zero, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, part := range []string{intPart, fracPart} {
		for _, r := range part {
			if r < '0' || r > '9' {
				return Zero, fmt.Errorf("%w: %q", ErrSyntax, s)
			}
		}
	}

	if len(fracPart) > Decimals {
		fracPart = fracPart[:Decimals]
	}
	fracPart += strings.Repeat("0", Decimals-len(fracPart))

	raw, ok := new(big.Int).SetString(intPart+fracPart, 10)
	if !ok {
		return Zero, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	mag, overflow := uint256.FromBig(raw)
	if overflow {
		return Zero, ErrOverflow
	}
	return fromMag(neg, mag), nil
}

// MustParse is like Parse but panics on error. Intended for constants.
func MustParse(s string) Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Add returns d + o.
func (d Decimal) Add(o Decimal) (Decimal, error) {
	if d.neg == o.neg {
		var sum uint256.Int
		if _, overflow := sum.AddOverflow(&d.mag, &o.mag); overflow {
			return Zero, ErrOverflow
		}
		return fromMag(d.neg, &sum), nil
	}

	// Opposite signs: subtract the smaller magnitude from the larger one.
	var diff uint256.Int
	if d.mag.Cmp(&o.mag) >= 0 {
		diff.Sub(&d.mag, &o.mag)
		return fromMag(d.neg, &diff), nil
	}
	diff.Sub(&o.mag, &d.mag)
	return fromMag(o.neg, &diff), nil
}

// Sub returns d - o.
func (d Decimal) Sub(o Decimal) (Decimal, error) {
	return d.Add(o.Neg())
}

// Mul returns d * o truncated toward zero.
func (d Decimal) Mul(o Decimal) (Decimal, error) {
	var prod uint256.Int
	if _, overflow := prod.MulDivOverflow(&d.mag, &o.mag, scale); overflow {
		return Zero, ErrOverflow
	}
	return fromMag(d.neg != o.neg, &prod), nil
}

// Div returns d / o truncated toward zero.
func (d Decimal) Div(o Decimal) (Decimal, error) {
	if o.mag.IsZero() {
		return Zero, ErrDivisionByZero
	}
	var quo uint256.Int
	if _, overflow := quo.MulDivOverflow(&d.mag, scale, &o.mag); overflow {
		return Zero, ErrOverflow
	}
	return fromMag(d.neg != o.neg, &quo), nil
}

// Neg returns -d.
func (d Decimal) Neg() Decimal {
	return fromMag(!d.neg, &d.mag)
}

// Abs returns |d|.
func (d Decimal) Abs() Decimal {
	return fromMag(false, &d.mag)
}

// Sign returns -1, 0 or +1.
func (d Decimal) Sign() int {
	switch {
	case d.mag.IsZero():
		return 0
	case d.neg:
		return -1
	default:
		return 1
	}
}

func (d Decimal) IsZero() bool { return d.mag.IsZero() }

// Cmp compares d and o and returns -1, 0 or +1.
func (d Decimal) Cmp(o Decimal) int {
	ds, os := d.Sign(), o.Sign()
	if ds != os {
		if ds < os {
			return -1
		}
		return 1
	}
	c := d.mag.Cmp(&o.mag)
	if d.neg {
		return -c
	}
	return c
}

// Equal reports whether d and o represent the same value.
func (d Decimal) Equal(o Decimal) bool { return d.Cmp(o) == 0 }

// IsInteger reports whether d has no fractional part.
func (d Decimal) IsInteger() bool {
	var rem uint256.Int
	rem.Mod(&d.mag, scale)
	return rem.IsZero()
}

// Float64 returns the nearest float64 to d.
func (d Decimal) Float64() float64 {
	bf := new(big.Float).SetPrec(512).SetInt(d.mag.ToBig())
	bf.Quo(bf, new(big.Float).SetPrec(512).SetInt(scaleBig))
	f, _ := bf.Float64()
	if d.neg {
		return -f
	}
	return f
}

// String formats d without exponent and without trailing fractional zeros.
func (d Decimal) String() string {
	raw := d.mag.ToBig()
	intPart, fracPart := new(big.Int).QuoRem(raw, scaleBig, new(big.Int))

	var sb strings.Builder
	if d.neg {
		sb.WriteByte('-')
	}
	sb.WriteString(intPart.String())
	if fracPart.Sign() != 0 {
		frac := fracPart.String()
		frac = strings.Repeat("0", Decimals-len(frac)) + frac
		sb.WriteByte('.')
		sb.WriteString(strings.TrimRight(frac, "0"))
	}
	return sb.String()
}

func (d Decimal) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Decimal) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
