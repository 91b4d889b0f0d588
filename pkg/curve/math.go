// pkg/curve/math.go
package curve

import (
	"errors"
	"math"

	"github.com/rovshanmuradov/bonding-curves/pkg/fixed"
)

// Exp returns e^x.
func Exp(x fixed.Decimal) (fixed.Decimal, error) {
	return toDecimal("exp", math.Exp(x.Float64()))
}

// Ln returns the natural logarithm of x. x must be positive.
func Ln(x fixed.Decimal) (fixed.Decimal, error) {
	if x.Sign() <= 0 {
		return fixed.Zero, calculationError(ReasonDomain, "cannot take logarithm of non-positive number %s", x)
	}
	return toDecimal("ln", math.Log(x.Float64()))
}

// Pow returns base^exponent. A negative base is only accepted with an
// integral exponent.
func Pow(base, exponent fixed.Decimal) (fixed.Decimal, error) {
	if base.Sign() < 0 && !exponent.IsInteger() {
		return fixed.Zero, calculationError(ReasonDomain, "cannot raise negative number %s to fractional power %s", base, exponent)
	}
	return toDecimal("pow", math.Pow(base.Float64(), exponent.Float64()))
}

// Sqrt returns the square root of x. x must not be negative.
func Sqrt(x fixed.Decimal) (fixed.Decimal, error) {
	if x.Sign() < 0 {
		return fixed.Zero, calculationError(ReasonDomain, "cannot take square root of negative number %s", x)
	}
	return toDecimal("sqrt", math.Sqrt(x.Float64()))
}

func toDecimal(op string, v float64) (fixed.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fixed.Zero, calculationError(ReasonNonFinite, "%s calculation resulted in infinite or NaN value", op)
	}
	d, err := fixed.FromFloat64(v)
	if err != nil {
		return fixed.Zero, wrapFixed(op, err)
	}
	return d, nil
}

// wrapFixed maps fixed-point failures onto calculation errors.
func wrapFixed(op string, err error) error {
	switch {
	case errors.Is(err, fixed.ErrOverflow):
		return calculationError(ReasonOverflow, "%s result does not fit fixed-point range", op)
	case errors.Is(err, fixed.ErrDivisionByZero):
		return calculationError(ReasonDivisionByZero, "%s divides by zero", op)
	case errors.Is(err, fixed.ErrNotFinite):
		return calculationError(ReasonNonFinite, "%s result is not finite", op)
	default:
		return calculationError(ReasonOverflow, "%s: %v", op, err)
	}
}

// calc chains checked fixed-point operations and keeps the first failure,
// so a formula can be written top to bottom and checked once at the end.
type calc struct {
	err error
}

func (c *calc) add(a, b fixed.Decimal) fixed.Decimal {
	return c.apply("add", a, b, fixed.Decimal.Add)
}

func (c *calc) sub(a, b fixed.Decimal) fixed.Decimal {
	return c.apply("sub", a, b, fixed.Decimal.Sub)
}

func (c *calc) mul(a, b fixed.Decimal) fixed.Decimal {
	return c.apply("mul", a, b, fixed.Decimal.Mul)
}

func (c *calc) div(a, b fixed.Decimal) fixed.Decimal {
	return c.apply("div", a, b, fixed.Decimal.Div)
}

func (c *calc) apply(op string, a, b fixed.Decimal, fn func(fixed.Decimal, fixed.Decimal) (fixed.Decimal, error)) fixed.Decimal {
	if c.err != nil {
		return fixed.Zero
	}
	r, err := fn(a, b)
	if err != nil {
		c.err = wrapFixed(op, err)
		return fixed.Zero
	}
	return r
}

func (c *calc) exp(x fixed.Decimal) fixed.Decimal {
	return c.unary(Exp, x)
}

func (c *calc) ln(x fixed.Decimal) fixed.Decimal {
	return c.unary(Ln, x)
}

func (c *calc) pow(base, exponent fixed.Decimal) fixed.Decimal {
	if c.err != nil {
		return fixed.Zero
	}
	r, err := Pow(base, exponent)
	if err != nil {
		c.err = err
		return fixed.Zero
	}
	return r
}

func (c *calc) unary(fn func(fixed.Decimal) (fixed.Decimal, error), x fixed.Decimal) fixed.Decimal {
	if c.err != nil {
		return fixed.Zero
	}
	r, err := fn(x)
	if err != nil {
		c.err = err
		return fixed.Zero
	}
	return r
}
