// =============================
// File: pkg/curve/curve.go
// =============================

// Package curve implements the bonding-curve pricing engine: five curve
// variants that map token supply (and, for Bancor, a reserve balance) to a
// spot price and price minting and burning by the closed-form integral of
// that price.
//
// Every operation is synchronous and either applies its state transition in
// full or returns an error and leaves the curve untouched. A curve is a
// plain value owned by its caller; concurrent Buy/Sell on one instance
// requires external locking.
package curve

import (
	"math"
	"strings"

	"github.com/rovshanmuradov/bonding-curves/pkg/fixed"
)

// Curve is the behaviour shared by every bonding curve.
type Curve interface {
	// Price returns the spot price at the current supply without mutating.
	Price() (fixed.Decimal, error)
	// Buy increases supply. amount is a reserve amount for Bancor and a
	// token amount otherwise; the result is tokens issued for Bancor and
	// the cost paid otherwise.
	Buy(amount fixed.Decimal) (fixed.Decimal, error)
	// Sell burns amount tokens and returns the reserve or refund paid out.
	Sell(amount fixed.Decimal) (fixed.Decimal, error)
	// Supply returns the current token supply.
	Supply() fixed.Decimal
	// Reserve returns the reserve balance for curves that track one.
	Reserve() (fixed.Decimal, bool)
}

// Type names a curve in the fixed catalog.
type Type string

const (
	TypeBancor      Type = "bancor"
	TypeLinear      Type = "linear"
	TypeExponential Type = "exponential"
	TypeLogarithmic Type = "logarithmic"
	TypeSigmoid     Type = "sigmoid"
)

// Types lists the catalog in a stable order.
func Types() []Type {
	return []Type{TypeBancor, TypeLinear, TypeExponential, TypeLogarithmic, TypeSigmoid}
}

// ParseType resolves a case-insensitive curve name.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Types() {
		if t == known {
			return t, nil
		}
	}
	return "", invalidInput(ReasonUnknownCurve, "type", "unknown curve type %q", s)
}

// Params carries constructor arguments for New. Only the fields used by
// Type are read.
type Params struct {
	Type Type

	// Bancor
	Reserve         fixed.Decimal
	Supply          fixed.Decimal
	ConnectorWeight float64

	// Linear
	Slope float64

	// Exponential and Logarithmic
	Coefficient float64
	Exponent    float64
	Constant    float64

	// Sigmoid
	MaxPrice  float64
	Steepness float64
	Midpoint  float64
}

// New builds the curve described by p.
func New(p Params) (Curve, error) {
	switch p.Type {
	case TypeBancor:
		return NewBancor(p.Reserve, p.Supply, p.ConnectorWeight)
	case TypeLinear:
		return NewLinear(p.Slope)
	case TypeExponential:
		return NewExponential(p.Coefficient, p.Exponent)
	case TypeLogarithmic:
		return NewLogarithmic(p.Coefficient, p.Constant)
	case TypeSigmoid:
		return NewSigmoid(p.MaxPrice, p.Steepness, p.Midpoint)
	default:
		return nil, invalidInput(ReasonUnknownCurve, "type", "unknown curve type %q", p.Type)
	}
}

// TypeOf reports the catalog type of c, or "" for curves defined elsewhere.
func TypeOf(c Curve) Type {
	switch c.(type) {
	case *Bancor:
		return TypeBancor
	case *Linear:
		return TypeLinear
	case *Exponential:
		return TypeExponential
	case *Logarithmic:
		return TypeLogarithmic
	case *Sigmoid:
		return TypeSigmoid
	default:
		return ""
	}
}

func isFinite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// toParam converts an already validated float parameter. A positive value
// that truncates to zero at fixed-point precision is rejected.
func toParam(field string, v float64) (fixed.Decimal, error) {
	d, err := fixed.FromFloat64(v)
	if err != nil {
		return fixed.Zero, invalidInput(ReasonInvalidParameter, field, "%v is not representable: %v", v, err)
	}
	if v > 0 && d.IsZero() {
		return fixed.Zero, invalidInput(ReasonInvalidParameter, field, "%v is below fixed-point precision", v)
	}
	return d, nil
}

func checkBuyAmount(amount fixed.Decimal, field string) error {
	if amount.Sign() <= 0 {
		return invalidInput(ReasonNonPositiveAmount, field, "%s must be positive", strings.ReplaceAll(field, "_", " "))
	}
	return nil
}

func checkSellAmount(amount, supply fixed.Decimal) error {
	if amount.Sign() <= 0 {
		return invalidInput(ReasonNonPositiveAmount, "token_amount", "invalid token amount %s: must be positive", amount)
	}
	if amount.Cmp(supply) > 0 {
		return invalidInput(ReasonAmountExceedsSupply, "token_amount", "invalid token amount %s: exceeds supply %s", amount, supply)
	}
	return nil
}
