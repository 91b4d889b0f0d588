// pkg/curve/exponential.go
package curve

import (
	"github.com/rovshanmuradov/bonding-curves/pkg/fixed"
)

// Exponential prices tokens as a power of supply:
//
//	P = c · S^n
//
// c scales the curve and n sets its steepness.
type Exponential struct {
	coefficient fixed.Decimal
	exponent    fixed.Decimal
	supply      fixed.Decimal
}

var _ Curve = (*Exponential)(nil)

func NewExponential(coefficient, exponent float64) (*Exponential, error) {
	if !isFinite(coefficient) || coefficient <= 0 {
		return nil, invalidInput(ReasonInvalidParameter, "coefficient", "coefficient and exponent must be positive and finite, got coefficient %v", coefficient)
	}
	if !isFinite(exponent) || exponent <= 0 {
		return nil, invalidInput(ReasonInvalidParameter, "exponent", "coefficient and exponent must be positive and finite, got exponent %v", exponent)
	}

	c, err := toParam("coefficient", coefficient)
	if err != nil {
		return nil, err
	}
	n, err := toParam("exponent", exponent)
	if err != nil {
		return nil, err
	}
	return &Exponential{coefficient: c, exponent: n}, nil
}

func (e *Exponential) Coefficient() fixed.Decimal { return e.coefficient }

func (e *Exponential) Exponent() fixed.Decimal { return e.exponent }

func (e *Exponential) Price() (fixed.Decimal, error) {
	var c calc
	price := c.mul(e.coefficient, c.pow(e.supply, e.exponent))
	return price, c.err
}

// Buy returns (c/(n+1)) · ((S+Δ)^(n+1) − S^(n+1)).
func (e *Exponential) Buy(tokenAmount fixed.Decimal) (fixed.Decimal, error) {
	if err := checkBuyAmount(tokenAmount, "token_amount"); err != nil {
		return fixed.Zero, err
	}

	var c calc
	newSupply := c.add(e.supply, tokenAmount)
	cost := e.area(&c, e.supply, newSupply)
	if c.err != nil {
		return fixed.Zero, c.err
	}

	e.supply = newSupply
	return cost, nil
}

// Sell returns (c/(n+1)) · (S^(n+1) − (S−Δ)^(n+1)).
func (e *Exponential) Sell(tokenAmount fixed.Decimal) (fixed.Decimal, error) {
	if err := checkSellAmount(tokenAmount, e.supply); err != nil {
		return fixed.Zero, err
	}

	var c calc
	newSupply := c.sub(e.supply, tokenAmount)
	refund := e.area(&c, newSupply, e.supply)
	if c.err != nil {
		return fixed.Zero, c.err
	}

	e.supply = newSupply
	return refund, nil
}

func (e *Exponential) area(c *calc, lo, hi fixed.Decimal) fixed.Decimal {
	nPlusOne := c.add(e.exponent, fixed.One)
	factor := c.div(e.coefficient, nPlusOne)
	upper := c.mul(factor, c.pow(hi, nPlusOne))
	lower := c.mul(factor, c.pow(lo, nPlusOne))
	return c.sub(upper, lower)
}

func (e *Exponential) Supply() fixed.Decimal { return e.supply }

func (e *Exponential) Reserve() (fixed.Decimal, bool) { return fixed.Zero, false }
