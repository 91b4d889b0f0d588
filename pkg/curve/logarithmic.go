// pkg/curve/logarithmic.go
package curve

import (
	"github.com/rovshanmuradov/bonding-curves/pkg/fixed"
)

// Logarithmic prices tokens as
//
//	P = c · ln(S + k)
//
// where the constant k keeps the logarithm defined at zero supply. The
// integral uses the antiderivative c · (x·ln(x) − x) with x = S + k.
type Logarithmic struct {
	coefficient fixed.Decimal
	constant    fixed.Decimal
	supply      fixed.Decimal
}

var _ Curve = (*Logarithmic)(nil)

func NewLogarithmic(coefficient, constant float64) (*Logarithmic, error) {
	if !isFinite(coefficient) || coefficient <= 0 {
		return nil, invalidInput(ReasonInvalidParameter, "coefficient", "coefficient and constant must be positive and finite, got coefficient %v", coefficient)
	}
	if !isFinite(constant) || constant <= 0 {
		return nil, invalidInput(ReasonInvalidParameter, "constant", "coefficient and constant must be positive and finite, got constant %v", constant)
	}

	c, err := toParam("coefficient", coefficient)
	if err != nil {
		return nil, err
	}
	k, err := toParam("constant", constant)
	if err != nil {
		return nil, err
	}
	return &Logarithmic{coefficient: c, constant: k}, nil
}

func (l *Logarithmic) Coefficient() fixed.Decimal { return l.coefficient }

func (l *Logarithmic) Constant() fixed.Decimal { return l.constant }

func (l *Logarithmic) Price() (fixed.Decimal, error) {
	var c calc
	x := c.add(l.supply, l.constant)
	if c.err != nil {
		return fixed.Zero, c.err
	}
	if x.Sign() <= 0 {
		return fixed.Zero, calculationError(ReasonDomain, "invalid supply for logarithm: %s", x)
	}
	price := c.mul(l.coefficient, c.ln(x))
	return price, c.err
}

func (l *Logarithmic) Buy(tokenAmount fixed.Decimal) (fixed.Decimal, error) {
	if err := checkBuyAmount(tokenAmount, "token_amount"); err != nil {
		return fixed.Zero, err
	}

	var c calc
	newSupply := c.add(l.supply, tokenAmount)
	xOld := c.add(l.supply, l.constant)
	xNew := c.add(newSupply, l.constant)
	cost := c.sub(l.antiderivative(&c, xNew), l.antiderivative(&c, xOld))
	if c.err != nil {
		return fixed.Zero, c.err
	}

	l.supply = newSupply
	return cost, nil
}

func (l *Logarithmic) Sell(tokenAmount fixed.Decimal) (fixed.Decimal, error) {
	if err := checkSellAmount(tokenAmount, l.supply); err != nil {
		return fixed.Zero, err
	}

	var c calc
	newSupply := c.sub(l.supply, tokenAmount)
	xOld := c.add(l.supply, l.constant)
	xNew := c.add(newSupply, l.constant)
	if c.err != nil {
		return fixed.Zero, c.err
	}
	if xNew.Sign() <= 0 {
		return fixed.Zero, calculationError(ReasonDomain, "cannot sell tokens: would result in invalid supply for logarithm")
	}

	refund := c.sub(l.antiderivative(&c, xOld), l.antiderivative(&c, xNew))
	if c.err != nil {
		return fixed.Zero, c.err
	}

	l.supply = newSupply
	return refund, nil
}

// antiderivative returns c · (x·ln(x) − x).
func (l *Logarithmic) antiderivative(c *calc, x fixed.Decimal) fixed.Decimal {
	return c.mul(l.coefficient, c.sub(c.mul(x, c.ln(x)), x))
}

func (l *Logarithmic) Supply() fixed.Decimal { return l.supply }

func (l *Logarithmic) Reserve() (fixed.Decimal, bool) { return fixed.Zero, false }
