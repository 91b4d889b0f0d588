// pkg/curve/linear.go
package curve

import (
	"github.com/rovshanmuradov/bonding-curves/pkg/fixed"
)

var two = fixed.FromInt(2)

// Linear prices tokens proportionally to supply: P = k · S.
type Linear struct {
	slope  fixed.Decimal
	supply fixed.Decimal
}

var _ Curve = (*Linear)(nil)

func NewLinear(slope float64) (*Linear, error) {
	if !isFinite(slope) || slope <= 0 {
		return nil, invalidInput(ReasonInvalidParameter, "slope", "slope must be positive, got %v", slope)
	}
	k, err := toParam("slope", slope)
	if err != nil {
		return nil, err
	}
	return &Linear{slope: k}, nil
}

func (l *Linear) Slope() fixed.Decimal { return l.slope }

func (l *Linear) Price() (fixed.Decimal, error) {
	var c calc
	price := c.mul(l.slope, l.supply)
	return price, c.err
}

// Buy returns ∫ k·S dS from S to S+Δ = k·((S+Δ)² − S²)/2.
func (l *Linear) Buy(tokenAmount fixed.Decimal) (fixed.Decimal, error) {
	if err := checkBuyAmount(tokenAmount, "token_amount"); err != nil {
		return fixed.Zero, err
	}

	var c calc
	newSupply := c.add(l.supply, tokenAmount)
	cost := l.area(&c, l.supply, newSupply)
	if c.err != nil {
		return fixed.Zero, c.err
	}

	l.supply = newSupply
	return cost, nil
}

// Sell returns ∫ k·S dS from S−Δ to S = k·(S² − (S−Δ)²)/2.
func (l *Linear) Sell(tokenAmount fixed.Decimal) (fixed.Decimal, error) {
	if err := checkSellAmount(tokenAmount, l.supply); err != nil {
		return fixed.Zero, err
	}

	var c calc
	newSupply := c.sub(l.supply, tokenAmount)
	refund := l.area(&c, newSupply, l.supply)
	if c.err != nil {
		return fixed.Zero, c.err
	}

	l.supply = newSupply
	return refund, nil
}

// area integrates the price between lo and hi.
func (l *Linear) area(c *calc, lo, hi fixed.Decimal) fixed.Decimal {
	squares := c.sub(c.mul(hi, hi), c.mul(lo, lo))
	return c.div(c.mul(l.slope, squares), two)
}

func (l *Linear) Supply() fixed.Decimal { return l.supply }

func (l *Linear) Reserve() (fixed.Decimal, bool) { return fixed.Zero, false }
