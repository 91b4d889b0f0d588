// pkg/curve/sigmoid.go
package curve

import (
	"github.com/rovshanmuradov/bonding-curves/pkg/fixed"
)

// Sigmoid prices tokens on a logistic curve:
//
//	P = M / (1 + e^(−k·(S − m)))
//
// M is the price ceiling, k the steepness and m the supply at which the
// price reaches M/2. The integral uses the antiderivative
// (M/k) · ln(1 + e^(k·(S − m))).
type Sigmoid struct {
	maxPrice  fixed.Decimal
	steepness fixed.Decimal
	midpoint  fixed.Decimal
	supply    fixed.Decimal
}

var _ Curve = (*Sigmoid)(nil)

func NewSigmoid(maxPrice, steepness, midpoint float64) (*Sigmoid, error) {
	switch {
	case !isFinite(maxPrice) || maxPrice <= 0:
		return nil, invalidInput(ReasonInvalidParameter, "max_price", "invalid parameters: max price must be positive and finite, got %v", maxPrice)
	case !isFinite(steepness) || steepness <= 0:
		return nil, invalidInput(ReasonInvalidParameter, "steepness", "invalid parameters: steepness must be positive and finite, got %v", steepness)
	case !isFinite(midpoint) || midpoint < 0:
		return nil, invalidInput(ReasonInvalidParameter, "midpoint", "invalid parameters: midpoint must be non-negative and finite, got %v", midpoint)
	}

	m, err := toParam("max_price", maxPrice)
	if err != nil {
		return nil, err
	}
	k, err := toParam("steepness", steepness)
	if err != nil {
		return nil, err
	}
	mid, err := toParam("midpoint", midpoint)
	if err != nil {
		return nil, err
	}
	return &Sigmoid{maxPrice: m, steepness: k, midpoint: mid}, nil
}

func (s *Sigmoid) MaxPrice() fixed.Decimal { return s.maxPrice }

func (s *Sigmoid) Steepness() fixed.Decimal { return s.steepness }

func (s *Sigmoid) Midpoint() fixed.Decimal { return s.midpoint }

func (s *Sigmoid) Price() (fixed.Decimal, error) {
	var c calc
	exponent := c.mul(s.steepness, c.sub(s.supply, s.midpoint)).Neg()
	denominator := c.add(fixed.One, c.exp(exponent))
	price := c.div(s.maxPrice, denominator)
	return price, c.err
}

func (s *Sigmoid) Buy(tokenAmount fixed.Decimal) (fixed.Decimal, error) {
	if err := checkBuyAmount(tokenAmount, "token_amount"); err != nil {
		return fixed.Zero, err
	}

	var c calc
	newSupply := c.add(s.supply, tokenAmount)
	cost := c.sub(s.antiderivative(&c, newSupply), s.antiderivative(&c, s.supply))
	if c.err != nil {
		return fixed.Zero, c.err
	}

	s.supply = newSupply
	return cost, nil
}

func (s *Sigmoid) Sell(tokenAmount fixed.Decimal) (fixed.Decimal, error) {
	if err := checkSellAmount(tokenAmount, s.supply); err != nil {
		return fixed.Zero, err
	}

	var c calc
	newSupply := c.sub(s.supply, tokenAmount)
	refund := c.sub(s.antiderivative(&c, s.supply), s.antiderivative(&c, newSupply))
	if c.err != nil {
		return fixed.Zero, c.err
	}

	s.supply = newSupply
	return refund, nil
}

// antiderivative returns (M/k) · ln(1 + e^(k·(x − m))).
func (s *Sigmoid) antiderivative(c *calc, x fixed.Decimal) fixed.Decimal {
	scale := c.div(s.maxPrice, s.steepness)
	e := c.exp(c.mul(s.steepness, c.sub(x, s.midpoint)))
	return c.mul(scale, c.ln(c.add(fixed.One, e)))
}

func (s *Sigmoid) Supply() fixed.Decimal { return s.supply }

func (s *Sigmoid) Reserve() (fixed.Decimal, bool) { return fixed.Zero, false }
