// =============================
// File: pkg/curve/bancor.go
// =============================
package curve

import (
	"github.com/rovshanmuradov/bonding-curves/pkg/fixed"
)

// BancorInitialPrice is the price used to issue tokens on the first buy of
// an empty Bancor curve, when the spot price R/(S·w) is undefined.
var BancorInitialPrice = fixed.MustParse("0.0001")

// Bancor prices tokens against a reserve balance:
//
//	P = R / (S · w)
//
// where R is the reserve, S the token supply and w the connector weight.
// Buy takes a reserve amount and issues tokens at the current spot price;
// Sell burns tokens and pays out reserve at the current spot price.
type Bancor struct {
	reserve         fixed.Decimal
	supply          fixed.Decimal
	connectorWeight fixed.Decimal
}

var _ Curve = (*Bancor)(nil)

// NewBancor validates the initial state. An empty pool (zero reserve and
// zero supply) is allowed; a reserve without supply or the reverse is not.
func NewBancor(reserve, supply fixed.Decimal, connectorWeight float64) (*Bancor, error) {
	if !isFinite(connectorWeight) || connectorWeight <= 0 || connectorWeight > 1 {
		return nil, invalidInput(ReasonInvalidParameter, "connector_weight", "connector weight must be between 0 and 1, got %v", connectorWeight)
	}
	if reserve.Sign() < 0 {
		return nil, invalidInput(ReasonInvalidParameter, "reserve", "reserve must be non-negative, got %s", reserve)
	}
	if supply.Sign() < 0 {
		return nil, invalidInput(ReasonInvalidParameter, "supply", "supply must be non-negative, got %s", supply)
	}
	if supply.IsZero() && !reserve.IsZero() {
		return nil, invalidInput(ReasonInvalidParameter, "reserve", "cannot have reserve with zero token supply")
	}
	if reserve.IsZero() && !supply.IsZero() {
		return nil, invalidInput(ReasonInvalidParameter, "reserve", "cannot have zero reserve with non-zero token supply")
	}

	w, err := toParam("connector_weight", connectorWeight)
	if err != nil {
		return nil, err
	}

	return &Bancor{
		reserve:         reserve,
		supply:          supply,
		connectorWeight: w,
	}, nil
}

func (b *Bancor) ConnectorWeight() fixed.Decimal { return b.connectorWeight }

// Price returns R / (S · w), or zero for an empty pool.
func (b *Bancor) Price() (fixed.Decimal, error) {
	if b.supply.IsZero() {
		return fixed.Zero, nil
	}
	var c calc
	price := c.div(b.reserve, c.mul(b.supply, b.connectorWeight))
	return price, c.err
}

// Buy deposits reserveAmount and returns the number of tokens issued.
func (b *Bancor) Buy(reserveAmount fixed.Decimal) (fixed.Decimal, error) {
	if err := checkBuyAmount(reserveAmount, "reserve_amount"); err != nil {
		return fixed.Zero, err
	}

	var c calc
	var tokens fixed.Decimal
	if b.supply.IsZero() {
		tokens = c.div(reserveAmount, BancorInitialPrice)
	} else {
		price, err := b.Price()
		if err != nil {
			return fixed.Zero, err
		}
		if price.IsZero() {
			return fixed.Zero, calculationError(ReasonZeroPrice, "invalid price calculation: zero price at supply %s", b.supply)
		}
		tokens = c.div(reserveAmount, price)
	}

	newReserve := c.add(b.reserve, reserveAmount)
	newSupply := c.add(b.supply, tokens)
	if c.err != nil {
		return fixed.Zero, c.err
	}

	b.reserve = newReserve
	b.supply = newSupply
	return tokens, nil
}

// Sell burns tokenAmount and returns the reserve paid out at the spot price
// observed before the sale. Burning the whole supply releases the whole
// reserve; a partial sale that would drain the reserve is rejected.
func (b *Bancor) Sell(tokenAmount fixed.Decimal) (fixed.Decimal, error) {
	if err := checkSellAmount(tokenAmount, b.supply); err != nil {
		return fixed.Zero, err
	}

	price, err := b.Price()
	if err != nil {
		return fixed.Zero, err
	}

	var c calc
	received := c.mul(tokenAmount, price)
	if c.err != nil {
		return fixed.Zero, c.err
	}

	closing := tokenAmount.Equal(b.supply)
	switch {
	case closing:
		received = b.reserve
	case received.Cmp(b.reserve) >= 0:
		return fixed.Zero, calculationError(ReasonReserveExhausted,
			"selling %s tokens would pay out %s from a reserve of %s", tokenAmount, received, b.reserve)
	}

	newSupply := c.sub(b.supply, tokenAmount)
	newReserve := c.sub(b.reserve, received)
	if c.err != nil {
		return fixed.Zero, c.err
	}

	b.supply = newSupply
	b.reserve = newReserve
	return received, nil
}

func (b *Bancor) Supply() fixed.Decimal { return b.supply }

func (b *Bancor) Reserve() (fixed.Decimal, bool) { return b.reserve, true }
