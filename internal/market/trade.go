package market

import (
	"time"

	"github.com/rovshanmuradov/bonding-curves/pkg/fixed"
)

// Trade operations.
const (
	ActionBuy  = "buy"
	ActionSell = "sell"
)

// Trade records one attempted operation against a market, whether it
// succeeded or not.
//
// Amount is the caller's input: reserve paid in for a Bancor buy, tokens
// for everything else. Result is the curve's answer: tokens issued for a
// Bancor buy, cost for other buys and the payout for sells. Value is the
// reserve-currency side of the trade in both cases.
type Trade struct {
	ID          string        `json:"id" yaml:"id"`
	Timestamp   time.Time     `json:"timestamp" yaml:"timestamp"`
	Market      string        `json:"market" yaml:"market"`
	CurveType   string        `json:"curve_type" yaml:"curve_type"`
	Action      string        `json:"action" yaml:"action"`
	Amount      fixed.Decimal `json:"amount" yaml:"amount"`
	Result      fixed.Decimal `json:"result" yaml:"result"`
	Value       fixed.Decimal `json:"value" yaml:"value"`
	PriceBefore fixed.Decimal `json:"price_before" yaml:"price_before"`
	PriceAfter  fixed.Decimal `json:"price_after" yaml:"price_after"`
	SupplyAfter fixed.Decimal `json:"supply_after" yaml:"supply_after"`

	// Bancor only
	ReserveAfter *fixed.Decimal `json:"reserve_after,omitempty" yaml:"reserve_after,omitempty"`

	Success     bool   `json:"success" yaml:"success"`
	ErrorKind   string `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	ErrorReason string `json:"error_reason,omitempty" yaml:"error_reason,omitempty"`
	ErrorMsg    string `json:"error_msg,omitempty" yaml:"error_msg,omitempty"`
}

// ToCSV converts trade to CSV record
func (t *Trade) ToCSV() []string {
	reserve := ""
	if t.ReserveAfter != nil {
		reserve = t.ReserveAfter.String()
	}
	return []string{
		t.ID,
		t.Timestamp.Format(time.RFC3339Nano),
		t.Market,
		t.CurveType,
		t.Action,
		t.Amount.String(),
		formatDecimal(t.Result, t.Success),
		formatDecimal(t.Value, t.Success),
		t.PriceBefore.String(),
		formatDecimal(t.PriceAfter, t.Success),
		t.SupplyAfter.String(),
		reserve,
		formatBool(t.Success),
		t.ErrorKind,
		t.ErrorReason,
		t.ErrorMsg,
	}
}

// CSVHeaders returns the header row for trade CSV files
func CSVHeaders() []string {
	return []string{
		"id",
		"timestamp",
		"market",
		"curve_type",
		"action",
		"amount",
		"result",
		"value",
		"price_before",
		"price_after",
		"supply_after",
		"reserve_after",
		"success",
		"error_kind",
		"error_reason",
		"error_msg",
	}
}

// formatDecimal leaves the outputs of failed trades blank.
func formatDecimal(d fixed.Decimal, ok bool) string {
	if !ok {
		return ""
	}
	return d.String()
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
