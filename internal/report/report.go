// internal/report/report.go

// Package report renders simulation results for the terminal.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/rovshanmuradov/bonding-curves/internal/market"
	"github.com/rovshanmuradov/bonding-curves/internal/simulator"
)

// SparklineWidth is the number of price points shown per scenario.
const SparklineWidth = 16

var headers = []string{"Scenario", "Curve", "Trades", "Failed", "Supply", "Reserve", "Price", "Trend", "Status"}

// Columns rendered right-aligned are colTrades through colPrice.
const (
	colTrades = 2
	colPrice  = 6
	colStatus = 8
)

// Results renders one row per scenario followed by the errors of failed
// scenarios.
func Results(results []simulator.Result) string {
	rows := make([][]string, 0, len(results))
	var problems []string

	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = "failed"
			problems = append(problems, fmt.Sprintf("%s: %v", r.Scenario, r.Err))
		}

		reserve := "-"
		if r.Final.HasReserve {
			reserve = r.Final.Reserve.String()
		}

		prices := PriceSeries(r.Trades)
		rows = append(rows, []string{
			r.Scenario,
			string(r.CurveType),
			strconv.Itoa(r.Stats.TotalTrades),
			strconv.Itoa(r.Failures),
			r.Final.Supply.String(),
			reserve,
			r.Final.Price.String(),
			Sparkline(prices, SparklineWidth) + " " + Trend(prices),
			status,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == colStatus:
				if row >= 0 && row < len(rows) && rows[row][colStatus] == "ok" {
					return okStyle
				}
				return failStyle
			case col >= colTrades && col <= colPrice:
				return numericStyle
			default:
				return cellStyle
			}
		})

	var b strings.Builder
	b.WriteString(titleStyle.Render("Simulation results"))
	b.WriteString("\n")
	b.WriteString(t.String())
	b.WriteString("\n")
	for _, p := range problems {
		b.WriteString(errorStyle.Render("✗ " + p))
		b.WriteString("\n")
	}
	return b.String()
}

// PriceSeries returns the post-trade price of every successful trade.
func PriceSeries(trades []market.Trade) []float64 {
	prices := make([]float64, 0, len(trades))
	for _, t := range trades {
		if t.Success {
			prices = append(prices, t.PriceAfter.Float64())
		}
	}
	return prices
}

// State renders a single market state as aligned label/value lines.
func State(s market.State) string {
	lines := []string{
		titleStyle.Render(fmt.Sprintf("%s (%s)", s.Market, s.CurveType)),
		labelStyle.Render("supply") + s.Supply.String(),
	}
	if s.HasReserve {
		lines = append(lines, labelStyle.Render("reserve")+s.Reserve.String())
	}
	lines = append(lines, labelStyle.Render("price")+s.Price.String())
	return strings.Join(lines, "\n") + "\n"
}

// Trade renders the outcome of one quote-style operation.
func Trade(t market.Trade) string {
	if !t.Success {
		return errorStyle.Render(fmt.Sprintf("✗ %s %s rejected: %s", t.Action, t.Amount, t.ErrorMsg)) + "\n"
	}
	var what string
	switch {
	case t.Action == market.ActionBuy && t.CurveType == "bancor":
		what = "tokens issued"
	case t.Action == market.ActionBuy:
		what = "cost"
	default:
		what = "received"
	}
	line := fmt.Sprintf("%s %s → %s %s (price %s → %s)", t.Action, t.Amount, what, t.Result, t.PriceBefore, t.PriceAfter)
	return okStyle.UnsetPadding().Render("✓ "+line) + "\n"
}

// Warning renders a highlighted notice line.
func Warning(msg string) string {
	return warnStyle.Render("! "+msg) + "\n"
}
