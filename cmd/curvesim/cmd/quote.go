package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rovshanmuradov/bonding-curves/internal/config"
	"github.com/rovshanmuradov/bonding-curves/internal/logger"
	"github.com/rovshanmuradov/bonding-curves/internal/market"
	"github.com/rovshanmuradov/bonding-curves/internal/report"
	"github.com/rovshanmuradov/bonding-curves/pkg/curve"
	"github.com/rovshanmuradov/bonding-curves/pkg/fixed"
)

type quoteCmd struct {
	root *rootFlags

	curve config.CurveConfig
	buys  []string
	sells []string
}

func newQuoteCmd(root *rootFlags) *cobra.Command {
	q := &quoteCmd{root: root}
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price buys and sells against a single curve",
		Long: "quote builds one curve from flags, applies every --buy and then every\n" +
			"--sell in the order given, and prints each outcome with the final state.",
		Example: "  curvesim quote --type bancor --reserve 1000 --supply 10000 --connector-weight 0.5 --buy 100\n" +
			"  curvesim quote --type linear --slope 0.5 --buy 10 --sell 4",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return q.run(cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&q.curve.Type, "type", "t", "", "curve type: bancor, linear, exponential, logarithmic or sigmoid")
	f.StringVar(&q.curve.Reserve, "reserve", "", "bancor initial reserve")
	f.StringVar(&q.curve.Supply, "supply", "", "bancor initial supply")
	f.Float64Var(&q.curve.ConnectorWeight, "connector-weight", 0, "bancor connector weight in (0, 1]")
	f.Float64Var(&q.curve.Slope, "slope", 0, "linear slope")
	f.Float64Var(&q.curve.Coefficient, "coefficient", 0, "exponential or logarithmic coefficient")
	f.Float64Var(&q.curve.Exponent, "exponent", 0, "exponential exponent")
	f.Float64Var(&q.curve.Constant, "constant", 0, "logarithmic constant")
	f.Float64Var(&q.curve.MaxPrice, "max-price", 0, "sigmoid maximum price")
	f.Float64Var(&q.curve.Steepness, "steepness", 0, "sigmoid steepness")
	f.Float64Var(&q.curve.Midpoint, "midpoint", 0, "sigmoid midpoint")
	f.StringArrayVar(&q.buys, "buy", nil, "buy amount (reserve for bancor, tokens otherwise); repeatable")
	f.StringArrayVar(&q.sells, "sell", nil, "token amount to sell; repeatable")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func (q *quoteCmd) run(out io.Writer) error {
	params, err := q.curve.Params()
	if err != nil {
		return err
	}
	c, err := curve.New(params)
	if err != nil {
		return err
	}

	log, err := q.root.newLogger(false, logger.FormatPretty)
	if err != nil {
		return err
	}
	defer syncLogger(log)

	m := market.New("quote", c, market.WithLogger(log))
	defer m.Close()

	steps := make([]func() error, 0, len(q.buys)+len(q.sells))
	for _, s := range q.buys {
		steps = append(steps, q.step(out, s, m.Buy))
	}
	for _, s := range q.sells {
		steps = append(steps, q.step(out, s, m.Sell))
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	state, err := m.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to read final state: %w", err)
	}
	fmt.Fprint(out, report.State(state))
	return nil
}

// step parses raw and applies op. Rejected trades are printed, not returned.
func (q *quoteCmd) step(out io.Writer, raw string, op func(fixed.Decimal) (market.Trade, error)) func() error {
	return func() error {
		amount, err := fixed.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", raw, err)
		}
		trade, _ := op(amount)
		fmt.Fprint(out, report.Trade(trade))
		return nil
	}
}
