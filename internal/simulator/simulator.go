// internal/simulator/simulator.go
package simulator

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/bonding-curves/internal/config"
	"github.com/rovshanmuradov/bonding-curves/internal/logger"
	"github.com/rovshanmuradov/bonding-curves/internal/market"
	"github.com/rovshanmuradov/bonding-curves/internal/metrics"
	"github.com/rovshanmuradov/bonding-curves/pkg/curve"
	"github.com/rovshanmuradov/bonding-curves/pkg/fixed"
)

// JournalFlushInterval is how often trade journals are flushed to disk.
const JournalFlushInterval = time.Second

// Result is the outcome of one scenario.
type Result struct {
	Scenario  string
	CurveType curve.Type
	Final     market.State
	Trades    []market.Trade
	Stats     market.Statistics
	// Quotes holds the prices observed by "price" steps, in order.
	Quotes []fixed.Decimal
	// Failures counts steps that returned an error, including ones that
	// did not stop the scenario.
	Failures int
	// Err is set when the scenario could not be built or was stopped.
	Err error
}

type Simulator struct {
	cfg       *config.Config
	collector *metrics.Collector
	logger    *zap.Logger
}

// New creates a simulator. collector may be nil.
func New(cfg *config.Config, collector *metrics.Collector, logger *zap.Logger) *Simulator {
	return &Simulator{
		cfg:       cfg,
		collector: collector,
		logger:    logger.Named("simulator"),
	}
}

// Run executes every scenario, at most cfg.Workers at a time. Results are
// returned in configuration order. Scenario failures are reported in
// Result.Err; the returned error is only set when ctx ends the run early.
func (s *Simulator) Run(ctx context.Context) ([]Result, error) {
	results := make([]Result, len(s.cfg.Scenarios))

	numWorkers := s.cfg.Workers
	if numWorkers <= 0 {
		numWorkers = 1
	}
	s.logger.Info("Starting simulation",
		zap.Int("scenarios", len(s.cfg.Scenarios)),
		zap.Int("workers", numWorkers))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers)

	for i, sc := range s.cfg.Scenarios {
		if gCtx.Err() != nil {
			results[i] = Result{Scenario: sc.Name, Err: gCtx.Err()}
			continue
		}
		g.Go(func() error {
			results[i] = s.runScenario(gCtx, sc)
			return nil
		})
	}

	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		s.logger.Warn("Simulation interrupted", zap.Error(err))
		return results, err
	}

	s.logger.Info("Simulation finished", zap.Int("scenarios", len(results)))
	return results, nil
}

func (s *Simulator) runScenario(ctx context.Context, sc config.ScenarioConfig) Result {
	log := s.logger.With(zap.String("scenario", sc.Name))
	res := Result{Scenario: sc.Name}

	params, err := sc.Curve.Params()
	if err != nil {
		res.Err = fmt.Errorf("curve config: %w", err)
		return res
	}
	res.CurveType = params.Type

	c, err := curve.New(params)
	if err != nil {
		res.Err = fmt.Errorf("build curve: %w", err)
		log.Error("Scenario curve rejected", zap.Error(err))
		return res
	}

	m, err := s.newMarket(sc, c, log)
	if err != nil {
		res.Err = err
		return res
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close market", zap.Error(err))
		}
	}()

	log.Debug("Scenario started", zap.String("curve", string(params.Type)))

steps:
	for i, step := range sc.Steps {
		for n := 0; n < step.Times(); n++ {
			if err := ctx.Err(); err != nil {
				res.Err = err
				break steps
			}

			quote, err := s.execute(m, step)
			if err == nil {
				if step.Action == config.ActionPrice {
					res.Quotes = append(res.Quotes, quote)
				}
				continue
			}

			res.Failures++
			if sc.StopOnError {
				res.Err = fmt.Errorf("step %d (%s %s): %w", i+1, step.Action, step.Amount, err)
				log.Warn("Scenario stopped", zap.Int("step", i+1), zap.Error(err))
				break steps
			}
		}
	}

	res.Final, _ = m.Snapshot()
	res.Trades = m.History().Recent(0)
	res.Stats = m.History().Statistics()

	log.Info("Scenario finished",
		zap.Int("trades", res.Stats.TotalTrades),
		zap.Int("failures", res.Failures),
		zap.Stringer("supply", res.Final.Supply),
		zap.Stringer("price", res.Final.Price))
	return res
}

func (s *Simulator) newMarket(sc config.ScenarioConfig, c curve.Curve, log *zap.Logger) (*market.Market, error) {
	var journal *logger.SafeCSVWriter
	if s.cfg.JournalDir != "" {
		path := filepath.Join(s.cfg.JournalDir, sc.JournalFile())
		w, err := logger.NewSafeCSVWriter(path, market.CSVHeaders(), JournalFlushInterval, log)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		journal = w
	}

	history := market.NewHistory(s.cfg.MaxHistory, journal, log)
	return market.New(sc.Name, c,
		market.WithHistory(history),
		market.WithMetrics(s.collector),
		market.WithLogger(log),
	), nil
}

func (s *Simulator) execute(m *market.Market, step config.StepConfig) (fixed.Decimal, error) {
	switch step.Action {
	case config.ActionPrice:
		return m.Price()
	case config.ActionBuy, config.ActionSell:
		amount, err := step.Value()
		if err != nil {
			return fixed.Zero, err
		}
		if step.Action == config.ActionBuy {
			_, err = m.Buy(amount)
		} else {
			_, err = m.Sell(amount)
		}
		return fixed.Zero, err
	default:
		return fixed.Zero, fmt.Errorf("unknown action %q", step.Action)
	}
}

// AllTrades flattens the trades of every result.
func AllTrades(results []Result) []market.Trade {
	var trades []market.Trade
	for _, r := range results {
		trades = append(trades, r.Trades...)
	}
	return trades
}
