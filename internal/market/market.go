// =================================
// File: internal/market/market.go
// =================================

// Package market wraps a bonding curve with the bookkeeping a simulation
// needs: a lock for concurrent callers, a trade history, structured logs
// and Prometheus metrics. The curve itself stays a plain value.
package market

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/bonding-curves/internal/metrics"
	"github.com/rovshanmuradov/bonding-curves/pkg/curve"
	"github.com/rovshanmuradov/bonding-curves/pkg/fixed"
)

// State is a point-in-time view of a market.
type State struct {
	Market     string        `json:"market" yaml:"market"`
	CurveType  curve.Type    `json:"curve_type" yaml:"curve_type"`
	Supply     fixed.Decimal `json:"supply" yaml:"supply"`
	Reserve    fixed.Decimal `json:"reserve" yaml:"reserve"`
	HasReserve bool          `json:"has_reserve" yaml:"has_reserve"`
	Price      fixed.Decimal `json:"price" yaml:"price"`
}

// Market serializes access to one curve.
type Market struct {
	mu        sync.Mutex
	name      string
	curveType curve.Type
	curve     curve.Curve
	history   *History
	metrics   *metrics.Collector
	logger    *zap.Logger
}

type Option func(*Market)

// WithHistory replaces the default in-memory history.
func WithHistory(h *History) Option {
	return func(m *Market) { m.history = h }
}

func WithMetrics(c *metrics.Collector) Option {
	return func(m *Market) { m.metrics = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(m *Market) { m.logger = l }
}

// DefaultHistorySize bounds the history created when none is supplied.
const DefaultHistorySize = 1000

func New(name string, c curve.Curve, opts ...Option) *Market {
	m := &Market{
		name:      name,
		curveType: curve.TypeOf(c),
		curve:     c,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With(zap.String("market", name), zap.String("curve", string(m.curveType)))
	if m.history == nil {
		m.history = NewHistory(DefaultHistorySize, nil, m.logger)
	}
	return m
}

func (m *Market) Name() string { return m.name }

func (m *Market) CurveType() curve.Type { return m.curveType }

func (m *Market) History() *History { return m.history }

// Buy executes a buy. For Bancor amount is reserve paid in, otherwise it
// is the number of tokens to mint. The returned trade is recorded even
// when err is not nil.
func (m *Market) Buy(amount fixed.Decimal) (Trade, error) {
	return m.execute(ActionBuy, amount, m.curve.Buy)
}

// Sell burns amount tokens.
func (m *Market) Sell(amount fixed.Decimal) (Trade, error) {
	return m.execute(ActionSell, amount, m.curve.Sell)
}

func (m *Market) execute(action string, amount fixed.Decimal, op func(fixed.Decimal) (fixed.Decimal, error)) (Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	trade := Trade{
		Market:    m.name,
		CurveType: string(m.curveType),
		Action:    action,
		Amount:    amount,
	}
	trade.PriceBefore, _ = m.curve.Price()

	start := time.Now()
	result, opErr := op(amount)
	elapsed := time.Since(start)

	state, _ := m.stateLocked()
	trade.PriceAfter = state.Price
	trade.SupplyAfter = state.Supply
	if state.HasReserve {
		reserve := state.Reserve
		trade.ReserveAfter = &reserve
	}

	if opErr != nil {
		trade.ErrorKind = curve.KindOf(opErr).String()
		trade.ErrorReason = string(curve.ReasonOf(opErr))
		trade.ErrorMsg = opErr.Error()
	} else {
		trade.Success = true
		trade.Result = result
		trade.Value = result
		if action == ActionBuy && m.curveType == curve.TypeBancor {
			trade.Value = amount
		}
	}

	recorded, err := m.history.Record(trade)
	if err != nil {
		m.logger.Warn("Trade not journaled", zap.String("trade_id", recorded.ID), zap.Error(err))
	}

	m.metrics.RecordTrade(m.name, action, opErr == nil, elapsed)
	m.publishLocked(state)

	if opErr != nil {
		m.logger.Debug("Trade rejected",
			zap.String("action", action),
			zap.Stringer("amount", amount),
			zap.String("reason", recorded.ErrorReason),
			zap.Error(opErr))
		return recorded, opErr
	}

	m.logger.Debug("Trade executed",
		zap.String("id", recorded.ID),
		zap.String("action", action),
		zap.Stringer("amount", amount),
		zap.Stringer("result", result),
		zap.Stringer("price", state.Price),
		zap.Stringer("supply", state.Supply))
	return recorded, nil
}

// Price returns the current spot price.
func (m *Market) Price() (fixed.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.curve.Price()
}

// Snapshot returns the current state. The error, if any, comes from
// pricing; the remaining fields are still filled in.
func (m *Market) Snapshot() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.stateLocked()
}

func (m *Market) stateLocked() (State, error) {
	reserve, ok := m.curve.Reserve()
	price, err := m.curve.Price()
	return State{
		Market:     m.name,
		CurveType:  m.curveType,
		Supply:     m.curve.Supply(),
		Reserve:    reserve,
		HasReserve: ok,
		Price:      price,
	}, err
}

func (m *Market) publishLocked(s State) {
	var reserve *float64
	if s.HasReserve {
		r := s.Reserve.Float64()
		reserve = &r
	}
	m.metrics.UpdateState(m.name, s.Supply.Float64(), s.Price.Float64(), reserve)
}

// Close releases the history journal.
func (m *Market) Close() error {
	return m.history.Close()
}
