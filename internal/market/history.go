package market

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/bonding-curves/internal/logger"
)

// History keeps the most recent trades of a market in memory and,
// optionally, appends every trade to a CSV journal.
type History struct {
	mu        sync.RWMutex
	journal   *logger.SafeCSVWriter
	trades    []Trade
	maxTrades int
	logger    *zap.Logger

	// Statistics cover every recorded trade, including evicted ones.
	totalTrades      int
	successfulTrades int
	buyCount         int
	sellCount        int
	volumeIn         float64
	volumeOut        float64
	failureReasons   map[string]int
}

// NewHistory creates a bounded history. journal may be nil.
func NewHistory(maxTrades int, journal *logger.SafeCSVWriter, zapLogger *zap.Logger) *History {
	if maxTrades <= 0 {
		maxTrades = 1
	}
	return &History{
		journal:        journal,
		trades:         make([]Trade, 0, maxTrades),
		maxTrades:      maxTrades,
		logger:         zapLogger,
		failureReasons: make(map[string]int),
	}
}

// Record stores trade, assigning an ID and timestamp when missing, and
// returns the stored copy.
func (h *History) Record(trade Trade) (Trade, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if trade.ID == "" {
		trade.ID = uuid.NewString()
	}
	if trade.Timestamp.IsZero() {
		trade.Timestamp = time.Now()
	}

	if len(h.trades) >= h.maxTrades {
		h.trades = h.trades[1:]
	}
	h.trades = append(h.trades, trade)

	h.totalTrades++
	switch trade.Action {
	case ActionBuy:
		h.buyCount++
	case ActionSell:
		h.sellCount++
	}
	if trade.Success {
		h.successfulTrades++
		switch trade.Action {
		case ActionBuy:
			h.volumeIn += trade.Value.Float64()
		case ActionSell:
			h.volumeOut += trade.Value.Float64()
		}
	} else {
		reason := trade.ErrorReason
		if reason == "" {
			reason = "unknown"
		}
		h.failureReasons[reason]++
	}

	if h.journal != nil {
		if err := h.journal.WriteRecord(trade.ToCSV()); err != nil {
			h.logger.Error("Failed to write trade to journal",
				zap.String("trade_id", trade.ID),
				zap.Error(err))
			return trade, fmt.Errorf("failed to journal trade: %w", err)
		}
	}

	return trade, nil
}

// Recent returns up to limit of the newest trades, oldest first. A
// non-positive limit returns everything held in memory.
func (h *History) Recent(limit int) []Trade {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if limit <= 0 || limit > len(h.trades) {
		limit = len(h.trades)
	}

	result := make([]Trade, limit)
	copy(result, h.trades[len(h.trades)-limit:])
	return result
}

// ByID returns a specific trade by ID
func (h *History) ByID(id string) (Trade, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for i := len(h.trades) - 1; i >= 0; i-- {
		if h.trades[i].ID == id {
			return h.trades[i], true
		}
	}
	return Trade{}, false
}

// Statistics returns aggregate counters over all recorded trades.
func (h *History) Statistics() Statistics {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.statisticsLocked()
}

func (h *History) statisticsLocked() Statistics {
	stats := Statistics{
		TotalTrades:      h.totalTrades,
		SuccessfulTrades: h.successfulTrades,
		FailedTrades:     h.totalTrades - h.successfulTrades,
		BuyCount:         h.buyCount,
		SellCount:        h.sellCount,
		VolumeIn:         h.volumeIn,
		VolumeOut:        h.volumeOut,
		FailureReasons:   make(map[string]int, len(h.failureReasons)),
	}
	for k, v := range h.failureReasons {
		stats.FailureReasons[k] = v
	}
	if h.totalTrades > 0 {
		stats.SuccessRate = float64(h.successfulTrades) / float64(h.totalTrades) * 100
	}
	return stats
}

// Close flushes and closes the journal, if any.
func (h *History) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	stats := h.statisticsLocked()
	h.logger.Debug("Closing trade history",
		zap.Int("total_trades", stats.TotalTrades),
		zap.Float64("volume_in", stats.VolumeIn),
		zap.Float64("volume_out", stats.VolumeOut),
		zap.Float64("success_rate", stats.SuccessRate))

	if h.journal == nil {
		return nil
	}
	return h.journal.Close()
}

// Statistics holds aggregate trade statistics
type Statistics struct {
	TotalTrades      int            `json:"total_trades" yaml:"total_trades"`
	SuccessfulTrades int            `json:"successful_trades" yaml:"successful_trades"`
	FailedTrades     int            `json:"failed_trades" yaml:"failed_trades"`
	SuccessRate      float64        `json:"success_rate" yaml:"success_rate"`
	BuyCount         int            `json:"buy_count" yaml:"buy_count"`
	SellCount        int            `json:"sell_count" yaml:"sell_count"`
	VolumeIn         float64        `json:"volume_in" yaml:"volume_in"`
	VolumeOut        float64        `json:"volume_out" yaml:"volume_out"`
	FailureReasons   map[string]int `json:"failure_reasons,omitempty" yaml:"failure_reasons,omitempty"`
}
