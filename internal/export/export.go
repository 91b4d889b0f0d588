package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rovshanmuradov/bonding-curves/internal/market"
)

// ExportFormat represents the export file format
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
	FormatYAML ExportFormat = "yaml"
)

// ParseFormat resolves a case-insensitive format name.
func ParseFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// ExportOptions configures the export behavior
type ExportOptions struct {
	Format       ExportFormat
	StartTime    time.Time
	EndTime      time.Time
	MarketFilter string // Filter by market name
	ActionFilter string // Filter by action (buy/sell)
	OnlySuccess  bool   // Only export successful trades
	OutputDir    string
}

// ErrNoTrades is returned when the filters leave nothing to export.
var ErrNoTrades = fmt.Errorf("no trades match the export criteria")

// TradeExporter writes simulated trades to disk.
type TradeExporter struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewTradeExporter creates a new trade exporter
func NewTradeExporter(logger *zap.Logger) *TradeExporter {
	return &TradeExporter{
		logger: logger,
		now:    time.Now,
	}
}

// ExportTrades filters, sorts and writes trades, returning the file path.
func (te *TradeExporter) ExportTrades(trades []market.Trade, options ExportOptions) (string, error) {
	filtered := te.filterTrades(trades, options)
	if len(filtered) == 0 {
		return "", ErrNoTrades
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Timestamp.Before(filtered[j].Timestamp)
	})

	outputPath := filepath.Join(options.OutputDir, te.generateFilename(options))
	if err := os.MkdirAll(options.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var err error
	switch options.Format {
	case FormatCSV:
		err = te.exportToCSV(filtered, outputPath)
	case FormatJSON:
		err = te.exportStructured(filtered, outputPath, func(f *os.File, v any) error {
			enc := json.NewEncoder(f)
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		})
	case FormatYAML:
		err = te.exportStructured(filtered, outputPath, func(f *os.File, v any) error {
			enc := yaml.NewEncoder(f)
			enc.SetIndent(2)
			if err := enc.Encode(v); err != nil {
				return err
			}
			return enc.Close()
		})
	default:
		err = fmt.Errorf("unsupported format: %s", options.Format)
	}
	if err != nil {
		return "", err
	}

	te.logger.Info("Trades exported",
		zap.String("file", outputPath),
		zap.Int("count", len(filtered)),
		zap.String("format", string(options.Format)))

	return outputPath, nil
}

func (te *TradeExporter) filterTrades(trades []market.Trade, options ExportOptions) []market.Trade {
	var filtered []market.Trade

	for _, trade := range trades {
		if !options.StartTime.IsZero() && trade.Timestamp.Before(options.StartTime) {
			continue
		}
		if !options.EndTime.IsZero() && trade.Timestamp.After(options.EndTime) {
			continue
		}
		if options.MarketFilter != "" && trade.Market != options.MarketFilter {
			continue
		}
		if options.ActionFilter != "" && trade.Action != options.ActionFilter {
			continue
		}
		if options.OnlySuccess && !trade.Success {
			continue
		}
		filtered = append(filtered, trade)
	}

	return filtered
}

func (te *TradeExporter) generateFilename(options ExportOptions) string {
	timestamp := te.now().Format("20060102_150405")

	prefix := "trades_all"
	if options.ActionFilter != "" {
		prefix = "trades_" + options.ActionFilter
	}
	if options.MarketFilter != "" {
		prefix += "_" + sanitize(options.MarketFilter)
	}

	return fmt.Sprintf("%s_%s.%s", prefix, timestamp, options.Format)
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

func (te *TradeExporter) exportToCSV(trades []market.Trade, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(market.CSVHeaders()); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, trade := range trades {
		if err := writer.Write(trade.ToCSV()); err != nil {
			return fmt.Errorf("failed to write trade: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return file.Close()
}

// Document is the top-level shape of JSON and YAML exports.
type Document struct {
	ExportTime time.Time      `json:"export_time" yaml:"export_time"`
	TradeCount int            `json:"trade_count" yaml:"trade_count"`
	Summary    ExportSummary  `json:"summary" yaml:"summary"`
	Markets    []MarketStats  `json:"markets" yaml:"markets"`
	Trades     []market.Trade `json:"trades" yaml:"trades"`
}

func (te *TradeExporter) exportStructured(trades []market.Trade, outputPath string, encode func(*os.File, any) error) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	doc := Document{
		ExportTime: te.now(),
		TradeCount: len(trades),
		Summary:    CalculateSummary(trades),
		Markets:    CalculateMarketBreakdown(trades),
		Trades:     trades,
	}
	if err := encode(file, doc); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return file.Close()
}

// ExportSummary contains summary statistics for exported trades
type ExportSummary struct {
	TotalTrades      int       `json:"total_trades" yaml:"total_trades"`
	SuccessfulTrades int       `json:"successful_trades" yaml:"successful_trades"`
	FailedTrades     int       `json:"failed_trades" yaml:"failed_trades"`
	BuyCount         int       `json:"buy_count" yaml:"buy_count"`
	SellCount        int       `json:"sell_count" yaml:"sell_count"`
	UniqueMarkets    int       `json:"unique_markets" yaml:"unique_markets"`
	VolumeIn         float64   `json:"volume_in" yaml:"volume_in"`
	VolumeOut        float64   `json:"volume_out" yaml:"volume_out"`
	StartDate        time.Time `json:"start_date" yaml:"start_date"`
	EndDate          time.Time `json:"end_date" yaml:"end_date"`
}

// CalculateSummary aggregates trades sorted by timestamp.
func CalculateSummary(trades []market.Trade) ExportSummary {
	summary := ExportSummary{TotalTrades: len(trades)}
	if len(trades) == 0 {
		return summary
	}

	summary.StartDate = trades[0].Timestamp
	summary.EndDate = trades[len(trades)-1].Timestamp

	markets := make(map[string]struct{})
	for _, trade := range trades {
		markets[trade.Market] = struct{}{}

		switch trade.Action {
		case market.ActionBuy:
			summary.BuyCount++
		case market.ActionSell:
			summary.SellCount++
		}
		if !trade.Success {
			summary.FailedTrades++
			continue
		}
		summary.SuccessfulTrades++
		if trade.Action == market.ActionBuy {
			summary.VolumeIn += trade.Value.Float64()
		} else {
			summary.VolumeOut += trade.Value.Float64()
		}
	}
	summary.UniqueMarkets = len(markets)

	return summary
}

// MarketStats is the per-market slice of an export.
type MarketStats struct {
	Market     string  `json:"market" yaml:"market"`
	CurveType  string  `json:"curve_type" yaml:"curve_type"`
	TradeCount int     `json:"trade_count" yaml:"trade_count"`
	BuyCount   int     `json:"buy_count" yaml:"buy_count"`
	SellCount  int     `json:"sell_count" yaml:"sell_count"`
	Failures   int     `json:"failures" yaml:"failures"`
	VolumeIn   float64 `json:"volume_in" yaml:"volume_in"`
	VolumeOut  float64 `json:"volume_out" yaml:"volume_out"`
	LastPrice  string  `json:"last_price" yaml:"last_price"`
}

// CalculateMarketBreakdown groups trades by market, ordered by name.
func CalculateMarketBreakdown(trades []market.Trade) []MarketStats {
	byMarket := make(map[string]*MarketStats)

	for _, trade := range trades {
		stats, exists := byMarket[trade.Market]
		if !exists {
			stats = &MarketStats{Market: trade.Market, CurveType: trade.CurveType}
			byMarket[trade.Market] = stats
		}

		stats.TradeCount++
		switch trade.Action {
		case market.ActionBuy:
			stats.BuyCount++
		case market.ActionSell:
			stats.SellCount++
		}
		if !trade.Success {
			stats.Failures++
			continue
		}
		if trade.Action == market.ActionBuy {
			stats.VolumeIn += trade.Value.Float64()
		} else {
			stats.VolumeOut += trade.Value.Float64()
		}
		stats.LastPrice = trade.PriceAfter.String()
	}

	names := make([]string, 0, len(byMarket))
	for name := range byMarket {
		names = append(names, name)
	}
	sort.Strings(names)

	breakdown := make([]MarketStats, 0, len(names))
	for _, name := range names {
		breakdown = append(breakdown, *byMarket[name])
	}
	return breakdown
}
