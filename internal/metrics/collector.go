// internal/metrics/collector.go
package metrics

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricType identifies a collector held by Collector.
type MetricType string

const (
	TradeCounterType  MetricType = "trade_counter"
	TradeDurationType MetricType = "trade_duration"
	SupplyGaugeType   MetricType = "supply"
	PriceGaugeType    MetricType = "price"
	ReserveGaugeType  MetricType = "reserve"
)

const Namespace = "curvesim"

// Trade outcomes used as the "outcome" label.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Collector owns the simulator's Prometheus collectors. A nil *Collector
// is valid and records nothing.
type Collector struct {
	metrics sync.Map

	tradeCounter  *prometheus.CounterVec
	tradeDuration *prometheus.HistogramVec
	supply        *prometheus.GaugeVec
	price         *prometheus.GaugeVec
	reserve       *prometheus.GaugeVec
}

// NewCollector creates the collectors and registers them on reg. When reg
// already holds collectors with the same descriptors those are reused, so
// several simulator runs can share one registry.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		tradeCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "trades_total",
				Help:      "Number of buy and sell operations attempted per market",
			},
			[]string{"market", "action", "outcome"},
		),
		tradeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "trade_duration_seconds",
				Help:      "Time spent pricing a single operation",
				Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 10),
			},
			[]string{"action"},
		),
		supply: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "supply",
				Help:      "Current token supply per market",
			},
			[]string{"market"},
		),
		price: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "price",
				Help:      "Current spot price per market",
			},
			[]string{"market"},
		),
		reserve: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "reserve",
				Help:      "Current reserve balance for markets that track one",
			},
			[]string{"market"},
		),
	}

	metricsMap := map[MetricType]prometheus.Collector{
		TradeCounterType:  c.tradeCounter,
		TradeDurationType: c.tradeDuration,
		SupplyGaugeType:   c.supply,
		PriceGaugeType:    c.price,
		ReserveGaugeType:  c.reserve,
	}
	for metricType, metric := range metricsMap {
		registered, err := register(reg, metric)
		if err != nil {
			return nil, err
		}
		c.metrics.Store(metricType, registered)
	}

	c.tradeCounter = c.load(TradeCounterType).(*prometheus.CounterVec)
	c.tradeDuration = c.load(TradeDurationType).(*prometheus.HistogramVec)
	c.supply = c.load(SupplyGaugeType).(*prometheus.GaugeVec)
	c.price = c.load(PriceGaugeType).(*prometheus.GaugeVec)
	c.reserve = c.load(ReserveGaugeType).(*prometheus.GaugeVec)
	return c, nil
}

func register(reg prometheus.Registerer, metric prometheus.Collector) (prometheus.Collector, error) {
	if reg == nil {
		return metric, nil
	}
	if err := reg.Register(metric); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return already.ExistingCollector, nil
		}
		return nil, err
	}
	return metric, nil
}

func (c *Collector) load(t MetricType) prometheus.Collector {
	v, _ := c.metrics.Load(t)
	return v.(prometheus.Collector)
}

// RecordTrade counts one operation and observes how long it took.
func (c *Collector) RecordTrade(market, action string, success bool, duration time.Duration) {
	if c == nil {
		return
	}
	outcome := OutcomeSuccess
	if !success {
		outcome = OutcomeFailure
	}
	c.tradeCounter.WithLabelValues(market, action, outcome).Inc()
	c.tradeDuration.WithLabelValues(action).Observe(duration.Seconds())
}

// UpdateState publishes the market state after an operation.
func (c *Collector) UpdateState(market string, supply, price float64, reserve *float64) {
	if c == nil {
		return
	}
	c.supply.WithLabelValues(market).Set(supply)
	c.price.WithLabelValues(market).Set(price)
	if reserve != nil {
		c.reserve.WithLabelValues(market).Set(*reserve)
	}
}

// Reset clears all series. Useful between test runs.
func (c *Collector) Reset() {
	if c == nil {
		return
	}
	c.metrics.Range(func(_, value interface{}) bool {
		switch m := value.(type) {
		case *prometheus.CounterVec:
			m.Reset()
		case *prometheus.GaugeVec:
			m.Reset()
		case *prometheus.HistogramVec:
			m.Reset()
		}
		return true
	})
}

// TradeCounter exposes the trade counter for inspection.
func (c *Collector) TradeCounter() *prometheus.CounterVec { return c.tradeCounter }

// SupplyGauge exposes the supply gauge for inspection.
func (c *Collector) SupplyGauge() *prometheus.GaugeVec { return c.supply }

// PriceGauge exposes the price gauge for inspection.
func (c *Collector) PriceGauge() *prometheus.GaugeVec { return c.price }

// ReserveGauge exposes the reserve gauge for inspection.
func (c *Collector) ReserveGauge() *prometheus.GaugeVec { return c.reserve }
