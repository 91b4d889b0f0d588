package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorRecordsTrades(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	c.RecordTrade("lin", "buy", true, time.Millisecond)
	c.RecordTrade("lin", "buy", true, time.Millisecond)
	c.RecordTrade("lin", "sell", false, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.TradeCounter().WithLabelValues("lin", "buy", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.TradeCounter().WithLabelValues("lin", "sell", OutcomeFailure)))

	reserve := 1100.0
	c.UpdateState("bancor", 10200, 0.5, &reserve)
	c.UpdateState("lin", 100, 1, nil)
	assert.Equal(t, 10200.0, testutil.ToFloat64(c.SupplyGauge().WithLabelValues("bancor")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.PriceGauge().WithLabelValues("lin")))
	assert.Equal(t, 1100.0, testutil.ToFloat64(c.ReserveGauge().WithLabelValues("bancor")))

	count, err := testutil.GatherAndCount(reg, "curvesim_reserve")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "supply-only markets publish no reserve")
}

func TestCollectorSharesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCollector(reg)
	require.NoError(t, err)
	second, err := NewCollector(reg)
	require.NoError(t, err)

	first.RecordTrade("m", "buy", true, 0)
	second.RecordTrade("m", "buy", true, 0)
	assert.Equal(t, 2.0, testutil.ToFloat64(first.TradeCounter().WithLabelValues("m", "buy", OutcomeSuccess)))
}

func TestCollectorReset(t *testing.T) {
	c, err := NewCollector(nil)
	require.NoError(t, err)

	c.RecordTrade("m", "sell", true, 0)
	c.UpdateState("m", 1, 1, nil)
	c.Reset()
	assert.Equal(t, 0, testutil.CollectAndCount(c.TradeCounter()))
	assert.Equal(t, 0, testutil.CollectAndCount(c.SupplyGauge()))
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.RecordTrade("m", "buy", true, 0)
		c.UpdateState("m", 1, 1, nil)
		c.Reset()
	})
}
