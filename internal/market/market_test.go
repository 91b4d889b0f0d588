package market

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/bonding-curves/internal/metrics"
	"github.com/rovshanmuradov/bonding-curves/pkg/curve"
	"github.com/rovshanmuradov/bonding-curves/pkg/fixed"
)

func newBancorMarket(t *testing.T, opts ...Option) *Market {
	t.Helper()
	c, err := curve.NewBancor(fixed.MustParse("1000"), fixed.MustParse("10000"), 0.2)
	require.NoError(t, err)
	return New("bancor", c, opts...)
}

func TestMarketBancorTrades(t *testing.T) {
	m := newBancorMarket(t, WithLogger(zap.NewNop()))
	assert.Equal(t, "bancor", m.Name())
	assert.Equal(t, curve.TypeBancor, m.CurveType())

	trade, err := m.Buy(fixed.MustParse("100"))
	require.NoError(t, err)
	assert.True(t, trade.Success)
	assert.NotEmpty(t, trade.ID)
	assert.Equal(t, "200", trade.Result.String(), "tokens issued")
	assert.Equal(t, "100", trade.Value.String(), "reserve paid in")
	assert.Equal(t, "0.5", trade.PriceBefore.String())
	assert.Equal(t, "10200", trade.SupplyAfter.String())
	require.NotNil(t, trade.ReserveAfter)
	assert.Equal(t, "1100", trade.ReserveAfter.String())

	state, err := m.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "10200", state.Supply.String())
	assert.Equal(t, "1100", state.Reserve.String())
	assert.True(t, state.HasReserve)
	assert.Equal(t, trade.PriceAfter, state.Price)
}

func TestMarketRecordsFailedTrades(t *testing.T) {
	c, err := curve.NewLinear(0.01)
	require.NoError(t, err)
	m := New("lin", c)

	trade, err := m.Sell(fixed.MustParse("5"))
	require.Error(t, err)
	assert.ErrorIs(t, err, curve.ErrInvalidInput)
	assert.False(t, trade.Success)
	assert.Equal(t, "invalid input", trade.ErrorKind)
	assert.Equal(t, string(curve.ReasonAmountExceedsSupply), trade.ErrorReason)
	assert.Nil(t, trade.ReserveAfter)
	assert.True(t, trade.SupplyAfter.IsZero())

	trade, err = m.Buy(fixed.MustParse("100"))
	require.NoError(t, err)
	assert.Equal(t, "50", trade.Value.String(), "cost paid")

	stats := m.History().Statistics()
	assert.Equal(t, 2, stats.TotalTrades)
	assert.Equal(t, 1, stats.FailedTrades)
	assert.Equal(t, 1, stats.FailureReasons[string(curve.ReasonAmountExceedsSupply)])
}

func TestMarketMetrics(t *testing.T) {
	collector, err := metrics.NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)
	m := newBancorMarket(t, WithMetrics(collector), WithHistory(NewHistory(5, nil, zap.NewNop())))

	_, err = m.Buy(fixed.MustParse("100"))
	require.NoError(t, err)
	assert.Equal(t, 10200.0, testutil.ToFloat64(collector.SupplyGauge().WithLabelValues("bancor")))
	assert.Equal(t, 1100.0, testutil.ToFloat64(collector.ReserveGauge().WithLabelValues("bancor")))
	assert.InDelta(t, 1100.0/(10200.0*0.2), testutil.ToFloat64(collector.PriceGauge().WithLabelValues("bancor")), 1e-12)

	_, err = m.Sell(fixed.MustParse("200"))
	require.NoError(t, err)
	_, err = m.Sell(fixed.MustParse("0"))
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.TradeCounter().WithLabelValues("bancor", ActionBuy, metrics.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.TradeCounter().WithLabelValues("bancor", ActionSell, metrics.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.TradeCounter().WithLabelValues("bancor", ActionSell, metrics.OutcomeFailure)))
	assert.Equal(t, 10000.0, testutil.ToFloat64(collector.SupplyGauge().WithLabelValues("bancor")))
	assert.InDelta(t, 1100.0-200.0*1100.0/2040.0, testutil.ToFloat64(collector.ReserveGauge().WithLabelValues("bancor")), 1e-9)
}

func TestMarketConcurrentBuys(t *testing.T) {
	c, err := curve.NewLinear(0.01)
	require.NoError(t, err)
	m := New("lin", c)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				if _, err := m.Buy(fixed.MustParse("1")); err != nil {
					t.Errorf("buy: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	price, err := m.Price()
	require.NoError(t, err)
	assert.Equal(t, "1", price.String())
	assert.Equal(t, 100, m.History().Statistics().TotalTrades)
	require.NoError(t, m.Close())
}
