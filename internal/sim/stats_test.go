package sim

import (
	"math/rand/v2"
	"testing"

	"github.com/alejandrodnm/copysim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentile_Interpolation(t *testing.T) {
	sorted := []float64{10, 20, 30, 40, 50}

	assert.InDelta(t, 30.0, percentile(sorted, 0.50), 1e-9)
	assert.InDelta(t, 20.0, percentile(sorted, 0.25), 1e-9)
	assert.InDelta(t, 12.0, percentile(sorted, 0.05), 1e-9) // 10 + 0.2×(20−10)
	assert.InDelta(t, 50.0, percentile(sorted, 1.00), 1e-9)
	assert.Zero(t, percentile(nil, 0.5))
	assert.Equal(t, 7.0, percentile([]float64{7}, 0.95))
}

func TestPercentileLadder_Monotonic(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 0))
	pnls := make([]float64, 500)
	for i := range pnls {
		pnls[i] = rng.NormFloat64() * 100
	}

	p := percentileLadder(pnls)
	assert.LessOrEqual(t, p.P5, p.P25)
	assert.LessOrEqual(t, p.P25, p.Median)
	assert.LessOrEqual(t, p.Median, p.P75)
	assert.LessOrEqual(t, p.P75, p.P95)
}

func TestStddev_Population(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	mu := mean(xs)
	require.InDelta(t, 5.0, mu, 1e-9)
	assert.InDelta(t, 2.0, stddev(xs, mu), 1e-9, "divisor N, no N-1")
}

func TestAggregateDaily_MergesAcrossTrials(t *testing.T) {
	results := []domain.TrialResult{
		{PnLByDate: map[string]float64{"2026-08-01": 10, "2026-08-02": -5}},
		{PnLByDate: map[string]float64{"2026-08-01": 20}},
	}

	daily := aggregateDaily(results)
	require.Len(t, daily, 2)
	assert.Equal(t, "2026-08-01", daily[0].Date, "orden cronológico")
	assert.InDelta(t, 15.0, daily[0].MeanPnL, 1e-9)
	assert.InDelta(t, 10.0, daily[0].MinPnL, 1e-9)
	assert.InDelta(t, 20.0, daily[0].MaxPnL, 1e-9)
	assert.InDelta(t, -2.5, daily[1].MeanPnL, 1e-9, "media sobre TODOS los trials")
}

func TestTopMarketPnL_RanksAndTruncates(t *testing.T) {
	results := []domain.TrialResult{
		{PnLByMarket: map[string]float64{"0xa": 100, "0xb": -300, "0xc": 1}},
		{PnLByMarket: map[string]float64{"0xa": 120, "0xb": -280, "0xc": -1}},
	}
	questions := map[string]string{"0xa": "Will A?"}

	top := topMarketPnL(results, 2, questions)
	require.Len(t, top, 2)
	assert.Equal(t, "0xb", top[0].ConditionID, "mayor contribución absoluta primero")
	assert.InDelta(t, -290.0, top[0].MeanPnL, 1e-9)
	assert.InDelta(t, -300.0, top[0].WorstPnL, 1e-9)
	assert.Equal(t, "0xa", top[1].ConditionID)
	assert.Equal(t, "Will A?", top[1].Question)
}
