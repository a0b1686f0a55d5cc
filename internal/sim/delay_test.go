package sim

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/alejandrodnm/copysim/internal/domain"
	"github.com/stretchr/testify/assert"
)

func testRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

func TestEntryTime_WithinBounds(t *testing.T) {
	rng := testRNG(42)
	tradeAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 1000; i++ {
		at := entryTime(rng, tradeAt, 60, 30)
		delay := at.Sub(tradeAt).Seconds()
		assert.GreaterOrEqual(t, delay, 30.0)
		assert.LessOrEqual(t, delay, 90.0)
	}
}

func TestEntryTime_NeverBeforeTrade(t *testing.T) {
	rng := testRNG(7)
	tradeAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	// Varianza mayor que la media: el delay se recorta a cero, nunca negativo.
	for i := 0; i < 1000; i++ {
		at := entryTime(rng, tradeAt, 10, 60)
		assert.False(t, at.Before(tradeAt))
	}
}

func TestEntryTime_ZeroVarianceIsDeterministic(t *testing.T) {
	rng := testRNG(1)
	tradeAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	at := entryTime(rng, tradeAt, 45, 0)
	assert.Equal(t, tradeAt.Add(45*time.Second), at)
}

func TestDriftedPrice_Bounded(t *testing.T) {
	rng := testRNG(99)

	for i := 0; i < 1000; i++ {
		p := driftedPrice(rng, 0.50, 0.01)
		assert.GreaterOrEqual(t, p, 0.50*0.99-1e-12)
		assert.LessOrEqual(t, p, 0.50*1.01+1e-12)
	}
}

func TestDriftedPrice_ClampedToShareDomain(t *testing.T) {
	rng := testRNG(3)

	for i := 0; i < 1000; i++ {
		assert.LessOrEqual(t, driftedPrice(rng, 0.999, 0.05), 0.999)
		assert.GreaterOrEqual(t, driftedPrice(rng, 0.001, 0.05), 0.001)
	}
}

func TestReferencePrice_PrefersLookedUpPrice(t *testing.T) {
	rng := testRNG(5)
	trade := domain.Trade{ID: "t1", Price: 0.40}
	refs := &RefData{Prices: map[string]float64{"t1": 0.47}}

	p := referencePrice(rng, trade, refs, 0.01)
	assert.Equal(t, 0.47, p, "con tick data no hay drift")

	// Sin precio prefetcheado: drift alrededor del precio original.
	refs = &RefData{Prices: map[string]float64{}}
	p = referencePrice(rng, trade, refs, 0.01)
	assert.InDelta(t, 0.40, p, 0.40*0.01+1e-12)
}
