package sim

import (
	"math"
	"testing"

	"github.com/alejandrodnm/copysim/internal/domain"
	"github.com/stretchr/testify/assert"
)

func makeBook(near, deep, spreadBps float64) *domain.BookDepth {
	return &domain.BookDepth{
		TokenID:      "tok",
		NearTouchUSD: near,
		DeepUSD:      deep,
		SpreadBps:    spreadBps,
	}
}

func TestSimulateFill_NoBook(t *testing.T) {
	// slippage = min(50, sqrt(notional/100) × 10) bps
	r := SimulateFill(domain.SideBuy, 100, nil, false, 0, 0.50)
	assert.InDelta(t, 10.0, r.SlippageBps, 1e-9)
	assert.InDelta(t, 0.50*(1+10.0/10000), r.Price, 1e-9)
	assert.Equal(t, 1.0, r.FillRatio)
	assert.True(t, r.Filled)

	// Notional grande: cap a 50 bps
	r = SimulateFill(domain.SideBuy, 1e6, nil, false, 0, 0.50)
	assert.InDelta(t, 50.0, r.SlippageBps, 1e-9)
}

func TestSimulateFill_AdverseBySide(t *testing.T) {
	buy := SimulateFill(domain.SideBuy, 100, nil, false, 0, 0.50)
	sell := SimulateFill(domain.SideSell, 100, nil, false, 0, 0.50)

	assert.Greater(t, buy.Price, 0.50, "un BUY paga más que la referencia")
	assert.Less(t, sell.Price, 0.50, "un SELL recibe menos que la referencia")
}

func TestSimulateFill_WithinNearTouch(t *testing.T) {
	book := makeBook(500, 2000, 40) // half spread = 20 bps

	r := SimulateFill(domain.SideBuy, 300, book, false, 0, 0.50)
	assert.LessOrEqual(t, r.SlippageBps, 20.0, "bajo el near touch: slippage ≤ medio spread")
	assert.Equal(t, 1.0, r.FillRatio)
	assert.True(t, r.Filled)
}

func TestSimulateFill_BetweenTiers(t *testing.T) {
	book := makeBook(500, 2000, 40)

	// A mitad del tier ancho: interpolación entre 20 y 500 bps.
	r := SimulateFill(domain.SideBuy, 1250, book, false, 0, 0.50)
	assert.Greater(t, r.SlippageBps, 20.0)
	assert.Less(t, r.SlippageBps, 500.0)
	assert.InDelta(t, 20+(500-20)*0.5, r.SlippageBps, 1e-9)
	assert.Equal(t, 1.0, r.FillRatio)
}

func TestSimulateFill_BeyondDeepTier(t *testing.T) {
	book := makeBook(500, 2000, 40)

	r := SimulateFill(domain.SideBuy, 8000, book, false, 0, 0.50)
	assert.Equal(t, 500.0, r.SlippageBps, "agotado el tier ancho: cap de 500 bps")
	assert.InDelta(t, 0.25, r.FillRatio, 1e-9) // 2000/8000
	assert.Less(t, r.FillRatio, 1.0)
	assert.False(t, r.Filled)
}

func TestSimulateFill_MarketImpactMonotonic(t *testing.T) {
	book := makeBook(500, 2000, 40)

	off := SimulateFill(domain.SideBuy, 300, book, false, 50000, 0.50)
	on := SimulateFill(domain.SideBuy, 300, book, true, 50000, 0.50)

	assert.GreaterOrEqual(t, on.SlippageBps, off.SlippageBps)
	expected := off.SlippageBps + math.Sqrt(300.0/50000)*100
	assert.InDelta(t, expected, on.SlippageBps, 1e-9)
}

func TestSimulateFill_PriceClampedToShareDomain(t *testing.T) {
	buy := SimulateFill(domain.SideBuy, 1e6, nil, true, 100, 0.998)
	assert.LessOrEqual(t, buy.Price, 0.999)

	sell := SimulateFill(domain.SideSell, 1e6, nil, true, 100, 0.002)
	assert.GreaterOrEqual(t, sell.Price, 0.001)
}

func TestSimulateFill_DegenerateBookFallsBack(t *testing.T) {
	book := &domain.BookDepth{NearTouchUSD: 0, DeepUSD: 0, SpreadBps: 0}

	r := SimulateFill(domain.SideBuy, 100, book, false, 0, 0.50)
	assert.InDelta(t, 10.0, r.SlippageBps, 1e-9, "book degenerado = régimen sin book")
}
