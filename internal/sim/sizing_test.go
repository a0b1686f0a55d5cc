package sim

import (
	"testing"
	"time"

	"github.com/alejandrodnm/copysim/internal/domain"
	"github.com/stretchr/testify/assert"
)

func sizingConfig() domain.SimulationConfig {
	cfg := domain.DefaultSimulationConfig()
	cfg.BankrollUSDC = 1000
	cfg.MaxExposurePct = 0.25
	cfg.MinTradeUSDC = 5
	return cfg
}

func makeTrade(wallet, conditionID string, side domain.Side, value float64) domain.Trade {
	return domain.Trade{
		ID:          "t-" + wallet + conditionID,
		Wallet:      wallet,
		ConditionID: conditionID,
		TokenID:     "tok",
		Side:        side,
		Outcome:     "Yes",
		Price:       0.50,
		Size:        value / 0.50,
		ValueUSDC:   value,
		Timestamp:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSizer_EqualRule(t *testing.T) {
	cfg := sizingConfig()
	refs := &RefData{FollowedWallets: []string{"w1"}, WalletNotional: map[string]float64{"w1": 500}}
	sz := newSizer(cfg, refs)

	size := sz.positionSize(makeTrade("w1", "0xa", domain.SideBuy, 200))
	assert.InDelta(t, 1000*equalSliceFrac, size, 1e-9, "slice fijo del 5% del bankroll")
}

func TestSizer_ProportionalRule(t *testing.T) {
	cfg := sizingConfig()
	cfg.SizingRule = domain.SizingProportional
	refs := &RefData{
		FollowedWallets: []string{"w1", "w2"},
		WalletNotional:  map[string]float64{"w1": 1000, "w2": 4000},
	}
	sz := newSizer(cfg, refs)

	// alloc por wallet = 500; este trade es el 20% del volumen de w1 → $100,
	// recortado al cap de 10% del bankroll.
	size := sz.positionSize(makeTrade("w1", "0xa", domain.SideBuy, 200))
	assert.InDelta(t, 100.0, size, 1e-9)

	// Wallet sin notional en ventana: no se puede escalar, se salta.
	size = sz.positionSize(makeTrade("w3", "0xa", domain.SideBuy, 200))
	assert.Zero(t, size)
}

func TestSizer_ExposureCapTrims(t *testing.T) {
	cfg := sizingConfig()
	refs := &RefData{FollowedWallets: []string{"w1"}, WalletNotional: map[string]float64{"w1": 500}}
	sz := newSizer(cfg, refs)

	// Cap por mercado = 250. Cuatro slices de 50 lo dejan en 200.
	for i := 0; i < 4; i++ {
		size := sz.positionSize(makeTrade("w1", "0xa", domain.SideBuy, 100))
		assert.InDelta(t, 50.0, size, 1e-9)
		sz.commit("0xa", size)
	}

	// Queda headroom de 50: el quinto entra entero, el sexto ya no.
	size := sz.positionSize(makeTrade("w1", "0xa", domain.SideBuy, 100))
	assert.InDelta(t, 50.0, size, 1e-9)
	sz.commit("0xa", size)

	size = sz.positionSize(makeTrade("w1", "0xa", domain.SideBuy, 100))
	assert.Zero(t, size, "sin headroom: trade saltado")

	// Otro mercado no está afectado por la exposición de 0xa.
	size = sz.positionSize(makeTrade("w1", "0xb", domain.SideBuy, 100))
	assert.InDelta(t, 50.0, size, 1e-9)
}

func TestSizer_ReleaseFreesHeadroom(t *testing.T) {
	cfg := sizingConfig()
	refs := &RefData{FollowedWallets: []string{"w1"}, WalletNotional: map[string]float64{"w1": 500}}
	sz := newSizer(cfg, refs)

	sz.commit("0xa", 250) // cap lleno
	assert.Zero(t, sz.positionSize(makeTrade("w1", "0xa", domain.SideBuy, 100)))

	sz.release("0xa", 100)
	size := sz.positionSize(makeTrade("w1", "0xa", domain.SideBuy, 100))
	assert.InDelta(t, 50.0, size, 1e-9)

	// Release por encima de lo registrado no genera headroom fantasma.
	sz.release("0xa", 1e6)
	assert.Zero(t, sz.exposure["0xa"])
}

func TestSizer_MinNotionalSkips(t *testing.T) {
	cfg := sizingConfig()
	cfg.MinTradeUSDC = 80 // por encima del slice equal de 50
	refs := &RefData{FollowedWallets: []string{"w1"}, WalletNotional: map[string]float64{"w1": 500}}
	sz := newSizer(cfg, refs)

	size := sz.positionSize(makeTrade("w1", "0xa", domain.SideBuy, 100))
	assert.Zero(t, size, "bajo el mínimo: se salta, sin fills de tamaño cero")
}
