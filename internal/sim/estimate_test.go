package sim

import (
	"context"
	"testing"
	"time"

	"github.com/alejandrodnm/copysim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func estimateFixture() *fakeData {
	ts := testNow.Add(-48 * time.Hour)
	return &fakeData{
		wallets: []string{"w1", "w2"},
		trades: []domain.Trade{
			// w1: compra 100, vende 150 → ROI +50%
			{ID: "a", Wallet: "w1", ConditionID: "0xa", Side: domain.SideBuy, Outcome: "Yes", ValueUSDC: 100, Timestamp: ts},
			{ID: "b", Wallet: "w1", ConditionID: "0xa", Side: domain.SideSell, Outcome: "Yes", ValueUSDC: 150, Timestamp: ts},
			// w2: compra 200, vende 180 → ROI −10%
			{ID: "c", Wallet: "w2", ConditionID: "0xb", Side: domain.SideBuy, Outcome: "No", ValueUSDC: 200, Timestamp: ts},
			{ID: "d", Wallet: "w2", ConditionID: "0xb", Side: domain.SideSell, Outcome: "No", ValueUSDC: 180, Timestamp: ts},
		},
	}
}

func TestQuickEstimate(t *testing.T) {
	eng := newTestEngine(estimateFixture())
	cfg := domain.DefaultSimulationConfig()

	est, err := eng.QuickEstimate(context.Background(), 1000, cfg)
	require.NoError(t, err)

	// ROI medio = (0.5 − 0.1)/2 = 0.2, descontado por fricción 0.6 → 0.12.
	assert.InDelta(t, 120.0, est.Mid, 1e-9)
	assert.InDelta(t, 120.0-1000*cfg.EstimateSpreadPct, est.Low, 1e-9)
	assert.InDelta(t, 120.0+1000*cfg.EstimateSpreadPct, est.High, 1e-9)
	assert.LessOrEqual(t, est.Low, est.Mid)
	assert.LessOrEqual(t, est.Mid, est.High)
}

func TestQuickEstimate_InvalidBankroll(t *testing.T) {
	eng := newTestEngine(estimateFixture())

	_, err := eng.QuickEstimate(context.Background(), 0, domain.DefaultSimulationConfig())
	var cerr *domain.ConfigError
	require.ErrorAs(t, err, &cerr)
}

func TestQuickEstimate_InsufficientData(t *testing.T) {
	eng := newTestEngine(&fakeData{})

	_, err := eng.QuickEstimate(context.Background(), 1000, domain.DefaultSimulationConfig())
	require.ErrorIs(t, err, domain.ErrInsufficientData)
}
