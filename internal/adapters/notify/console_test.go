package notify_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alejandrodnm/copysim/internal/adapters/notify"
	"github.com/alejandrodnm/copysim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *domain.SimulationReport {
	return &domain.SimulationReport{
		RunID:       "run-1",
		GeneratedAt: time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
		Config:      domain.DefaultSimulationConfig(),
		NumTrials:   500,
		Percentiles: domain.Percentiles{P5: -12.5, P25: 3.1, Median: 20.0, P75: 41.7, P95: 88.9},
		MeanPnL:     25.4,
		StdDev:      30.2,
		Sharpe:      0.84,
		Daily: []domain.DailyPnL{
			{Date: "2026-08-01", MeanPnL: 5.0, MinPnL: -2, MaxPnL: 11},
			{Date: "2026-08-02", MeanPnL: 20.4, MinPnL: 3, MaxPnL: 70},
		},
		TopMarkets: []domain.MarketPnL{
			{ConditionID: "0xabc", Question: "Will X happen?", MeanPnL: 18.0, WorstPnL: -4.0},
			{ConditionID: "0xdef", MeanPnL: -6.2, WorstPnL: -20.0},
		},
		Wallets:        []string{"0xwallet1234567890", "0xwallet2"},
		WindowStart:    time.Date(2026, 7, 21, 0, 0, 0, 0, time.UTC),
		WindowEnd:      time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		TradesPerTrial: 42,
		Disclaimer:     domain.Disclaimer,
	}
}

func TestConsole_PublishTables(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, false)

	require.NoError(t, c.Publish(context.Background(), sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "500 trials")
	assert.Contains(t, out, "$20.00", "mediana en la escalera")
	assert.Contains(t, out, "$-12.50")
	assert.Contains(t, out, "Will X happen?")
	assert.Contains(t, out, "0xdef", "mercado sin question usa el conditionID")
	assert.Contains(t, out, "0xwallet12...")
	assert.Contains(t, out, "Hypothetical simulation")
}

func TestConsole_PublishJSON(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, true)

	require.NoError(t, c.Publish(context.Background(), sampleReport()))

	var decoded domain.SimulationReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	assert.InDelta(t, 25.4, decoded.MeanPnL, 1e-9)
}

func TestConsole_PrintEstimate(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, false)

	c.PrintEstimate(domain.Estimate{Low: 80, Mid: 120, High: 160}, 1000)
	out := buf.String()

	assert.Contains(t, out, "$120.00")
	assert.Contains(t, out, "$1000.00")
}
