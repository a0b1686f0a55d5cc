package polymarket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/alejandrodnm/copysim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapUserTrade(t *testing.T) {
	raw := rawUserTrade{
		ID:          "t1",
		ProxyWallet: "0xwallet",
		ConditionID: "0xcond",
		Asset:       "tok123",
		Side:        "buy",
		Outcome:     "Yes",
		Price:       json.Number("0.42"),
		Size:        json.Number("119.05"),
		UsdcSize:    json.Number("50"),
		Timestamp:   json.Number("1755000000"),
	}

	tr := mapUserTrade(raw)
	assert.Equal(t, "t1", tr.ID)
	assert.Equal(t, domain.SideBuy, tr.Side, "side normalizado a mayúsculas")
	assert.Equal(t, "Yes", tr.Outcome)
	assert.InDelta(t, 0.42, tr.Price, 1e-9)
	assert.InDelta(t, 50.0, tr.ValueUSDC, 1e-9)
	assert.Equal(t, time.Unix(1755000000, 0).UTC(), tr.Timestamp)
}

func TestMapUserTrade_FallsBackToTxHash(t *testing.T) {
	raw := rawUserTrade{TransactionHash: "0xhash", Side: "SELL"}
	tr := mapUserTrade(raw)
	assert.Equal(t, "0xhash", tr.ID)
	assert.Equal(t, domain.SideSell, tr.Side)
}

func TestParseTimestamp(t *testing.T) {
	assert.Equal(t, time.Unix(1755000000, 0).UTC(), parseTimestamp(json.Number("1755000000")))
	assert.Equal(t, time.Unix(1755000000, 0).UTC(), parseTimestamp(json.Number("1755000000000")), "millis")
	assert.Equal(t,
		time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC),
		parseTimestamp(json.Number("2026-08-01T12:30:00Z")))
	assert.True(t, parseTimestamp(json.Number("garbage")).IsZero())
}

func TestMapGammaMarket_Settled(t *testing.T) {
	gm := gammaMarket{
		ConditionID:    "0xcond",
		Question:       "Will X happen?",
		Volume24h:      json.Number("12500"),
		Closed:         true,
		Outcomes:       `["Yes","No"]`,
		OutcomePrices:  `["1","0"]`,
		LastTradePrice: json.Number("0.995"),
	}

	snap := mapGammaMarket(gm)
	assert.True(t, snap.Closed)
	assert.Equal(t, "Yes", snap.WinningOutcome)
	assert.InDelta(t, 12500.0, snap.DailyVolume, 1e-9)
	assert.InDelta(t, 0.995, snap.LastYesPrice, 1e-9)
}

func TestMapGammaMarket_Open(t *testing.T) {
	gm := gammaMarket{
		ConditionID:    "0xcond",
		Closed:         false,
		LastTradePrice: json.Number("0.63"),
	}

	snap := mapGammaMarket(gm)
	assert.False(t, snap.Closed)
	assert.Empty(t, snap.WinningOutcome)
	assert.InDelta(t, 0.63, snap.LastYesPrice, 1e-9)
}

func TestWinningOutcome_Malformed(t *testing.T) {
	assert.Empty(t, winningOutcome("not json", `["1","0"]`))
	assert.Empty(t, winningOutcome(`["Yes","No"]`, "not json"))
	assert.Empty(t, winningOutcome(`["Yes","No"]`, `["0.6","0.4"]`), "sin precio resuelto a 1")
}

func TestReduceBook(t *testing.T) {
	resp := bookResponse{
		Bids: []bookEntryRaw{
			{Price: "0.48", Size: "1000"}, // best bid, near = 480
			{Price: "0.45", Size: "2000"}, // dentro de la ventana del tier ancho
			{Price: "0.30", Size: "9999"}, // fuera de la ventana
		},
		Asks: []bookEntryRaw{
			{Price: "0.52", Size: "1000"}, // best ask, near = 520
			{Price: "0.55", Size: "1000"},
		},
	}

	depth := reduceBook(resp)
	require.True(t, depth.Usable())

	// spread = 0.04 sobre mid 0.50 → 800 bps
	assert.InDelta(t, 800.0, depth.SpreadBps, 1e-6)
	// near touch conservador: min(480, 520)
	assert.InDelta(t, 480.0, depth.NearTouchUSD, 1e-9)
	// tier ancho: min(480+900, 520+550) = min(1380, 1070)
	assert.InDelta(t, 1070.0, depth.DeepUSD, 1e-9)
}

func TestReduceBook_Degenerate(t *testing.T) {
	assert.False(t, reduceBook(bookResponse{}).Usable())

	crossed := bookResponse{
		Bids: []bookEntryRaw{{Price: "0.60", Size: "100"}},
		Asks: []bookEntryRaw{{Price: "0.50", Size: "100"}},
	}
	assert.False(t, reduceBook(crossed).Usable(), "book cruzado se descarta")
}
