package domain

import "time"

// SimulatedFill es el registro de auditoría de una ejecución hipotética.
// Cada trial guarda como máximo MaxFillSamples para acotar memoria.
type SimulatedFill struct {
	ID           string    `json:"id"`
	Wallet       string    `json:"wallet"`
	ConditionID  string    `json:"condition_id"`
	Outcome      string    `json:"outcome"`
	Side         Side      `json:"side"`
	RequestedUSD float64   `json:"requested_usd"`
	FillPrice    float64   `json:"fill_price"`
	SlippageBps  float64   `json:"slippage_bps"`
	FillRatio    float64   `json:"fill_ratio"`
	Partial      bool      `json:"partial"` // liquidez insuficiente: no es un error
	EntryAt      time.Time `json:"entry_at"`
}

// TrialResult es el resultado de un trial. Efímero: vive lo que dura la
// agregación y nunca se comparte entre trials.
type TrialResult struct {
	PnL         float64            `json:"pnl"`
	PnLByDate   map[string]float64 `json:"pnl_by_date"`   // "2006-01-02" → PnL
	PnLByMarket map[string]float64 `json:"pnl_by_market"` // conditionID → PnL
	Fills       []SimulatedFill    `json:"fills,omitempty"`
}

// Percentiles es la escalera p5/p25/mediana/p75/p95 de la distribución final.
// Invariante: no decreciente.
type Percentiles struct {
	P5     float64 `json:"p5"`
	P25    float64 `json:"p25"`
	Median float64 `json:"median"`
	P75    float64 `json:"p75"`
	P95    float64 `json:"p95"`
}

// DailyPnL es el desglose por día calendario agregado entre trials.
type DailyPnL struct {
	Date    string  `json:"date"`
	MeanPnL float64 `json:"mean_pnl"`
	MinPnL  float64 `json:"min_pnl"`
	MaxPnL  float64 `json:"max_pnl"`
}

// MarketPnL es la contribución media de un mercado al resultado.
type MarketPnL struct {
	ConditionID string  `json:"condition_id"`
	Question    string  `json:"question,omitempty"`
	MeanPnL     float64 `json:"mean_pnl"`
	WorstPnL    float64 `json:"worst_pnl"`
}

// SimulationReport es el output final de un run de Monte Carlo.
type SimulationReport struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`

	Config    SimulationConfig `json:"config"`
	NumTrials int              `json:"num_trials"`

	Percentiles Percentiles `json:"percentiles"`
	MeanPnL     float64     `json:"mean_pnl"`
	StdDev      float64     `json:"std_dev"`
	Sharpe      float64     `json:"sharpe"` // mean/stddev, 0 si stddev es 0

	Daily      []DailyPnL  `json:"daily"`
	TopMarkets []MarketPnL `json:"top_markets"`

	Wallets        []string  `json:"wallets"`
	WindowStart    time.Time `json:"window_start"`
	WindowEnd      time.Time `json:"window_end"`
	TradesPerTrial int       `json:"trades_per_trial"`

	Disclaimer string          `json:"disclaimer"`
	Audit      []SimulatedFill `json:"audit,omitempty"` // muestra del primer trial
}

// Estimate es la aproximación barata sin Monte Carlo para callers que
// necesitan respuesta inmediata mientras corre el run completo.
type Estimate struct {
	Low  float64 `json:"low"`
	Mid  float64 `json:"mid"`
	High float64 `json:"high"`
}

// Disclaimer fijo de todos los reports.
const Disclaimer = "Hypothetical simulation over historical trades. " +
	"Assumes fills under modeled frictions; past performance of followed " +
	"wallets does not guarantee future results. Not financial advice."
