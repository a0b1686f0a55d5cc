package domain

import "time"

// SizingRule determina cómo se convierte un trade copiado en tamaño propio.
type SizingRule string

const (
	SizingEqual        SizingRule = "equal"        // slice fijo del bankroll por trade
	SizingProportional SizingRule = "proportional" // proporcional al peso del trade en el trader
)

// Métricas soportadas para rankear traders a seguir.
const (
	MetricVolume = "volume"
	MetricPnL    = "pnl"
	MetricROI    = "roi"
)

// SimulationConfig son los parámetros de un run de Monte Carlo.
// Todos los campos numéricos se validan antes de computar nada.
type SimulationConfig struct {
	BankrollUSDC     float64    `yaml:"bankroll_usdc" json:"bankroll_usdc"`
	EntryDelaySec    float64    `yaml:"entry_delay_sec" json:"entry_delay_sec"`
	DelayVarianceSec float64    `yaml:"delay_variance_sec" json:"delay_variance_sec"`
	SizingRule       SizingRule `yaml:"sizing_rule" json:"sizing_rule"`
	MaxExposurePct   float64    `yaml:"max_exposure_pct" json:"max_exposure_pct"` // fracción del bankroll por mercado
	MinTradeUSDC     float64    `yaml:"min_trade_usdc" json:"min_trade_usdc"`
	UseOrderbook     bool       `yaml:"use_orderbook" json:"use_orderbook"`
	UseMarketImpact  bool       `yaml:"use_market_impact" json:"use_market_impact"`
	NumSimulations   int        `yaml:"num_simulations" json:"num_simulations"`
	LookbackDays     int        `yaml:"lookback_days" json:"lookback_days"`

	// Selección de traders.
	FollowMetric string `yaml:"follow_metric" json:"follow_metric"`
	FollowLimit  int    `yaml:"follow_limit" json:"follow_limit"`

	// Seed del RNG. 0 = derivar del reloj (run no reproducible).
	Seed uint64 `yaml:"seed" json:"seed"`

	// Paralelismo del loop de trials. 0 = NumCPU, 1 = secuencial.
	ParallelTrials int `yaml:"parallel_trials" json:"parallel_trials"`

	// Constantes del modelo, tunables por config.
	PriceDriftPct      float64 `yaml:"price_drift_pct" json:"price_drift_pct"`           // ±drift cuando no hay tick data
	FrictionFactor     float64 `yaml:"friction_factor" json:"friction_factor"`           // descuento del quick estimate
	EstimateSpreadPct  float64 `yaml:"estimate_spread_pct" json:"estimate_spread_pct"`   // ancho low/high del estimate
	AssumedDailyVolume float64 `yaml:"assumed_daily_volume" json:"assumed_daily_volume"` // fallback sin metadata

	// Límites del report.
	TopMarkets     int `yaml:"top_markets" json:"top_markets"`
	MaxFillSamples int `yaml:"max_fill_samples" json:"max_fill_samples"` // audit log por trial, acotado
}

// Límites duros de validación.
const (
	maxBankrollUSDC   = 1e9
	maxDelaySec       = 3600
	maxNumSimulations = 20000
	maxLookbackDays   = 365
	maxFollowLimit    = 200
	maxTopMarkets     = 100
	maxDriftPct       = 0.2
)

// DefaultSimulationConfig devuelve la configuración base que el YAML y los
// requests del API sobreescriben parcialmente.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		BankrollUSDC:       1000,
		EntryDelaySec:      60,
		DelayVarianceSec:   30,
		SizingRule:         SizingEqual,
		MaxExposurePct:     0.25,
		MinTradeUSDC:       1,
		UseOrderbook:       true,
		UseMarketImpact:    true,
		NumSimulations:     500,
		LookbackDays:       30,
		FollowMetric:       MetricPnL,
		FollowLimit:        10,
		ParallelTrials:     0,
		PriceDriftPct:      0.01,
		FrictionFactor:     0.6,
		EstimateSpreadPct:  0.02,
		AssumedDailyVolume: 10000,
		TopMarkets:         10,
		MaxFillSamples:     50,
	}
}

// Validate rechaza configuraciones fuera de rango antes de arrancar la
// simulación. Devuelve *ConfigError con el campo ofensivo.
func (c SimulationConfig) Validate() error {
	switch {
	case c.BankrollUSDC <= 0 || c.BankrollUSDC > maxBankrollUSDC:
		return &ConfigError{Field: "bankroll_usdc", Reason: "must be in (0, 1e9]"}
	case c.EntryDelaySec < 0 || c.EntryDelaySec > maxDelaySec:
		return &ConfigError{Field: "entry_delay_sec", Reason: "must be in [0, 3600]"}
	case c.DelayVarianceSec < 0 || c.DelayVarianceSec > maxDelaySec:
		return &ConfigError{Field: "delay_variance_sec", Reason: "must be in [0, 3600]"}
	case c.SizingRule != SizingEqual && c.SizingRule != SizingProportional:
		return &ConfigError{Field: "sizing_rule", Reason: `must be "equal" or "proportional"`}
	case c.MaxExposurePct <= 0 || c.MaxExposurePct > 1:
		return &ConfigError{Field: "max_exposure_pct", Reason: "must be in (0, 1]"}
	case c.MinTradeUSDC < 0 || c.MinTradeUSDC > c.BankrollUSDC:
		return &ConfigError{Field: "min_trade_usdc", Reason: "must be in [0, bankroll]"}
	case c.NumSimulations < 1 || c.NumSimulations > maxNumSimulations:
		return &ConfigError{Field: "num_simulations", Reason: "must be in [1, 20000]"}
	case c.LookbackDays < 1 || c.LookbackDays > maxLookbackDays:
		return &ConfigError{Field: "lookback_days", Reason: "must be in [1, 365]"}
	case c.FollowMetric != MetricVolume && c.FollowMetric != MetricPnL && c.FollowMetric != MetricROI:
		return &ConfigError{Field: "follow_metric", Reason: `must be "volume", "pnl" or "roi"`}
	case c.FollowLimit < 1 || c.FollowLimit > maxFollowLimit:
		return &ConfigError{Field: "follow_limit", Reason: "must be in [1, 200]"}
	case c.ParallelTrials < 0 || c.ParallelTrials > 256:
		return &ConfigError{Field: "parallel_trials", Reason: "must be in [0, 256]"}
	case c.PriceDriftPct < 0 || c.PriceDriftPct > maxDriftPct:
		return &ConfigError{Field: "price_drift_pct", Reason: "must be in [0, 0.2]"}
	case c.FrictionFactor <= 0 || c.FrictionFactor > 1:
		return &ConfigError{Field: "friction_factor", Reason: "must be in (0, 1]"}
	case c.EstimateSpreadPct < 0 || c.EstimateSpreadPct > 1:
		return &ConfigError{Field: "estimate_spread_pct", Reason: "must be in [0, 1]"}
	case c.AssumedDailyVolume <= 0:
		return &ConfigError{Field: "assumed_daily_volume", Reason: "must be > 0"}
	case c.TopMarkets < 1 || c.TopMarkets > maxTopMarkets:
		return &ConfigError{Field: "top_markets", Reason: "must be in [1, 100]"}
	case c.MaxFillSamples < 0 || c.MaxFillSamples > 1000:
		return &ConfigError{Field: "max_fill_samples", Reason: "must be in [0, 1000]"}
	}
	return nil
}

// LookbackWindow devuelve la ventana histórica como time.Duration.
func (c SimulationConfig) LookbackWindow() time.Duration {
	return time.Duration(c.LookbackDays) * 24 * time.Hour
}
