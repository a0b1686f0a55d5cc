package domain

import "time"

// MarketSnapshot es la metadata de referencia de un mercado, cargada una vez
// por run antes del loop de simulación. Read-only durante los trials.
type MarketSnapshot struct {
	ConditionID    string    `json:"condition_id"`
	Question       string    `json:"question,omitempty"`
	DailyVolume    float64   `json:"daily_volume"` // USDC/día estimado
	Closed         bool      `json:"closed"`
	WinningOutcome string    `json:"winning_outcome,omitempty"` // "Yes" | "No" | "" si no resuelto
	LastYesPrice   float64   `json:"last_yes_price"`            // último precio conocido del outcome primario
	UpdatedAt      time.Time `json:"updated_at,omitempty"`
}

// LastPriceFor devuelve el último precio conocido para un outcome.
// El precio del secundario se deriva invirtiendo el del primario.
func (m MarketSnapshot) LastPriceFor(outcome string) float64 {
	if outcome == "Yes" {
		return m.LastYesPrice
	}
	return 1 - m.LastYesPrice
}

// ExitPrice devuelve el precio de salida mark-to-market para un outcome:
// 1.0/0.0 si el mercado está resuelto y el outcome ganó/perdió,
// el último precio conocido si sigue abierto.
func (m MarketSnapshot) ExitPrice(outcome string) float64 {
	if m.Closed && m.WinningOutcome != "" {
		if m.WinningOutcome == outcome {
			return 1.0
		}
		return 0.0
	}
	return m.LastPriceFor(outcome)
}
