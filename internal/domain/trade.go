package domain

import "time"

// Side es la dirección de un trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Trade representa un trade histórico de un trader seguido.
// Inmutable; llega ya resuelto desde la Data API o desde el archivo SQLite.
type Trade struct {
	ID          string    `json:"id"`
	Wallet      string    `json:"wallet"`
	ConditionID string    `json:"condition_id"`
	TokenID     string    `json:"token_id"`
	Side        Side      `json:"side"`
	Outcome     string    `json:"outcome"` // "Yes" | "No"
	Price       float64   `json:"price"`   // precio por share en (0,1)
	Size        float64   `json:"size"`    // shares
	ValueUSDC   float64   `json:"value_usdc"`
	Timestamp   time.Time `json:"timestamp"`
}

// Notional devuelve el valor del trade en USDC.
// Usa ValueUSDC si la API lo dio; si no, lo deriva de price × size.
func (t Trade) Notional() float64 {
	if t.ValueUSDC > 0 {
		return t.ValueUSDC
	}
	return t.Price * t.Size
}
