package domain

import "time"

// BookDepth es el contexto de liquidez reducido de un orderbook: lo único que
// el modelo de fills necesita del book completo. Se construye en el boundary
// (adapter o archivo) y se cachea antes del loop de simulación.
type BookDepth struct {
	TokenID      string    `json:"token_id"`
	Timestamp    time.Time `json:"timestamp"`
	NearTouchUSD float64   `json:"near_touch_usd"` // profundidad al mejor precio
	DeepUSD      float64   `json:"deep_usd"`       // profundidad acumulada del tier ancho
	SpreadBps    float64   `json:"spread_bps"`     // spread cotizado en basis points
}

// Usable devuelve true si el snapshot tiene datos suficientes para el modelo
// de fills con liquidez. Un book degenerado se trata como ausente.
func (b BookDepth) Usable() bool {
	return b.NearTouchUSD > 0 && b.DeepUSD >= b.NearTouchUSD && b.SpreadBps >= 0
}
