package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/copysim/internal/domain"
)

// TradeSource obtiene los trades históricos de la ventana de lookback.
type TradeSource interface {
	// TradesSince devuelve los trades de las wallets dadas desde windowStart,
	// en orden cronológico ascendente.
	TradesSince(ctx context.Context, windowStart time.Time, wallets []string) ([]domain.Trade, error)
}
