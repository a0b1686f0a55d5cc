package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/copysim/internal/domain"
)

// PriceSource es la fuente opcional de tick data y profundidad de book.
// Sus misses (ErrNoPrice, ErrNoBook) son esperados: el engine cae al modelo
// de drift / slippage sin liquidez.
type PriceSource interface {
	// PriceAtTime devuelve el precio del token en (o justo antes de) ts.
	PriceAtTime(ctx context.Context, tokenID string, ts time.Time) (float64, error)

	// BookAtOrBefore devuelve el snapshot de profundidad en (o justo antes de) ts.
	BookAtOrBefore(ctx context.Context, tokenID string, ts time.Time) (domain.BookDepth, error)
}
