package ports

import (
	"context"

	"github.com/alejandrodnm/copysim/internal/domain"
)

// MarketSource obtiene la metadata de referencia de un mercado.
type MarketSource interface {
	// MarketSnapshot devuelve volumen, estado de resolución y último precio.
	// Un error aquí no aborta el run: el engine usa defaults conservadores.
	MarketSnapshot(ctx context.Context, conditionID string) (domain.MarketSnapshot, error)
}
