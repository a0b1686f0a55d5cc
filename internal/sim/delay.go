package sim

// delay.go — modelo de delay y drift: cuándo habríamos entrado detrás del
// trader copiado y a qué precio de referencia.

import (
	"math/rand/v2"
	"time"

	"github.com/alejandrodnm/copysim/internal/domain"
)

// entryTime devuelve el momento de entrada simulado: timestamp del trade más
// el delay medio configurado más un offset uniforme en [-variance, +variance].
// El delay resultante nunca es negativo.
func entryTime(rng *rand.Rand, tradeAt time.Time, meanSec, varianceSec float64) time.Time {
	offset := 0.0
	if varianceSec > 0 {
		offset = (rng.Float64()*2 - 1) * varianceSec
	}
	delay := meanSec + offset
	if delay < 0 {
		delay = 0
	}
	return tradeAt.Add(time.Duration(delay * float64(time.Second)))
}

// driftedPrice perturba el precio original con un drift simétrico acotado,
// modelando la incertidumbre de corto horizonte cuando no hay tick data.
func driftedPrice(rng *rand.Rand, price, driftPct float64) float64 {
	if driftPct <= 0 {
		return clampPrice(price)
	}
	drift := (rng.Float64()*2 - 1) * driftPct
	return clampPrice(price * (1 + drift))
}

// referencePrice resuelve el precio de referencia en la entrada: el precio
// histórico prefetcheado si existe, o el del trade original con drift.
func referencePrice(rng *rand.Rand, t domain.Trade, refs *RefData, driftPct float64) float64 {
	if p, ok := refs.Prices[t.ID]; ok && p > 0 {
		return clampPrice(p)
	}
	return driftedPrice(rng, t.Price, driftPct)
}
