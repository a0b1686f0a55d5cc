package sim

// fill.go — modelo de ejecución: a qué precio se habría llenado una orden
// hipotética dada la liquidez disponible.
//
// Tres regímenes de slippage:
//   - Sin book: heurística sqrt sobre el notional, cap a 50 bps.
//   - Con book: medio spread mientras el notional cabe en el near touch;
//     interpolación lineal hasta el cap de 500 bps dentro del tier ancho;
//     más allá del tier ancho el fill es parcial (ratio = deep/notional).
//   - Market impact opcional: ley sqrt(notional/volumen diario) encima.

import (
	"math"

	"github.com/alejandrodnm/copysim/internal/domain"
)

const (
	maxSlippageBps   = 500 // cap duro al agotar el tier ancho
	noBookSlipCapBps = 50  // cap del régimen sin book
	filledThreshold  = 0.95

	// Dominio válido de precios de shares en mercados binarios.
	minSharePrice = 0.001
	maxSharePrice = 0.999
)

// FillResult es el resultado del modelo de ejecución.
type FillResult struct {
	Price       float64 // precio medio de fill
	SlippageBps float64
	FillRatio   float64 // fracción del notional ejecutada, en [0,1]
	Filled      bool    // ratio >= 0.95
}

// SimulateFill calcula precio y ratio de fill para una orden hipotética.
// book puede ser nil (sin contexto de liquidez). dailyVolume solo se usa con
// impact habilitado; refPrice es el precio de referencia en el momento de entrada.
func SimulateFill(side domain.Side, notionalUSD float64, book *domain.BookDepth, impact bool, dailyVolume, refPrice float64) FillResult {
	slipBps := 0.0
	fillRatio := 1.0

	if book == nil || !book.Usable() {
		// Sin book: slippage crece con la raíz del notional, cap a 50 bps.
		slipBps = math.Min(noBookSlipCapBps, math.Sqrt(notionalUSD/100)*10)
	} else {
		halfSpread := book.SpreadBps / 2
		switch {
		case notionalUSD <= book.NearTouchUSD:
			slipBps = halfSpread
		case notionalUSD <= book.DeepUSD:
			// Interpolación lineal entre el borde del near touch (medio
			// spread) y el borde del tier ancho (cap de 500 bps).
			excess := (notionalUSD - book.NearTouchUSD) / (book.DeepUSD - book.NearTouchUSD)
			slipBps = halfSpread + (maxSlippageBps-halfSpread)*excess
		default:
			slipBps = maxSlippageBps
			fillRatio = book.DeepUSD / notionalUSD
		}
	}

	if impact && dailyVolume > 0 {
		slipBps += math.Sqrt(notionalUSD/dailyVolume) * 100
	}

	price := applySlippage(side, refPrice, slipBps)

	return FillResult{
		Price:       price,
		SlippageBps: slipBps,
		FillRatio:   fillRatio,
		Filled:      fillRatio >= filledThreshold,
	}
}

// applySlippage mueve el precio de referencia en contra del lado de la orden
// y lo recorta al dominio válido de precios de shares.
func applySlippage(side domain.Side, refPrice, slipBps float64) float64 {
	adj := slipBps / 10000
	var price float64
	if side == domain.SideBuy {
		price = refPrice * (1 + adj)
	} else {
		price = refPrice * (1 - adj)
	}
	return clampPrice(price)
}

func clampPrice(p float64) float64 {
	if p < minSharePrice {
		return minSharePrice
	}
	if p > maxSharePrice {
		return maxSharePrice
	}
	return p
}
