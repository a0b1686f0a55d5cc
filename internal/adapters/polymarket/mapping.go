package polymarket

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/alejandrodnm/copysim/internal/domain"
)

// Ventana del tier ancho del book respecto al midpoint, en precio de share.
const deepTierWindow = 0.05

// mapUserTrade convierte un trade raw de la Data API a domain.Trade.
// Todos los importes quedan normalizados a USDC aquí, en el boundary: el
// resto del sistema maneja un único tipo de cantidad.
func mapUserTrade(rt rawUserTrade) domain.Trade {
	price, _ := rt.Price.Float64()
	size, _ := rt.Size.Float64()
	value, _ := rt.UsdcSize.Float64()

	id := rt.ID
	if id == "" {
		// La Data API a veces omite el id; el hash de la tx es único por fill.
		id = rt.TransactionHash
	}

	return domain.Trade{
		ID:          id,
		Wallet:      rt.ProxyWallet,
		ConditionID: rt.ConditionID,
		TokenID:     rt.Asset,
		Side:        domain.Side(strings.ToUpper(rt.Side)),
		Outcome:     rt.Outcome,
		Price:       price,
		Size:        size,
		ValueUSDC:   value,
		Timestamp:   parseTimestamp(rt.Timestamp),
	}
}

// mapGammaMarket convierte la metadata de Gamma a un MarketSnapshot.
func mapGammaMarket(gm gammaMarket) domain.MarketSnapshot {
	snap := domain.MarketSnapshot{
		ConditionID: gm.ConditionID,
		Question:    gm.Question,
		Closed:      gm.Closed,
		UpdatedAt:   time.Now().UTC(),
	}

	if v, err := gm.Volume24h.Float64(); err == nil {
		snap.DailyVolume = v
	}
	if p, err := gm.LastTradePrice.Float64(); err == nil {
		snap.LastYesPrice = p
	}

	// Gamma codifica outcomes y precios como JSON arrays dentro de strings.
	// En un mercado cerrado, el outcome con precio 1 es el ganador.
	if gm.Closed {
		snap.WinningOutcome = winningOutcome(gm.Outcomes, gm.OutcomePrices)
	}

	return snap
}

// winningOutcome decodifica los pares outcome/precio de Gamma y devuelve el
// outcome cuyo precio resolvió a 1. Devuelve "" si no se puede determinar.
func winningOutcome(outcomesRaw, pricesRaw string) string {
	var outcomes, prices []string
	if err := json.Unmarshal([]byte(outcomesRaw), &outcomes); err != nil {
		return ""
	}
	if err := json.Unmarshal([]byte(pricesRaw), &prices); err != nil {
		return ""
	}
	for i, p := range prices {
		if i >= len(outcomes) {
			break
		}
		if v, err := strconv.ParseFloat(p, 64); err == nil && v > 0.99 {
			return outcomes[i]
		}
	}
	return ""
}

// reduceBook reduce un orderbook completo al contexto de liquidez del modelo
// de fills. Conservador: usa el mínimo de los dos lados para que la
// profundidad valga para BUY y SELL por igual.
func reduceBook(resp bookResponse) domain.BookDepth {
	bestBid, bidNear, bidDeep := sideDepth(resp.Bids, true)
	bestAsk, askNear, askDeep := sideDepth(resp.Asks, false)

	var depth domain.BookDepth
	if bestBid <= 0 || bestAsk <= 0 || bestAsk <= bestBid {
		return depth
	}

	mid := (bestBid + bestAsk) / 2
	depth.SpreadBps = (bestAsk - bestBid) / mid * 10000
	depth.NearTouchUSD = min(bidNear, askNear)
	depth.DeepUSD = min(bidDeep, askDeep)
	if depth.DeepUSD < depth.NearTouchUSD {
		depth.DeepUSD = depth.NearTouchUSD
	}
	return depth
}

// sideDepth devuelve el mejor precio del lado, el USDC en ese nivel y el
// USDC acumulado dentro de la ventana del tier ancho.
func sideDepth(entries []bookEntryRaw, isBid bool) (best, nearUSD, deepUSD float64) {
	for _, e := range entries {
		price, err := strconv.ParseFloat(e.Price, 64)
		if err != nil || price <= 0 {
			continue
		}
		size, err := strconv.ParseFloat(e.Size, 64)
		if err != nil || size <= 0 {
			continue
		}

		if best == 0 || (isBid && price > best) || (!isBid && price < best) {
			best = price
		}
		deepUSD += price * size
	}

	if best == 0 {
		return 0, 0, 0
	}

	// Segunda pasada: near touch y recorte del tier ancho a la ventana.
	deepUSD = 0
	for _, e := range entries {
		price, _ := strconv.ParseFloat(e.Price, 64)
		size, _ := strconv.ParseFloat(e.Size, 64)
		if price <= 0 || size <= 0 {
			continue
		}
		dist := best - price
		if !isBid {
			dist = price - best
		}
		if dist < 0 {
			continue
		}
		if dist == 0 {
			nearUSD += price * size
		}
		if dist <= deepTierWindow {
			deepUSD += price * size
		}
	}
	return best, nearUSD, deepUSD
}

// parseTimestamp tolera unix seconds/millis y varios formatos ISO.
func parseTimestamp(n json.Number) time.Time {
	s := n.String()
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		if sec > 1e12 {
			return time.Unix(sec/1000, (sec%1000)*int64(time.Millisecond)).UTC()
		}
		return time.Unix(sec, 0).UTC()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		sec := int64(f)
		nsec := int64((f - float64(sec)) * 1e9)
		return time.Unix(sec, nsec).UTC()
	}
	for _, layout := range []string{
		time.RFC3339Nano, time.RFC3339,
		"2006-01-02T15:04:05.000Z", "2006-01-02T15:04:05Z",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
