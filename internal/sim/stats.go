package sim

// stats.go — estadística distribucional sobre los resultados de los trials.

import (
	"math"
	"sort"

	"github.com/alejandrodnm/copysim/internal/domain"
)

// percentile devuelve el percentil q (en [0,1]) de una serie YA ordenada,
// con interpolación lineal entre vecinos.
func percentile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev es la desviación estándar poblacional (divisor N, no N-1).
func stddev(xs []float64, mu float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var ss float64
	for _, x := range xs {
		d := x - mu
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}

// percentileLadder calcula la escalera p5..p95. La serie se ordena aquí;
// la monotonía del resultado está garantizada por construcción.
func percentileLadder(pnls []float64) domain.Percentiles {
	sorted := make([]float64, len(pnls))
	copy(sorted, pnls)
	sort.Float64s(sorted)
	return domain.Percentiles{
		P5:     percentile(sorted, 0.05),
		P25:    percentile(sorted, 0.25),
		Median: percentile(sorted, 0.50),
		P75:    percentile(sorted, 0.75),
		P95:    percentile(sorted, 0.95),
	}
}

// aggregateDaily funde los mapas por fecha de todos los trials en un desglose
// ordenado cronológicamente con media/mín/máx entre trials.
func aggregateDaily(results []domain.TrialResult) []domain.DailyPnL {
	type acc struct {
		sum, min, max float64
		n             int
	}
	byDate := make(map[string]*acc)
	for _, r := range results {
		for date, pnl := range r.PnLByDate {
			a, ok := byDate[date]
			if !ok {
				a = &acc{min: pnl, max: pnl}
				byDate[date] = a
			}
			a.sum += pnl
			a.n++
			if pnl < a.min {
				a.min = pnl
			}
			if pnl > a.max {
				a.max = pnl
			}
		}
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	daily := make([]domain.DailyPnL, 0, len(dates))
	for _, d := range dates {
		a := byDate[d]
		daily = append(daily, domain.DailyPnL{
			Date:    d,
			MeanPnL: a.sum / float64(len(results)),
			MinPnL:  a.min,
			MaxPnL:  a.max,
		})
	}
	return daily
}

// topMarketPnL funde los mapas por mercado y devuelve los top-K por
// contribución media absoluta, ordenados por media descendente.
func topMarketPnL(results []domain.TrialResult, k int, questions map[string]string) []domain.MarketPnL {
	type acc struct {
		sum, worst float64
		seen       bool
	}
	byMarket := make(map[string]*acc)
	for _, r := range results {
		for conditionID, pnl := range r.PnLByMarket {
			a, ok := byMarket[conditionID]
			if !ok {
				a = &acc{}
				byMarket[conditionID] = a
			}
			a.sum += pnl
			if !a.seen || pnl < a.worst {
				a.worst = pnl
				a.seen = true
			}
		}
	}

	markets := make([]domain.MarketPnL, 0, len(byMarket))
	for conditionID, a := range byMarket {
		markets = append(markets, domain.MarketPnL{
			ConditionID: conditionID,
			Question:    questions[conditionID],
			MeanPnL:     a.sum / float64(len(results)),
			WorstPnL:    a.worst,
		})
	}

	// Orden estable por |media| desc, con conditionID como desempate para
	// que el report sea determinista.
	sort.Slice(markets, func(i, j int) bool {
		ai, aj := math.Abs(markets[i].MeanPnL), math.Abs(markets[j].MeanPnL)
		if ai != aj {
			return ai > aj
		}
		return markets[i].ConditionID < markets[j].ConditionID
	})

	if len(markets) > k {
		markets = markets[:k]
	}
	return markets
}
