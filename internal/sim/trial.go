package sim

// trial.go — un pase completo sobre la secuencia de trades.
//
// runTrial es función pura de (trades, config, RefData, RNG): sin I/O, sin
// estado compartido. Cada trial recibe su propio substream de RNG, así que el
// resultado es reproducible trial a trial con seed fija.

import (
	"fmt"
	"math/rand/v2"

	"github.com/alejandrodnm/copysim/internal/domain"
)

const dateLayout = "2006-01-02"

func runTrial(cfg domain.SimulationConfig, refs *RefData, rng *rand.Rand) domain.TrialResult {
	pf := newPortfolio(cfg.BankrollUSDC)
	sz := newSizer(cfg, refs)

	res := domain.TrialResult{
		PnLByDate:   make(map[string]float64),
		PnLByMarket: make(map[string]float64),
	}

	for _, t := range refs.Trades {
		entryAt := entryTime(rng, t.Timestamp, cfg.EntryDelaySec, cfg.DelayVarianceSec)
		ref := referencePrice(rng, t, refs, cfg.PriceDriftPct)

		notional := sz.positionSize(t)
		if notional <= 0 {
			continue // bajo el mínimo o sin headroom: no se registra fill
		}

		key := positionKey{ConditionID: t.ConditionID, Outcome: t.Outcome}
		if t.Side == domain.SideSell {
			if _, held := pf.positions[key]; !held {
				continue // el trader vende algo que nosotros nunca compramos
			}
		}

		snap := refs.snapshotFor(t.ConditionID, cfg.AssumedDailyVolume)
		var book *domain.BookDepth
		if cfg.UseOrderbook {
			book = refs.bookFor(t.ID)
		}

		fill := SimulateFill(t.Side, notional, book, cfg.UseMarketImpact, snap.DailyVolume, ref)
		execNotional := notional * fill.FillRatio
		if execNotional <= 0 {
			continue
		}
		shares := execNotional / fill.Price

		switch t.Side {
		case domain.SideBuy:
			pf.buy(key, shares, fill.Price)
			sz.commit(t.ConditionID, execNotional)
		case domain.SideSell:
			sold, realized := pf.sell(key, shares, fill.Price)
			if sold <= 0 {
				continue
			}
			date := entryAt.Format(dateLayout)
			res.PnLByDate[date] += realized
			res.PnLByMarket[t.ConditionID] += realized
			res.PnL += realized
			sz.release(t.ConditionID, sold*fill.Price)
		}

		if len(res.Fills) < cfg.MaxFillSamples {
			// ID derivado del trade origen: el audit log es reproducible
			// con seed fija, igual que el resto del report.
			res.Fills = append(res.Fills, domain.SimulatedFill{
				ID:           fmt.Sprintf("%s#%d", t.ID, len(res.Fills)),
				Wallet:       t.Wallet,
				ConditionID:  t.ConditionID,
				Outcome:      t.Outcome,
				Side:         t.Side,
				RequestedUSD: notional,
				FillPrice:    fill.Price,
				SlippageBps:  fill.SlippageBps,
				FillRatio:    fill.FillRatio,
				Partial:      !fill.Filled,
				EntryAt:      entryAt,
			})
		}
	}

	// Mark-to-market de las posiciones residuales al cierre de la ventana.
	endDate := refs.WindowEnd.Format(dateLayout)
	unrealized := pf.markToMarket(func(conditionID, outcome string) float64 {
		return refs.snapshotFor(conditionID, cfg.AssumedDailyVolume).ExitPrice(outcome)
	})
	for conditionID, pnl := range unrealized {
		res.PnLByMarket[conditionID] += pnl
		res.PnLByDate[endDate] += pnl
		res.PnL += pnl
	}

	return res
}
