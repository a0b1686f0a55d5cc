package sim

// estimate.go — aproximación instantánea sin Monte Carlo.
//
// Para callers que necesitan respuesta inmediata mientras corre el run
// completo: ROI histórico cash-flow de las wallets seguidas, descontado por
// el friction factor configurado. Es deliberadamente la contabilidad "simple"
// (ventas − compras): aquí es un proxy barato, no el resultado autoritativo.

import (
	"context"
	"fmt"

	"github.com/alejandrodnm/copysim/internal/domain"
)

// QuickEstimate devuelve {low, mid, high} para un bankroll dado usando la
// configuración base del engine para ventana, métrica y fricción.
func (e *Engine) QuickEstimate(ctx context.Context, bankrollUSD float64, cfg domain.SimulationConfig) (domain.Estimate, error) {
	if bankrollUSD <= 0 {
		return domain.Estimate{}, &domain.ConfigError{Field: "bankroll_usdc", Reason: "must be > 0"}
	}
	if err := cfg.Validate(); err != nil {
		return domain.Estimate{}, err
	}

	wallets, err := e.ranker.ListFollowedWallets(ctx, cfg.FollowMetric, cfg.FollowLimit)
	if err != nil {
		return domain.Estimate{}, fmt.Errorf("sim.QuickEstimate: list wallets: %w", err)
	}
	if len(wallets) == 0 {
		return domain.Estimate{}, fmt.Errorf("sim.QuickEstimate: no followed wallets: %w", domain.ErrInsufficientData)
	}

	windowStart := e.now().UTC().Add(-cfg.LookbackWindow())
	trades, err := e.trades.TradesSince(ctx, windowStart, wallets)
	if err != nil {
		return domain.Estimate{}, fmt.Errorf("sim.QuickEstimate: load trades: %w", err)
	}
	if len(trades) == 0 {
		return domain.Estimate{}, fmt.Errorf("sim.QuickEstimate: no trades in window: %w", domain.ErrInsufficientData)
	}

	// ROI cash-flow por wallet: (ventas − compras) / compras.
	type flow struct{ buys, sells float64 }
	flows := make(map[string]flow)
	for _, t := range trades {
		f := flows[t.Wallet]
		switch t.Side {
		case domain.SideBuy:
			f.buys += t.Notional()
		case domain.SideSell:
			f.sells += t.Notional()
		}
		flows[t.Wallet] = f
	}

	var rois []float64
	for _, f := range flows {
		if f.buys > 0 {
			rois = append(rois, (f.sells-f.buys)/f.buys)
		}
	}
	if len(rois) == 0 {
		return domain.Estimate{}, fmt.Errorf("sim.QuickEstimate: no wallets with buy volume: %w", domain.ErrInsufficientData)
	}

	rate := mean(rois) * cfg.FrictionFactor
	mid := bankrollUSD * rate
	spread := bankrollUSD * cfg.EstimateSpreadPct

	return domain.Estimate{
		Low:  mid - spread,
		Mid:  mid,
		High: mid + spread,
	}, nil
}
