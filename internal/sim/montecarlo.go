package sim

// montecarlo.go — orquestador del run completo: Setup → Run → Aggregate → Report.
//
// Setup hace TODO el I/O (una sola pasada de prefetch contra los ports);
// Run ejecuta los trials en un worker pool sin estado compartido; cada trial
// usa el substream rand.NewPCG(seed, trialIndex), así que el report es
// bit-idéntico para (seed, numSimulations) fijos sin importar cuántos workers.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/alejandrodnm/copysim/internal/domain"
	"github.com/alejandrodnm/copysim/internal/ports"
	"github.com/google/uuid"
)

// Engine es el simulador Monte Carlo de copy trading. Los ports se consultan
// solo durante el setup; el loop de trials es cómputo puro.
type Engine struct {
	ranker  ports.WalletRanker
	trades  ports.TradeSource
	markets ports.MarketSource
	prices  ports.PriceSource // opcional, puede ser nil
	now     func() time.Time
}

// New crea un Engine. prices puede ser nil: sin tick data el engine usa el
// modelo de drift y el slippage sin book.
func New(ranker ports.WalletRanker, trades ports.TradeSource, markets ports.MarketSource, prices ports.PriceSource) *Engine {
	return &Engine{
		ranker:  ranker,
		trades:  trades,
		markets: markets,
		prices:  prices,
		now:     time.Now,
	}
}

// RunSimulation ejecuta un run completo y devuelve el report final.
// Falla con *domain.ConfigError o domain.ErrInsufficientData; nunca devuelve
// números fabricados en lugar de un cómputo fallido.
func (e *Engine) RunSimulation(ctx context.Context, cfg domain.SimulationConfig) (*domain.SimulationReport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	refs, err := e.setup(ctx, cfg)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(e.now().UnixNano())
		slog.Debug("sim: no seed configured, derived from clock", "seed", seed)
	}

	started := e.now()
	results, err := e.runTrials(ctx, cfg, refs, seed)
	if err != nil {
		return nil, err
	}

	report := e.aggregate(cfg, refs, results)
	slog.Info("sim: run complete",
		"trials", cfg.NumSimulations,
		"trades", len(refs.Trades),
		"wallets", len(refs.FollowedWallets),
		"mean_pnl", fmt.Sprintf("$%.2f", report.MeanPnL),
		"took", e.now().Sub(started).Round(time.Millisecond),
	)
	return report, nil
}

// setup valida los collaborators y construye la cache read-only de referencia.
// Falla rápido con ErrInsufficientData si no hay wallets o trades en ventana.
func (e *Engine) setup(ctx context.Context, cfg domain.SimulationConfig) (*RefData, error) {
	wallets, err := e.ranker.ListFollowedWallets(ctx, cfg.FollowMetric, cfg.FollowLimit)
	if err != nil {
		return nil, fmt.Errorf("sim.setup: list wallets: %w", err)
	}
	if len(wallets) == 0 {
		return nil, fmt.Errorf("sim.setup: no followed wallets for metric %q: %w",
			cfg.FollowMetric, domain.ErrInsufficientData)
	}

	windowEnd := e.now().UTC()
	windowStart := windowEnd.Add(-cfg.LookbackWindow())

	trades, err := e.trades.TradesSince(ctx, windowStart, wallets)
	if err != nil {
		return nil, fmt.Errorf("sim.setup: load trades: %w", err)
	}
	if len(trades) == 0 {
		return nil, fmt.Errorf("sim.setup: no trades since %s: %w",
			windowStart.Format(time.RFC3339), domain.ErrInsufficientData)
	}

	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].Timestamp.Before(trades[j].Timestamp)
	})

	refs := &RefData{
		Trades:          trades,
		FollowedWallets: wallets,
		Markets:         make(map[string]domain.MarketSnapshot),
		Prices:          make(map[string]float64),
		Books:           make(map[string]domain.BookDepth),
		WalletNotional:  make(map[string]float64),
		WindowStart:     windowStart,
		WindowEnd:       windowEnd,
	}

	for _, t := range trades {
		refs.WalletNotional[t.Wallet] += t.Notional()
	}

	// Prefetch de metadata: una consulta por mercado referenciado. La metadata
	// ausente se tolera con defaults conservadores más adelante.
	missing := 0
	for _, t := range trades {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, seen := refs.Markets[t.ConditionID]; seen {
			continue
		}
		snap, err := e.markets.MarketSnapshot(ctx, t.ConditionID)
		if err != nil {
			missing++
			slog.Warn("sim: missing market metadata, using conservative defaults",
				"condition_id", t.ConditionID, "err", err)
			continue
		}
		refs.Markets[t.ConditionID] = snap
	}
	if missing > 0 {
		slog.Warn("sim: markets without metadata", "count", missing)
	}

	e.prefetchTicks(ctx, cfg, refs)

	slog.Info("sim: setup complete",
		"wallets", len(wallets),
		"trades", len(trades),
		"markets", len(refs.Markets),
		"prices", len(refs.Prices),
		"books", len(refs.Books),
	)
	return refs, nil
}

// prefetchTicks carga precio y profundidad históricos en la entrada media de
// cada trade. Los misses son esperados (tick data incompleta): el trial cae al
// drift / slippage sin book para esos trades.
func (e *Engine) prefetchTicks(ctx context.Context, cfg domain.SimulationConfig, refs *RefData) {
	if e.prices == nil {
		return
	}
	meanDelay := time.Duration(cfg.EntryDelaySec * float64(time.Second))

	for _, t := range refs.Trades {
		if ctx.Err() != nil {
			return
		}
		at := t.Timestamp.Add(meanDelay)

		if p, err := e.prices.PriceAtTime(ctx, t.TokenID, at); err == nil && p > 0 {
			refs.Prices[t.ID] = p
		} else if err != nil && !errors.Is(err, domain.ErrNoPrice) {
			slog.Debug("sim: price lookup failed", "token", t.TokenID, "err", err)
		}

		if !cfg.UseOrderbook {
			continue
		}
		if b, err := e.prices.BookAtOrBefore(ctx, t.TokenID, at); err == nil && b.Usable() {
			refs.Books[t.ID] = b
		} else if err != nil && !errors.Is(err, domain.ErrNoBook) {
			slog.Debug("sim: book lookup failed", "token", t.TokenID, "err", err)
		}
	}
}

// runTrials ejecuta numSimulations trials independientes en un worker pool.
// results[i] siempre corresponde al trial i: la agregación posterior es
// determinista sin importar el orden de terminación de los workers.
func (e *Engine) runTrials(ctx context.Context, cfg domain.SimulationConfig, refs *RefData, seed uint64) ([]domain.TrialResult, error) {
	workers := cfg.ParallelTrials
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > cfg.NumSimulations {
		workers = cfg.NumSimulations
	}

	results := make([]domain.TrialResult, cfg.NumSimulations)
	trialCh := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range trialCh {
				rng := rand.New(rand.NewPCG(seed, uint64(i)))
				results[i] = runTrial(cfg, refs, rng)
			}
		}()
	}

feed:
	for i := 0; i < cfg.NumSimulations; i++ {
		select {
		case trialCh <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(trialCh)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("sim.runTrials: cancelled: %w", err)
	}
	return results, nil
}

// aggregate funde los resultados en el report final. Estado terminal del run.
func (e *Engine) aggregate(cfg domain.SimulationConfig, refs *RefData, results []domain.TrialResult) *domain.SimulationReport {
	pnls := make([]float64, len(results))
	for i, r := range results {
		pnls[i] = r.PnL
	}

	mu := mean(pnls)
	sigma := stddev(pnls, mu)
	sharpe := 0.0
	if sigma > 0 {
		sharpe = mu / sigma
	}

	questions := make(map[string]string, len(refs.Markets))
	for id, m := range refs.Markets {
		questions[id] = m.Question
	}

	var audit []domain.SimulatedFill
	if cfg.MaxFillSamples > 0 && len(results) > 0 {
		audit = results[0].Fills
	}

	return &domain.SimulationReport{
		RunID:          uuid.New().String(),
		GeneratedAt:    e.now().UTC(),
		Config:         cfg,
		NumTrials:      len(results),
		Percentiles:    percentileLadder(pnls),
		MeanPnL:        mu,
		StdDev:         sigma,
		Sharpe:         sharpe,
		Daily:          aggregateDaily(results),
		TopMarkets:     topMarketPnL(results, cfg.TopMarkets, questions),
		Wallets:        refs.FollowedWallets,
		WindowStart:    refs.WindowStart,
		WindowEnd:      refs.WindowEnd,
		TradesPerTrial: len(refs.Trades),
		Disclaimer:     domain.Disclaimer,
		Audit:          audit,
	}
}
