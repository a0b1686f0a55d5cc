package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/copysim/config"
	"github.com/alejandrodnm/copysim/internal/adapters/polymarket"
	"github.com/alejandrodnm/copysim/internal/adapters/storage"
	"github.com/alejandrodnm/copysim/internal/domain"
)

// runIngest descarga el leaderboard, los trades de cada wallet dentro de la
// ventana, la metadata de los mercados tocados y — si la simulación va a usar
// orderbook — precios históricos y profundidad por token. Todo acaba en SQLite
// para que las corridas posteriores no toquen la red.
func runIngest(ctx context.Context, cfg *config.Config, client *polymarket.Client, store *storage.SQLiteArchive) error {
	simCfg := cfg.Simulation
	windowStart := time.Now().UTC().Add(-simCfg.LookbackWindow())

	wallets, err := client.FetchLeaderboard(ctx,
		leaderboardWindow(simCfg.LookbackDays),
		leaderboardRankType(simCfg.FollowMetric),
		simCfg.FollowLimit,
	)
	if err != nil {
		return fmt.Errorf("runIngest: leaderboard: %w", err)
	}
	if len(wallets) == 0 {
		return fmt.Errorf("runIngest: leaderboard returned no wallets")
	}

	conditionIDs := make(map[string]struct{})
	tokenIDs := make(map[string]struct{})

	for _, w := range wallets {
		trades, err := client.FetchUserTrades(ctx, w, windowStart)
		if err != nil {
			// una wallet caída no tira todo el ingest
			slog.Warn("skipping wallet", "wallet", w, "err", err)
			continue
		}
		if err := store.SaveTrades(ctx, trades); err != nil {
			return fmt.Errorf("runIngest: save trades: %w", err)
		}
		for _, t := range trades {
			conditionIDs[t.ConditionID] = struct{}{}
			if t.TokenID != "" {
				tokenIDs[t.TokenID] = struct{}{}
			}
		}
		slog.Info("wallet ingested", "wallet", w, "trades", len(trades))
	}

	if err := ingestMarkets(ctx, client, store, keys(conditionIDs)); err != nil {
		return err
	}

	if simCfg.UseOrderbook {
		ingestTicks(ctx, client, store, keys(tokenIDs), windowStart)
	}

	slog.Info("ingest complete",
		"wallets", len(wallets),
		"markets", len(conditionIDs),
		"tokens", len(tokenIDs),
	)
	return nil
}

func ingestMarkets(ctx context.Context, client *polymarket.Client, store *storage.SQLiteArchive, conditionIDs []string) error {
	if len(conditionIDs) == 0 {
		return nil
	}
	metas, err := client.FetchMarketMeta(ctx, conditionIDs)
	if err != nil {
		return fmt.Errorf("runIngest: market meta: %w", err)
	}
	for _, m := range metas {
		if err := store.SaveMarket(ctx, m); err != nil {
			return fmt.Errorf("runIngest: save market: %w", err)
		}
	}
	slog.Info("markets ingested", "requested", len(conditionIDs), "resolved", len(metas))
	return nil
}

// ingestTicks es best-effort: los tokens sin historial o sin book se toleran,
// el fill model tiene fallbacks para ambos.
func ingestTicks(ctx context.Context, client *polymarket.Client, store *storage.SQLiteArchive, tokenIDs []string, windowStart time.Time) {
	now := time.Now().UTC()
	for _, tok := range tokenIDs {
		if ctx.Err() != nil {
			return
		}

		points, err := client.FetchPriceHistory(ctx, tok, windowStart, now)
		if err != nil {
			slog.Debug("no price history", "token", tok, "err", err)
		} else if err := store.SavePricePoints(ctx, tok, points); err != nil {
			slog.Warn("failed to save price points", "token", tok, "err", err)
		}

		book, err := client.FetchBookDepth(ctx, tok)
		if err != nil {
			slog.Debug("no book", "token", tok, "err", err)
			continue
		}
		if err := store.SaveBookDepth(ctx, book); err != nil {
			slog.Warn("failed to save book", "token", tok, "err", err)
		}
	}
}

// leaderboardWindow mapea el lookback a las ventanas que expone la Data API.
func leaderboardWindow(lookbackDays int) string {
	switch {
	case lookbackDays <= 1:
		return "1d"
	case lookbackDays <= 7:
		return "7d"
	case lookbackDays <= 30:
		return "30d"
	default:
		return "all"
	}
}

// leaderboardRankType traduce el follow metric al rankType del leaderboard.
// El leaderboard público solo rankea por profit o volumen; roi se aproxima
// con profit y el ranking fino lo hace luego el storage local.
func leaderboardRankType(metric string) string {
	if metric == domain.MetricVolume {
		return "volume"
	}
	return "profit"
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
