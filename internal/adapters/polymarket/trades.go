package polymarket

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/copysim/internal/domain"
)

const (
	tradesPerPage    = 500
	tradesMaxPages   = 10
	leaderboardPath  = "/leaderboard"
	userTradesPath   = "/trades"
)

// FetchLeaderboard devuelve las wallets top del leaderboard público de la
// Data API, ya rankeadas por la ventana y métrica pedidas.
func (c *Client) FetchLeaderboard(ctx context.Context, window, rankType string, limit int) ([]string, error) {
	url := fmt.Sprintf("%s%s?window=%s&rankType=%s&limit=%d",
		c.dataBase, leaderboardPath, window, rankType, limit)

	var resp []rawLeaderboardEntry
	if err := c.get(ctx, c.dataLimiter, url, &resp); err != nil {
		return nil, fmt.Errorf("data-api.FetchLeaderboard: %w", err)
	}

	wallets := make([]string, 0, len(resp))
	for _, e := range resp {
		if e.ProxyWallet != "" {
			wallets = append(wallets, e.ProxyWallet)
		}
	}
	slog.Info("leaderboard fetched", "window", window, "rank_type", rankType, "wallets", len(wallets))
	return wallets, nil
}

// FetchUserTrades obtiene el historial de trades de una wallet desde `since`.
// Pagina hasta agotar resultados o salir de la ventana; la API devuelve los
// trades más recientes primero.
func (c *Client) FetchUserTrades(ctx context.Context, wallet string, since time.Time) ([]domain.Trade, error) {
	var all []domain.Trade

	for page := 0; page < tradesMaxPages; page++ {
		offset := page * tradesPerPage
		url := fmt.Sprintf("%s%s?user=%s&limit=%d&offset=%d",
			c.dataBase, userTradesPath, wallet, tradesPerPage, offset)

		var resp []rawUserTrade
		if err := c.get(ctx, c.dataLimiter, url, &resp); err != nil {
			return nil, fmt.Errorf("data-api.FetchUserTrades: %w", err)
		}

		if len(resp) == 0 {
			break
		}

		pastWindow := false
		for _, rt := range resp {
			t := mapUserTrade(rt)
			if t.Timestamp.Before(since) {
				pastWindow = true
				continue
			}
			all = append(all, t)
		}

		slog.Debug("fetched user trades page",
			"wallet", wallet[:min(10, len(wallet))]+"...",
			"page", page,
			"count", len(resp),
			"total", len(all),
		)

		if pastWindow || len(resp) < tradesPerPage {
			break
		}
	}

	return all, nil
}
