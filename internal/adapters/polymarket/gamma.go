package polymarket

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alejandrodnm/copysim/internal/domain"
)

const (
	gammaMarketsPath  = "/markets"
	gammaConditionMax = 20 // máx condition_ids por request
)

// FetchMarketMeta obtiene la metadata de Gamma para los mercados dados y la
// devuelve como snapshots indexados por conditionID. Los mercados que Gamma
// no conoce simplemente no aparecen en el mapa.
func (c *Client) FetchMarketMeta(ctx context.Context, conditionIDs []string) (map[string]domain.MarketSnapshot, error) {
	out := make(map[string]domain.MarketSnapshot, len(conditionIDs))

	for start := 0; start < len(conditionIDs); start += gammaConditionMax {
		end := min(start+gammaConditionMax, len(conditionIDs))
		batch := conditionIDs[start:end]

		url := fmt.Sprintf("%s%s?condition_ids=%s&limit=%d",
			c.gammaBase, gammaMarketsPath, strings.Join(batch, ","), len(batch))

		var resp []gammaMarket
		if err := c.get(ctx, c.gammaLimiter, url, &resp); err != nil {
			return nil, fmt.Errorf("gamma.FetchMarketMeta: %w", err)
		}

		for _, gm := range resp {
			snap := mapGammaMarket(gm)
			if snap.ConditionID != "" {
				out[snap.ConditionID] = snap
			}
		}
	}

	slog.Debug("gamma metadata fetched", "requested", len(conditionIDs), "found", len(out))
	return out, nil
}
