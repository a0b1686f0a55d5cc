package polymarket

// clob.go — tick data del CLOB: historia de precios y snapshot del book.
// Ambos alimentan las tablas price_points y book_depth del archivo; la
// simulación los consume desde ahí, nunca directamente de aquí.

import (
	"context"
	"fmt"
	"time"

	"github.com/alejandrodnm/copysim/internal/domain"
)

const (
	pricesHistoryPath = "/prices-history"
	bookPath          = "/book"

	// Fidelidad de la historia de precios en minutos.
	priceFidelityMin = 10
)

// FetchPriceHistory devuelve los puntos de precio de un token en el rango dado.
func (c *Client) FetchPriceHistory(ctx context.Context, tokenID string, start, end time.Time) (map[time.Time]float64, error) {
	url := fmt.Sprintf("%s%s?market=%s&startTs=%d&endTs=%d&fidelity=%d",
		c.clobBase, pricesHistoryPath, tokenID, start.Unix(), end.Unix(), priceFidelityMin)

	var resp priceHistoryResponse
	if err := c.get(ctx, c.clobLimiter, url, &resp); err != nil {
		return nil, fmt.Errorf("clob.FetchPriceHistory: %w", err)
	}

	points := make(map[time.Time]float64, len(resp.History))
	for _, p := range resp.History {
		price, err := p.Price.Float64()
		if err != nil || price <= 0 {
			continue
		}
		points[time.Unix(p.Timestamp, 0).UTC()] = price
	}
	return points, nil
}

// FetchBookDepth obtiene el book actual de un token reducido al contexto de
// liquidez que usa el modelo de fills.
func (c *Client) FetchBookDepth(ctx context.Context, tokenID string) (domain.BookDepth, error) {
	url := fmt.Sprintf("%s%s?token_id=%s", c.clobBase, bookPath, tokenID)

	var resp bookResponse
	if err := c.get(ctx, c.clobLimiter, url, &resp); err != nil {
		return domain.BookDepth{}, fmt.Errorf("clob.FetchBookDepth: %w", err)
	}

	depth := reduceBook(resp)
	depth.TokenID = tokenID
	depth.Timestamp = time.Now().UTC()
	return depth, nil
}
