package sim

// refdata.go — cache read-only construida UNA vez antes del loop de trials.
// El loop caliente es cómputo puro: cero I/O, cero locks.

import (
	"time"

	"github.com/alejandrodnm/copysim/internal/domain"
)

// RefData es toda la información de referencia que un trial necesita.
// Inmutable una vez construida; se comparte entre trials sin sincronización.
type RefData struct {
	Trades          []domain.Trade                   // ordenados cronológicamente
	FollowedWallets []string                         // wallets seguidas, orden del ranking
	Markets         map[string]domain.MarketSnapshot // conditionID → snapshot
	Prices          map[string]float64               // tradeID → precio histórico en la entrada media
	Books           map[string]domain.BookDepth      // tradeID → profundidad en la entrada media
	WalletNotional  map[string]float64               // wallet → notional total en ventana
	WindowStart     time.Time
	WindowEnd       time.Time
}

// snapshotFor devuelve el snapshot del mercado o el default conservador si la
// metadata faltó en el prefetch (volumen asumido, mid 0.5).
func (r *RefData) snapshotFor(conditionID string, assumedVolume float64) domain.MarketSnapshot {
	if m, ok := r.Markets[conditionID]; ok {
		return m
	}
	return domain.MarketSnapshot{
		ConditionID:  conditionID,
		DailyVolume:  assumedVolume,
		LastYesPrice: 0.5,
	}
}

// bookFor devuelve el snapshot de book prefetcheado para un trade, o nil.
func (r *RefData) bookFor(tradeID string) *domain.BookDepth {
	if b, ok := r.Books[tradeID]; ok && b.Usable() {
		return &b
	}
	return nil
}
