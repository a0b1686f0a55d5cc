package sim

// sizing.go — convierte el trade de un trader copiado en el tamaño de nuestra
// posición simulada, acotado por la exposición máxima por mercado.

import (
	"math"

	"github.com/alejandrodnm/copysim/internal/domain"
)

// Fracción del bankroll que representa un slice "equal" y sus cotas.
const (
	equalSliceFrac   = 0.05
	minSliceUSDC     = 1.0
	maxSliceFraction = 0.10 // ningún trade individual supera el 10% del bankroll
)

// sizer calcula tamaños de posición durante un trial. Mantiene la exposición
// acumulada por mercado; se crea al inicio del trial y se descarta al final.
type sizer struct {
	cfg            domain.SimulationConfig
	walletNotional map[string]float64 // notional total por wallet en la ventana
	walletAlloc    float64            // bankroll asignado a cada wallet seguida
	exposure       map[string]float64 // conditionID → USDC comprometidos
}

func newSizer(cfg domain.SimulationConfig, refs *RefData) *sizer {
	alloc := 0.0
	if n := len(refs.FollowedWallets); n > 0 {
		alloc = cfg.BankrollUSDC / float64(n)
	}
	return &sizer{
		cfg:            cfg,
		walletNotional: refs.WalletNotional,
		walletAlloc:    alloc,
		exposure:       make(map[string]float64),
	}
}

// positionSize devuelve el notional USDC a intentar para un trade, ya recortado
// al headroom de exposición del mercado. Devuelve 0 si el trade se salta
// (por debajo del mínimo o sin headroom): no se registran fills de tamaño cero.
func (s *sizer) positionSize(t domain.Trade) float64 {
	var size float64

	switch s.cfg.SizingRule {
	case domain.SizingProportional:
		total := s.walletNotional[t.Wallet]
		if total <= 0 {
			return 0
		}
		size = s.walletAlloc * (t.Notional() / total)
	default: // equal
		size = s.cfg.BankrollUSDC * equalSliceFrac
	}

	// Cotas por trade: nunca menos del slice mínimo ni más del 10% del bankroll.
	size = math.Max(size, minSliceUSDC)
	size = math.Min(size, s.cfg.BankrollUSDC*maxSliceFraction)

	// Recorte al headroom de exposición del mercado.
	limit := s.cfg.BankrollUSDC * s.cfg.MaxExposurePct
	headroom := limit - s.exposure[t.ConditionID]
	if headroom <= 0 {
		return 0
	}
	size = math.Min(size, headroom)

	if size < s.cfg.MinTradeUSDC {
		return 0
	}
	return size
}

// commit registra notional comprometido en un mercado tras un BUY.
func (s *sizer) commit(conditionID string, notionalUSD float64) {
	s.exposure[conditionID] += notionalUSD
}

// release libera exposición tras un SELL. Floor a cero: vender más de lo
// registrado no genera headroom fantasma.
func (s *sizer) release(conditionID string, notionalUSD float64) {
	s.exposure[conditionID] -= notionalUSD
	if s.exposure[conditionID] < 0 {
		s.exposure[conditionID] = 0
	}
}
