package sim

// portfolio.go — contabilidad de posiciones con lot-averaging.
//
// Estrategia de PnL elegida: tracking de posiciones con precio medio ponderado
// por volumen. Los SELL realizan (fill − avg) × qty contra el lote abierto;
// las posiciones residuales se marcan a mercado al cierre del trial. El
// cash-flow simple (ventas − compras) queda relegado al quick estimate.

// positionKey identifica una posición: par (mercado, outcome).
type positionKey struct {
	ConditionID string
	Outcome     string
}

// position es un lote abierto. Size en shares, AvgPrice ponderado por volumen.
type position struct {
	Size     float64
	AvgPrice float64
}

// portfolio es el estado de cartera de UN trial. Se crea al arrancar el trial
// y se descarta al terminar; nunca se persiste ni se comparte.
type portfolio struct {
	cash      float64
	positions map[positionKey]position
}

func newPortfolio(bankrollUSD float64) *portfolio {
	return &portfolio{
		cash:      bankrollUSD,
		positions: make(map[positionKey]position),
	}
}

// buy añade shares a la posición. El precio medio solo se recalcula aquí,
// al añadir en la misma dirección: media ponderada del lote viejo y el nuevo.
func (p *portfolio) buy(key positionKey, shares, price float64) {
	if shares <= 0 {
		return
	}
	pos := p.positions[key]
	newSize := pos.Size + shares
	pos.AvgPrice = (pos.AvgPrice*pos.Size + price*shares) / newSize
	pos.Size = newSize
	p.positions[key] = pos
	p.cash -= shares * price
}

// sell liquida hasta `shares` de la posición, recortando al tamaño en cartera:
// sin posiciones cortas, el size nunca queda negativo. Devuelve las shares
// vendidas y el PnL realizado contra el precio medio del lote.
func (p *portfolio) sell(key positionKey, shares, price float64) (sold, realized float64) {
	pos, ok := p.positions[key]
	if !ok || pos.Size <= 0 || shares <= 0 {
		return 0, 0
	}
	sold = min(shares, pos.Size)
	realized = (price - pos.AvgPrice) * sold

	pos.Size -= sold
	if pos.Size <= 0 {
		delete(p.positions, key)
	} else {
		p.positions[key] = pos
	}
	p.cash += sold * price
	return sold, realized
}

// markToMarket cierra el trial: valora cada posición residual al precio de
// salida del mercado (1.0/0.0 si resuelto, último precio si no) y devuelve el
// PnL no realizado por mercado.
func (p *portfolio) markToMarket(exitPrice func(conditionID, outcome string) float64) map[string]float64 {
	unrealized := make(map[string]float64, len(p.positions))
	for key, pos := range p.positions {
		exit := exitPrice(key.ConditionID, key.Outcome)
		unrealized[key.ConditionID] += (exit - pos.AvgPrice) * pos.Size
	}
	return unrealized
}
