package domain

import (
	"errors"
	"fmt"
)

// Taxonomía de errores del engine. El engine nunca sustituye un cómputo
// fallido por números sintéticos: o devuelve un report real o uno de estos.
var (
	// ErrInsufficientData: sin wallets seguidas o sin trades en la ventana.
	// El run completo falla; jamás se devuelven ceros disfrazados de resultado.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrNoPrice / ErrNoBook: miss de una fuente opcional. No abortan el run;
	// el engine cae al modelo de drift / slippage sin book.
	ErrNoPrice = errors.New("no price at time")
	ErrNoBook  = errors.New("no book snapshot")
)

// ConfigError es un valor numérico fuera de rango en SimulationConfig.
// Se rechaza antes de cualquier cómputo; nunca hay runs parciales.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}
