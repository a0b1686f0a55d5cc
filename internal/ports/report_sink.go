package ports

import (
	"context"

	"github.com/alejandrodnm/copysim/internal/domain"
)

// ReportSink presenta el report final al usuario.
type ReportSink interface {
	// Publish muestra el report. En la implementación de consola imprime
	// la escalera de percentiles y los top mercados como tablas.
	Publish(ctx context.Context, report *domain.SimulationReport) error
}
