// Package api expone el motor de simulación por HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/alejandrodnm/copysim/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// Simulator es lo que el servidor necesita del motor. Lo satisface
// *sim.Engine; los tests lo sustituyen por un stub.
type Simulator interface {
	RunSimulation(ctx context.Context, cfg domain.SimulationConfig) (*domain.SimulationReport, error)
	QuickEstimate(ctx context.Context, bankrollUSD float64, cfg domain.SimulationConfig) (domain.Estimate, error)
}

// Server agrupa el motor con la config por defecto del servicio.
type Server struct {
	sim      Simulator
	defaults domain.SimulationConfig
	timeout  time.Duration
	log      *slog.Logger
}

// NewServer crea el servidor HTTP. Un timeout <= 0 usa 60s.
func NewServer(sim Simulator, defaults domain.SimulationConfig, timeout time.Duration, log *slog.Logger) *Server {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{sim: sim, defaults: defaults, timeout: timeout, log: log}
}

// Router monta las rutas y el middleware.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	router.GET("/health", s.handleHealth)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/simulate", s.handleSimulate)
		v1.GET("/estimate", s.handleEstimate)
	}
	return router
}

// corsMiddleware adapta rs/cors al pipeline de gin.
func corsMiddleware() gin.HandlerFunc {
	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return func(ctx *gin.Context) {
		c.HandlerFunc(ctx.Writer, ctx.Request)
		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}
		ctx.Next()
	}
}
