package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/alejandrodnm/copysim/internal/domain"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleSimulate atiende POST /api/v1/simulate. El body es una config
// parcial que se aplica sobre los defaults del servicio; los campos
// ausentes conservan su valor por defecto.
func (s *Server) handleSimulate(c *gin.Context) {
	cfg := s.defaults
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&cfg); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			})
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	report, err := s.sim.RunSimulation(ctx, cfg)
	if err != nil {
		s.writeSimError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// handleEstimate atiende GET /api/v1/estimate?bankroll=1000.
func (s *Server) handleEstimate(c *gin.Context) {
	raw := c.DefaultQuery("bankroll", strconv.FormatFloat(s.defaults.BankrollUSDC, 'f', -1, 64))
	bankroll, err := strconv.ParseFloat(raw, 64)
	if err != nil || bankroll <= 0 {
		c.JSON(http.StatusBadRequest, errorResponse{
			Code:    "INVALID_BANKROLL",
			Message: "bankroll must be a positive number",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	est, err := s.sim.QuickEstimate(ctx, bankroll, s.defaults)
	if err != nil {
		s.writeSimError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"bankroll": bankroll,
		"low":      est.Low,
		"mid":      est.Mid,
		"high":     est.High,
	})
}

// writeSimError traduce la taxonomía de errores del dominio a HTTP.
func (s *Server) writeSimError(c *gin.Context, err error) {
	var cfgErr *domain.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		c.JSON(http.StatusBadRequest, errorResponse{
			Code:    "INVALID_CONFIG",
			Message: cfgErr.Error(),
		})
	case errors.Is(err, domain.ErrInsufficientData):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{
			Code:    "INSUFFICIENT_DATA",
			Message: err.Error(),
		})
	default:
		s.log.Error("simulation failed", "err", err)
		c.JSON(http.StatusInternalServerError, errorResponse{
			Code:    "SIMULATION_ERROR",
			Message: err.Error(),
		})
	}
}
