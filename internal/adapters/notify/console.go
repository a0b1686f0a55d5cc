package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alejandrodnm/copysim/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Console implementa ports.ReportSink escribiendo a stdout.
type Console struct {
	out  io.Writer
	json bool
}

// NewConsole crea un sink de consola. Con asJSON imprime el report como JSON
// indentado en lugar de tablas.
func NewConsole(asJSON bool) *Console {
	return &Console{out: os.Stdout, json: asJSON}
}

// NewConsoleWriter crea un sink para tests.
func NewConsoleWriter(w io.Writer, asJSON bool) *Console {
	return &Console{out: w, json: asJSON}
}

// Publish imprime el report en el modo configurado.
func (c *Console) Publish(_ context.Context, report *domain.SimulationReport) error {
	if c.json {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	c.printHeader(report)
	c.printLadder(report)
	c.printTopMarkets(report)
	c.printFooter(report)
	return nil
}

func (c *Console) printHeader(r *domain.SimulationReport) {
	fmt.Fprintf(c.out, "\n=== COPY-TRADING SIMULATION — %d trials, %d trades, %d wallets ===\n",
		r.NumTrials, r.TradesPerTrial, len(r.Wallets))
	fmt.Fprintf(c.out, "Window: %s → %s | bankroll $%.2f | sizing %s | run %s\n",
		r.WindowStart.Format("2006-01-02"), r.WindowEnd.Format("2006-01-02"),
		r.Config.BankrollUSDC, r.Config.SizingRule, r.RunID)
}

// printLadder imprime la escalera de percentiles con la media y el riesgo.
func (c *Console) printLadder(r *domain.SimulationReport) {
	table := tablewriter.NewWriter(c.out)
	table.Header("p5", "p25", "median", "p75", "p95", "mean", "stddev", "sharpe")
	table.Append(
		usd(r.Percentiles.P5),
		usd(r.Percentiles.P25),
		usd(r.Percentiles.Median),
		usd(r.Percentiles.P75),
		usd(r.Percentiles.P95),
		usd(r.MeanPnL),
		usd(r.StdDev),
		fmt.Sprintf("%.2f", r.Sharpe),
	)
	table.Render()
}

// printTopMarkets imprime los mercados que más mueven el resultado.
func (c *Console) printTopMarkets(r *domain.SimulationReport) {
	if len(r.TopMarkets) == 0 {
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Market", "Mean PnL", "Worst")

	for i, m := range r.TopMarkets {
		table.Append(
			fmt.Sprintf("%d", i+1),
			marketLabel(m),
			usd(m.MeanPnL),
			usd(m.WorstPnL),
		)
	}
	table.Render()
}

func (c *Console) printFooter(r *domain.SimulationReport) {
	if n := len(r.Daily); n > 0 {
		first, last := r.Daily[0], r.Daily[n-1]
		fmt.Fprintf(c.out, "  Daily breakdown: %d days, %s (%s) ... %s (%s)\n",
			n, first.Date, usd(first.MeanPnL), last.Date, usd(last.MeanPnL))
	}
	fmt.Fprintf(c.out, "  Followed: %s\n", strings.Join(shorten(r.Wallets), ", "))
	fmt.Fprintf(c.out, "\n  %s\n\n", r.Disclaimer)
}

// PrintEstimate imprime el quick estimate en una línea.
func (c *Console) PrintEstimate(est domain.Estimate, bankroll float64) {
	if c.json {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		_ = enc.Encode(est)
		return
	}
	fmt.Fprintf(c.out, "[%s] quick estimate for $%.2f: low %s | mid %s | high %s\n",
		time.Now().Format("15:04:05"), bankroll, usd(est.Low), usd(est.Mid), usd(est.High))
}

func usd(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func marketLabel(m domain.MarketPnL) string {
	q := m.Question
	if q == "" {
		q = m.ConditionID
	}
	if len(q) > 42 {
		q = q[:39] + "..."
	}
	return q
}

func shorten(wallets []string) []string {
	out := make([]string, len(wallets))
	for i, w := range wallets {
		if len(w) > 10 {
			out[i] = w[:10] + "..."
		} else {
			out[i] = w
		}
	}
	return out
}
