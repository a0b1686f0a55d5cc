package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/copysim/config"
	"github.com/alejandrodnm/copysim/internal/adapters/notify"
	"github.com/alejandrodnm/copysim/internal/adapters/polymarket"
	"github.com/alejandrodnm/copysim/internal/adapters/storage"
	"github.com/alejandrodnm/copysim/internal/sim"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	ingest := flag.Bool("ingest", false, "pull reference data from Polymarket into local storage and exit")
	serve := flag.Bool("serve", false, "start the HTTP API server")
	estimate := flag.Bool("estimate", false, "print a quick estimate instead of running the full simulation")
	bankroll := flag.Float64("bankroll", 0, "bankroll in USDC (overrides config)")
	trials := flag.Int("trials", 0, "number of Monte Carlo trials (overrides config)")
	seed := flag.Uint64("seed", 0, "RNG seed, 0 = derive from clock")
	asJSON := flag.Bool("json", false, "emit the report as JSON instead of tables")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	if *bankroll > 0 {
		cfg.Simulation.BankrollUSDC = *bankroll
	}
	if *trials > 0 {
		cfg.Simulation.NumSimulations = *trials
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}

	slog.Info("copysim starting",
		"config", *configPath,
		"dsn", cfg.Storage.DSN,
		"ingest", *ingest,
		"serve", *serve,
	)

	store, err := storage.NewSQLiteArchive(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *ingest {
		client := polymarket.NewClient(cfg.API.DataBase, cfg.API.GammaBase, cfg.API.CLOBBase)
		if err := runIngest(ctx, cfg, client, store); err != nil {
			slog.Error("ingest failed", "err", err)
			os.Exit(1)
		}
		return
	}

	engine := sim.New(store, store, store, store)

	if *serve {
		if err := runServe(ctx, cfg, engine); err != nil {
			slog.Error("server exited with error", "err", err)
			os.Exit(1)
		}
		return
	}

	sink := notify.NewConsole(*asJSON)

	if *estimate {
		est, err := engine.QuickEstimate(ctx, cfg.Simulation.BankrollUSDC, cfg.Simulation)
		if err != nil {
			slog.Error("estimate failed", "err", err)
			os.Exit(1)
		}
		sink.PrintEstimate(est, cfg.Simulation.BankrollUSDC)
		return
	}

	report, err := engine.RunSimulation(ctx, cfg.Simulation)
	if err != nil {
		slog.Error("simulation failed", "err", err)
		os.Exit(1)
	}

	if err := sink.Publish(ctx, report); err != nil {
		slog.Error("failed to print report", "err", err)
		os.Exit(1)
	}
	slog.Info("simulation complete", "run_id", report.RunID, "trials", report.NumTrials)
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
