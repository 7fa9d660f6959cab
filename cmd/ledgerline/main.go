package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	corecfg "github.com/aevon-lab/ledgerline/internal/core/config"
	"github.com/aevon-lab/ledgerline/internal/core/facts"
	"github.com/aevon-lab/ledgerline/internal/core/normalize"
	"github.com/aevon-lab/ledgerline/internal/core/overrides"
	"github.com/aevon-lab/ledgerline/internal/core/storage/postgres"
	"github.com/aevon-lab/ledgerline/internal/core/taxonomy"
	"github.com/aevon-lab/ledgerline/internal/ingestion"
	"github.com/aevon-lab/ledgerline/internal/metrics"
	"github.com/aevon-lab/ledgerline/internal/migrations"
	"github.com/aevon-lab/ledgerline/internal/projection"
	"github.com/aevon-lab/ledgerline/internal/reconciliation"
	"github.com/aevon-lab/ledgerline/internal/server"
)

func main() {
	configPath := flag.String("config", "ledgerline.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config",
		"server", cfg.Server,
		"override_rules", cfg.RuleLoading.OverrideRules.Count(),
		"rule_set_id", cfg.Reconciliation.RuleSetID,
	)

	dqCfg, err := cfg.DQ.EngineConfig()
	if err != nil {
		slog.Error("Invalid dq config", "error", err)
		os.Exit(1)
	}
	engineCfg, err := cfg.Reconciliation.EngineConfig("")
	if err != nil {
		slog.Error("Invalid reconciliation config", "error", err)
		os.Exit(1)
	}
	profile, err := cfg.Materiality.Profile()
	if err != nil {
		slog.Error("Invalid materiality config", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Storage (PostgreSQL)
	db, err := postgres.Open(cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	// 2.1. Run Database Migrations
	if err := migrations.RunMigrations(db, cfg.Database.AutoMigrate); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		db.Close()
		os.Exit(1)
	}

	dbAdapter, err := postgres.NewAdapter(db)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		db.Close()
		os.Exit(1)
	}
	defer dbAdapter.Close()

	// 3. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// 4. Initialize Ingestion (normalize -> facts -> DQ -> persist)
	normalizer := normalize.NewNormalizer(taxonomy.NewGAAPTaxonomy(), overrides.NewEngine())
	ingestionSvc := ingestion.NewService(
		normalizer,
		cfg.RuleLoading.OverrideRules,
		ingestion.Stores{Versions: dbAdapter, Facts: dbAdapter, Writer: dbAdapter},
		facts.NewDQEngine(dqCfg),
		ingestion.Options{
			Derivation:    cfg.Facts,
			HistoryLimit:  cfg.DQ.HistoryLimit,
			MaxBodySizeMB: cfg.Server.MaxBodySizeMB,
		},
		m,
	)

	// 5. Initialize Reconciliation (on-demand runs + background sweep)
	reconciliationSvc := reconciliation.NewService(
		cfg.RuleLoading.RuleSets,
		reconciliation.Stores{Versions: dbAdapter, Facts: dbAdapter, Ledger: dbAdapter},
		reconciliation.Options{DefaultRuleSetID: cfg.Reconciliation.RuleSetID, Engine: engineCfg},
		m,
	)
	sweep := reconciliation.NewSweep(reconciliationSvc, reconciliation.SweepOptions{
		Interval:    cfg.Reconciliation.SweepIntervalDuration(),
		BatchSize:   cfg.Reconciliation.BatchSize,
		WorkerCount: cfg.Reconciliation.WorkerCount,
		RuleSetID:   cfg.Reconciliation.RuleSetID,
	})

	// 6. Initialize Projection (query API)
	projectionSvc := projection.NewService(
		projection.Stores{Versions: dbAdapter, Facts: dbAdapter, DQ: dbAdapter, Ledger: dbAdapter},
		cfg.RuleLoading.OverrideRules,
		profile,
		cfg.Reconciliation.ResultLimit,
	)

	// 7. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), dbAdapter, server.Options{
		Mode:           cfg.Server.Mode,
		Gatherer:       registry,
		Metrics:        m,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
	})
	ingestionSvc.RegisterRoutes(srv.Engine)
	reconciliationSvc.RegisterRoutes(srv.Engine)
	projectionSvc.RegisterRoutes(srv.Engine)

	// 8. Start Services
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Overrides.Watch {
		if err := cfg.RuleLoading.OverrideRules.Watch(ctx); err != nil {
			slog.Error("Failed to watch override rules", "dir", cfg.Overrides.RulesDir, "error", err)
			os.Exit(1)
		}
		slog.Info("Watching override rules", "dir", cfg.Overrides.RulesDir)
	}

	sweepDone := make(chan struct{})
	if cfg.Reconciliation.SweepEnabled {
		go func() {
			defer close(sweepDone)
			if err := sweep.Start(ctx); err != nil {
				slog.Error("Sweep stopped with error", "error", err)
			}
		}()
	} else {
		close(sweepDone)
		slog.Info("Reconciliation sweep disabled by config")
	}

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
		stop()
	}

	<-sweepDone
	slog.Info("Shutdown complete")
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
