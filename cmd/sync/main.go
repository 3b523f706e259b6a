package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"ynab-privacy-sync/internal/config"
	"ynab-privacy-sync/internal/observability"
	"ynab-privacy-sync/internal/privacy"
	"ynab-privacy-sync/internal/reconcile"
	"ynab-privacy-sync/internal/ynab"
)

func main() {
	var (
		configFile = flag.String("config", "", "Configuration file path")
		dryRun     = flag.Bool("dry-run", false, "Preview memo updates without applying")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	cfg := loadConfig(*configFile)
	if *verbose {
		cfg.Observability.Logging.Level = "debug"
	}

	logger := observability.NewLogger(cfg.Observability.Logging)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ledger := ynab.NewClient(ynab.Config{
		BaseURL:  cfg.YNAB.BaseURL,
		Token:    cfg.YNAB.Token,
		BudgetID: cfg.YNAB.BudgetID,
	}, logger)

	issuer := privacy.NewClient(privacy.Config{
		BaseURL:  cfg.Privacy.BaseURL,
		Token:    cfg.Privacy.Token,
		PageSize: cfg.Privacy.PageSize,
	}, logger)

	reconciler := reconcile.New(ledger, issuer, logger)

	result, err := reconciler.Run(context.Background(), reconcile.Options{
		Descriptor: cfg.Privacy.Descriptor,
		DryRun:     *dryRun,
	})
	if err != nil {
		logger.Error("reconciliation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("reconciliation complete",
		slog.Int("candidates", result.CandidateCount),
		slog.Int("updated", result.UpdatedCount),
		slog.Int("unmatched", result.UnmatchedCount),
		slog.Int("errors", result.ErrorCount),
	)
}

func loadConfig(configFile string) *config.Config {
	if configFile == "" {
		return config.LoadOrEnv()
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		slog.Error("failed to load config", slog.String("file", configFile), slog.String("error", err.Error()))
		os.Exit(1)
	}
	return cfg
}
