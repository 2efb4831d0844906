// Command processor runs the news intelligence pipeline: it enriches,
// deduplicates, and clusters raw crypto-news batches and maintains
// per-source reliability scores. Batches arrive as JSON drop files,
// either one-shot (-once -input) or via a watched drop directory.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonesrussell/newsintel/internal/cluster"
	"github.com/jonesrussell/newsintel/internal/config"
	"github.com/jonesrussell/newsintel/internal/enrich"
	"github.com/jonesrussell/newsintel/internal/ingest"
	"github.com/jonesrussell/newsintel/internal/logger"
	"github.com/jonesrussell/newsintel/internal/metrics"
	"github.com/jonesrussell/newsintel/internal/pipeline"
	"github.com/jonesrussell/newsintel/internal/storage"
)

const metricsShutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "processor: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", config.GetConfigPath("config.yml"), "path to YAML config file")
		once       = flag.Bool("once", false, "process a single drop file and exit")
		input      = flag.String("input", "", "drop file to process with -once")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	log.Info("starting processor",
		logger.String("service", cfg.Service.Name),
		logger.String("version", cfg.Service.Version),
		logger.String("db", cfg.Storage.Path),
	)

	db, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	proc := pipeline.NewProcessor(
		enrich.NewEnricher(enrich.DefaultLexicon(), log),
		cluster.NewClusterer(clusterConfig(cfg), log),
		db,
		metrics.New(prometheus.DefaultRegisterer),
		log,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *once {
		if *input == "" {
			return errors.New("-once requires -input")
		}
		return runOnce(ctx, proc, *input, log)
	}

	if cfg.Metrics.Enabled {
		startMetricsServer(ctx, cfg.Metrics.Addr, log)
	}

	return runWatch(ctx, proc, cfg, log)
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	// A missing default config file is fine; an explicit one must exist.
	if os.IsNotExist(errors.Unwrap(err)) && path == config.GetConfigPath("config.yml") {
		return config.Load("")
	}
	return nil, err
}

func runOnce(ctx context.Context, proc *pipeline.Processor, path string, log logger.Logger) error {
	batch, err := ingest.ReadBatch(path, log)
	if err != nil {
		return err
	}

	result, err := proc.Run(ctx, batch.Items, batch.MarketContext)
	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	log.Info("one-shot run finished",
		logger.String("run_id", result.Clusters.RunID),
		logger.Int("articles", len(result.Articles)),
		logger.Int("clusters", result.Clusters.Stats.TotalClusters),
	)
	return nil
}

func runWatch(ctx context.Context, proc *pipeline.Processor, cfg *config.Config, log logger.Logger) error {
	watcher := ingest.NewWatcher(
		cfg.Ingest.DropDir,
		cfg.Ingest.MaxRunsPerMinute,
		func(ctx context.Context, batch *ingest.Batch) error {
			_, err := proc.Run(ctx, batch.Items, batch.MarketContext)
			return err
		},
		log,
	)

	err := watcher.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Info("shutting down")
		return nil
	}
	return err
}

func startMetricsServer(ctx context.Context, addr string, log logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("metrics endpoint listening", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", logger.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("metrics server shutdown failed", logger.Error(err))
		}
	}()
}

func clusterConfig(cfg *config.Config) cluster.Config {
	return cluster.Config{
		TimeWindow:            cfg.Clustering.TimeWindow,
		MinSimilarity:         cfg.Clustering.MinSimilarity,
		TitleWeight:           cfg.Clustering.TitleWeight,
		CombinedWeight:        cfg.Clustering.CombinedWeight,
		CoordinatedWindow:     cfg.Clustering.CoordinatedWindow,
		CoordinatedMinSources: cfg.Clustering.CoordinatedMinSources,
		KeyTermCount:          cfg.Clustering.KeyTermCount,
	}
}
