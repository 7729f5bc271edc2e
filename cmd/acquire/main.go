// Package main provides the entry point for the registry acquisition service.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/trial-pts/internal/acquisition"
	"github.com/yourusername/trial-pts/internal/config"
	"github.com/yourusername/trial-pts/internal/database"
	"github.com/yourusername/trial-pts/internal/health"
	"github.com/yourusername/trial-pts/internal/logger"
	"github.com/yourusername/trial-pts/internal/metrics"
	"github.com/yourusername/trial-pts/internal/models"
	"github.com/yourusername/trial-pts/internal/pipeline"
	"github.com/yourusername/trial-pts/internal/repository"
	"github.com/yourusername/trial-pts/internal/scheduler"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	idsFile    string
	outputFile string
	scheduled  bool
	appLogger  *logrus.Logger
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&idsFile, "ids", "", "File with one NCT identifier per line")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "trials.csv", "Output table for fetched records")
	rootCmd.Flags().BoolVar(&scheduled, "scheduled", false, "Keep running and sync on the configured cron schedule")
	rootCmd.MarkFlagRequired("ids")
}

var rootCmd = &cobra.Command{
	Use:   "acquire",
	Short: "Fetch clinical trial records from the public registry",
	Long:  `Fetches one record per identifier with a fixed delay between requests; failed identifiers are logged and skipped, never retried within a run.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setup() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	appLogger = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	metrics.InitRegistry()
	return nil
}

// batchRunner adapts one acquisition batch to the scheduler's unit of work.
// When a trial repository is attached, every fetched record is also upserted
// into the database after the batch completes.
type batchRunner struct {
	client *acquisition.Client
	nctIDs []string
	output string
	trials repository.TrialRepository
	logger *logrus.Logger
}

func (b *batchRunner) RunSync(ctx context.Context) error {
	out, err := os.Create(b.output)
	if err != nil {
		return fmt.Errorf("failed to create output table: %w", err)
	}

	summary, err := b.client.FetchAll(ctx, b.nctIDs, out)
	out.Close()
	if err != nil {
		return err
	}
	if b.trials == nil || summary.Fetched == 0 {
		return nil
	}

	in, err := os.Open(b.output)
	if err != nil {
		return fmt.Errorf("failed to reopen output table: %w", err)
	}
	defer in.Close()

	records, err := pipeline.ReadTrialRecords(in)
	if err != nil {
		return fmt.Errorf("failed to parse fetched records: %w", err)
	}
	return persistRecords(ctx, b.trials, records, b.logger)
}

// persistRecords upserts fetched trial records so re-acquired identifiers
// refresh their stored row instead of duplicating it.
func persistRecords(ctx context.Context, trials repository.TrialRepository, records []models.TrialRecord, log *logrus.Logger) error {
	for i := range records {
		if err := trials.Upsert(ctx, &records[i]); err != nil {
			return fmt.Errorf("failed to persist trial %s: %w", records[i].NCTID, err)
		}
	}
	if log != nil {
		log.WithField("rows", len(records)).Info("Fetched trials persisted to database")
	}
	return nil
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		appLogger.Warnf("Received signal %v, shutting down", sig)
		cancel()
	}()

	appLogger.WithFields(logrus.Fields{
		"version":     Version,
		"commit":      GitCommit,
		"environment": cfg.App.Environment,
	}).Info("Starting registry acquisition")

	nctIDs, err := readIdentifiers(idsFile)
	if err != nil {
		return fmt.Errorf("failed to read identifier list: %w", err)
	}
	if len(nctIDs) == 0 {
		return fmt.Errorf("identifier list is empty")
	}

	client := acquisition.NewClient(acquisition.ClientConfig{
		BaseURL:   cfg.Acquisition.BaseURL,
		UserAgent: cfg.Acquisition.UserAgent,
		Delay:     cfg.Acquisition.Delay(),
		HTTP: acquisition.HTTPClientConfig{
			Timeout:   cfg.Acquisition.Timeout(),
			RateLimit: cfg.Acquisition.RateLimit,
		},
	}, appLogger)

	runner := &batchRunner{client: client, nctIDs: nctIDs, output: outputFile, logger: appLogger}

	var pinger health.DatabasePinger
	if cfg.Database.Enabled {
		db, err := database.NewDB(ctx, &cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		if err := database.Initialize(ctx, db); err != nil {
			return err
		}
		runner.trials = repository.NewRepositories(db).Trials
		pinger = db
	}

	if !scheduled {
		return runner.RunSync(ctx)
	}
	return runScheduled(ctx, runner, pinger)
}

func runScheduled(ctx context.Context, runner *batchRunner, pinger health.DatabasePinger) error {
	if cfg.Acquisition.SyncSchedule == "" {
		return fmt.Errorf("acquisition.sync_schedule must be set for scheduled mode")
	}

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Port:        strconv.Itoa(cfg.Health.Port),
		Logger:      appLogger,
		DB:          pinger,
	})
	if err := healthServer.Start(ctx); err != nil {
		return err
	}

	if cfg.Metrics.Enabled {
		go serveMetrics()
	}

	sched := scheduler.NewScheduler(runner, appLogger)
	if err := sched.ScheduleSync(cfg.Acquisition.SyncSchedule); err != nil {
		return err
	}
	sched.Start()
	healthServer.SetReady(true)

	<-ctx.Done()
	sched.Stop()
	return nil
}

func serveMetrics() {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())
	addr := ":" + strconv.Itoa(cfg.Metrics.Port)
	appLogger.WithField("addr", addr).Info("Metrics server starting")
	if err := http.ListenAndServe(addr, mux); err != nil {
		appLogger.WithError(err).Error("Metrics server error")
	}
}

func readIdentifiers(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id == "" || strings.HasPrefix(id, "#") {
			continue
		}
		ids = append(ids, id)
	}
	return ids, scanner.Err()
}
