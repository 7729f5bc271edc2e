// Package main provides the entry point for the training and scoring pipeline.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/trial-pts/internal/config"
	"github.com/yourusername/trial-pts/internal/database"
	"github.com/yourusername/trial-pts/internal/logger"
	"github.com/yourusername/trial-pts/internal/metrics"
	"github.com/yourusername/trial-pts/internal/models"
	"github.com/yourusername/trial-pts/internal/pipeline"
	"github.com/yourusername/trial-pts/internal/repository"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile  string
	trainFile   string
	predictFile string
	outputFile  string
	runIDFlag   string
	appLogger   *logrus.Logger
	cfg         *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&trainFile, "train", "", "CSV table with labeled training records")
	rootCmd.Flags().StringVar(&predictFile, "predict", "", "CSV table with unlabeled records to score")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "scores.csv", "Output table for PTS scores")
	rootCmd.MarkFlagRequired("train")

	scoresCmd.Flags().StringVar(&runIDFlag, "run", "", "Run identifier to export")
	scoresCmd.Flags().StringVarP(&outputFile, "output", "o", "scores.csv", "Output table for exported scores")
	scoresCmd.MarkFlagRequired("run")
	rootCmd.AddCommand(scoresCmd)
}

var rootCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Train a PTS model and score clinical trials",
	Long:  `Trains a gradient-boosted probability-of-success model on labeled historical trials and scores unlabeled trials on a 0-100 scale.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(); err != nil {
			return err
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline()
	},
}

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Export the persisted scores of one run",
	Long:  `Reads the scores of one run back from the database, ordered by PTS percent, and writes them as a CSV table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScores()
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

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLogger = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	metrics.InitRegistry()
	return nil
}

func runPipeline() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		appLogger.Warnf("Received signal %v, cancelling run", sig)
		cancel()
	}()

	appLogger.WithFields(logrus.Fields{
		"version":     Version,
		"commit":      GitCommit,
		"environment": cfg.App.Environment,
	}).Info("Starting PTS pipeline")

	trainRecords, err := readRecords(trainFile)
	if err != nil {
		return fmt.Errorf("failed to read training table: %w", err)
	}

	var scoreRecords []models.TrialRecord
	if predictFile != "" {
		scoreRecords, err = readRecords(predictFile)
		if err != nil {
			return fmt.Errorf("failed to read prediction table: %w", err)
		}
	}

	run := pipeline.New(&cfg.Pipeline, appLogger)
	result, err := run.Run(ctx, trainRecords, scoreRecords)
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}

	if len(result.Scores) > 0 {
		out, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output table: %w", err)
		}
		defer out.Close()
		if err := pipeline.WriteScores(out, result.Scores); err != nil {
			return err
		}
		appLogger.WithFields(logrus.Fields{
			"run_id": result.RunID,
			"rows":   len(result.Scores),
			"path":   outputFile,
		}).Info("Score table written")
	}

	if cfg.Database.Enabled && len(result.Scores) > 0 {
		if err := persistScores(ctx, result); err != nil {
			return err
		}
	}

	return nil
}

func readRecords(path string) ([]models.TrialRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return pipeline.ReadTrialRecords(f)
}

func runScores() error {
	ctx := context.Background()

	runID, err := uuid.Parse(runIDFlag)
	if err != nil {
		return fmt.Errorf("invalid run identifier %q: %w", runIDFlag, err)
	}
	if !cfg.Database.Enabled {
		return fmt.Errorf("database must be enabled to export persisted scores")
	}

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output table: %w", err)
	}
	defer out.Close()

	repos := repository.NewRepositories(db)
	if err := exportRunScores(ctx, repos.Scores, runID, out); err != nil {
		return err
	}
	appLogger.WithFields(logrus.Fields{
		"run_id": runID,
		"path":   outputFile,
	}).Info("Run scores exported")
	return nil
}

// exportRunScores writes the persisted scores of one run as a CSV table.
func exportRunScores(ctx context.Context, scores repository.ScoreRepository, runID uuid.UUID, w io.Writer) error {
	rows, err := scores.GetByRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to load scores for run %s: %w", runID, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("no scores found for run %s", runID)
	}
	return pipeline.WriteScores(w, rows)
}

func persistScores(ctx context.Context, result *pipeline.Result) error {
	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Initialize(ctx, db); err != nil {
		return err
	}

	repos := repository.NewRepositories(db)
	if err := repos.Scores.CreateBatch(ctx, result.Scores); err != nil {
		return err
	}
	appLogger.WithField("run_id", result.RunID).Info("Scores persisted to database")
	return nil
}
