package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"carprice/config"
	"carprice/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	opts := trainOptions{}

	cmd := &cobra.Command{
		Use:   "train_model",
		Short: "Fit the car price model from the listings CSV and save the artifact",
		Example: `
  # Train with the paths from config.yaml
  train_model

  # Train on another file and record the run
  train_model --data data/Cardetails.csv --model_path models/model.json --db data/carprice.db`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			flags := cmd.Flags()
			if !flags.Changed("data") {
				opts.DataPath = cfg.Dataset.Path
			}
			if !flags.Changed("model_path") {
				opts.ModelPath = cfg.ML.ModelPath
			}
			if !flags.Changed("test_ratio") {
				opts.TestRatio = cfg.ML.Training.TestRatio
			}
			if !flags.Changed("seed") {
				opts.Seed = cfg.ML.Training.Seed
			}
			if !flags.Changed("db") {
				opts.DatabasePath = cfg.Database.Path
			}

			logger, err := logging.New(logging.Options{
				Level:      cfg.Log.Level,
				File:       cfg.Log.File,
				MaxSizeMB:  cfg.Log.MaxSizeMB,
				MaxBackups: cfg.Log.MaxBackups,
				MaxAgeDays: cfg.Log.MaxAgeDays,
			})
			if err != nil {
				log.Printf("falling back to the default logger: %v", err)
				logger = zap.NewExample()
			}
			defer logger.Sync()

			entry, err := train(opts, logger)
			if err != nil {
				logger.Error("training failed", zap.Error(err))
				return err
			}
			fmt.Printf("model saved to %s (R² on %d held-out rows: %.4f)\n", entry.ModelPath, entry.TestRows, entry.R2Test)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "config.yaml", "path to the YAML config file")
	cmd.Flags().StringVar(&opts.DataPath, "data", "", "listings CSV to train on")
	cmd.Flags().StringVar(&opts.ModelPath, "model_path", "", "model output path")
	cmd.Flags().Float64Var(&opts.TestRatio, "test_ratio", 0.2, "share of rows held out for evaluation")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 42, "shuffle seed for the train/test split")
	cmd.Flags().StringVar(&opts.DatabasePath, "db", "", "SQLite database for the training log (optional)")

	return cmd
}
