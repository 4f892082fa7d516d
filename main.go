package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"carprice/config"
	"carprice/db"
	qhttp "carprice/http"
	"carprice/logging"
	"carprice/ml"
	"carprice/monitoring"
	"carprice/pipeline"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	// 1. Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// 2. Load model and dataset; without either the service cannot answer
	model, err := ml.LoadModel(cfg.ML.ModelType, cfg.ML.ModelPath)
	if err != nil {
		logger.Fatal("failed to load model", zap.String("path", cfg.ML.ModelPath), zap.Error(err))
	}
	logger.Info("model loaded",
		zap.String("path", cfg.ML.ModelPath),
		zap.Time("trained_at", model.Artifact().TrainedAt),
		zap.Float64("r2_test", model.Artifact().R2Test),
	)

	frame, err := pipeline.LoadDatasetFile(cfg.Dataset.Path)
	if err != nil {
		logger.Fatal("failed to load dataset", zap.String("path", cfg.Dataset.Path), zap.Error(err))
	}
	options, skipped, err := qhttp.BuildOptions(frame)
	if err != nil {
		logger.Fatal("failed to build form options", zap.Error(err))
	}
	if len(skipped) > 0 {
		logger.Warn("dataset labels without a code were left out of the options", zap.Strings("labels", skipped))
	}

	predictor, err := ml.NewPredictor(model, cfg.ML.CacheSize)
	if err != nil {
		logger.Fatal("failed to build predictor", zap.Error(err))
	}

	// 3. Optional training log
	var store qhttp.TrainingLogReader
	if cfg.Database.Path != "" {
		s, err := db.Open(cfg.Database.Path)
		if err != nil {
			logger.Fatal("failed to open database", zap.String("path", cfg.Database.Path), zap.Error(err))
		}
		defer s.Close()
		store = s
		logger.Info("database initialized", zap.String("path", cfg.Database.Path))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.ML.WatchModel {
		watcher := ml.NewModelWatcher(cfg.ML.ModelType, cfg.ML.ModelPath, predictor, logger)
		go func() {
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("model watcher stopped", zap.Error(err))
			}
		}()
	}

	// 4. Start HTTP server
	handlers := qhttp.NewHandlers(predictor, options, store, monitoring.NewMetricsCollector(), logger)
	server := qhttp.NewServer(qhttp.ServerConfig{
		Port:           cfg.Http.Port,
		Timeout:        cfg.Http.Timeout,
		AllowedOrigins: cfg.Http.AllowedOrigins,
	}, handlers)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// 5. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			logger.Error("HTTP server failed", zap.Error(err))
		}
	}
	cancel()

	if err := server.Stop(); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("exiting")
}
