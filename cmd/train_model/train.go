package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"carprice/db"
	"carprice/ml"
	"carprice/pipeline"
)

type trainOptions struct {
	DataPath     string
	ModelPath    string
	TestRatio    float64
	Seed         int64
	DatabasePath string
}

// train runs load -> clean -> encode -> split -> fit -> save and returns the log entry
// describing the run. The held-out score is reported, never used to reject the model.
func train(opts trainOptions, logger *zap.Logger) (db.TrainingLog, error) {
	frame, err := pipeline.LoadDatasetFile(opts.DataPath)
	if err != nil {
		return db.TrainingLog{}, fmt.Errorf("load dataset: %w", err)
	}
	logger.Info("dataset loaded", zap.String("path", opts.DataPath), zap.Int("rows", frame.Len()))

	cleaner := pipeline.NewDataCleaner(logger)
	if err := cleaner.Clean(frame); err != nil {
		return db.TrainingLog{}, fmt.Errorf("clean dataset: %w", err)
	}
	stats := cleaner.GetStats()

	features, targets, err := pipeline.BuildTrainingSet(frame)
	if err != nil {
		return db.TrainingLog{}, fmt.Errorf("build training data: %w", err)
	}

	trainX, trainY, testX, testY := pipeline.SplitDataset(features, targets, opts.TestRatio, opts.Seed)
	logger.Info("dataset split", zap.Int("train", len(trainX)), zap.Int("test", len(testX)), zap.Int64("seed", opts.Seed))

	model := ml.NewLinearRegression()
	if err := model.Fit(trainX, trainY); err != nil {
		return db.TrainingLog{}, fmt.Errorf("fit model: %w", err)
	}

	var r2 float64
	if len(testX) > 0 {
		r2, err = model.Score(testX, testY)
		if err != nil {
			logger.Warn("could not score held-out rows", zap.Error(err))
		}
	}
	model.SetEvaluation(len(testX), r2)
	logger.Info("model fitted", zap.Float64("intercept", model.Intercept()), zap.Float64("r2_test", r2))

	if err := os.MkdirAll(filepath.Dir(opts.ModelPath), 0o755); err != nil {
		return db.TrainingLog{}, fmt.Errorf("create model dir: %w", err)
	}
	if err := model.Save(opts.ModelPath); err != nil {
		return db.TrainingLog{}, fmt.Errorf("save model: %w", err)
	}
	logger.Info("model saved", zap.String("path", opts.ModelPath))

	artifact := model.Artifact()
	entry := db.TrainingLog{
		ModelName:   artifact.ModelType,
		ModelPath:   opts.ModelPath,
		DatasetPath: opts.DataPath,
		Schema:      artifact.Schema,
		RowsLoaded:  stats.RowsIn,
		RowsCleaned: stats.RowsOut,
		TrainRows:   len(trainX),
		TestRows:    len(testX),
		R2Test:      r2,
		Intercept:   artifact.Intercept,
		Seed:        opts.Seed,
		TrainedAt:   artifact.TrainedAt,
	}

	if opts.DatabasePath != "" {
		store, err := db.Open(opts.DatabasePath)
		if err != nil {
			return entry, fmt.Errorf("open database: %w", err)
		}
		defer store.Close()
		if entry.ID, err = store.SaveTrainingLog(entry); err != nil {
			return entry, fmt.Errorf("record training run: %w", err)
		}
	}
	return entry, nil
}
