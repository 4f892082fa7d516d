package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestTrainingLogRoundTrip(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "carprice.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer store.Close()

	if _, err := store.LatestTrainingLog(); !errors.Is(err, ErrNoTrainingLog) {
		t.Fatalf("expected ErrNoTrainingLog, got %v", err)
	}

	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	for i, r2 := range []float64{0.61, 0.68} {
		_, err := store.SaveTrainingLog(TrainingLog{
			ModelName:   "linear_regression",
			ModelPath:   "models/model.json",
			DatasetPath: "data/Cardetails.csv",
			Schema:      "abc",
			RowsLoaded:  8128,
			RowsCleaned: 6717,
			TrainRows:   5373,
			TestRows:    1344,
			R2Test:      r2,
			Intercept:   -4.2e7,
			Seed:        42,
			TrainedAt:   base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	latest, err := store.LatestTrainingLog()
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if latest.R2Test != 0.68 || latest.TestRows != 1344 {
		t.Fatalf("unexpected latest entry: %+v", latest)
	}

	logs, err := store.LoadTrainingLog(0)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(logs))
	}
}
