package ml

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func saveTestModel(t *testing.T, path string, intercept float64) {
	t.Helper()
	model, err := NewLinearRegressionFrom(make([]float64, NumFeatures), intercept)
	if err != nil {
		t.Fatal(err)
	}
	if err := model.Save(path); err != nil {
		t.Fatal(err)
	}
}

func currentIntercept(p *Predictor) float64 {
	return p.Model().(*LinearRegression).Intercept()
}

func TestModelWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	saveTestModel(t, path, 1)
	model, err := LoadModel(ModelTypeLinear, path)
	if err != nil {
		t.Fatal(err)
	}
	predictor, err := NewPredictor(model, 4)
	if err != nil {
		t.Fatal(err)
	}

	watcher := NewModelWatcher(ModelTypeLinear, path, predictor, zap.NewNop())
	watcher.debounce = 20 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)
	saveTestModel(t, path, 2)

	deadline := time.Now().Add(5 * time.Second)
	for currentIntercept(predictor) != 2 {
		if time.Now().After(deadline) {
			t.Fatal("model was not reloaded")
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestModelWatcherKeepsModelOnBadArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	saveTestModel(t, path, 7)
	model, err := LoadModel(ModelTypeLinear, path)
	if err != nil {
		t.Fatal(err)
	}
	predictor, err := NewPredictor(model, 4)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	NewModelWatcher(ModelTypeLinear, path, predictor, zap.NewNop()).reload()
	if currentIntercept(predictor) != 7 {
		t.Fatal("previous model should stay in place")
	}
}

func TestResetTimerDropsStaleTick(t *testing.T) {
	timer := time.NewTimer(time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	resetTimer(timer, time.Hour)
	select {
	case <-timer.C:
		t.Fatal("a tick from before the reset was delivered")
	default:
	}
	timer.Stop()
}
