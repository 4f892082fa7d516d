package ml

import (
	"encoding/json"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

func syntheticData(rows int, coefficients []float64, intercept float64) ([][]float64, []float64) {
	rnd := rand.New(rand.NewSource(7))
	features := make([][]float64, rows)
	targets := make([]float64, rows)
	for i := range features {
		row := []float64{
			float64(1 + rnd.Intn(31)),
			float64(1994 + rnd.Intn(31)),
			float64(11 + rnd.Intn(200000)),
			float64(1 + rnd.Intn(4)),
			float64(1 + rnd.Intn(3)),
			float64(1 + rnd.Intn(2)),
			float64(1 + rnd.Intn(5)),
			10 + rnd.Float64()*30,
			700 + rnd.Float64()*4300,
			rnd.Float64() * 200,
			float64(5 + rnd.Intn(6)),
		}
		y := intercept
		for j, c := range coefficients {
			y += c * row[j]
		}
		features[i] = row
		targets[i] = y
	}
	return features, targets
}

func TestLinearRegressionFitRecoversCoefficients(t *testing.T) {
	coefficients := []float64{-1200, 35000, -1.5, -45000, 20000, 150000, -10000, 8000, 90, 12000, -30000}
	intercept := -70000000.0
	features, targets := syntheticData(200, coefficients, intercept)

	model := NewLinearRegression()
	if err := model.Fit(features, targets); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, want := range coefficients {
		got := model.Coefficients()[i]
		if math.Abs(got-want) > 1e-4*math.Max(1, math.Abs(want)) {
			t.Errorf("coefficient %d = %f, want %f", i, got, want)
		}
	}
	if math.Abs(model.Intercept()-intercept) > 1e-4*math.Abs(intercept) {
		t.Errorf("intercept = %f, want %f", model.Intercept(), intercept)
	}

	score, err := model.Score(features, targets)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score < 0.999999 {
		t.Errorf("expected near perfect R², got %f", score)
	}
}

func TestLinearRegressionFitErrors(t *testing.T) {
	model := NewLinearRegression()
	if err := model.Fit(nil, nil); err == nil {
		t.Error("expected error for empty input")
	}
	if err := model.Fit([][]float64{make([]float64, 11), make([]float64, 11)}, []float64{1}); err == nil {
		t.Error("expected error for size mismatch")
	}
	if err := model.Fit([][]float64{{1, 2}, {3, 4}}, []float64{1, 2}); err == nil {
		t.Error("expected error for short rows")
	}
}

func TestLinearRegressionPredictDeterministic(t *testing.T) {
	coefficients := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	model, err := NewLinearRegressionFrom(coefficients, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	vector := []float64{1, 2015, 40000, 2, 1, 1, 1, 21.5, 1197, 82, 5}

	first, err := model.Predict(vector)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != 43426.5 {
		t.Fatalf("expected 43426.5, got %v", first)
	}
	for i := 0; i < 10; i++ {
		again, _ := model.Predict(vector)
		if again != first {
			t.Fatalf("prediction changed: %v then %v", first, again)
		}
	}

	if _, err := model.Predict(vector[:5]); err == nil {
		t.Error("expected error for short vector")
	}
	if _, err := NewLinearRegression().Predict(vector); err == nil {
		t.Error("expected error for untrained model")
	}
}

func TestLinearRegressionSaveLoad(t *testing.T) {
	model, err := NewLinearRegressionFrom([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, -5.25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	model.SetEvaluation(20, 0.87)
	path := filepath.Join(t.TempDir(), "model.json")
	if err := model.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := LoadModel(ModelTypeLinear, path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	vector := []float64{1, 2015, 40000, 2, 1, 1, 1, 21.5, 1197, 82, 5}
	want, _ := model.Predict(vector)
	got, _ := loaded.Predict(vector)
	if got != want {
		t.Fatalf("loaded model predicts %v, want %v", got, want)
	}
	if loaded.Artifact().R2Test != 0.87 {
		t.Errorf("expected r2 to survive round trip, got %v", loaded.Artifact().R2Test)
	}
}

func TestLoadRejectsForeignSchema(t *testing.T) {
	model, _ := NewLinearRegressionFrom([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, 0)
	artifact := model.Artifact()
	artifact.Schema = "stale"
	payload, _ := json.Marshal(artifact)
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadModel(ModelTypeLinear, path); err == nil {
		t.Fatal("expected schema mismatch error")
	}
	if _, err := LoadModel("decision_tree", path); err == nil {
		t.Fatal("expected unsupported model type error")
	}
	if _, err := LoadModel(ModelTypeLinear, filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
