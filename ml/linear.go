package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"gonum.org/v1/gonum/mat"
)

const ModelTypeLinear = "linear_regression"

// rankCond is the relative singular value cutoff used when solving the least squares system.
const rankCond = 1e-10

type LinearRegression struct {
	artifact Artifact
}

// Artifact is the persisted form of a fitted linear model.
type Artifact struct {
	ModelType    string    `json:"model_type"`
	Schema       string    `json:"schema"`
	FeatureNames []string  `json:"feature_names"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	TrainedAt    time.Time `json:"trained_at"`
	TrainRows    int       `json:"train_rows"`
	TestRows     int       `json:"test_rows"`
	R2Test       float64   `json:"r2_test"`
}

func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

// NewLinearRegressionFrom builds a model from known parameters.
func NewLinearRegressionFrom(coefficients []float64, intercept float64) (*LinearRegression, error) {
	if err := checkVector(coefficients); err != nil {
		return nil, err
	}
	return &LinearRegression{artifact: Artifact{
		ModelType:    ModelTypeLinear,
		Schema:       SchemaFingerprint(),
		FeatureNames: FeatureNames(),
		Coefficients: append([]float64(nil), coefficients...),
		Intercept:    intercept,
	}}, nil
}

// Fit solves ordinary least squares with an intercept. Columns are centered first so the
// intercept falls out as mean(y) - mean(X)·coef; rank deficient designs get the
// minimum-norm solution.
func (lr *LinearRegression) Fit(features [][]float64, targets []float64) error {
	if len(features) == 0 || len(targets) == 0 {
		return errors.New("features or targets empty")
	}
	if len(features) != len(targets) {
		return errors.New("features and targets size mismatch")
	}
	if len(features) < 2 {
		return errors.New("at least two rows are required")
	}
	for i, row := range features {
		if err := checkVector(row); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}

	rows, cols := len(features), NumFeatures
	means := make([]float64, cols)
	for _, row := range features {
		for j, v := range row {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= float64(rows)
	}
	targetMean := 0.0
	for _, y := range targets {
		targetMean += y
	}
	targetMean /= float64(rows)

	centered := mat.NewDense(rows, cols, nil)
	for i, row := range features {
		for j, v := range row {
			centered.Set(i, j, v-means[j])
		}
	}
	y := mat.NewVecDense(rows, nil)
	for i, v := range targets {
		y.SetVec(i, v-targetMean)
	}

	var svd mat.SVD
	if ok := svd.Factorize(centered, mat.SVDThin); !ok {
		return errors.New("svd factorization failed")
	}
	rank := svd.Rank(rankCond)
	if rank == 0 {
		return errors.New("design matrix has rank zero")
	}
	var beta mat.VecDense
	svd.SolveVecTo(&beta, y, rank)

	coefficients := make([]float64, cols)
	intercept := targetMean
	for j := range coefficients {
		coefficients[j] = beta.AtVec(j)
		intercept -= means[j] * coefficients[j]
	}

	lr.artifact = Artifact{
		ModelType:    ModelTypeLinear,
		Schema:       SchemaFingerprint(),
		FeatureNames: FeatureNames(),
		Coefficients: coefficients,
		Intercept:    intercept,
		TrainedAt:    time.Now().UTC(),
		TrainRows:    rows,
	}
	return nil
}

// Predict evaluates intercept + Σ coefficient_i * feature_i in feature order.
func (lr *LinearRegression) Predict(features []float64) (float64, error) {
	if len(lr.artifact.Coefficients) == 0 {
		return 0, errors.New("model not trained")
	}
	if err := checkVector(features); err != nil {
		return 0, err
	}
	price := lr.artifact.Intercept
	for i, c := range lr.artifact.Coefficients {
		price += c * features[i]
	}
	return price, nil
}

// Score returns the coefficient of determination on the given rows.
func (lr *LinearRegression) Score(features [][]float64, targets []float64) (float64, error) {
	if len(features) == 0 || len(features) != len(targets) {
		return 0, errors.New("features and targets size mismatch")
	}
	mean := 0.0
	for _, y := range targets {
		mean += y
	}
	mean /= float64(len(targets))

	var residual, total float64
	for i, row := range features {
		predicted, err := lr.Predict(row)
		if err != nil {
			return 0, err
		}
		diff := targets[i] - predicted
		residual += diff * diff
		dev := targets[i] - mean
		total += dev * dev
	}
	if total == 0 {
		return 0, errors.New("targets have zero variance")
	}
	return 1 - residual/total, nil
}

// SetEvaluation records split sizes and the held-out score in the artifact.
func (lr *LinearRegression) SetEvaluation(testRows int, r2 float64) {
	lr.artifact.TestRows = testRows
	lr.artifact.R2Test = r2
}

func (lr *LinearRegression) Coefficients() []float64 {
	return append([]float64(nil), lr.artifact.Coefficients...)
}

func (lr *LinearRegression) Intercept() float64 {
	return lr.artifact.Intercept
}

func (lr *LinearRegression) Artifact() Artifact {
	a := lr.artifact
	a.Coefficients = lr.Coefficients()
	a.FeatureNames = append([]string(nil), lr.artifact.FeatureNames...)
	return a
}

func (lr *LinearRegression) Save(path string) error {
	if len(lr.artifact.Coefficients) == 0 {
		return errors.New("model not trained")
	}
	payload, err := json.MarshalIndent(lr.artifact, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

func (lr *LinearRegression) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var artifact Artifact
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return fmt.Errorf("decode model artifact: %w", err)
	}
	if err := validateArtifact(artifact); err != nil {
		return err
	}
	lr.artifact = artifact
	return nil
}

func validateArtifact(a Artifact) error {
	if a.ModelType != ModelTypeLinear {
		return fmt.Errorf("model artifact: unexpected model type %q", a.ModelType)
	}
	if a.Schema != SchemaFingerprint() {
		return errors.New("model artifact: feature schema does not match this build")
	}
	names := FeatureNames()
	if len(a.FeatureNames) != len(names) {
		return errors.New("model artifact: feature names do not match")
	}
	for i, name := range names {
		if a.FeatureNames[i] != name {
			return fmt.Errorf("model artifact: feature %d is %q, want %q", i, a.FeatureNames[i], name)
		}
	}
	if err := checkVector(a.Coefficients); err != nil {
		return fmt.Errorf("model artifact: %w", err)
	}
	return nil
}
