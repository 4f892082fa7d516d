package ml

type MLModel interface {
	Fit(features [][]float64, targets []float64) error
	Predict(features []float64) (float64, error)
	Save(path string) error
	Load(path string) error
}

// PriceModel is the read side used by the predictor.
type PriceModel interface {
	Predict(features []float64) (float64, error)
}

var _ MLModel = (*LinearRegression)(nil)
