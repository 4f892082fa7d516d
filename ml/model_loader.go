package ml

import (
	"fmt"
)

func LoadModel(modelType, path string) (*LinearRegression, error) {
	switch modelType {
	case "", ModelTypeLinear:
		model := NewLinearRegression()
		if err := model.Load(path); err != nil {
			return nil, fmt.Errorf("load model %s: %w", path, err)
		}
		return model, nil
	default:
		return nil, fmt.Errorf("unsupported model type %q", modelType)
	}
}
