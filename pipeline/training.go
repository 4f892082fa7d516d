package pipeline

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"carprice/ml"
)

// BuildTrainingSet converts a cleaned frame into feature vectors and selling prices.
// Any label outside the codec tables fails the whole build.
func BuildTrainingSet(frame *Frame) (features [][]float64, targets []float64, err error) {
	if frame.Len() == 0 {
		return nil, nil, errors.New("dataset has no rows")
	}
	idx := make(map[string]int, len(RequiredColumns()))
	for _, col := range RequiredColumns() {
		i := frame.Index(col)
		if i < 0 {
			return nil, nil, fmt.Errorf("dataset is missing column %q", col)
		}
		idx[col] = i
	}

	features = make([][]float64, 0, frame.Len())
	targets = make([]float64, 0, frame.Len())
	for n, row := range frame.Rows {
		attrs, price, err := rowAttributes(row, idx)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", n+1, err)
		}
		encoded, err := ml.Encode(attrs)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", n+1, err)
		}
		features = append(features, ml.FeatureVector(encoded))
		targets = append(targets, price)
	}
	return features, targets, nil
}

func rowAttributes(row []string, idx map[string]int) (ml.CarAttributes, float64, error) {
	cell := func(col string) string {
		return strings.TrimSpace(row[idx[col]])
	}

	var attrs ml.CarAttributes
	var err error
	attrs.Name = ml.BrandName(row[idx[ColName]])
	attrs.Fuel = cell(ColFuel)
	attrs.SellerType = cell(ColSellerType)
	attrs.Transmission = cell(ColTransmission)
	attrs.Owner = cell(ColOwner)

	if attrs.Year, err = parseWhole(ColYear, cell(ColYear)); err != nil {
		return attrs, 0, err
	}
	if attrs.KmDriven, err = parseWhole(ColKmDriven, cell(ColKmDriven)); err != nil {
		return attrs, 0, err
	}
	if attrs.Seats, err = parseWhole(ColSeats, cell(ColSeats)); err != nil {
		return attrs, 0, err
	}
	if attrs.Mileage, err = ParseUnitValue(row[idx[ColMileage]]); err != nil {
		return attrs, 0, fmt.Errorf("%s: %w", ColMileage, err)
	}
	if attrs.Engine, err = ParseUnitValue(row[idx[ColEngine]]); err != nil {
		return attrs, 0, fmt.Errorf("%s: %w", ColEngine, err)
	}
	if attrs.MaxPower, err = ParseUnitValue(row[idx[ColMaxPower]]); err != nil {
		return attrs, 0, fmt.Errorf("%s: %w", ColMaxPower, err)
	}

	price, err := strconv.ParseFloat(cell(ColSellingPrice), 64)
	if err != nil {
		return attrs, 0, fmt.Errorf("%s: %w", ColSellingPrice, err)
	}
	return attrs, price, nil
}

// parseWhole accepts "5" as well as "5.0", which is how numeric columns with gaps get exported.
func parseWhole(column, raw string) (int, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", column, err)
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("%s: %q is not a whole number", column, raw)
	}
	return int(v), nil
}

// SplitDataset shuffles rows with the given seed and holds out ceil(testRatio*n) of them.
func SplitDataset(features [][]float64, targets []float64, testRatio float64, seed int64) (trainX [][]float64, trainY []float64, testX [][]float64, testY []float64) {
	if testRatio <= 0 || testRatio >= 1 {
		testRatio = 0.2
	}
	rnd := rand.New(rand.NewSource(seed))
	indices := rnd.Perm(len(features))

	testSize := int(math.Ceil(float64(len(features)) * testRatio))
	split := len(features) - testSize
	for i, idx := range indices {
		if i < split {
			trainX = append(trainX, features[idx])
			trainY = append(trainY, targets[idx])
		} else {
			testX = append(testX, features[idx])
			testY = append(testY, targets[idx])
		}
	}
	return trainX, trainY, testX, testY
}
