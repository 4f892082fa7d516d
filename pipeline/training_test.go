package pipeline

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"carprice/ml"
)

func cleanedSample(t *testing.T) *Frame {
	t.Helper()
	frame, err := LoadDataset(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := NewDataCleaner(nil).Clean(frame); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return frame
}

func TestBuildTrainingSet(t *testing.T) {
	features, targets, err := BuildTrainingSet(cleanedSample(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(features) != 4 || len(targets) != 4 {
		t.Fatalf("expected 4 rows, got %d/%d", len(features), len(targets))
	}

	want := []float64{1, 2014, 145500, 1, 1, 1, 1, 23.4, 1248, 74, 5}
	if !reflect.DeepEqual(features[0], want) {
		t.Fatalf("row 0 = %v, want %v", features[0], want)
	}
	if targets[0] != 450000 {
		t.Fatalf("target 0 = %v", targets[0])
	}

	toyota := features[3]
	if toyota[0] != 5 || toyota[4] != 2 || toyota[9] != 0 || toyota[10] != 7 {
		t.Fatalf("unexpected toyota row %v", toyota)
	}
}

func TestBuildTrainingSetUnknownCategory(t *testing.T) {
	csv := `name,year,selling_price,km_driven,fuel,seller_type,transmission,owner,mileage,engine,max_power,seats,torque
Tesla Model 3,2020,4500000,1000,Electric,Dealer,Automatic,First Owner,0 kmpl,0 CC,283 bhp,5,420Nm
`
	frame, err := LoadDataset(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, _, err = BuildTrainingSet(frame)
	if !errors.Is(err, ml.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestSplitDataset(t *testing.T) {
	features := make([][]float64, 101)
	targets := make([]float64, 101)
	for i := range features {
		features[i] = []float64{float64(i)}
		targets[i] = float64(i)
	}

	trainX, trainY, testX, testY := SplitDataset(features, targets, 0.2, 42)
	if len(testX) != 21 || len(testY) != 21 {
		t.Fatalf("expected 21 held-out rows, got %d", len(testX))
	}
	if len(trainX) != 80 || len(trainY) != 80 {
		t.Fatalf("expected 80 training rows, got %d", len(trainX))
	}

	seen := make(map[float64]bool)
	for _, row := range append(append([][]float64{}, trainX...), testX...) {
		if seen[row[0]] {
			t.Fatalf("row %v appears twice", row)
		}
		seen[row[0]] = true
	}
	for i := range trainX {
		if trainX[i][0] != trainY[i] {
			t.Fatal("features and targets must stay aligned")
		}
	}

	againX, _, _, _ := SplitDataset(features, targets, 0.2, 42)
	if !reflect.DeepEqual(trainX, againX) {
		t.Fatal("same seed must give the same split")
	}
}
