package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Dataset columns.
const (
	ColName         = "name"
	ColYear         = "year"
	ColSellingPrice = "selling_price"
	ColKmDriven     = "km_driven"
	ColFuel         = "fuel"
	ColSellerType   = "seller_type"
	ColTransmission = "transmission"
	ColOwner        = "owner"
	ColMileage      = "mileage"
	ColEngine       = "engine"
	ColMaxPower     = "max_power"
	ColSeats        = "seats"
	ColTorque       = "torque"
)

// RequiredColumns lists the columns the trainer and the option lister read.
func RequiredColumns() []string {
	return []string{
		ColName, ColYear, ColSellingPrice, ColKmDriven, ColFuel, ColSellerType,
		ColTransmission, ColOwner, ColMileage, ColEngine, ColMaxPower, ColSeats,
	}
}

// missingMarkers are cell values treated as absent, matching common CSV exports.
var missingMarkers = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
}

func IsMissing(cell string) bool {
	_, ok := missingMarkers[strings.TrimSpace(cell)]
	return ok
}

// Frame is a header plus string rows, the raw shape of the dataset.
type Frame struct {
	Columns []string
	Rows    [][]string
}

func LoadDatasetFile(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return LoadDataset(f)
}

func LoadDataset(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("dataset is empty")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	frame := &Frame{Columns: columns}
	for _, col := range RequiredColumns() {
		if frame.Index(col) < 0 {
			return nil, fmt.Errorf("dataset is missing column %q", col)
		}
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		frame.Rows = append(frame.Rows, record)
	}
	return frame, nil
}

func (f *Frame) Len() int {
	return len(f.Rows)
}

func (f *Frame) Index(column string) int {
	for i, c := range f.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

func (f *Frame) DropColumn(column string) error {
	idx := f.Index(column)
	if idx < 0 {
		return fmt.Errorf("column %q not found", column)
	}
	f.Columns = append(f.Columns[:idx:idx], f.Columns[idx+1:]...)
	for i, row := range f.Rows {
		if idx < len(row) {
			f.Rows[i] = append(row[:idx:idx], row[idx+1:]...)
		}
	}
	return nil
}

// DropMissing removes rows with any absent cell and returns how many were removed.
func (f *Frame) DropMissing() int {
	kept := f.Rows[:0]
	for _, row := range f.Rows {
		if len(row) != len(f.Columns) || hasMissing(row) {
			continue
		}
		kept = append(kept, row)
	}
	removed := len(f.Rows) - len(kept)
	f.Rows = kept
	return removed
}

// DropDuplicates keeps the first occurrence of each identical row.
func (f *Frame) DropDuplicates() int {
	seen := make(map[string]struct{}, len(f.Rows))
	kept := f.Rows[:0]
	for _, row := range f.Rows {
		key := strings.Join(row, "\x1f")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}
	removed := len(f.Rows) - len(kept)
	f.Rows = kept
	return removed
}

// Unique returns the distinct non-missing values of a column in order of first appearance.
func (f *Frame) Unique(column string, normalize func(string) string) ([]string, error) {
	idx := f.Index(column)
	if idx < 0 {
		return nil, fmt.Errorf("column %q not found", column)
	}
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, row := range f.Rows {
		if idx >= len(row) || IsMissing(row[idx]) {
			continue
		}
		value := row[idx]
		if normalize != nil {
			value = normalize(value)
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}
	return values, nil
}

func hasMissing(row []string) bool {
	for _, cell := range row {
		if IsMissing(cell) {
			return true
		}
	}
	return false
}
