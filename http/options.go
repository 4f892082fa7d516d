package http

import (
	"carprice/ml"
	"carprice/pipeline"
)

// Range is the slider setup for one numeric field.
type Range struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
	Step    float64 `json:"step"`
}

// Options lists what a form may offer for each field.
type Options struct {
	Name         []string         `json:"name"`
	Fuel         []string         `json:"fuel"`
	SellerType   []string         `json:"seller_type"`
	Transmission []string         `json:"transmission"`
	Owner        []string         `json:"owner"`
	Seats        []int            `json:"seats"`
	Bounds       map[string]Range `json:"bounds"`
}

func defaultBounds() map[string]Range {
	return map[string]Range{
		"year":      {Min: 1994, Max: 2024, Default: 2010, Step: 1},
		"km_driven": {Min: 11, Max: 200000, Default: 50000, Step: 1000},
		"mileage":   {Min: 10, Max: 40, Default: 20, Step: 1},
		"engine":    {Min: 700, Max: 5000, Default: 1500, Step: 100},
		"max_power": {Min: 0, Max: 200, Default: 100, Step: 1},
	}
}

// BuildOptions collects the selectable labels from the dataset in order of first
// appearance. Labels the codecs cannot encode are left out and returned separately.
func BuildOptions(frame *pipeline.Frame) (Options, []string, error) {
	opts := Options{
		Seats:  []int{5, 6, 7, 8, 9, 10},
		Bounds: defaultBounds(),
	}
	var skipped []string

	fields := []struct {
		column    string
		codec     *ml.Codec
		normalize func(string) string
		dst       *[]string
	}{
		{pipeline.ColName, ml.BrandCodec, ml.BrandName, &opts.Name},
		{pipeline.ColFuel, ml.FuelCodec, nil, &opts.Fuel},
		{pipeline.ColSellerType, ml.SellerTypeCodec, nil, &opts.SellerType},
		{pipeline.ColTransmission, ml.TransmissionCodec, nil, &opts.Transmission},
		{pipeline.ColOwner, ml.OwnerCodec, nil, &opts.Owner},
	}
	for _, f := range fields {
		values, err := frame.Unique(f.column, f.normalize)
		if err != nil {
			return Options{}, nil, err
		}
		labels := make([]string, 0, len(values))
		for _, v := range values {
			if !f.codec.Contains(v) {
				skipped = append(skipped, f.codec.Field()+"="+v)
				continue
			}
			labels = append(labels, v)
		}
		*f.dst = labels
	}
	return opts, skipped, nil
}
