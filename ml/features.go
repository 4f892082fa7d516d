package ml

import "errors"

const NumFeatures = 11

// CarAttributes raw form values
type CarAttributes struct {
	Name         string
	Year         int
	KmDriven     int
	Fuel         string
	SellerType   string
	Transmission string
	Owner        string
	Mileage      float64
	Engine       float64
	MaxPower     float64
	Seats        int
}

// CarFeatures encoded model inputs
type CarFeatures struct {
	Brand        int
	Year         int
	KmDriven     int
	Fuel         int
	SellerType   int
	Transmission int
	Owner        int
	Mileage      float64
	Engine       float64
	MaxPower     float64
	Seats        int
}

// Encode normalizes the brand and maps every categorical field through its codec.
// The first label that is not part of a codec stops encoding.
func Encode(attrs CarAttributes) (CarFeatures, error) {
	features := CarFeatures{
		Year:     attrs.Year,
		KmDriven: attrs.KmDriven,
		Mileage:  attrs.Mileage,
		Engine:   attrs.Engine,
		MaxPower: attrs.MaxPower,
		Seats:    attrs.Seats,
	}

	fields := []struct {
		codec *Codec
		label string
		dst   *int
	}{
		{BrandCodec, BrandName(attrs.Name), &features.Brand},
		{FuelCodec, attrs.Fuel, &features.Fuel},
		{SellerTypeCodec, attrs.SellerType, &features.SellerType},
		{TransmissionCodec, attrs.Transmission, &features.Transmission},
		{OwnerCodec, attrs.Owner, &features.Owner},
	}
	for _, f := range fields {
		code, err := f.codec.Encode(f.label)
		if err != nil {
			return CarFeatures{}, err
		}
		*f.dst = code
	}
	return features, nil
}

func FeatureVector(feature CarFeatures) []float64 {
	return []float64{
		float64(feature.Brand),
		float64(feature.Year),
		float64(feature.KmDriven),
		float64(feature.Fuel),
		float64(feature.SellerType),
		float64(feature.Transmission),
		float64(feature.Owner),
		feature.Mileage,
		feature.Engine,
		feature.MaxPower,
		float64(feature.Seats),
	}
}

func FeatureNames() []string {
	return []string{
		"name",
		"year",
		"km_driven",
		"fuel",
		"seller_type",
		"transmission",
		"owner",
		"mileage",
		"engine",
		"max_power",
		"seats",
	}
}

func checkVector(features []float64) error {
	if len(features) != NumFeatures {
		return errors.New("feature vector must have 11 values")
	}
	return nil
}
