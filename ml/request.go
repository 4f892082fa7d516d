package ml

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput marks a request rejected before encoding.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError maps each offending field (by its JSON name) to the rule it broke.
type InvalidInputError struct {
	Fields map[string]string
}

func (e *InvalidInputError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + e.Fields[name]
	}
	return "invalid input: " + strings.Join(parts, ", ")
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// CarRequest is one filled-in form. Numeric fields are pointers so an absent value is
// told apart from zero; the bounds mirror the form widgets.
type CarRequest struct {
	Name         string   `json:"name" validate:"required"`
	Year         *int     `json:"year" validate:"required,gte=1994,lte=2024"`
	KmDriven     *int     `json:"km_driven" validate:"required,gte=11,lte=200000"`
	Fuel         string   `json:"fuel" validate:"required"`
	SellerType   string   `json:"seller_type" validate:"required"`
	Transmission string   `json:"transmission" validate:"required"`
	Owner        string   `json:"owner" validate:"required"`
	Mileage      *float64 `json:"mileage" validate:"required,gte=10,lte=40"`
	Engine       *float64 `json:"engine" validate:"required,gte=700,lte=5000"`
	MaxPower     *float64 `json:"max_power" validate:"required,gte=0,lte=200"`
	Seats        *int     `json:"seats" validate:"required,oneof=5 6 7 8 9 10"`
}

var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks presence and bounds. Category labels are checked later by the codecs.
func (r CarRequest) Validate() error {
	err := requestValidator.Struct(r)
	if err == nil {
		return nil
	}
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return err
	}
	fields := make(map[string]string, len(invalid))
	for _, fe := range invalid {
		if fe.Param() != "" {
			fields[fe.Field()] = fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
		} else {
			fields[fe.Field()] = "failed " + fe.Tag()
		}
	}
	return &InvalidInputError{Fields: fields}
}

// Attributes trims the labels and dereferences the numbers. Call it after Validate.
func (r CarRequest) Attributes() CarAttributes {
	return CarAttributes{
		Name:         strings.TrimSpace(r.Name),
		Year:         deref(r.Year),
		KmDriven:     deref(r.KmDriven),
		Fuel:         strings.TrimSpace(r.Fuel),
		SellerType:   strings.TrimSpace(r.SellerType),
		Transmission: strings.TrimSpace(r.Transmission),
		Owner:        strings.TrimSpace(r.Owner),
		Mileage:      deref(r.Mileage),
		Engine:       deref(r.Engine),
		MaxPower:     deref(r.MaxPower),
		Seats:        deref(r.Seats),
	}
}

func deref[T int | float64](v *T) T {
	if v == nil {
		return 0
	}
	return *v
}
