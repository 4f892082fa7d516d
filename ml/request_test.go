package ml

import (
	"errors"
	"testing"
)

func ptr[T any](v T) *T {
	return &v
}

func exampleRequest() CarRequest {
	return CarRequest{
		Name:         " Maruti Swift Dzire VDI ",
		Year:         ptr(2015),
		KmDriven:     ptr(40000),
		Fuel:         "Petrol",
		SellerType:   "Individual",
		Transmission: "Manual",
		Owner:        "First Owner",
		Mileage:      ptr(21.5),
		Engine:       ptr(1197.0),
		MaxPower:     ptr(82.0),
		Seats:        ptr(5),
	}
}

func TestCarRequestValid(t *testing.T) {
	req := exampleRequest()
	if err := req.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	attrs := req.Attributes()
	if attrs.Name != "Maruti Swift Dzire VDI" || attrs.Year != 2015 || attrs.MaxPower != 82 || attrs.Seats != 5 {
		t.Fatalf("unexpected attributes: %+v", attrs)
	}
}

func TestCarRequestZeroMaxPowerIsAllowed(t *testing.T) {
	req := exampleRequest()
	req.MaxPower = ptr(0.0)
	if err := req.Validate(); err != nil {
		t.Fatalf("an explicit 0 bhp is within bounds: %v", err)
	}
}

func TestCarRequestRejects(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*CarRequest)
	}{
		{"name", func(r *CarRequest) { r.Name = "" }},
		{"year", func(r *CarRequest) { r.Year = ptr(1800) }},
		{"year", func(r *CarRequest) { r.Year = nil }},
		{"km_driven", func(r *CarRequest) { r.KmDriven = ptr(-5) }},
		{"mileage", func(r *CarRequest) { r.Mileage = ptr(-3.0) }},
		{"engine", func(r *CarRequest) { r.Engine = nil }},
		{"max_power", func(r *CarRequest) { r.MaxPower = nil }},
		{"max_power", func(r *CarRequest) { r.MaxPower = ptr(9999.0) }},
		{"seats", func(r *CarRequest) { r.Seats = ptr(0) }},
		{"seats", func(r *CarRequest) { r.Seats = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			req := exampleRequest()
			tt.mutate(&req)
			err := req.Validate()
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			var invalid *InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected *InvalidInputError, got %T", err)
			}
			if _, ok := invalid.Fields[tt.field]; !ok || len(invalid.Fields) != 1 {
				t.Fatalf("expected only %s to fail, got %v", tt.field, invalid.Fields)
			}
		})
	}
}
