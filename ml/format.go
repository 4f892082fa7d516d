package ml

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const CurrencySymbol = "₹"

var printer = message.NewPrinter(language.English)

// FormatPrice renders a price with two decimals and thousands separators, e.g. ₹1,234,567.89.
func FormatPrice(price float64) string {
	return printer.Sprintf("%s%.2f", CurrencySymbol, price)
}

// InputSummary echoes the normalized inputs for confirmation.
type InputSummary struct {
	CarBrand         string `json:"car_brand"`
	Year             int    `json:"year"`
	KilometersDriven string `json:"kilometers_driven"`
	FuelType         string `json:"fuel_type"`
	SellerType       string `json:"seller_type"`
	Transmission     string `json:"transmission"`
	OwnerType        string `json:"owner_type"`
	Mileage          string `json:"mileage"`
	Engine           string `json:"engine"`
	MaxPower         string `json:"max_power"`
	Seats            int    `json:"seats"`
}

func Summarize(attrs CarAttributes) InputSummary {
	return InputSummary{
		CarBrand:         BrandName(attrs.Name),
		Year:             attrs.Year,
		KilometersDriven: printer.Sprintf("%d km", attrs.KmDriven),
		FuelType:         attrs.Fuel,
		SellerType:       attrs.SellerType,
		Transmission:     attrs.Transmission,
		OwnerType:        attrs.Owner,
		Mileage:          formatPlain(attrs.Mileage) + " kmpl",
		Engine:           formatPlain(attrs.Engine) + " CC",
		MaxPower:         formatPlain(attrs.MaxPower) + " bhp",
		Seats:            attrs.Seats,
	}
}

func formatPlain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
