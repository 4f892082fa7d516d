package ml

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownCategory = errors.New("unknown category")

type UnknownCategoryError struct {
	Field string
	Label string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("%s: unknown category %q", e.Field, e.Label)
}

func (e *UnknownCategoryError) Is(target error) bool {
	return target == ErrUnknownCategory
}

// Codec maps a closed set of labels to 1-based integer codes in declaration order.
type Codec struct {
	field  string
	labels []string
	codes  map[string]int
}

func NewCodec(field string, labels ...string) *Codec {
	codes := make(map[string]int, len(labels))
	for i, label := range labels {
		if _, dup := codes[label]; dup {
			panic(fmt.Sprintf("codec %s: duplicate label %q", field, label))
		}
		codes[label] = i + 1
	}
	return &Codec{field: field, labels: labels, codes: codes}
}

func (c *Codec) Field() string {
	return c.field
}

func (c *Codec) Encode(label string) (int, error) {
	code, ok := c.codes[label]
	if !ok {
		return 0, &UnknownCategoryError{Field: c.field, Label: label}
	}
	return code, nil
}

func (c *Codec) Decode(code int) (string, bool) {
	if code < 1 || code > len(c.labels) {
		return "", false
	}
	return c.labels[code-1], true
}

func (c *Codec) Labels() []string {
	return append([]string(nil), c.labels...)
}

func (c *Codec) Contains(label string) bool {
	_, ok := c.codes[label]
	return ok
}

var (
	BrandCodec = NewCodec("name",
		"Maruti", "Skoda", "Honda", "Hyundai", "Toyota", "Ford", "Renault",
		"Mahindra", "Tata", "Chevrolet", "Datsun", "Jeep", "Mercedes-Benz",
		"Mitsubishi", "Audi", "Volkswagen", "BMW", "Nissan", "Lexus",
		"Jaguar", "Land", "MG", "Volvo", "Daewoo", "Kia", "Fiat", "Force",
		"Ambassador", "Ashok", "Isuzu", "Opel",
	)
	FuelCodec         = NewCodec("fuel", "Diesel", "Petrol", "LPG", "CNG")
	SellerTypeCodec   = NewCodec("seller_type", "Individual", "Dealer", "Trustmark Dealer")
	TransmissionCodec = NewCodec("transmission", "Manual", "Automatic")
	OwnerCodec        = NewCodec("owner",
		"First Owner", "Second Owner", "Third Owner", "Fourth & Above Owner", "Test Drive Car",
	)
)

func Codecs() []*Codec {
	return []*Codec{BrandCodec, FuelCodec, SellerTypeCodec, TransmissionCodec, OwnerCodec}
}

// SchemaFingerprint identifies the feature order and every codec table. A model
// artifact trained under a different fingerprint is rejected on load.
func SchemaFingerprint() string {
	var b strings.Builder
	b.WriteString(strings.Join(FeatureNames(), ","))
	for _, codec := range Codecs() {
		b.WriteString("\n")
		b.WriteString(codec.field)
		b.WriteString("=")
		b.WriteString(strings.Join(codec.labels, "|"))
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
