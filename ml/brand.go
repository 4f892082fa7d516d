package ml

import "strings"

// BrandName reduces a model string such as "Maruti Swift Dzire VDI" to its
// manufacturer token. The dataset separates words with single spaces.
func BrandName(carName string) string {
	first, _, _ := strings.Cut(carName, " ")
	return strings.TrimSpace(first)
}
