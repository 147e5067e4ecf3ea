package catalog

import (
	"regexp"
	"strings"

	"github.com/promonitor/storefront/pkg/promonitor"
	"github.com/shopspring/decimal"
)

var (
	priceNoise   = regexp.MustCompile(`[^0-9,.]`)
	decimalStart = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)`)
	hundred      = decimal.NewFromInt(100)
)

// ParsePriceToCents reads a decorated major-unit price such as "4 490,-" or
// "4490.00" and returns minor units. Only the leading decimal number counts.
func ParsePriceToCents(raw string) (int64, bool) {
	cleaned := priceNoise.ReplaceAllString(raw, "")
	cleaned = strings.Replace(cleaned, ",", ".", 1)
	prefix := decimalStart.FindString(cleaned)
	if prefix == "" {
		return 0, false
	}
	prefix = strings.TrimSuffix(prefix, ".")
	if strings.HasPrefix(prefix, ".") {
		prefix = "0" + prefix
	}
	value, err := decimal.NewFromString(prefix)
	if err != nil {
		return 0, false
	}
	return value.Mul(hundred).Round(0).IntPart(), true
}

// PriceCents parses a feed price, treating a missing price as zero.
func PriceCents(price promonitor.Price) int64 {
	if !price.Valid {
		return 0
	}
	cents, ok := ParsePriceToCents(price.Raw)
	if !ok {
		return 0
	}
	return cents
}
