package extractor

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CleanPrice converts a Brazilian-formatted currency string ("R$ 1.234,56")
// into a decimal. Dots are always thousands separators and the comma is the
// decimal separator, so "10.5" reads as 105. It returns nil when nothing
// parseable remains.
func CleanPrice(raw string) *decimal.Decimal {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}

	cleaned := strings.ReplaceAll(b.String(), ".", "")
	cleaned = strings.Replace(cleaned, ",", ".", -1)
	if strings.Count(cleaned, ".") > 1 {
		return nil
	}
	cleaned = strings.TrimSuffix(cleaned, ".")
	if cleaned == "" {
		return nil
	}

	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return nil
	}
	return &price
}

// formatPrice renders an optional price for logs and messages
func formatPrice(price *decimal.Decimal) string {
	if price == nil {
		return "none"
	}
	return price.StringFixed(2)
}
