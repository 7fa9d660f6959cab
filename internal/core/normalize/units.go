package normalize

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

// parseValue parses a raw fact value. Non-negative decimals quantize the value
// to that many places with half-even rounding.
func parseValue(raw string, decimals *int) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, statement.NewMappingError(map[string]interface{}{"value": raw}, "value %q is not a decimal", raw)
	}
	if decimals != nil && *decimals >= 0 {
		v = v.RoundBank(int32(*decimals))
	}
	return v, nil
}

// CanonicalUnit maps a unit measure such as "iso4217:USD" onto a stable code.
func CanonicalUnit(measure string) string {
	parts := strings.Split(measure, "/")
	for i, p := range parts {
		if idx := strings.LastIndex(p, ":"); idx >= 0 {
			p = p[idx+1:]
		}
		parts[i] = canonicalUnitPart(p)
	}
	return strings.Join(parts, "/")
}

func canonicalUnitPart(unit string) string {
	cleaned := strings.ToUpper(strings.TrimSpace(unit))
	switch cleaned {
	case "USD", "US DOLLAR", "US$", "$":
		return "USD"
	case "SHARES", "SHARE":
		return "SHARE"
	case "PURE":
		return "RATIO"
	}
	return cleaned
}
