package taxreform

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// rawNumber renders d as a JSON number.
func rawNumber(d decimal.Decimal) []byte { return []byte(d.String()) }

// parseNumber reads a JSON number (or a quoted one) into a decimal.
func parseNumber(b []byte) (decimal.Decimal, error) {
	s := string(b)
	if s == "null" {
		return decimal.Zero, nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return decimal.NewFromString(s)
}
