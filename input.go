package taxreform

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Field is the rate and the base supplied for one tax code at one stage.
type Field struct {
	Aliquot Percent `json:"aliquot"`
	Base    Amount  `json:"base"`
}

// Input is a sanitized payload: every tax code with input (see Code.HasInput)
// has an entry and an exit Field, plus the business segment.
//
// Its zero value is a valid input where every field is zero.
type Input struct {
	fields  [codeCount][stageCount]Field
	Segment int
}

// Field returns the field supplied for code c at stage s.
func (in Input) Field(c Code, s Stage) Field {
	if !c.HasInput() || s < 0 || s >= stageCount {
		return Field{}
	}
	return in.fields[c][s]
}

// Set sets the field for code c at stage s. Codes without input are ignored.
func (in *Input) Set(c Code, s Stage, f Field) {
	if !c.HasInput() || s < 0 || s >= stageCount {
		return
	}
	in.fields[c][s] = f
}

// AliquotKey returns the payload key of the aliquot of c at s, e.g. "cbs_aliquot_entry".
func AliquotKey(c Code, s Stage) string { return c.String() + "_aliquot_" + s.String() }

// BaseKey returns the payload key of the base of c at s, e.g. "cbs_base_exit".
func BaseKey(c Code, s Stage) string { return c.String() + "_base_" + s.String() }

// SegmentKey is the payload key of the business segment.
const SegmentKey = "segment"

// InputKeys lists every payload key understood by Sanitize, in output order.
func InputKeys() []string {
	var keys []string
	for _, c := range Codes() {
		if !c.HasInput() {
			continue
		}
		for s := Entry; s < stageCount; s++ {
			keys = append(keys, AliquotKey(c, s), BaseKey(c, s))
		}
	}
	return append(keys, SegmentKey)
}

// Sanitize converts an untyped payload into an Input.
//
// Absent keys, values that are not numbers (or numeric strings) and numbers
// too large to compute with become zero. Negative numbers pass through.
func Sanitize(payload map[string]any) Input {
	var in Input
	for _, c := range Codes() {
		if !c.HasInput() {
			continue
		}
		for s := Entry; s < stageCount; s++ {
			in.Set(c, s, Field{
				Aliquot: Percent{value: toDecimal(payload[AliquotKey(c, s)])},
				Base:    Amount{value: toDecimal(payload[BaseKey(c, s)])},
			})
		}
	}
	in.Segment = toInt(payload[SegmentKey])
	return in
}

// Payload numbers beyond these bounds count as zero, like NaN.
const (
	maxExponent      = 64
	maxIntegerDigits = 30
)

// toDecimal coerces an untyped value into a decimal, zero when it is not
// numeric or out of range.
func toDecimal(v any) decimal.Decimal {
	return bounded(rawDecimal(v))
}

// bounded returns d, or zero when its exponent or its integer part is too
// large to compute with.
func bounded(d decimal.Decimal) decimal.Decimal {
	exp := d.Exponent()
	if exp > maxExponent || exp < -maxExponent {
		return decimal.Zero
	}
	if d.NumDigits()+int(exp) > maxIntegerDigits {
		return decimal.Zero
	}
	return d
}

func rawDecimal(v any) decimal.Decimal {
	switch x := v.(type) {
	case float64:
		return finite(x)
	case float32:
		return finite(float64(x))
	case int:
		return decimal.NewFromInt(int64(x))
	case int32:
		return decimal.NewFromInt32(x)
	case int64:
		return decimal.NewFromInt(x)
	case uint:
		return decimal.NewFromUint64(uint64(x))
	case uint64:
		return decimal.NewFromUint64(x)
	case json.Number:
		return fromString(string(x))
	case string:
		return fromString(x)
	case []string: // form values
		if len(x) > 0 {
			return fromString(x[0])
		}
	case decimal.Decimal:
		return x
	}
	return decimal.Zero
}

func finite(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func fromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// toInt coerces an untyped value into an int, truncating fractions.
func toInt(v any) int {
	switch x := v.(type) {
	case int:
		return x
	case int32:
		return int(x)
	case int64:
		return int(x)
	case string, json.Number, []string:
		s := ""
		switch y := x.(type) {
		case string:
			s = y
		case json.Number:
			s = string(y)
		case []string:
			if len(y) > 0 {
				s = y[0]
			}
		}
		s = strings.TrimSpace(s)
		if i, err := strconv.Atoi(s); err == nil {
			return i
		}
		return truncate(bounded(fromString(s)))
	default:
		return truncate(toDecimal(v))
	}
}

func truncate(d decimal.Decimal) int {
	t := d.Truncate(0)
	if !t.IsInteger() || t.GreaterThan(decimal.NewFromInt(math.MaxInt32)) || t.LessThan(decimal.NewFromInt(math.MinInt32)) {
		return 0
	}
	return int(t.IntPart())
}

// MarshalJSON writes every field under its payload key, in InputKeys order.
func (in Input) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	for _, c := range Codes() {
		if !c.HasInput() {
			continue
		}
		for s := Entry; s < stageCount; s++ {
			f := in.fields[c][s]
			w.Append(AliquotKey(c, s), f.Aliquot)
			w.Append(BaseKey(c, s), f.Base)
		}
	}
	w.Append(SegmentKey, in.Segment)
	return w.MarshalJSON()
}

// UnmarshalJSON reads an input back from its JSON form, sanitizing it.
func (in *Input) UnmarshalJSON(b []byte) error {
	var payload map[string]any
	dec := json.NewDecoder(strings.NewReader(string(b)))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return err
	}
	*in = Sanitize(payload)
	return nil
}
