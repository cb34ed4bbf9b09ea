package taxreform

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Percent is a rate expressed as a percentage: 17.7 means 17.7%.
type Percent struct {
	value decimal.Decimal
}

// P creates a Percent from a numeric value.
func P[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) Percent {
	return Percent{value: newDecimal(value)}
}

func (p Percent) Equal(q Percent) bool  { return p.value.Equal(q.value) }
func (p Percent) IsZero() bool          { return p.value.IsZero() }
func (p Percent) Add(q Percent) Percent { return Percent{value: p.value.Add(q.value)} }
func (p Percent) Sub(q Percent) Percent { return Percent{value: p.value.Sub(q.value)} }
func (p Percent) Float64() float64      { return p.value.InexactFloat64() }

// Fraction returns the rate as a plain ratio: 40% is 0.4.
func (p Percent) Fraction() decimal.Decimal { return p.value.Div(hundred) }

// Complement returns the factor left after removing p: 40% gives 0.6.
func (p Percent) Complement() decimal.Decimal { return decimal.NewFromInt(1).Sub(p.Fraction()) }

func (p Percent) String() string {
	return fmt.Sprintf("%s%%", p.value.StringFixed(2))
}

func (p Percent) SignedString() string {
	res := p.String()
	if p.value.Round(2).IsZero() {
		return "-"
	}
	if p.value.IsPositive() {
		res = "+" + res
	}
	return res
}

func (p Percent) MarshalJSON() ([]byte, error) { return rawNumber(p.value), nil }

func (p *Percent) UnmarshalJSON(b []byte) (err error) {
	p.value, err = parseNumber(b)
	return err
}

func (p *Percent) UnmarshalYAML(node *yaml.Node) (err error) {
	p.value, err = decimal.NewFromString(node.Value)
	return err
}
