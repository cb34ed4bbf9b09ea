package taxreform

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Currency of every Amount handled by the engine.
const Currency = money.BRL

// Amount is a taxable base or a tax value, in Brazilian reais.
type Amount struct {
	value decimal.Decimal
}

// A creates an Amount from a numeric value.
func A[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) Amount {
	return Amount{value: newDecimal(value)}
}

// Apply is the only formula computing a tax value: base * aliquot / 100.
func Apply(base Amount, aliquot Percent) Amount {
	return Amount{value: base.value.Mul(aliquot.value).Div(hundred)}
}

// String returns the amount formatted in reais, e.g. "R$1.062,00".
func (a Amount) String() string {
	cur := *money.New(0, Currency).Currency()
	dec := a.value.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

func (a Amount) Equal(b Amount) bool { return a.value.Equal(b.value) }
func (a Amount) IsZero() bool        { return a.value.IsZero() }
func (a Amount) IsPositive() bool    { return a.value.IsPositive() }
func (a Amount) IsNegative() bool    { return a.value.IsNegative() }
func (a Amount) Sign() int           { return a.value.Sign() }
func (a Amount) Add(b Amount) Amount { return Amount{value: a.value.Add(b.value)} }
func (a Amount) Sub(b Amount) Amount { return Amount{value: a.value.Sub(b.value)} }
func (a Amount) Float64() float64    { return a.value.InexactFloat64() }

// Scale multiplies the amount by a plain factor (e.g. 0.6 for a 40% reduction).
func (a Amount) Scale(f decimal.Decimal) Amount { return Amount{value: a.value.Mul(f)} }

// Floor returns the amount, or zero when it is negative.
func (a Amount) Floor() Amount {
	if a.value.IsNegative() {
		return Amount{}
	}
	return a
}

// Ratio returns a/b expressed as a percentage. A zero b yields zero.
func (a Amount) Ratio(b Amount) Percent {
	if b.value.IsZero() {
		return Percent{}
	}
	return Percent{value: a.value.Div(b.value).Mul(hundred)}
}

// Sum adds up amounts.
func Sum(amounts ...Amount) Amount {
	var s Amount
	for _, a := range amounts {
		s = s.Add(a)
	}
	return s
}

// SignedString returns the amount with an explicit sign, "-" for zero.
func (a Amount) SignedString() string {
	if a.value.IsZero() {
		return "-"
	}
	if a.value.IsPositive() {
		return "+" + a.String()
	}
	return a.String()
}

func (a Amount) MarshalJSON() ([]byte, error) { return rawNumber(a.value), nil }

func (a *Amount) UnmarshalJSON(b []byte) (err error) {
	a.value, err = parseNumber(b)
	return err
}

func (a *Amount) UnmarshalYAML(node *yaml.Node) (err error) {
	a.value, err = decimal.NewFromString(node.Value)
	return err
}
