package taxreform

import (
	"encoding/json"
	"fmt"
)

// Classification is the direction of the change in liability.
type Classification int

const (
	Neutral Classification = iota
	Increase
	Decrease
)

func (c Classification) String() string {
	switch c {
	case Neutral:
		return "neutral"
	case Increase:
		return "increase"
	case Decrease:
		return "decrease"
	default:
		return "unknown"
	}
}

// ParseClassification parses "increase", "decrease" or "neutral".
func ParseClassification(s string) (Classification, error) {
	switch s {
	case "neutral":
		return Neutral, nil
	case "increase":
		return Increase, nil
	case "decrease":
		return Decrease, nil
	default:
		return 0, fmt.Errorf("unknown classification: %q", s)
	}
}

func (c Classification) MarshalJSON() ([]byte, error) { return json.Marshal(c.String()) }

func (c *Classification) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseClassification(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Classify returns the classification of a difference, by strict sign.
func Classify(difference Amount) Classification {
	switch difference.Sign() {
	case 1:
		return Increase
	case -1:
		return Decrease
	default:
		return Neutral
	}
}

// Comparison is the effect of the reform on the amount due.
type Comparison struct {
	Difference Amount `json:"difference"`
	// DifferencePercentPoints is the relative change, in percent of the
	// current liability.
	DifferencePercentPoints Percent        `json:"difference_percent_points"`
	Classification          Classification `json:"classification"`
}

// Compare compares the current and the projected totals due.
//
// A relative change from a zero (or negative) current total is meaningless:
// it is reported as 100 when the projected total is positive, 0 otherwise.
func Compare(before, after Amount) Comparison {
	diff := after.Sub(before)
	var pp Percent
	switch {
	case before.IsPositive():
		pp = diff.Ratio(before)
	case after.IsPositive():
		pp = P(100)
	}
	return Comparison{
		Difference:              diff,
		DifferencePercentPoints: pp,
		Classification:          Classify(diff),
	}
}
