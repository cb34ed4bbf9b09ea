package taxreform

import (
	"encoding/json"
	"fmt"
)

// Code identifies a tax.
type Code int

const (
	// PIS is the PIS/PASEP federal social contribution.
	PIS Code = iota
	// COFINS is the federal contribution for social security financing.
	COFINS
	// IPI is the federal tax on industrialized products.
	IPI
	// ICMS is the state tax on circulation of goods and services.
	ICMS
	// ISS is the municipal tax on services.
	ISS
	// CBS is the federal reform contribution on goods and services.
	CBS
	// IBS is the state/municipal reform tax on goods and services.
	IBS
	// IS is the reform selective (excise) tax. It is never creditable.
	IS

	codeCount
)

var codeKeys = [codeCount]string{"pis", "cofins", "ipi", "icms", "iss", "cbs", "ibs", "is"}

var codeLabels = [codeCount]string{"PIS/PASEP", "COFINS", "IPI", "ICMS", "ISS", "CBS", "IBS", "IS"}

// Codes returns every tax code, in declaration order.
func Codes() []Code {
	codes := make([]Code, codeCount)
	for i := range codes {
		codes[i] = Code(i)
	}
	return codes
}

// String returns the payload key prefix of the code, e.g. "cofins".
func (c Code) String() string {
	if c < 0 || c >= codeCount {
		return "unknown"
	}
	return codeKeys[c]
}

// Label returns the human name of the tax, e.g. "PIS/PASEP".
func (c Code) Label() string {
	if c < 0 || c >= codeCount {
		return "unknown"
	}
	return codeLabels[c]
}

// HasInput reports whether callers supply rates and bases for the code.
// The selective tax has no input field of its own.
func (c Code) HasInput() bool { return c >= 0 && c < IS }

// ParseCode parses a code key ("pis", "cbs", ...).
func ParseCode(s string) (Code, error) {
	for i, k := range codeKeys {
		if k == s {
			return Code(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tax code: %q", s)
}

func (c Code) MarshalJSON() ([]byte, error) { return json.Marshal(c.String()) }

func (c *Code) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseCode(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Stage is the side of a transaction a tax field belongs to.
type Stage int

const (
	// Entry is a purchase: paid tax becomes a credit.
	Entry Stage = iota
	// Exit is a sale: owed tax is a debit.
	Exit

	stageCount
)

func (s Stage) String() string {
	switch s {
	case Entry:
		return "entry"
	case Exit:
		return "exit"
	default:
		return "unknown"
	}
}
