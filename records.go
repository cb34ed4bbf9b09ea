package taxreform

// TaxEntry is a credit generating record: tax paid on purchases for one code.
type TaxEntry struct {
	Code    Code    `json:"code"`
	Label   string  `json:"label"`
	Aliquot Percent `json:"aliquot"`
	Base    Amount  `json:"base"`
	Credit  Amount  `json:"credit"`
}

// NewTaxEntry creates the entry of code c, its credit is Apply(base, aliquot).
func NewTaxEntry(c Code, aliquot Percent, base Amount) TaxEntry {
	return TaxEntry{
		Code:    c,
		Label:   c.Label(),
		Aliquot: aliquot,
		Base:    base,
		Credit:  Apply(base, aliquot),
	}
}

// TaxExit is a debit record for one code, netted against the credit of the
// entry with the same code.
type TaxExit struct {
	Code    Code    `json:"code"`
	Label   string  `json:"label"`
	Aliquot Percent `json:"aliquot"`
	Base    Amount  `json:"base"`
	Debit   Amount  `json:"debit"`
	Credit  Amount  `json:"credit"`
	Due     Amount  `json:"due"`
}

// NewTaxExit creates the exit of code c. The credit comes from credits and
// the due amount is never negative: an excess of credit is not carried.
func NewTaxExit(c Code, aliquot Percent, base Amount, credits CreditIndex) TaxExit {
	debit := Apply(base, aliquot)
	credit := credits.Credit(c)
	return TaxExit{
		Code:    c,
		Label:   c.Label(),
		Aliquot: aliquot,
		Base:    base,
		Debit:   debit,
		Credit:  credit,
		Due:     debit.Sub(credit).Floor(),
	}
}

// CreditIndex maps a tax code to the credit of its entry. It is built once
// from the entries of a regime and only read afterwards.
type CreditIndex struct {
	credits [codeCount]Amount
}

// NewCreditIndex indexes the credits of entries by code.
func NewCreditIndex(entries []TaxEntry) CreditIndex {
	var ix CreditIndex
	for _, e := range entries {
		if e.Code >= 0 && e.Code < codeCount {
			ix.credits[e.Code] = ix.credits[e.Code].Add(e.Credit)
		}
	}
	return ix
}

// Credit returns the credit of code c, zero when no entry has that code.
func (ix CreditIndex) Credit(c Code) Amount {
	if c < 0 || c >= codeCount {
		return Amount{}
	}
	return ix.credits[c]
}

// totalDue sums the due amount of exits.
func totalDue(exits []TaxExit) Amount {
	due := make([]Amount, len(exits))
	for i, x := range exits {
		due[i] = x.Due
	}
	return Sum(due...)
}
