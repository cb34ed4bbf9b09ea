package taxreform

// AfterReform is the projected liability under the IBS/CBS reform.
type AfterReform struct {
	Rates    ProjectedRates `json:"rates"`
	Entries  []TaxEntry     `json:"entries"`
	Exits    []TaxExit      `json:"exits"`
	TotalDue Amount         `json:"total_due"`
	// ReductionPercent is the sector reduction applied to TotalDue.
	ReductionPercent      Percent `json:"reduction_percent"`
	TotalDueWithReduction Amount  `json:"total_due_with_reduction"`
}

// ComputeAfter runs the reform pipeline with already resolved rates.
//
// CBS and IBS are creditable. The selective tax has no credit and, lacking a
// base field of its own, is levied on the IPI exit base.
func ComputeAfter(in Input, rates ProjectedRates) AfterReform {
	entries := []TaxEntry{
		NewTaxEntry(CBS, rates.CBSEntry, in.Field(CBS, Entry).Base),
		NewTaxEntry(IBS, rates.IBSEntry, in.Field(IBS, Entry).Base),
	}
	credits := NewCreditIndex(entries)

	exits := []TaxExit{
		NewTaxExit(CBS, rates.CBSExit, in.Field(CBS, Exit).Base, credits),
		NewTaxExit(IBS, rates.IBSExit, in.Field(IBS, Exit).Base, credits),
		NewTaxExit(IS, rates.Selective, in.Field(IPI, Exit).Base, credits),
	}
	total := totalDue(exits)

	return AfterReform{
		Rates:                 rates,
		Entries:               entries,
		Exits:                 exits,
		TotalDue:              total,
		ReductionPercent:      rates.Reduction,
		TotalDueWithReduction: total.Scale(rates.Reduction.Complement()),
	}
}
