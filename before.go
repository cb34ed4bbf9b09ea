package taxreform

var (
	beforeEntryCodes = [...]Code{PIS, COFINS, IPI, ICMS}
	beforeExitCodes  = [...]Code{PIS, COFINS, ISS, ICMS, IPI}
)

// BeforeReform is the liability under the current rules.
type BeforeReform struct {
	Entries  []TaxEntry `json:"entries"`
	Exits    []TaxExit  `json:"exits"`
	TotalDue Amount     `json:"total_due"`
}

// ComputeBefore runs the current regime pipeline: entries of PIS/PASEP,
// COFINS, IPI and ICMS generate credits, exits of PIS/PASEP, COFINS, ISS,
// ICMS and IPI generate debits.
func ComputeBefore(in Input) BeforeReform {
	entries := make([]TaxEntry, 0, len(beforeEntryCodes))
	for _, c := range beforeEntryCodes {
		f := in.Field(c, Entry)
		entries = append(entries, NewTaxEntry(c, f.Aliquot, f.Base))
	}
	credits := NewCreditIndex(entries)

	exits := make([]TaxExit, 0, len(beforeExitCodes))
	for _, c := range beforeExitCodes {
		f := in.Field(c, Exit)
		if c == ISS {
			f = issExitField(in)
		}
		exits = append(exits, NewTaxExit(c, f.Aliquot, f.Base, credits))
	}

	return BeforeReform{
		Entries:  entries,
		Exits:    exits,
		TotalDue: totalDue(exits),
	}
}

// issExitField resolves the ISS exit field. The input has no dedicated ISS
// rate in practice, callers provide it through the COFINS, then PIS/PASEP,
// exit fields. Aliquot and base fall back independently.
func issExitField(in Input) Field {
	return Field{
		Aliquot: Chain[Percent]{
			in.Field(ISS, Exit).Aliquot,
			in.Field(COFINS, Exit).Aliquot,
			in.Field(PIS, Exit).Aliquot,
		}.Resolve(),
		Base: Chain[Amount]{
			in.Field(ISS, Exit).Base,
			in.Field(COFINS, Exit).Base,
			in.Field(PIS, Exit).Base,
		}.Resolve(),
	}
}
