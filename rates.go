package taxreform

// sectorReduction is the reform sector reduction. It is carried through the
// whole after-reform pipeline but no policy sets it yet.
var sectorReduction = Percent{}

// ProjectedRates are the resolved after-reform rates.
type ProjectedRates struct {
	CBSEntry  Percent `json:"cbs_aliquot_entry"`
	CBSExit   Percent `json:"cbs_aliquot_exit"`
	IBSEntry  Percent `json:"ibs_aliquot_entry"`
	IBSExit   Percent `json:"ibs_aliquot_exit"`
	Selective Percent `json:"is_aliquot"`
	Reduction Percent `json:"reduction_percent"`
}

// ResolveRates completes the reform rates supplied in the input. A zero rate
// means "not supplied":
//   - an entry aliquot defaults to the reference rate of t,
//   - an exit aliquot defaults to the resolved entry aliquot,
//   - the selective tax aliquot always comes from t.
func ResolveRates(in Input, t ReformTables) ProjectedRates {
	cbsEntry := Chain[Percent]{in.Field(CBS, Entry).Aliquot, t.CBS}.Resolve()
	ibsEntry := Chain[Percent]{in.Field(IBS, Entry).Aliquot, t.IBS}.Resolve()
	return ProjectedRates{
		CBSEntry:  cbsEntry,
		CBSExit:   Chain[Percent]{in.Field(CBS, Exit).Aliquot, cbsEntry}.Resolve(),
		IBSEntry:  ibsEntry,
		IBSExit:   Chain[Percent]{in.Field(IBS, Exit).Aliquot, ibsEntry}.Resolve(),
		Selective: t.Selective,
		Reduction: sectorReduction,
	}
}
