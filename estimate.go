package taxreform

import "encoding/json"

// EstimateInput is the sanitized input of the simplified estimator.
type EstimateInput struct {
	Segment   Segment  `json:"segment"`
	Invoicing Amount   `json:"invoicing"`
	Costs     CostBand `json:"costs"`
	Activity  Activity `json:"activity"`
}

// SanitizeEstimate converts an untyped payload into an EstimateInput.
// Invoicing is the only value floored at zero.
func SanitizeEstimate(payload map[string]any) EstimateInput {
	return EstimateInput{
		Segment:   Segment(toInt(payload["segment"])),
		Invoicing: Amount{value: toDecimal(payload["invoicing"])}.Floor(),
		Costs:     CostBand(toInt(payload["costs"])),
		Activity:  Activity(toInt(payload["activity"])),
	}
}

// SegmentRates are the reference rates applying to one segment and activity.
type SegmentRates struct {
	Current         Percent `json:"t_current"`
	IBS             Percent `json:"t_ibs"`
	CBS             Percent `json:"t_cbs"`
	SectorReduction Percent `json:"sector_reduction"`
	CreditableShare Percent `json:"creditable_share"`
	// CreditRate is the rate credited on creditable costs.
	CreditRate Percent `json:"t_credit"`
}

// Rates resolves the reference rates of a segment and activity. Unknown
// segments and activities use the table defaults.
func (t SimplifiedTables) Rates(seg Segment, act Activity) SegmentRates {
	row, ok := t.Current[seg]
	if !ok {
		row = t.Current[t.DefaultSegment]
	}
	current, ok := row[act]
	if !ok {
		current = row[t.DefaultActivity]
	}
	ibs := lookup(t.IBS, seg, t.DefaultIBS)
	cbs := lookup(t.CBS, seg, t.DefaultCBS)
	return SegmentRates{
		Current:         current,
		IBS:             ibs,
		CBS:             cbs,
		SectorReduction: lookup(t.Reductions, seg, Percent{}),
		CreditableShare: t.CreditableShare,
		CreditRate:      ibs.Add(cbs),
	}
}

// CostsPercent returns the costs of band b, in percent of the invoicing.
func (t SimplifiedTables) CostsPercent(b CostBand) Percent {
	return lookup(t.CostBands, b, t.DefaultCostBand)
}

func lookup[K comparable](m map[K]Percent, k K, def Percent) Percent {
	if v, ok := m[k]; ok {
		return v
	}
	return def
}

// EstimateBefore is the current liability of the simplified estimator.
type EstimateBefore struct {
	Base          Amount  `json:"base"`
	Tax           Amount  `json:"tax"`
	EffectiveRate Percent `json:"effective_rate"`
}

// EstimateAfter is the projected liability of the simplified estimator.
type EstimateAfter struct {
	Base          Amount  `json:"base"`
	GrossTax      Amount  `json:"gross_tax"`
	InputCredit   Amount  `json:"input_credit"`
	NetTax        Amount  `json:"net_tax"`
	EffectiveRate Percent `json:"effective_rate"`
}

// Estimation is the outcome of the simplified estimator.
type Estimation struct {
	Inputs     EstimateInput
	Parameters SegmentRates
	// TotalRate is IBS + CBS, EffectiveTotalRate the same after the sector reduction.
	TotalRate          Percent
	EffectiveTotalRate Percent
	CostsPercent       Percent
	Before             EstimateBefore
	After              EstimateAfter
	// Comparison.DifferencePercentPoints is the change of the effective rate.
	Comparison Comparison
}

// Estimate runs the simplified estimator: a flat current rate by segment and
// activity against the reform rates, with credits on a band of costs.
func (e *Engine) Estimate(payload map[string]any) *Estimation {
	return e.EstimateInput(SanitizeEstimate(payload))
}

// EstimateInput runs the simplified estimator on a sanitized input.
func (e *Engine) EstimateInput(in EstimateInput) *Estimation {
	t := e.tables.Simplified
	params := t.Rates(in.Segment, in.Activity)
	costsPercent := t.CostsPercent(in.Costs)
	invoicing := in.Invoicing

	before := EstimateBefore{
		Base: invoicing,
		Tax:  Apply(invoicing, params.Current),
	}
	before.EffectiveRate = before.Tax.Ratio(invoicing)

	totalRate := params.IBS.Add(params.CBS)
	effectiveTotalRate := Percent{value: totalRate.value.Mul(params.SectorReduction.Complement())}

	costs := Apply(invoicing, costsPercent)
	creditable := Apply(costs, params.CreditableShare)
	after := EstimateAfter{
		Base:        invoicing,
		GrossTax:    Apply(invoicing, effectiveTotalRate),
		InputCredit: Apply(creditable, params.CreditRate),
	}
	after.NetTax = after.GrossTax.Sub(after.InputCredit).Floor()
	after.EffectiveRate = after.NetTax.Ratio(invoicing)

	diff := after.NetTax.Sub(before.Tax)
	return &Estimation{
		Inputs:             in,
		Parameters:         params,
		TotalRate:          totalRate,
		EffectiveTotalRate: effectiveTotalRate,
		CostsPercent:       costsPercent,
		Before:             before,
		After:              after,
		Comparison: Comparison{
			Difference:              diff,
			DifferencePercentPoints: after.EffectiveRate.Sub(before.EffectiveRate),
			Classification:          Classify(diff),
		},
	}
}

// MarshalJSON writes the estimation with the derived rates merged into the
// parameters object.
func (e *Estimation) MarshalJSON() ([]byte, error) {
	var params jsonObjectWriter
	params.EmbedFrom(e.Parameters).
		Append("t_total", e.TotalRate).
		Append("t_total_effective", e.EffectiveTotalRate).
		Append("costs_percent", e.CostsPercent)
	rawParams, err := params.MarshalJSON()
	if err != nil {
		return nil, err
	}

	var w jsonObjectWriter
	w.Append("inputs", e.Inputs).
		Append("parameters", json.RawMessage(rawParams)).
		Append("before", e.Before).
		Append("after", e.After).
		Append("comparison", e.Comparison)
	return w.MarshalJSON()
}
