package taxreform

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func TestCompute_AllZero(t *testing.T) {
	r := Compute(nil)

	if !r.Before.TotalDue.IsZero() {
		t.Errorf("before total: got %v, want 0", r.Before.TotalDue)
	}
	if !r.After.TotalDue.IsZero() {
		t.Errorf("after total: got %v, want 0", r.After.TotalDue)
	}
	if got := r.Comparison.Classification; got != Neutral {
		t.Errorf("classification: got %v, want neutral", got)
	}
	if !r.Comparison.DifferencePercentPoints.IsZero() {
		t.Errorf("percent points: got %v, want 0", r.Comparison.DifferencePercentPoints)
	}
}

func TestCompute_RecordOrder(t *testing.T) {
	r := Compute(nil)

	codes := func(n int, code func(int) Code) []Code {
		var cs []Code
		for i := 0; i < n; i++ {
			cs = append(cs, code(i))
		}
		return cs
	}
	tests := []struct {
		name string
		got  []Code
		want []Code
	}{
		{"before entries", codes(len(r.Before.Entries), func(i int) Code { return r.Before.Entries[i].Code }), []Code{PIS, COFINS, IPI, ICMS}},
		{"before exits", codes(len(r.Before.Exits), func(i int) Code { return r.Before.Exits[i].Code }), []Code{PIS, COFINS, ISS, ICMS, IPI}},
		{"after entries", codes(len(r.After.Entries), func(i int) Code { return r.After.Entries[i].Code }), []Code{CBS, IBS}},
		{"after exits", codes(len(r.After.Exits), func(i int) Code { return r.After.Exits[i].Code }), []Code{CBS, IBS, IS}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, tc.got); diff != "" {
				t.Errorf("codes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompute_Before(t *testing.T) {
	r := Compute(map[string]any{
		"pis_aliquot_entry":    1.65,
		"pis_base_entry":       2000,
		"pis_aliquot_exit":     1.65,
		"pis_base_exit":        10000,
		"cofins_aliquot_entry": 7.6,
		"cofins_base_entry":    2000,
		"cofins_aliquot_exit":  7.6,
		"cofins_base_exit":     10000,
		"icms_aliquot_entry":   18,
		"icms_base_entry":      50000,
		"icms_aliquot_exit":    18,
		"icms_base_exit":       10000,
		"iss_aliquot_exit":     5,
		"iss_base_exit":        4000,
	})

	want := []TaxExit{
		{Code: PIS, Label: "PIS/PASEP", Aliquot: P(1.65), Base: A(10000), Debit: A(165), Credit: A(33), Due: A(132)},
		{Code: COFINS, Label: "COFINS", Aliquot: P(7.6), Base: A(10000), Debit: A(760), Credit: A(152), Due: A(608)},
		{Code: ISS, Label: "ISS", Aliquot: P(5), Base: A(4000), Debit: A(200), Credit: A(0), Due: A(200)},
		// credit exceeds debit: due is floored at zero.
		{Code: ICMS, Label: "ICMS", Aliquot: P(18), Base: A(10000), Debit: A(1800), Credit: A(9000), Due: A(0)},
		{Code: IPI, Label: "IPI", Aliquot: P(0), Base: A(0), Debit: A(0), Credit: A(0), Due: A(0)},
	}
	if diff := cmp.Diff(want, r.Before.Exits, cmpOpts...); diff != "" {
		t.Errorf("before exits mismatch (-want +got):\n%s", diff)
	}
	if want := A(940); !r.Before.TotalDue.Equal(want) {
		t.Errorf("before total: got %v, want %v", r.Before.TotalDue, want)
	}
}

func TestCompute_ISSFallback(t *testing.T) {
	tests := []struct {
		name        string
		payload     map[string]any
		wantAliquot Percent
		wantBase    Amount
	}{
		{
			name: "falls back to cofins",
			payload: map[string]any{
				"iss_aliquot_exit":    0,
				"iss_base_exit":       0,
				"cofins_aliquot_exit": 5,
				"cofins_base_exit":    1000,
			},
			wantAliquot: P(5),
			wantBase:    A(1000),
		},
		{
			name: "falls back to pis when cofins is missing",
			payload: map[string]any{
				"pis_aliquot_exit": 1.65,
				"pis_base_exit":    1000,
			},
			wantAliquot: P(1.65),
			wantBase:    A(1000),
		},
		{
			name: "aliquot and base fall back independently",
			payload: map[string]any{
				"iss_aliquot_exit":    2,
				"cofins_aliquot_exit": 7.6,
				"pis_base_exit":       300,
			},
			wantAliquot: P(2),
			wantBase:    A(300),
		},
		{
			name: "iss supplied",
			payload: map[string]any{
				"iss_aliquot_exit":    3,
				"iss_base_exit":       500,
				"cofins_aliquot_exit": 7.6,
				"cofins_base_exit":    1000,
			},
			wantAliquot: P(3),
			wantBase:    A(500),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			iss := exit(Compute(tc.payload).Before.Exits, ISS)
			if !iss.Aliquot.Equal(tc.wantAliquot) {
				t.Errorf("aliquot: got %v, want %v", iss.Aliquot, tc.wantAliquot)
			}
			if !iss.Base.Equal(tc.wantBase) {
				t.Errorf("base: got %v, want %v", iss.Base, tc.wantBase)
			}
			if !iss.Credit.IsZero() {
				t.Errorf("credit: got %v, want 0", iss.Credit)
			}
			if want := Apply(tc.wantBase, tc.wantAliquot); !iss.Due.Equal(want) {
				t.Errorf("due: got %v, want %v", iss.Due, want)
			}
		})
	}
}

func TestCompute_ISSFallbackScenario(t *testing.T) {
	r := Compute(map[string]any{
		"iss_aliquot_exit":    0,
		"iss_base_exit":       0,
		"cofins_aliquot_exit": 5,
		"cofins_base_exit":    1000,
	})
	iss := exit(r.Before.Exits, ISS)
	want := TaxExit{Code: ISS, Label: "ISS", Aliquot: P(5), Base: A(1000), Debit: A(50), Credit: A(0), Due: A(50)}
	if diff := cmp.Diff(want, iss, cmpOpts...); diff != "" {
		t.Errorf("iss exit mismatch (-want +got):\n%s", diff)
	}
}

func TestCompute_After(t *testing.T) {
	r := Compute(map[string]any{
		"ibs_base_exit":     10000,
		"ibs_aliquot_exit":  17.7,
		"ibs_base_entry":    4000,
		"ibs_aliquot_entry": 17.7,
	})

	if got, want := entry(r.After.Entries, IBS).Credit, A(708); !got.Equal(want) {
		t.Errorf("ibs credit: got %v, want %v", got, want)
	}
	ibs := exit(r.After.Exits, IBS)
	if want := A(1770); !ibs.Debit.Equal(want) {
		t.Errorf("ibs debit: got %v, want %v", ibs.Debit, want)
	}
	if want := A(1062); !ibs.Due.Equal(want) {
		t.Errorf("ibs due: got %v, want %v", ibs.Due, want)
	}
	cbs := exit(r.After.Exits, CBS)
	if !cbs.Aliquot.Equal(P(8.8)) || !cbs.Due.IsZero() {
		t.Errorf("cbs exit: got aliquot %v due %v, want 8.8%% and 0", cbs.Aliquot, cbs.Due)
	}
	if is := exit(r.After.Exits, IS); !is.Due.IsZero() {
		t.Errorf("is due: got %v, want 0", is.Due)
	}
	if want := A(1062); !r.After.TotalDue.Equal(want) {
		t.Errorf("after total: got %v, want %v", r.After.TotalDue, want)
	}
	if !r.After.TotalDueWithReduction.Equal(r.After.TotalDue) {
		t.Errorf("total with reduction: got %v, want %v", r.After.TotalDueWithReduction, r.After.TotalDue)
	}

	want := Comparison{Difference: A(1062), DifferencePercentPoints: P(100), Classification: Increase}
	if diff := cmp.Diff(want, r.Comparison, cmpOpts...); diff != "" {
		t.Errorf("comparison mismatch (-want +got):\n%s", diff)
	}
}

func TestCompute_SelectiveTax(t *testing.T) {
	r := Compute(map[string]any{
		"ipi_aliquot_exit": 10,
		"ipi_base_exit":    5000,
	})

	is := exit(r.After.Exits, IS)
	want := TaxExit{Code: IS, Label: "IS", Aliquot: P(1), Base: A(5000), Debit: A(50), Credit: A(0), Due: A(50)}
	if diff := cmp.Diff(want, is, cmpOpts...); diff != "" {
		t.Errorf("is exit mismatch (-want +got):\n%s", diff)
	}

	// before: IPI 10% of 5000 = 500, after: IS 1% of 5000 = 50.
	wantCmp := Comparison{Difference: A(-450), DifferencePercentPoints: P(-90), Classification: Decrease}
	if diff := cmp.Diff(wantCmp, r.Comparison, cmpOpts...); diff != "" {
		t.Errorf("comparison mismatch (-want +got):\n%s", diff)
	}
}

// TestCompute_Formula checks that every credit and debit is exactly
// base * aliquot / 100 and that nothing due is negative.
func TestCompute_Formula(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	value := func(max int64) decimal.Decimal {
		return decimal.New(rnd.Int63n(max*100), -2) // two decimals
	}
	formula := func(base Amount, aliquot Percent) Amount {
		return Amount{value: base.value.Mul(aliquot.value).Div(decimal.NewFromInt(100))}
	}

	for i := 0; i < 200; i++ {
		payload := make(map[string]any)
		for _, c := range Codes() {
			if !c.HasInput() {
				continue
			}
			for s := Entry; s < stageCount; s++ {
				payload[AliquotKey(c, s)] = value(40)
				payload[BaseKey(c, s)] = value(1_000_000)
			}
		}
		r := Compute(payload)

		for _, e := range append(append([]TaxEntry{}, r.Before.Entries...), r.After.Entries...) {
			if want := formula(e.Base, e.Aliquot); !e.Credit.Equal(want) {
				t.Fatalf("%v entry credit: got %v, want %v", e.Code, e.Credit, want)
			}
			if e.Credit.IsNegative() {
				t.Fatalf("%v entry credit is negative: %v", e.Code, e.Credit)
			}
		}
		for _, x := range append(append([]TaxExit{}, r.Before.Exits...), r.After.Exits...) {
			if want := formula(x.Base, x.Aliquot); !x.Debit.Equal(want) {
				t.Fatalf("%v exit debit: got %v, want %v", x.Code, x.Debit, want)
			}
			if x.Due.IsNegative() || x.Credit.IsNegative() {
				t.Fatalf("%v exit has negative values: credit %v due %v", x.Code, x.Credit, x.Due)
			}
			if want := x.Debit.Sub(x.Credit).Floor(); !x.Due.Equal(want) {
				t.Fatalf("%v exit due: got %v, want %v", x.Code, x.Due, want)
			}
		}
	}
}

func TestCompute_Idempotent(t *testing.T) {
	payload := map[string]any{
		"pis_aliquot_exit":   "1.65",
		"pis_base_exit":      "12345.67",
		"cbs_aliquot_entry":  9.25,
		"cbs_base_entry":     1000,
		"cbs_base_exit":      3333.33,
		"ibs_base_exit":      7777.77,
		"icms_aliquot_entry": 12,
		"icms_base_entry":    999.99,
		"segment":            3,
	}

	first, err := json.Marshal(Compute(payload))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := json.Marshal(Compute(payload))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("results differ:\n%s\n%s", first, second)
	}
}

func TestCompute_Concurrent(t *testing.T) {
	payload := map[string]any{"ibs_base_exit": 10000, "ibs_base_entry": 4000}
	want := Compute(payload)

	var wg sync.WaitGroup
	results := make([]*Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Compute(payload)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if diff := cmp.Diff(want, got, cmpOpts...); diff != "" {
			t.Errorf("result %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestEngine_CustomTables(t *testing.T) {
	tables := DefaultTables()
	tables.Reform.CBS = P(9)
	tables.Reform.Selective = P(2)
	e := NewEngine(tables)

	r := e.Compute(map[string]any{"cbs_base_exit": 1000, "ipi_base_exit": 1000})

	if got := exit(r.After.Exits, CBS).Due; !got.Equal(A(90)) {
		t.Errorf("cbs due: got %v, want 90", got)
	}
	if got := exit(r.After.Exits, IS).Due; !got.Equal(A(20)) {
		t.Errorf("is due: got %v, want 20", got)
	}
}

func TestResult_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Compute(map[string]any{
		"ibs_base_exit":     10000,
		"ibs_aliquot_exit":  17.7,
		"ibs_base_entry":    4000,
		"ibs_aliquot_entry": 17.7,
	}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got struct {
		Inputs map[string]any `json:"inputs"`
		After  struct {
			Rates    map[string]float64 `json:"rates"`
			TotalDue float64            `json:"total_due"`
			Exits    []struct {
				Code  string  `json:"code"`
				Label string  `json:"label"`
				Due   float64 `json:"due"`
			} `json:"exits"`
		} `json:"after"`
		Comparison struct {
			Difference     float64 `json:"difference"`
			Classification string  `json:"classification"`
		} `json:"comparison"`
	}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal %s: %v", b, err)
	}

	if len(got.Inputs) != 29 {
		t.Errorf("got %d input keys, want 29", len(got.Inputs))
	}
	wantRates := map[string]float64{
		"cbs_aliquot_entry": 8.8,
		"cbs_aliquot_exit":  8.8,
		"ibs_aliquot_entry": 17.7,
		"ibs_aliquot_exit":  17.7,
		"is_aliquot":        1,
		"reduction_percent": 0,
	}
	if diff := cmp.Diff(wantRates, got.After.Rates); diff != "" {
		t.Errorf("rates mismatch (-want +got):\n%s", diff)
	}
	if got.After.TotalDue != 1062 {
		t.Errorf("after total: got %v, want 1062", got.After.TotalDue)
	}
	if e := got.After.Exits[1]; e.Code != "ibs" || e.Label != "IBS" || e.Due != 1062 {
		t.Errorf("ibs exit: got %+v", e)
	}
	if got.Comparison.Classification != "increase" || got.Comparison.Difference != 1062 {
		t.Errorf("comparison: got %+v", got.Comparison)
	}
}
