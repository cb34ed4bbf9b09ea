package taxreform

// Result is the outcome of one computation. It is built once and never
// modified afterwards.
type Result struct {
	Inputs     Input        `json:"inputs"`
	Before     BeforeReform `json:"before"`
	After      AfterReform  `json:"after"`
	Comparison Comparison   `json:"comparison"`
}

// Engine computes results against a set of reference tables. It has no
// mutable state: one Engine can serve concurrent computations.
type Engine struct {
	tables Tables
}

// NewEngine creates an engine using t as reference tables.
func NewEngine(t Tables) *Engine {
	return &Engine{tables: t}
}

// Tables returns the reference tables of the engine.
func (e *Engine) Tables() Tables { return e.tables }

// Compute sanitizes payload and computes the before/after comparison.
// It never fails: malformed values count as zero.
func (e *Engine) Compute(payload map[string]any) *Result {
	return e.ComputeInput(Sanitize(payload))
}

// ComputeInput computes the before/after comparison of a sanitized input.
func (e *Engine) ComputeInput(in Input) *Result {
	before := ComputeBefore(in)
	after := ComputeAfter(in, ResolveRates(in, e.tables.Reform))
	return &Result{
		Inputs:     in,
		Before:     before,
		After:      after,
		Comparison: Compare(before.TotalDue, after.TotalDue),
	}
}

var defaultEngine = NewEngine(DefaultTables())

// Compute computes payload with the default reference tables.
func Compute(payload map[string]any) *Result { return defaultEngine.Compute(payload) }

// Estimate runs the simplified estimator with the default reference tables.
func Estimate(payload map[string]any) *Estimation { return defaultEngine.Estimate(payload) }
