package taxreform

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Tables gathers every reference rate the engine depends on. They are data:
// swap them with DecodeTables or build an Engine with custom ones.
type Tables struct {
	Reform     ReformTables     `yaml:"reform" json:"reform"`
	Simplified SimplifiedTables `yaml:"simplified" json:"simplified"`
}

// ReformTables holds the reform rates used when the caller does not supply them.
type ReformTables struct {
	CBS       Percent `yaml:"cbs" json:"cbs"`             // default CBS entry aliquot
	IBS       Percent `yaml:"ibs" json:"ibs"`             // default IBS entry aliquot
	Selective Percent `yaml:"selective" json:"selective"` // IS aliquot, never taken from input
}

// SimplifiedTables holds the reference rates of the simplified estimator.
type SimplifiedTables struct {
	// Current is the effective rate of the current regime, by segment and activity.
	Current map[Segment]map[Activity]Percent `yaml:"current" json:"current"`
	IBS     map[Segment]Percent              `yaml:"ibs" json:"ibs"`
	CBS     map[Segment]Percent              `yaml:"cbs" json:"cbs"`
	// Reductions are sector wide discounts on the reform rate.
	Reductions map[Segment]Percent  `yaml:"reductions" json:"reductions"`
	CostBands  map[CostBand]Percent `yaml:"cost_bands" json:"cost_bands"`

	DefaultSegment  Segment  `yaml:"default_segment" json:"default_segment"`
	DefaultActivity Activity `yaml:"default_activity" json:"default_activity"`
	DefaultIBS      Percent  `yaml:"default_ibs" json:"default_ibs"`
	DefaultCBS      Percent  `yaml:"default_cbs" json:"default_cbs"`
	DefaultCostBand Percent  `yaml:"default_cost_band" json:"default_cost_band"`
	// CreditableShare is the part of the costs that generates credits.
	CreditableShare Percent `yaml:"creditable_share" json:"creditable_share"`
}

// DefaultTables returns a fresh copy of the built-in reference tables.
func DefaultTables() Tables {
	return Tables{
		Reform: ReformTables{
			CBS:       P(8.8),
			IBS:       P(17.7),
			Selective: P(1.0),
		},
		Simplified: SimplifiedTables{
			Current: map[Segment]map[Activity]Percent{
				Industry:     {SimplesNacional: P(8.0), LucroPresumido: P(10.0), LucroReal: P(12.0)},
				Commerce:     {SimplesNacional: P(6.0), LucroPresumido: P(8.0), LucroReal: P(10.0)},
				Services:     {SimplesNacional: P(8.0), LucroPresumido: P(14.0), LucroReal: P(16.0)},
				Agribusiness: {SimplesNacional: P(4.0), LucroPresumido: P(6.0), LucroReal: P(8.0)},
				Other:        {SimplesNacional: P(7.0), LucroPresumido: P(9.0), LucroReal: P(11.0)},
			},
			IBS: map[Segment]Percent{
				Industry: P(12.0), Commerce: P(12.0), Services: P(13.5), Agribusiness: P(10.0), Other: P(12.0),
			},
			CBS: map[Segment]Percent{
				Industry: P(12.0), Commerce: P(12.0), Services: P(11.5), Agribusiness: P(8.0), Other: P(12.0),
			},
			Reductions: map[Segment]Percent{
				Agribusiness: P(40),
			},
			CostBands: map[CostBand]Percent{
				LowCosts: P(30.0), MediumCosts: P(45.0), HighCosts: P(75.0),
			},
			DefaultSegment:  Other,
			DefaultActivity: SimplesNacional,
			DefaultIBS:      P(12.0),
			DefaultCBS:      P(12.0),
			DefaultCostBand: P(45.0),
			CreditableShare: P(100),
		},
	}
}

// DecodeTables reads YAML tables from r on top of the default tables.
// Sections absent from the YAML keep their default values, a segment listed
// under "current" replaces its whole activity row.
func DecodeTables(r io.Reader) (Tables, error) {
	t := DefaultTables()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil && !errors.Is(err, io.EOF) {
		return Tables{}, fmt.Errorf("cannot decode tables: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tables{}, err
	}
	return t, nil
}

// LoadTables reads tables from a YAML file, or returns the defaults when
// name is empty.
func LoadTables(name string) (Tables, error) {
	if name == "" {
		return DefaultTables(), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return Tables{}, fmt.Errorf("cannot open tables: %w", err)
	}
	defer f.Close()
	t, err := DecodeTables(f)
	if err != nil {
		return Tables{}, fmt.Errorf("%s: %w", name, err)
	}
	return t, nil
}

// Validate checks that every fallback lookup of the tables resolves.
func (t Tables) Validate() error {
	var errs error
	s := t.Simplified
	if _, ok := s.Current[s.DefaultSegment]; !ok {
		errs = errors.Join(errs, fmt.Errorf("default segment %d has no current rates", s.DefaultSegment))
	}
	for seg, r := range s.Current {
		if _, ok := r[s.DefaultActivity]; !ok {
			errs = errors.Join(errs, fmt.Errorf("segment %d has no rate for default activity %d", seg, s.DefaultActivity))
		}
	}
	for seg, red := range s.Reductions {
		if red.value.IsNegative() || red.value.GreaterThan(hundred) {
			errs = errors.Join(errs, fmt.Errorf("segment %d reduction %s is out of [0%%, 100%%]", seg, red))
		}
	}
	return errs
}
