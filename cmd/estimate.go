package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/taxreform/renderer"
	"github.com/google/subcommands"
)

// estimateCmd holds the flags for the 'estimate' subcommand.
type estimateCmd struct {
	segment   int
	activity  int
	invoicing float64
	costs     int
	format    string
}

func (*estimateCmd) Name() string     { return "estimate" }
func (*estimateCmd) Synopsis() string { return "estimate the reform impact by segment and tax regime" }
func (*estimateCmd) Usage() string {
	return `trc estimate -segment <1-5> -activity <1-3> -invoicing <amount> -costs <1-3> [-f markdown|json|html]

  Runs the simplified estimator. See "trc topic estimate".
`
}

func (c *estimateCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.segment, "segment", 5, "1 industry, 2 commerce, 3 services, 4 agribusiness, 5 other")
	f.IntVar(&c.activity, "activity", 1, "1 Simples Nacional, 2 Lucro Presumido, 3 Lucro Real")
	f.Float64Var(&c.invoicing, "invoicing", 0, "yearly invoicing")
	f.IntVar(&c.costs, "costs", 2, "costs band: 1 up to 30%, 2 from 30% to 60%, 3 from 60% to 90% of invoicing")
	f.StringVar(&c.format, "f", formatMarkdown, "output format: markdown, json or html")
}

func (c *estimateCmd) payload() map[string]any {
	return map[string]any{
		"segment":   c.segment,
		"activity":  c.activity,
		"invoicing": c.invoicing,
		"costs":     c.costs,
	}
}

func (c *estimateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !validFormat(c.format) {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", c.format)
		return subcommands.ExitUsageError
	}
	engine, err := loadEngine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading tables: %v\n", err)
		return subcommands.ExitFailure
	}

	e := engine.Estimate(c.payload())
	if err := writeResult(os.Stdout, c.format, e, func() string { return renderer.RenderEstimate(e) }); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing estimate: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
