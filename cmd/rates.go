package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/taxreform/renderer"
	"github.com/google/subcommands"
)

type ratesCmd struct {
	format string
}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "print the reference tables" }
func (*ratesCmd) Usage() string {
	return `trc [-tables <file.yaml>] rates [-f markdown|json|html]

  Prints the reference tables in use.
`
}

func (c *ratesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "f", formatMarkdown, "output format: markdown, json or html")
}

func (c *ratesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !validFormat(c.format) {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", c.format)
		return subcommands.ExitUsageError
	}
	engine, err := loadEngine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading tables: %v\n", err)
		return subcommands.ExitFailure
	}

	tables := engine.Tables()
	if err := writeResult(os.Stdout, c.format, tables, func() string { return renderer.RenderTables(tables) }); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing tables: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
