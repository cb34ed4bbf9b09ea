package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/taxreform/renderer"
	"github.com/google/subcommands"
)

// computeCmd holds the flags for the 'compute' subcommand.
type computeCmd struct {
	input  string
	format string
	query  string
}

func (*computeCmd) Name() string     { return "compute" }
func (*computeCmd) Synopsis() string { return "compare the tax liability before and after the reform" }
func (*computeCmd) Usage() string {
	return `trc compute [-i <payload.json>] [-f markdown|json|html] [-q <jsonpath>]

  Computes the liability of a JSON payload under the current rules and under
  the reform. See "trc topic computation" for the payload fields.
`
}

func (c *computeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", "-", "JSON payload file, - for stdin")
	f.StringVar(&c.format, "f", formatMarkdown, "output format: markdown, json or html")
	f.StringVar(&c.query, "q", "", "print only the value at this JSONPath of the JSON result, e.g. $.after.total_due")
}

func (c *computeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !validFormat(c.format) {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", c.format)
		return subcommands.ExitUsageError
	}
	engine, err := loadEngine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading tables: %v\n", err)
		return subcommands.ExitFailure
	}
	payload, err := readPayload(c.input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading payload: %v\n", err)
		return subcommands.ExitFailure
	}

	result := engine.Compute(payload)

	if c.query != "" {
		if err := printQuery(os.Stdout, result, c.query); err != nil {
			fmt.Fprintf(os.Stderr, "Error querying %q: %v\n", c.query, err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	err = writeResult(os.Stdout, c.format, result, func() string { return renderer.RenderResult(result) })
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing result: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// query evaluates a JSONPath expression on the JSON form of v. Numbers are
// kept as json.Number so that decimals print exactly as in -f json.
func query(v any, path string) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return jsonpath.Get(path, doc)
}

// printQuery prints the value at path: strings as is, anything else as JSON.
func printQuery(w io.Writer, v any, path string) error {
	value, err := query(v, path)
	if err != nil {
		return err
	}
	if s, ok := value.(string); ok {
		_, err := fmt.Fprintln(w, s)
		return err
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
