// Package cmd implements the trc command line application.
package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/taxreform"
	"github.com/etnz/taxreform/renderer"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range commands() {
		c.Register(cmd, group(cmd))
	}
}

func commands() []subcommands.Command {
	return []subcommands.Command{
		&computeCmd{},
		&estimateCmd{},
		&batchCmd{},
		&ratesCmd{},
		&serveCmd{},
		&topicCmd{},
	}
}

func group(c subcommands.Command) string {
	switch c.(type) {
	case *computeCmd, *estimateCmd, *batchCmd:
		return "computation"
	case *ratesCmd:
		return "reference"
	case *serveCmd:
		return "server"
	default:
		return "help"
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var tablesFile = flag.String("tables", "", "YAML file of reference tables, defaults to the built-in tables")

// loadEngine creates an engine with the tables of the -tables flag.
func loadEngine() (*taxreform.Engine, error) {
	tables, err := taxreform.LoadTables(*tablesFile)
	if err != nil {
		return nil, err
	}
	return taxreform.NewEngine(tables), nil
}

// readPayload decodes a JSON payload from a file, or from stdin when name is "-" or empty.
func readPayload(name string) (map[string]any, error) {
	if name == "" || name == "-" {
		return taxreform.DecodePayload(os.Stdin)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	payload, err := taxreform.DecodePayload(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return payload, nil
}

// Output formats of the -f flag.
const (
	formatMarkdown = "markdown"
	formatJSON     = "json"
	formatHTML     = "html"
)

var formats = []string{formatMarkdown, formatJSON, formatHTML}

func validFormat(format string) bool {
	for _, f := range formats {
		if f == format {
			return true
		}
	}
	return false
}

// writeResult writes v in format to w. markdown renders the report of v.
func writeResult(w io.Writer, format string, v any, markdown func() string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatHTML:
		html, err := renderer.HTML(markdown())
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, html)
		return err
	case formatMarkdown:
		printMarkdown(w, markdown())
		return nil
	default:
		return fmt.Errorf("unknown format %q, want one of %v", format, formats)
	}
}

// printMarkdown renders md for the terminal when w is one, raw otherwise.
func printMarkdown(w io.Writer, md string) {
	if isTerminal(w) {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
		if err == nil {
			if out, err := r.Render(md); err == nil {
				md = out
			}
		}
	}
	fmt.Fprint(w, md)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
