package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/etnz/taxreform"
	"github.com/etnz/taxreform/api"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// batchCmd holds the flags for the 'batch' subcommand.
type batchCmd struct {
	output   string
	jobs     int
	logLevel string
}

func (*batchCmd) Name() string     { return "batch" }
func (*batchCmd) Synopsis() string { return "compute many payloads into a spreadsheet" }
func (*batchCmd) Usage() string {
	return `trc batch [-o <report.xlsx>] [-j <jobs>] <payload.json>...

  Computes every payload file and writes a workbook with a Comparison sheet,
  one row per file, and an Exits sheet, one row per file, regime and tax.
  Files that cannot be read are reported and skipped.
`
}

func (c *batchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "report.xlsx", "output workbook")
	f.IntVar(&c.jobs, "j", runtime.NumCPU(), "number of payloads computed concurrently")
	f.StringVar(&c.logLevel, "log-level", "info", "log level: debug, info, warn or error")
}

// batchRow is the computation of one payload file.
type batchRow struct {
	File   string
	Result *taxreform.Result
}

func (c *batchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no payload file")
		return subcommands.ExitUsageError
	}
	log, err := api.NewLogger(api.StageLocal, c.logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer log.Sync()

	engine, err := loadEngine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading tables: %v\n", err)
		return subcommands.ExitFailure
	}

	bar := progressbar.NewOptions(f.NArg(),
		progressbar.OptionSetDescription("Computing payloads"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	rows, err := computeFiles(ctx, engine, f.Args(), c.jobs, func() { _ = bar.Add(1) })
	_ = bar.Finish()
	if err != nil {
		// per file failures do not stop the batch.
		log.Warn("some payloads were skipped", zap.Error(err))
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no payload could be computed")
		return subcommands.ExitFailure
	}

	wb, err := newWorkbook(rows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building workbook: %v\n", err)
		return subcommands.ExitFailure
	}
	defer wb.Close()
	if err := wb.SaveAs(c.output); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	log.Info("batch written", zap.String("file", c.output), zap.Int("computed", len(rows)), zap.Int("skipped", f.NArg()-len(rows)))
	return subcommands.ExitSuccess
}

// computeFiles computes every file with at most jobs concurrent
// computations. Rows keep the order of files, failed files are left out and
// their errors joined.
func computeFiles(ctx context.Context, engine *taxreform.Engine, files []string, jobs int, done func()) ([]batchRow, error) {
	results := make([]*taxreform.Result, len(files))
	errs := make([]error, len(files))

	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			defer done()
			if err := ctx.Err(); err != nil {
				return err
			}
			payload, err := readPayload(file)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = engine.Compute(payload)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var rows []batchRow
	for i, r := range results {
		if r != nil {
			rows = append(rows, batchRow{File: files[i], Result: r})
		}
	}
	return rows, errors.Join(errs...)
}
