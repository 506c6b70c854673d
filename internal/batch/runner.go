package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roboco-io/docx2xlsx/internal/parser"
)

// Result is the outcome of one document.
type Result struct {
	Input        string
	Output       string // empty when the document failed
	Intermediate string
	Format       parser.Format
	Tables       int
	Warnings     int
	Err          error
	Duration     time.Duration
}

// OK reports whether the document produced its workbook.
func (r Result) OK() bool {
	return r.Err == nil
}

// Report collects the results of a batch in input order.
type Report struct {
	Results  []Result
	Duration time.Duration
}

// Failed returns the number of documents that produced no workbook.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.OK() {
			n++
		}
	}
	return n
}

// Succeeded returns the number of documents that produced a workbook.
func (r *Report) Succeeded() int {
	return len(r.Results) - r.Failed()
}

// Err joins the errors of all failed documents.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Input, res.Err))
		}
	}
	return errors.Join(errs...)
}

// Runner processes documents concurrently. A failing document never stops
// the others.
type Runner struct {
	proc    *Processor
	workers int
	suffix  string
}

// NewRunner creates a Runner. workers <= 0 means one per CPU.
func NewRunner(proc *Processor, workers int) *Runner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Runner{proc: proc, workers: workers, suffix: proc.opts.OutputSuffix}
}

// Run writes one workbook per input into outDir. Cancelling ctx stops
// scheduling; documents not started report the context error.
func (r *Runner) Run(ctx context.Context, inputs []string, outDir string) *Report {
	start := time.Now()
	report := &Report{Results: make([]Result, len(inputs))}

	outputs := assignOutputs(inputs, outDir, r.suffix)

	var g errgroup.Group
	g.SetLimit(r.workers)
	for i, input := range inputs {
		output := outputs[i]
		if ctx.Err() != nil {
			report.Results[i] = Result{Input: input, Err: ctx.Err()}
			continue
		}
		g.Go(func() error {
			report.Results[i] = r.proc.Process(ctx, input, output)
			return nil
		})
	}
	g.Wait()

	report.Duration = time.Since(start)
	return report
}

// assignOutputs gives every input a distinct workbook path. Inputs sharing a
// stem, such as report.pdf and report.docx, get their extension in the name.
func assignOutputs(inputs []string, outDir, suffix string) []string {
	counts := make(map[string]int)
	for _, in := range inputs {
		counts[strings.ToLower(OutputPath(in, outDir, suffix))]++
	}

	taken := make(map[string]bool)
	outputs := make([]string, len(inputs))
	for i, in := range inputs {
		out := OutputPath(in, outDir, suffix)
		if counts[strings.ToLower(out)] > 1 {
			ext := strings.TrimPrefix(filepath.Ext(in), ".")
			base := stem(in) + "_" + ext
			out = filepath.Join(outDir, base+suffix+".xlsx")
			for n := 2; taken[strings.ToLower(out)]; n++ {
				out = filepath.Join(outDir, fmt.Sprintf("%s_%d%s.xlsx", base, n, suffix))
			}
		}
		taken[strings.ToLower(out)] = true
		outputs[i] = out
	}
	return outputs
}

// Collect expands directories in paths into the files matching patterns,
// sorted by name. Files named explicitly are kept as given. Duplicates are
// dropped.
func Collect(paths []string, patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(p string) {
		key := filepath.Clean(p)
		if !seen[key] {
			seen[key] = true
			files = append(files, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(p)
			continue
		}

		var matched []string
		for _, pattern := range patterns {
			m, err := filepath.Glob(filepath.Join(p, pattern))
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			matched = append(matched, m...)
		}
		sort.Strings(matched)
		for _, m := range matched {
			if fi, err := os.Stat(m); err == nil && !fi.IsDir() {
				add(m)
			}
		}
	}
	return files, nil
}
