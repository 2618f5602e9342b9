// Package analysis runs the semantic analyzer over batches of source files.
// Every file gets its own session; decoded class files are shared through
// the runner's finder, which must be safe for concurrent use.
package analysis

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync/atomic"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/javasem/semantic"
	"github.com/dhamidi/javasem/source"
)

var log = commonlog.GetLogger("javasem.analysis")

// Report is the outcome of analysing one file. Err is set when the file
// could not be read or parsed, or when analysis stopped on a structural
// fault such as cyclic inheritance; Model is nil in that case.
type Report struct {
	File       string
	Model      *semantic.Model
	Unresolved []semantic.Unresolved
	Err        error
}

type Runner struct {
	finder semantic.ClassFinder
	jobs   int
}

// NewRunner returns a runner analysing up to jobs files at a time. A
// non-positive jobs uses one worker per CPU.
func NewRunner(finder semantic.ClassFinder, jobs int) *Runner {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	return &Runner{finder: finder, jobs: jobs}
}

// Run analyses files concurrently and returns their reports in input
// order. A failing file does not stop the batch; the returned error is
// only ever the context's.
func (r *Runner) Run(ctx context.Context, files []string) ([]Report, error) {
	reports := make([]Report, len(files))
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs)
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = r.AnalyzeFile(file)
			if n := done.Add(1); n%100 == 0 {
				log.Infof("analysed %d/%d files", n, len(files))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return reports, err
	}
	log.Infof("analysed %d files with %d workers", len(files), r.jobs)
	return reports, nil
}

func (r *Runner) AnalyzeFile(file string) Report {
	src, err := os.ReadFile(file)
	if err != nil {
		return Report{File: file, Err: fmt.Errorf("read source: %w", err)}
	}
	return r.AnalyzeSource(file, src)
}

// AnalyzeSource analyses src as if read from file.
func (r *Runner) AnalyzeSource(file string, src []byte) Report {
	rep := Report{File: file}
	unit, err := source.Parse(file, src)
	if err != nil {
		rep.Err = err
		return rep
	}
	model, err := semantic.NewSession(r.finder).Analyze(unit)
	if err != nil {
		log.Warningf("%s: %s", file, err)
		rep.Err = fmt.Errorf("%s: %w", file, err)
		return rep
	}
	rep.Model = model
	rep.Unresolved = model.Unresolved()
	log.Debugf("%s: %d unresolved", file, len(rep.Unresolved))
	return rep
}

// Unresolved counts the unresolved references across reports.
func Unresolved(reports []Report) int {
	n := 0
	for _, r := range reports {
		n += len(r.Unresolved)
	}
	return n
}
