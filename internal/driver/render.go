// Package driver renders a set of files in parallel, consults the render
// cache and keeps an output directory in sync with the results.
package driver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"poet/internal/diag"
	"poet/internal/emit"
	"poet/internal/filespec"
	"poet/internal/linewrap"
	"poet/internal/logx"
	"poet/internal/observ"
	"poet/internal/pipeline"
	"poet/internal/trace"
)

// DefaultMaxDiagnostics bounds the diagnostics kept per file.
const DefaultMaxDiagnostics = 64

// ErrDuplicatePath reports two files that would be written to the same path.
var ErrDuplicatePath = errors.New("duplicate output path")

// Options configure RenderAll.
type Options struct {
	Emit emit.Options
	// OutDir receives the rendered files. Empty renders in memory only.
	OutDir string
	// Jobs bounds parallel workers; 0 means GOMAXPROCS.
	Jobs int
	// Check compares against OutDir without writing.
	Check bool
	// Cache is optional.
	Cache          Cache
	Progress       pipeline.ProgressSink
	MaxDiagnostics int
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return DefaultMaxDiagnostics
	}
	return o.MaxDiagnostics
}

// Result is the outcome for one file. Problems are reported in Bag; Text is
// empty when the file could not be rendered.
type Result struct {
	Path    string // slash-separated, relative to OutDir
	Text    string
	Imports []string
	Cached  bool
	// Changed is set when the file on disk differed from Text: it was
	// rewritten, or in check mode it is stale.
	Changed bool
	Bag     *diag.Bag
	Timing  observ.Report
}

// Failed reports whether the result carries an error diagnostic.
func (r Result) Failed() bool {
	return r.Bag != nil && r.Bag.HasErrors()
}

// RenderAll renders files with at most opts.Jobs workers. Per-file problems
// end up in each Result's Bag; the returned error is reserved for
// cancellation, duplicate output paths and layout faults, which abort the run.
func RenderAll(ctx context.Context, files []filespec.File, opts Options) ([]Result, error) {
	ctx, span := trace.Start(ctx, trace.ScopeStage, "render")
	defer span.End("")
	log := logx.FromContext(ctx)
	progress := logx.NewProgress(log)

	if len(files) == 0 {
		return nil, nil
	}
	paths := make([]string, len(files))
	seen := make(map[string]int, len(files))
	for i, f := range files {
		paths[i] = f.Path()
		if j, dup := seen[paths[i]]; dup {
			return nil, fmt.Errorf("%w: %s (files %d and %d)", ErrDuplicatePath, paths[i], j, i)
		}
		seen[paths[i]] = i
	}
	pipeline.EmitQueued(opts.Progress, paths)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	span.WithExtra("files", fmt.Sprint(len(files))).WithExtra("jobs", fmt.Sprint(jobs))

	results := make([]Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := renderOne(gctx, f, opts)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	sum := Summarize(results)
	progress.Done(fmt.Sprintf("Rendered %d files (%d cached, %d changed, %d failed)",
		sum.Files, sum.Cached, sum.Changed, sum.Failed))
	return results, nil
}

func renderOne(ctx context.Context, f filespec.File, opts Options) (res Result, err error) {
	path := f.Path()
	res = Result{Path: path, Bag: diag.NewBag(opts.maxDiagnostics())}
	ctx, span := trace.Start(ctx, trace.ScopeFile, path)
	log := logx.FromContext(ctx).With("file", path)
	timer := observ.NewTimer()

	defer func() {
		res.Timing = timer.Report()
		status := pipeline.StatusDone
		switch {
		case err != nil || res.Failed():
			status = pipeline.StatusError
		case res.Cached:
			status = pipeline.StatusCached
		}
		span.End(string(status))
		pipeline.Emit(opts.Progress, pipeline.Event{
			File:    path,
			Status:  status,
			Err:     err,
			Elapsed: msToDuration(res.Timing.TotalMS),
		})
		log.Debug("file finished", "status", status, "cached", res.Cached, "changed", res.Changed)
	}()
	defer recoverFault(&err, path)

	key, cacheable, kerr := Key(f, opts.Emit)
	if kerr != nil {
		addWarning(res.Bag, diag.IOCache, path, kerr)
	}
	cacheable = cacheable && opts.Cache != nil
	if cacheable {
		e, ok, gerr := opts.Cache.Get(ctx, key)
		if gerr != nil {
			log.Warn("cache read failed", "err", gerr)
			addWarning(res.Bag, diag.IOCache, path, gerr)
		}
		if ok && e.Path == path {
			res.Text, res.Imports, res.Cached = e.Text, e.Imports, true
		}
	}

	if !res.Cached {
		var imports emit.ImportSet
		err := runStage(ctx, timer, opts.Progress, path, pipeline.StageDiscover, func() error {
			var derr error
			imports, derr = f.DiscoverImports(opts.Emit)
			return derr
		})
		if err != nil {
			res.Bag.AddError(diag.EmtNameAllocation, path, err)
			return res, nil
		}
		var sb strings.Builder
		err = runStage(ctx, timer, opts.Progress, path, pipeline.StageRender, func() error {
			return f.RenderImports(&sb, opts.Emit, imports)
		})
		if err != nil {
			res.Bag.AddError(diag.EmtWrite, path, err)
			return res, nil
		}
		res.Text, res.Imports = sb.String(), imports.Strings()
		if cacheable {
			entry := &Entry{Path: path, Text: res.Text, Imports: res.Imports}
			if perr := opts.Cache.Put(ctx, key, entry); perr != nil {
				log.Warn("cache write failed", "err", perr)
				addWarning(res.Bag, diag.IOCache, path, perr)
			}
		}
	}

	if opts.OutDir != "" {
		target := filepath.Join(opts.OutDir, filepath.FromSlash(path))
		err := runStage(ctx, timer, opts.Progress, path, pipeline.StageWrite, func() error {
			changed, werr := syncFile(target, res.Text, opts.Check)
			res.Changed = changed
			return werr
		})
		if err != nil {
			res.Bag.AddError(diag.IOWriteFile, path, err)
		}
	}
	return res, nil
}

func runStage(ctx context.Context, timer *observ.Timer, sink pipeline.ProgressSink, file string, stage pipeline.Stage, fn func() error) error {
	_, span := trace.Start(ctx, trace.ScopeBlock, string(stage))
	pipeline.Emit(sink, pipeline.Event{File: file, Stage: stage, Status: pipeline.StatusWorking})
	err := timer.Measure(string(stage), fn)
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	span.End(detail)
	return err
}

// recoverFault turns a linewrap.Fault panic into err. Other panics continue.
func recoverFault(err *error, path string) {
	r := recover()
	if r == nil {
		return
	}
	fault, ok := r.(linewrap.Fault)
	if !ok {
		panic(r)
	}
	*err = fmt.Errorf("%s: %w", path, fault)
}

func addWarning(bag *diag.Bag, code diag.Code, file string, err error) {
	d := diag.New(code, file, err.Error())
	d.Severity = diag.SevWarning
	bag.Add(d)
}

// Summary aggregates a run.
type Summary struct {
	Files   int
	Cached  int
	Changed int
	Failed  int
	Timing  observ.Report
	// Bag holds every file's diagnostics, sorted and deduplicated.
	Bag *diag.Bag
}

func Summarize(results []Result) Summary {
	sum := Summary{Files: len(results), Bag: diag.NewBag(DefaultMaxDiagnostics)}
	for _, r := range results {
		if r.Cached {
			sum.Cached++
		}
		if r.Changed {
			sum.Changed++
		}
		if r.Failed() {
			sum.Failed++
		}
		sum.Timing.Merge(r.Timing)
		sum.Bag.Merge(r.Bag)
	}
	sum.Bag.Sort()
	sum.Bag.Dedup()
	return sum
}
