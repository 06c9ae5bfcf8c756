package codegen

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"lrgen/internal/action"
	"lrgen/internal/diag"
	"lrgen/internal/grammar"
	"lrgen/internal/layout"
	"lrgen/internal/naming"
	"lrgen/internal/observ"
	"lrgen/internal/source"
	"lrgen/internal/trace"
)

// ErrFailed is returned when the run produced error diagnostics.
var ErrFailed = errors.New("generation failed")

// Options configures Generate.
type Options struct {
	Jobs           int  // parallel translations; <= 0 means GOMAXPROCS
	Strict         bool // unrecognized '$'/'@' sequences are errors
	MaxDiagnostics int  // bag capacity; <= 0 means 100
	Cache          *DiskCache
	Timer          *observ.Timer
	Progress       ProgressSink
	File           string // label for progress events
}

// Result bundles the output with the diagnostics of the run.
type Result struct {
	Output *Output // nil when the run failed
	Bag    *diag.Bag
}

// Generate runs naming and action translation over g. Every problem is
// reported into Result.Bag (sorted, deduplicated); when any of them is an
// error, Output is nil and the returned error wraps ErrFailed. Cache
// problems are warnings and never fail the run. Only cancellation of ctx
// aborts early.
func Generate(ctx context.Context, g *grammar.Grammar, opts Options) (*Result, error) {
	started := time.Now()
	res, err := generate(ctx, g, opts)
	evt := Event{File: opts.File, Stage: StageActions, Status: StatusDone, Err: err, Elapsed: time.Since(started)}
	if err != nil {
		evt.Status = StatusError
	}
	emit(opts.Progress, evt)
	return res, err
}

func generate(ctx context.Context, g *grammar.Grammar, opts Options) (*Result, error) {
	maxDiag := opts.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = 100
	}
	res := &Result{Bag: diag.NewBag(maxDiag)}
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "generate", trace.CurrentSpan(ctx))
	defer span.End("")
	ctx = trace.WithSpan(ctx, span)
	span.WithExtra("rules", fmt.Sprint(len(g.Rules)))

	if !g.Finalized() {
		if err := g.Finalize(); err != nil {
			diag.ReportErr(rep, err, diag.ModInfo)
			return res.finish()
		}
	}

	key := Digest(g, opts)
	if opts.Cache != nil {
		done := opts.Timer.Track("cache")
		out, ok, err := opts.Cache.Get(key)
		switch {
		case err != nil:
			rep.Report(diag.IOCacheError, diag.SevWarning, source.Span{}, "cache read: "+err.Error(), nil)
			done("error")
		case ok:
			done("hit")
			span.WithExtra("cache", "hit")
			out.Cached = true
			res.Output = out
			return res.finish()
		default:
			done("miss")
		}
	}

	emit(opts.Progress, Event{File: opts.File, Stage: StageNaming, Status: StatusWorking})
	table := runNaming(ctx, g, rep, opts.Timer)

	done := opts.Timer.Track("layout")
	lay, err := layout.New(g.Stacks)
	done(fmt.Sprintf("%d stacks", len(g.Stacks)))
	if err != nil {
		diag.ReportErr(rep, err, diag.ModBadStack)
		return res.finish()
	}

	out, err := runActions(ctx, g, lay, rep, opts)
	if err != nil {
		return res, err
	}
	if res.Bag.HasErrors() || table == nil {
		return res.finish()
	}

	out.Grammar = g.Source
	out.Digest = key.Hex()
	out.Enums = enumsFrom(table)
	if opts.Cache != nil {
		if err := opts.Cache.Put(key, out); err != nil {
			rep.Report(diag.IOCacheError, diag.SevWarning, source.Span{}, "cache write: "+err.Error(), nil)
		}
	}
	res.Output = out
	return res.finish()
}

func (r *Result) finish() (*Result, error) {
	r.Bag.Sort()
	r.Bag.Dedup()
	if r.Bag.HasErrors() {
		r.Output = nil
		n := 0
		for _, d := range r.Bag.Items() {
			if d.Severity == diag.SevError {
				n++
			}
		}
		return r, fmt.Errorf("%w: %d error(s)", ErrFailed, n)
	}
	return r, nil
}

func runNaming(ctx context.Context, g *grammar.Grammar, rep diag.Reporter, timer *observ.Timer) *naming.Table {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "naming", trace.CurrentSpan(ctx))
	done := timer.Track("naming")
	table, err := naming.BuildTable(g.Symbols)
	if err != nil {
		diag.ReportErr(rep, err, diag.GenDuplicateEnumName)
		done("collisions")
		span.End("collisions")
		return nil
	}
	note := fmt.Sprintf("%d symbols", table.Len())
	done(note)
	span.End(note)
	return table
}

// job is one code block to translate. Each job owns slot i of the
// result slices.
type job struct {
	name string
	code *grammar.Code
	rule *grammar.Rule
	self *grammar.Symbol
}

func collectJobs(g *grammar.Grammar) []job {
	jobs := make([]job, 0, len(g.Rules)+len(g.Printers)+1)
	for _, r := range g.Rules {
		if r.Action != nil {
			jobs = append(jobs, job{name: fmt.Sprintf("rule:%d", r.Index), code: r.Action, rule: r})
		}
	}
	for _, p := range g.Printers {
		for _, sym := range p.Symbols {
			jobs = append(jobs, job{name: "printer:" + sym.Name, code: p.Code, self: sym})
		}
	}
	if g.InitialAction != nil {
		jobs = append(jobs, job{name: "initial-action", code: g.InitialAction})
	}
	return jobs
}

func runActions(ctx context.Context, g *grammar.Grammar, lay *layout.Layout, rep diag.Reporter, opts Options) (*Output, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "actions", trace.CurrentSpan(ctx))
	parent := span.ID()
	done := opts.Timer.Track("actions")

	jobs := collectJobs(g)
	emit(opts.Progress, Event{File: opts.File, Stage: StageActions, Status: StatusWorking, Total: len(jobs)})
	var finished atomic.Int64
	texts := make([]string, len(jobs))
	errs := make([]error, len(jobs))

	workers := opts.Jobs
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	// ошибки трансляции не отменяют соседей; errgroup возвращает только отмену
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(1, min(workers, len(jobs))))
	for i := range jobs {
		eg.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			j := jobs[i]
			js := trace.Begin(tracer, trace.ScopeRule, j.name, parent)
			texts[i], errs[i] = action.Translate(j.code, j.rule, lay, action.Options{Strict: opts.Strict, Self: j.self})
			if errs[i] != nil {
				js.End("error")
			} else {
				js.End("")
			}
			emit(opts.Progress, Event{
				File: opts.File, Stage: StageActions, Status: StatusWorking,
				Done: int(finished.Add(1)), Total: len(jobs),
			})
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		done("cancelled")
		span.End("cancelled")
		return nil, err
	}

	out := &Output{}
	failed := 0
	for i, j := range jobs {
		if errs[i] != nil {
			failed++
			diag.ReportErr(rep, errs[i], diag.GenInvalidReference)
			continue
		}
		switch {
		case j.rule != nil:
			out.Actions = append(out.Actions, Action{Rule: j.rule.Index, Text: j.rule.String(), Midrule: j.rule.Midrule, Line: j.rule.Line, Code: texts[i]})
		case j.self != nil:
			out.Printers = append(out.Printers, PrinterCode{Symbol: j.self.Name, Targets: printerTargets(g, j.code), Code: texts[i]})
		default:
			out.InitialAction = texts[i]
		}
	}
	note := fmt.Sprintf("%d blocks, %d failed", len(jobs), failed)
	done(note)
	span.End(note)
	return out, nil
}

func printerTargets(g *grammar.Grammar, code *grammar.Code) []string {
	for _, p := range g.Printers {
		if p.Code == code {
			return p.Targets
		}
	}
	return nil
}
