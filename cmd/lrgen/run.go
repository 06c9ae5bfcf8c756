package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"lrgen/internal/codegen"
	"lrgen/internal/diag"
	"lrgen/internal/grammar"
	"lrgen/internal/observ"
	"lrgen/internal/project"
	"lrgen/internal/source"
)

// runRequest is the resolved configuration of one command invocation.
// Manifest values apply per model file; flags the user set win.
type runRequest struct {
	files          []string
	maxDiagnostics int
	timings        bool

	jobs     *int
	strict   *bool
	noCache  bool
	progress codegen.ProgressSink
}

// fileResult is the outcome for one model file.
type fileResult struct {
	Path     string
	Manifest project.Manifest
	Files    *source.FileSet
	Output   *codegen.Output
	Bag      *diag.Bag
	Timer    *observ.Timer
}

// Failed reports whether the file produced errors.
func (r *fileResult) Failed() bool {
	return r.Output == nil || r.Bag.HasErrors()
}

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().Int("jobs", 0, "max parallel translations (0=auto)")
	cmd.Flags().Bool("strict", false, "treat unrecognized $/@ sequences as errors")
	cmd.Flags().Bool("no-cache", false, "do not read or write the generation cache")
}

// newRunRequest reads the flags shared by all generating commands.
func newRunRequest(cmd *cobra.Command, files []string) (*runRequest, error) {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	req := &runRequest{files: files, maxDiagnostics: maxDiagnostics, timings: timings}

	if cmd.Flags().Changed("jobs") {
		jobs, err := cmd.Flags().GetInt("jobs")
		if err != nil {
			return nil, fmt.Errorf("failed to get jobs flag: %w", err)
		}
		if jobs < 0 {
			return nil, fmt.Errorf("--jobs must be >= 0, got %d", jobs)
		}
		req.jobs = &jobs
	}
	if cmd.Flags().Changed("strict") {
		strict, err := cmd.Flags().GetBool("strict")
		if err != nil {
			return nil, fmt.Errorf("failed to get strict flag: %w", err)
		}
		req.strict = &strict
	}
	if req.noCache, err = cmd.Flags().GetBool("no-cache"); err != nil {
		return nil, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	return req, nil
}

// runFiles generates every model in order. Per-file problems land in the
// file's bag; the returned error is reserved for cancellation and broken
// manifests.
func runFiles(ctx context.Context, req *runRequest) ([]*fileResult, error) {
	for _, path := range req.files {
		if req.progress != nil {
			req.progress.OnEvent(codegen.Event{File: path, Stage: codegen.StageLoad, Status: codegen.StatusQueued})
		}
	}
	results := make([]*fileResult, 0, len(req.files))
	for _, path := range req.files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := runFile(ctx, req, path)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func runFile(ctx context.Context, req *runRequest, path string) (*fileResult, error) {
	manifest, err := project.Resolve(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", project.ManifestName, err)
	}
	if req.progress != nil {
		req.progress.OnEvent(codegen.Event{File: path, Stage: codegen.StageLoad, Status: codegen.StatusWorking})
	}
	res, g := loadModel(path, req.maxDiagnostics)
	res.Manifest = manifest
	if g == nil {
		if req.progress != nil {
			req.progress.OnEvent(codegen.Event{File: path, Stage: codegen.StageLoad, Status: codegen.StatusError})
		}
		return res, nil
	}

	opts := codegen.Options{
		Jobs:           manifest.Generate.Jobs,
		Strict:         manifest.Generate.StrictReferences,
		MaxDiagnostics: req.maxDiagnostics,
		Timer:          res.Timer,
		Progress:       req.progress,
		File:           path,
	}
	if req.jobs != nil {
		opts.Jobs = *req.jobs
	}
	if req.strict != nil {
		opts.Strict = *req.strict
	}
	if manifest.Generate.Cache && !req.noCache {
		cache, err := codegen.OpenDiskCache(manifest.Generate.CacheDir)
		if err != nil {
			res.Bag.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.Span{}, err.Error()))
		} else {
			opts.Cache = cache
		}
	}

	gen, err := codegen.Generate(ctx, g, opts)
	if gen != nil {
		for _, d := range gen.Bag.Items() {
			res.Bag.Add(d)
		}
		res.Bag.Sort()
		res.Output = gen.Output
	}
	if err != nil && ctx.Err() != nil {
		return res, err
	}
	if res.Output != nil && req.timings {
		report := res.Timer.Report()
		res.Output.Timings = &report
	}
	return res, nil
}

// loadModel reads and checks the model at path. The grammar is nil when
// loading failed; the reasons are in the result's bag.
func loadModel(path string, maxDiagnostics int) (*fileResult, *grammar.Grammar) {
	res := &fileResult{
		Path:  path,
		Files: source.NewFileSetWithBase(filepath.Dir(path)),
		Bag:   diag.NewBag(maxDiagnostics),
		Timer: observ.NewTimer(),
	}
	done := res.Timer.Track("load")
	g, err := grammar.LoadFile(res.Files, path)
	if err != nil {
		done("error")
		diag.ReportErr(diag.BagReporter{Bag: res.Bag}, err, diag.IOLoadFileError)
		res.Bag.Sort()
		return res, nil
	}
	done(fmt.Sprintf("%d rules", len(g.Rules)))
	return res, g
}
