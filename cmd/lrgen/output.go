package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"lrgen/internal/codegen"
	"lrgen/internal/diag"
	"lrgen/internal/diagfmt"
	"lrgen/internal/ui"
)

type outputFormat string

const (
	formatPretty outputFormat = "pretty"
	formatJSON   outputFormat = "json"
	formatShort  outputFormat = "short"
)

func readFormat(value string, allowed ...outputFormat) (outputFormat, error) {
	f := outputFormat(strings.ToLower(strings.TrimSpace(value)))
	names := make([]string, 0, len(allowed))
	for _, a := range allowed {
		if f == a {
			return f, nil
		}
		names = append(names, string(a))
	}
	return "", fmt.Errorf("unsupported format %q (expected %s)", value, strings.Join(names, "|"))
}

func colorEnabled() bool {
	return !color.NoColor
}

// terminalWidth returns the width of stdout, 0 when it is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}

func printDiagnostics(w io.Writer, r *fileResult, format outputFormat) error {
	if r.Bag.Len() == 0 {
		return nil
	}
	switch format {
	case formatJSON:
		return diagfmt.JSON(w, r.Bag, r.Files, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true})
	case formatShort:
		if out := diag.FormatShort(r.Bag.Items(), r.Files, true); out != "" {
			_, err := fmt.Fprintln(w, out)
			return err
		}
		return nil
	default:
		diagfmt.Pretty(w, r.Bag, r.Files, diagfmt.PrettyOpts{Color: colorEnabled(), Context: 1, ShowNotes: true})
		return nil
	}
}

// fileJSON is one entry of the JSON output of gen.
type fileJSON struct {
	File        string                    `json:"file"`
	Output      *codegen.Output           `json:"output,omitempty"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
}

type runJSON struct {
	Files []fileJSON `json:"files"`
}

func renderJSON(w io.Writer, results []*fileResult) error {
	payload := runJSON{Files: make([]fileJSON, 0, len(results))}
	for _, r := range results {
		payload.Files = append(payload.Files, fileJSON{
			File:        r.Path,
			Output:      r.Output,
			Diagnostics: diagfmt.BuildDiagnosticsOutput(r.Bag, r.Files, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true}),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

type section uint8

const (
	sectionEnums section = 1 << iota
	sectionActions
)

// renderPretty writes the requested sections of every successful result.
func renderPretty(w io.Writer, results []*fileResult, sections section) error {
	opts := ui.TableOpts{Color: colorEnabled(), Width: terminalWidth()}
	var buf bytes.Buffer
	multi := len(results) > 1
	for i, r := range results {
		if r.Output == nil {
			continue
		}
		if multi {
			if i > 0 {
				buf.WriteByte('\n')
			}
			fmt.Fprintf(&buf, "# %s\n", r.Path)
		}
		if sections&sectionEnums != 0 {
			if err := ui.RenderEnums(&buf, r.Output.Enums, opts); err != nil {
				return err
			}
		}
		if sections&sectionActions != 0 {
			if sections&sectionEnums != 0 {
				buf.WriteByte('\n')
			}
			if err := ui.RenderActions(&buf, r.Output, opts); err != nil {
				return err
			}
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// finish prints diagnostics (unless diagFormat is empty) and timings and
// turns failures into errReported.
func finish(results []*fileResult, diagFormat outputFormat, quiet, timings bool) error {
	failed := false
	for _, r := range results {
		if diagFormat != "" {
			if err := printDiagnostics(os.Stderr, r, diagFormat); err != nil {
				return err
			}
		}
		if r.Failed() {
			failed = true
		}
		if timings && !quiet {
			fmt.Fprintf(os.Stderr, "%s\n%s", r.Path, r.Timer.Summary())
		}
	}
	if failed {
		return errReported
	}
	return nil
}
