package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"lrgen/internal/diag"
	"lrgen/internal/source"
)

func TestJSONBasic(t *testing.T) {
	fs, bag := newModelBag(t)
	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
	})
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %+v", out)
	}
	d := out.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "GEN2001" {
		t.Errorf("severity/code = %s/%s", d.Severity, d.Code)
	}
	if d.Title != diag.GenInvalidReference.Title() {
		t.Errorf("title = %q", d.Title)
	}
	if d.Location.File != "model.toml" || d.Location.StartLine != 3 || d.Location.StartCol != 13 {
		t.Errorf("location = %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Message != "rule defined here" {
		t.Errorf("notes = %+v", d.Notes)
	}
}

func TestJSONOmitsPositionsAndNotes(t *testing.T) {
	fs, bag := newModelBag(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{PathMode: PathModeBasename}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	d := out.Diagnostics[0]
	if d.Location.StartLine != 0 || len(d.Notes) != 0 {
		t.Errorf("expected bare location without notes, got %+v", d)
	}
}

func TestJSONMax(t *testing.T) {
	bag := diag.NewBag(10)
	for i := 0; i < 3; i++ {
		bag.Add(diag.NewError(diag.GenUnknownStack, source.Span{File: 7}, "unknown stack"))
	}
	out := BuildDiagnosticsOutput(bag, source.NewFileSet(), JSONOpts{Max: 2})
	if out.Count != 2 {
		t.Fatalf("count = %d, want 2", out.Count)
	}
	if out.Diagnostics[0].Location.File != "-" {
		t.Errorf("unknown file should render as '-', got %q", out.Diagnostics[0].Location.File)
	}
}
