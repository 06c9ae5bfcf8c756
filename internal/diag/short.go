package diag

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"lrgen/internal/source"
)

type shortDiagnostic struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatShort renders diagnostics one per line as
// "<severity> <code> <path>:<line>:<col> <message>", sorted deterministically.
// Diagnostics without a resolvable location are printed with path "-".
// The result is empty when there is nothing to print.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}

	rendered := make([]shortDiagnostic, 0, len(diags))
	for i := range diags {
		d := &diags[i]
		rendered = append(rendered, shortEntry(severityLabel(d.Severity), d.Code, d.Primary, d.Message, fs))
		if includeNotes {
			for _, note := range d.Notes {
				rendered = append(rendered, shortEntry("note", d.Code, note.Span, note.Msg, fs))
			}
		}
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Column != dj.Column {
			return di.Column < dj.Column
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return di.Message < dj.Message
	})

	var b strings.Builder
	for i, d := range rendered {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Severity, d.Code, d.Path, d.Line, d.Column, d.Message)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func shortEntry(sev string, code Code, span source.Span, msg string, fs *source.FileSet) shortDiagnostic {
	entry := shortDiagnostic{
		Severity: sev,
		Code:     code.ID(),
		Path:     "-",
		Message:  sanitizeMessage(msg),
	}
	if fs == nil {
		return entry
	}
	file := fs.Get(span.File)
	if file == nil {
		return entry
	}
	start, _ := fs.Resolve(span)
	entry.Path = normalizePath(file.FormatPath("relative", fs.BaseDir()))
	entry.Line = start.Line
	entry.Column = start.Col
	return entry
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

func severityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
