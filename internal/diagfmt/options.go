package diagfmt

import (
	"fmt"
	"path/filepath"

	"lrgen/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto keeps short paths and shortens long absolute ones to the basename.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ParsePathMode converts a flag value to a PathMode.
func ParsePathMode(s string) (PathMode, error) {
	switch s {
	case "", "auto":
		return PathModeAuto, nil
	case "absolute":
		return PathModeAbsolute, nil
	case "relative":
		return PathModeRelative, nil
	case "basename":
		return PathModeBasename, nil
	default:
		return PathModeAuto, fmt.Errorf("invalid path mode %q (expected: auto|absolute|relative|basename)", s)
	}
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	Context   int8 // lines of context around the primary line
	PathMode  PathMode
	ShowNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool
	PathMode         PathMode
	Max              int // 0 = everything in the bag
	IncludeNotes     bool
}

const autoPathLimit = 40

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		if filepath.IsAbs(f.Path) && len(f.Path) > autoPathLimit {
			return f.FormatPath("basename", "")
		}
		return f.Path
	}
}
