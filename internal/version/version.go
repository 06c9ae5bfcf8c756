// Package version carries build metadata of the lrgen binary.
package version

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Overridable at build time with -ldflags "-X lrgen/internal/version.Version=...".
var (
	Version   = "0.1.0-dev"
	GitCommit = ""
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with each numeric component highlighted. Versions
// that are not dotted triples are returned unchanged.
func Colored() string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return Version
	}
	out := majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Info is the machine-readable build description.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

// Current returns the build description.
func Current() Info {
	return Info{Version: Version, GitCommit: GitCommit, BuildDate: BuildDate}
}

// Line renders "lrgen <version> (<commit>, <date>)".
func Line(colored bool) string {
	v := Version
	if colored {
		v = Colored()
	}
	var meta []string
	if GitCommit != "" {
		meta = append(meta, shortCommit(GitCommit))
	}
	if BuildDate != "" {
		meta = append(meta, BuildDate)
	}
	if len(meta) == 0 {
		return "lrgen " + v
	}
	return fmt.Sprintf("lrgen %s (%s)", v, strings.Join(meta, ", "))
}

func shortCommit(c string) string {
	if len(c) > 12 {
		return c[:12]
	}
	return c
}
