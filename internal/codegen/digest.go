package codegen

import (
	"fmt"
	"strings"

	"lrgen/internal/grammar"
	"lrgen/internal/project"
	"lrgen/internal/version"
)

// Digest fingerprints everything that influences the output of a run: the
// grammar contents, strictness and the generator version. Spans are left
// out, so moving text around in the model does not invalidate the cache.
func Digest(g *grammar.Grammar, opts Options) project.Digest {
	var b strings.Builder
	fmt.Fprintf(&b, "lrgen %s strict=%t\n", version.Version, opts.Strict)
	for _, s := range g.Symbols {
		fmt.Fprintf(&b, "sym %q %q %d %d %t %t %t %q\n", s.Name, s.Alias, s.Number, s.TokenID, s.Term, s.Accept, s.EOF, s.Type)
	}
	for _, st := range g.Stacks {
		fmt.Fprintf(&b, "stack %q %q %q\n", st.Name, st.Fields, st.Tag)
	}
	for _, r := range g.Rules {
		fmt.Fprintf(&b, "rule %d %q %t %d", r.Index, r.String(), r.Midrule, r.Line)
		if r.Action != nil {
			fmt.Fprintf(&b, " %q", r.Action.Text)
		}
		b.WriteByte('\n')
	}
	for _, p := range g.Printers {
		fmt.Fprintf(&b, "printer %q", p.Targets)
		for _, s := range p.Symbols {
			fmt.Fprintf(&b, " %q", s.Name)
		}
		if p.Code != nil {
			fmt.Fprintf(&b, " %q", p.Code.Text)
		}
		b.WriteByte('\n')
	}
	if g.InitialAction != nil {
		fmt.Fprintf(&b, "initial %q\n", g.InitialAction.Text)
	}
	return project.StringDigest(b.String())
}
