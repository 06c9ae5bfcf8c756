package action

import (
	"fmt"
	"strings"

	"lrgen/internal/grammar"
	"lrgen/internal/source"
)

// candidates lists the positions a named reference may denote: 0 for the
// left-hand side, N for right-hand side items. An item with an alias is
// only reachable through the alias.
func (t *translator) candidates(name string) []int {
	if t.rule == nil || t.code.Kind != grammar.CodeRuleAction {
		return nil
	}
	var out []int
	if t.rule.LHS != nil && t.rule.LHS.Name == name {
		out = append(out, 0)
	}
	for _, it := range t.rule.RHS {
		switch {
		case it.Alias != "":
			if it.Alias == name {
				out = append(out, it.Pos)
			}
		case it.Symbol != nil && it.Symbol.Name == name:
			out = append(out, it.Pos)
		}
	}
	return out
}

// resolveName maps a named reference to its position. ok is false when
// nothing in the rule carries the name; such text is not a reference and
// is copied unless the translation is strict.
func (t *translator) resolveName(ref Ref, name string) (pos int, ok bool, err error) {
	cands := t.candidates(name)
	switch len(cands) {
	case 0:
		if t.opts.Strict {
			return 0, false, t.invalid(ref, fmt.Sprintf("no symbol or alias named %q", name), true)
		}
		return 0, false, nil
	case 1:
		return cands[0], true, nil
	}
	refs := make([]string, 0, len(cands))
	for _, pos := range cands {
		if pos == 0 {
			refs = append(refs, "$$")
		} else {
			refs = append(refs, fmt.Sprintf("$%d", pos))
		}
	}
	return 0, false, t.invalid(ref, fmt.Sprintf("ambiguous: %q may refer to %s", name, strings.Join(refs, ", ")), false)
}

// span locates ref inside the grammar model. Code whose span does not cover
// the text byte for byte (escaped TOML strings) only gets the block start.
func (t *translator) span(ref Ref) source.Span {
	sp := t.code.Span
	if int(sp.Len()) != len(t.code.Text) {
		return sp.Sub(0, 0)
	}
	return sp.Sub(ref.Start, ref.End-ref.Start)
}
