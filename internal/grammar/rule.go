package grammar

import (
	"strings"

	"lrgen/internal/source"
)

// RhsItem is one right-hand side element. Pos is 1-based.
type RhsItem struct {
	Symbol *Symbol
	Pos    int
	Alias  string // named reference, e.g. tSTRING[str]
}

// Rule is one production. Action is nil when the rule has no code.
type Rule struct {
	Index   int
	LHS     *Symbol
	RHS     []RhsItem
	Action  *Code
	Midrule bool
	Span    source.Span
	Line    int // line of the rule in the grammar source, 0 when unknown
}

// NewRule builds a rule with positions assigned in order.
func NewRule(lhs *Symbol, rhs ...*Symbol) *Rule {
	r := &Rule{LHS: lhs, RHS: make([]RhsItem, 0, len(rhs))}
	for i, sym := range rhs {
		r.RHS = append(r.RHS, RhsItem{Symbol: sym, Pos: i + 1})
	}
	return r
}

// WithAction attaches rule action text and returns the rule.
func (r *Rule) WithAction(text string) *Rule {
	r.Action = &Code{Kind: CodeRuleAction, Text: text, Span: r.Span}
	return r
}

// Len returns the number of right-hand side items.
func (r *Rule) Len() int {
	return len(r.RHS)
}

// Item returns the item at 1-based position n.
func (r *Rule) Item(n int) (RhsItem, bool) {
	if n < 1 || n > len(r.RHS) {
		return RhsItem{}, false
	}
	return r.RHS[n-1], true
}

// String renders the rule as "lhs: a b c"; empty productions print "%empty".
func (r *Rule) String() string {
	var b strings.Builder
	b.WriteString(r.LHS.String())
	b.WriteByte(':')
	if len(r.RHS) == 0 {
		b.WriteString(" %empty")
	}
	for _, it := range r.RHS {
		b.WriteByte(' ')
		b.WriteString(it.Symbol.String())
		if it.Alias != "" {
			b.WriteByte('[')
			b.WriteString(it.Alias)
			b.WriteByte(']')
		}
	}
	return b.String()
}
