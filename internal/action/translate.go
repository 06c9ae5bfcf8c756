package action

import (
	"errors"
	"fmt"
	"strings"

	"lrgen/internal/grammar"
	"lrgen/internal/layout"
)

// Options tunes translation.
type Options struct {
	// Strict turns unrecognized '$'/'@' sequences into errors instead of
	// copying them through.
	Strict bool
	// Self is the symbol a printer or destructor body is emitted for; it
	// types $$ in those contexts.
	Self *grammar.Symbol
}

// Translate rewrites the references in code and returns the resulting C
// text with one trailing newline trimmed. rule may be nil for printer and
// initial-action code. Every bad reference is reported; the returned error
// joins them and the text is discarded.
func Translate(code *grammar.Code, rule *grammar.Rule, lay *layout.Layout, opts Options) (string, error) {
	if code == nil {
		return "", nil
	}
	t := &translator{code: code, rule: rule, lay: lay, opts: opts}
	t.value, t.location = layout.Defaults(code.Kind)

	text := code.Text
	var b strings.Builder
	b.Grow(len(text) + len(text)/4)
	var errs []error
	last := 0
	for _, ref := range Scan(text) {
		repl, err := t.rewrite(ref)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if repl == "" {
			continue
		}
		b.WriteString(text[last:ref.Start])
		b.WriteString(repl)
		last = ref.End
	}
	if len(errs) > 0 {
		return "", errors.Join(errs...)
	}
	b.WriteString(text[last:])
	return strings.TrimSuffix(b.String(), "\n"), nil
}

// TranslateRule translates the action of r; rules without code yield "".
func TranslateRule(r *grammar.Rule, lay *layout.Layout, opts Options) (string, error) {
	return Translate(r.Action, r, lay, opts)
}

type translator struct {
	code     *grammar.Code
	rule     *grammar.Rule
	lay      *layout.Layout
	opts     Options
	value    layout.Stack
	location layout.Stack
}

// rewrite returns the accessor for ref, or "" when the token is kept as is.
func (t *translator) rewrite(ref Ref) (string, error) {
	switch ref.Kind {
	case ValueSelf:
		return t.value.Self(t.tag(ref, t.selfSymbol())), nil
	case LocationSelf:
		return t.location.Self(""), nil
	case ValueIndexed, LocationIndexed:
		return t.indexed(ref, ref.Index)
	case ValueNamed, LocationNamed:
		pos, ok, err := t.resolveName(ref, ref.Name)
		if err != nil || !ok {
			return "", err
		}
		if pos == 0 {
			if ref.Kind.Location() {
				return t.location.Self(""), nil
			}
			return t.value.Self(t.tag(ref, t.selfSymbol())), nil
		}
		return t.indexed(ref, pos)
	case NamedStackSelf:
		st, err := t.stack(ref)
		if err != nil {
			return "", err
		}
		return st.Self(t.stackTag(ref, st)), nil
	case NamedStackIndexed:
		if !t.lay.Has(ref.Name) && len(t.candidates(ref.Ident())) > 0 {
			// $foo_1 names an item called foo_1
			return t.namedFallback(ref)
		}
		st, err := t.stack(ref)
		if err != nil {
			return "", err
		}
		off, err := t.offset(ref, ref.Index)
		if err != nil {
			return "", err
		}
		return st.At(off, t.stackTag(ref, st)), nil
	default:
		if t.opts.Strict {
			return "", t.invalid(ref, "unrecognized reference", true)
		}
		return "", nil
	}
}

func (t *translator) namedFallback(ref Ref) (string, error) {
	pos, _, err := t.resolveName(ref, ref.Ident())
	if err != nil {
		return "", err
	}
	if pos == 0 {
		return t.value.Self(t.tag(ref, t.selfSymbol())), nil
	}
	return t.indexed(Ref{Kind: ValueIndexed, Tag: ref.Tag, Start: ref.Start, End: ref.End, Text: ref.Text}, pos)
}

func (t *translator) indexed(ref Ref, n int) (string, error) {
	off, err := t.offset(ref, n)
	if err != nil {
		return "", err
	}
	if ref.Kind.Location() {
		return t.location.At(off, ""), nil
	}
	item, _ := t.rule.Item(n)
	return t.value.At(off, t.tag(ref, item.Symbol)), nil
}

// offset maps RHS position n to its stack offset n-L.
func (t *translator) offset(ref Ref, n int) (int, error) {
	if t.rule == nil || t.code.Kind != grammar.CodeRuleAction {
		return 0, t.invalid(ref, fmt.Sprintf("positional references are not allowed in %s code", t.code.Kind), false)
	}
	l := t.rule.Len()
	if n < 1 || n > l {
		return 0, t.invalid(ref, fmt.Sprintf("index %d out of range 1..%d", n, l), false)
	}
	return n - l, nil
}

func (t *translator) stack(ref Ref) (layout.Stack, error) {
	if t.rule == nil || t.code.Kind != grammar.CodeRuleAction {
		return layout.Stack{}, t.invalid(ref, fmt.Sprintf("stack references are not allowed in %s code", t.code.Kind), false)
	}
	st, err := t.lay.Lookup(ref.Name)
	if err != nil {
		return layout.Stack{}, &ReferenceError{Rule: t.rule, Kind: t.code.Kind, Token: ref.Text, At: t.span(ref), Err: err}
	}
	return st, nil
}

func (t *translator) selfSymbol() *grammar.Symbol {
	if t.rule != nil {
		return t.rule.LHS
	}
	return t.opts.Self
}

// tag picks the union member: an explicit $<tag> wins over the declared type.
func (t *translator) tag(ref Ref, sym *grammar.Symbol) string {
	if ref.Tag != "" {
		return ref.Tag
	}
	if sym == nil || t.code.Kind == grammar.CodeInitialAction {
		return ""
	}
	return sym.Type
}

func (t *translator) stackTag(ref Ref, st layout.Stack) string {
	if ref.Tag != "" {
		return ref.Tag
	}
	return st.Tag
}

func (t *translator) invalid(ref Ref, reason string, unrecognized bool) error {
	return &InvalidReferenceError{
		Rule:         t.rule,
		Kind:         t.code.Kind,
		Token:        ref.Text,
		Reason:       reason,
		At:           t.span(ref),
		Unrecognized: unrecognized,
	}
}
