package action

import (
	"errors"
	"fmt"

	"lrgen/internal/diag"
	"lrgen/internal/grammar"
	"lrgen/internal/source"
)

// InvalidReferenceError reports a reference that cannot be resolved against
// the rule: an index outside 1..len(rhs), an unknown or ambiguous name, or a
// form that is not allowed in the code's context.
type InvalidReferenceError struct {
	Rule   *grammar.Rule // nil outside rule actions
	Kind   grammar.CodeKind
	Token  string
	Reason string
	At     source.Span
	// Unrecognized is set for tokens that match no reference form at all;
	// those are only errors in strict mode.
	Unrecognized bool
}

func (e *InvalidReferenceError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: invalid reference %s: %s", where(e.Rule, e.Kind), e.Token, e.Reason)
}

// Code implements diag.Coded.
func (e *InvalidReferenceError) Code() diag.Code {
	if e.Unrecognized {
		return diag.GenUnrecognizedReference
	}
	return diag.GenInvalidReference
}

// Span implements diag.Coded.
func (e *InvalidReferenceError) Span() source.Span { return e.At }

// Notes points at the owning rule.
func (e *InvalidReferenceError) Notes() []diag.Note {
	return ruleNotes(e.Rule)
}

// ReferenceError attaches the rule and token to a lookup failure, such as
// a layout.UnknownStackError. It unwraps to the original error.
type ReferenceError struct {
	Rule  *grammar.Rule
	Kind  grammar.CodeKind
	Token string
	At    source.Span
	Err   error
}

func (e *ReferenceError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %s: %v", where(e.Rule, e.Kind), e.Token, e.Err)
}

func (e *ReferenceError) Unwrap() error { return e.Err }

// Code implements diag.Coded by forwarding the wrapped error's code.
func (e *ReferenceError) Code() diag.Code {
	var coded diag.Coded
	if errors.As(e.Err, &coded) {
		return coded.Code()
	}
	return diag.GenInvalidReference
}

// Span implements diag.Coded.
func (e *ReferenceError) Span() source.Span { return e.At }

// Notes points at the owning rule.
func (e *ReferenceError) Notes() []diag.Note {
	return ruleNotes(e.Rule)
}

func where(r *grammar.Rule, kind grammar.CodeKind) string {
	if r == nil {
		return kind.String()
	}
	if r.Line > 0 {
		return fmt.Sprintf("rule %d (%s, line %d)", r.Index, r, r.Line)
	}
	return fmt.Sprintf("rule %d (%s)", r.Index, r)
}

func ruleNotes(r *grammar.Rule) []diag.Note {
	if r == nil || r.Span.Empty() {
		return nil
	}
	return []diag.Note{{Span: r.Span, Msg: fmt.Sprintf("in rule %s", r)}}
}
