package grammar

import (
	"fmt"

	"lrgen/internal/diag"
	"lrgen/internal/source"
)

// ModelError reports an inconsistency in the grammar model handed over by
// the front end.
type ModelError struct {
	Kind diag.Code
	At   source.Span
	Msg  string
}

func (e *ModelError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Msg
}

// Code implements diag.Coded.
func (e *ModelError) Code() diag.Code { return e.Kind }

// Span implements diag.Coded.
func (e *ModelError) Span() source.Span { return e.At }

func modelErrorf(code diag.Code, at source.Span, format string, args ...any) *ModelError {
	return &ModelError{Kind: code, At: at, Msg: fmt.Sprintf(format, args...)}
}
