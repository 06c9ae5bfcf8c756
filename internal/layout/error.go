package layout

import (
	"fmt"

	"lrgen/internal/diag"
	"lrgen/internal/source"
)

// UnknownStackError reports a reference to a stack that was never declared.
type UnknownStackError struct {
	Stack string
}

func (e *UnknownStackError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("stack %q is not declared", e.Stack)
}

// Code implements diag.Coded.
func (e *UnknownStackError) Code() diag.Code { return diag.GenUnknownStack }

// Span implements diag.Coded. The layout does not know where the reference
// sits; callers wrap the error with the token location.
func (e *UnknownStackError) Span() source.Span { return source.Span{} }

// DeclErrorKind enumerates problems with stack declarations.
type DeclErrorKind uint8

const (
	// DeclErrDuplicate indicates two declarations with one name.
	DeclErrDuplicate DeclErrorKind = iota + 1
	// DeclErrBadName indicates a name that is not a C identifier.
	DeclErrBadName
	// DeclErrReserved indicates a name that would clash with the default roots.
	DeclErrReserved
)

// DeclError reports an unusable stack declaration.
type DeclError struct {
	Kind  DeclErrorKind
	Stack string
}

func (e *DeclError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case DeclErrDuplicate:
		return fmt.Sprintf("stack %q declared twice", e.Stack)
	case DeclErrBadName:
		return fmt.Sprintf("stack name %q is not an identifier", e.Stack)
	case DeclErrReserved:
		return fmt.Sprintf("stack name %q clashes with the default stacks", e.Stack)
	default:
		return fmt.Sprintf("stack declaration error kind=%d (%q)", e.Kind, e.Stack)
	}
}

// Code implements diag.Coded.
func (e *DeclError) Code() diag.Code {
	if e.Kind == DeclErrDuplicate {
		return diag.ModDuplicateStack
	}
	return diag.ModBadStack
}

// Span implements diag.Coded.
func (e *DeclError) Span() source.Span { return source.Span{} }
