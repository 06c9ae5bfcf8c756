package grammar

import "lrgen/internal/source"

// CodeKind tells which set of accessors a code block translates to.
type CodeKind uint8

const (
	CodeRuleAction    CodeKind = iota // action attached to a rule
	CodePrinter                       // %printer / %destructor body
	CodeInitialAction                 // %initial-action body
)

func (k CodeKind) String() string {
	switch k {
	case CodePrinter:
		return "printer"
	case CodeInitialAction:
		return "initial-action"
	default:
		return "action"
	}
}

// Code is a block of user code with its location in the model file.
type Code struct {
	Kind CodeKind
	Text string
	Span source.Span
}

// Printer binds a code block to the symbols it applies to.
// Targets keeps the raw entries ("<tag>" or a symbol name) for messages.
type Printer struct {
	Targets []string
	Symbols []*Symbol
	Code    *Code
}
