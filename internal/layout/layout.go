package layout

import (
	"strconv"

	"lrgen/internal/grammar"
)

// Stack is the accessor naming of one synchronized stack: Top is the slot
// the reduction writes, Base the pointer to the slot of the last RHS item.
type Stack struct {
	Name   string
	Top    string
	Base   string
	Tag    string // member bound to a declared stack; "" for untyped slots
	Fields string

	// Grouped marks a Top that is already one parenthesized expression.
	Grouped bool
}

// Self renders the accessor of the slot being produced.
func (s Stack) Self(tag string) string {
	if s.Grouped && tag == "" {
		return s.Top
	}
	return "(" + s.Top + member(tag) + ")"
}

// At renders the accessor of the slot offset places from the top.
func (s Stack) At(offset int, tag string) string {
	return "(" + s.Base + "[" + strconv.Itoa(offset) + "]" + member(tag) + ")"
}

// Indexable reports whether the stack can be addressed by RHS position.
func (s Stack) Indexable() bool {
	return s.Base != ""
}

func member(tag string) string {
	if tag == "" {
		return ""
	}
	return "." + tag
}

// Default stack roots for rule actions.
var (
	ValueStack    = Stack{Top: "yyval", Base: "yyvsp"}
	LocationStack = Stack{Top: "yyloc", Base: "yylsp"}
)

// Roots for code that runs outside a reduction: printers and destructors see
// the one symbol they handle, the initial action sees the scanner values.
var (
	printerValue    = Stack{Top: "(*yyvaluep)", Grouped: true}
	printerLocation = Stack{Top: "(*yylocationp)", Grouped: true}
	initialValue    = Stack{Top: "yylval"}
	initialLocation = Stack{Top: "yylloc"}
)

// Layout resolves stack names to accessors. It is immutable after New and
// safe for concurrent use.
type Layout struct {
	named map[string]Stack
	order []string
}

// New builds the layout of the default stacks plus decls.
func New(decls []grammar.StackDecl) (*Layout, error) {
	l := &Layout{named: make(map[string]Stack, len(decls))}
	for _, d := range decls {
		switch {
		case !isIdent(d.Name):
			return nil, &DeclError{Kind: DeclErrBadName, Stack: d.Name}
		case d.Name == "l":
			// yylval is the scanner value
			return nil, &DeclError{Kind: DeclErrReserved, Stack: d.Name}
		}
		if _, dup := l.named[d.Name]; dup {
			return nil, &DeclError{Kind: DeclErrDuplicate, Stack: d.Name}
		}
		l.named[d.Name] = Stack{
			Name:   d.Name,
			Top:    "yy" + d.Name + "val",
			Base:   "yy" + d.Name + "vsp",
			Tag:    d.Tag,
			Fields: d.Fields,
		}
		l.order = append(l.order, d.Name)
	}
	return l, nil
}

// Lookup returns the declared stack called name.
func (l *Layout) Lookup(name string) (Stack, error) {
	if l != nil {
		if s, ok := l.named[name]; ok {
			return s, nil
		}
	}
	return Stack{}, &UnknownStackError{Stack: name}
}

// Has reports whether name is a declared stack.
func (l *Layout) Has(name string) bool {
	if l == nil {
		return false
	}
	_, ok := l.named[name]
	return ok
}

// Stacks returns the declared stacks in declaration order.
func (l *Layout) Stacks() []Stack {
	if l == nil {
		return nil
	}
	out := make([]Stack, 0, len(l.order))
	for _, name := range l.order {
		out = append(out, l.named[name])
	}
	return out
}

// Defaults returns the value and location roots used by code of kind.
func Defaults(kind grammar.CodeKind) (value, location Stack) {
	switch kind {
	case grammar.CodePrinter:
		return printerValue, printerLocation
	case grammar.CodeInitialAction:
		return initialValue, initialLocation
	default:
		return ValueStack, LocationStack
	}
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
