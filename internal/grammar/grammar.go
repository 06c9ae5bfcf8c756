package grammar

import (
	"errors"

	"lrgen/internal/diag"
	"lrgen/internal/source"
)

// Grammar owns every symbol, stack declaration and rule of one grammar.
// Build it with AddSymbol/AddStack/AddRule, then call Finalize; after that
// it is read-only and safe for concurrent use.
type Grammar struct {
	Symbols       []*Symbol
	Stacks        []StackDecl
	Rules         []*Rule
	Printers      []*Printer
	InitialAction *Code
	Files         *source.FileSet
	Source        string // path of the grammar the model was produced from

	byName    map[string]*Symbol
	finalized bool
}

// New creates an empty grammar.
func New() *Grammar {
	return &Grammar{
		byName: make(map[string]*Symbol),
		Files:  source.NewFileSet(),
	}
}

// AddSymbol registers a symbol. Names must be unique.
func (g *Grammar) AddSymbol(s Symbol) (*Symbol, error) {
	if prev, ok := g.byName[s.Name]; ok {
		return prev, modelErrorf(diag.ModDuplicateSymbol, s.Span, "symbol %q declared twice", s.Name)
	}
	sym := NewSymbol(s)
	g.Symbols = append(g.Symbols, sym)
	g.byName[sym.Name] = sym
	return sym, nil
}

// MustSymbol is AddSymbol for fixtures; it panics on error.
func (g *Grammar) MustSymbol(s Symbol) *Symbol {
	sym, err := g.AddSymbol(s)
	if err != nil {
		panic(err)
	}
	return sym
}

// Symbol looks a symbol up by raw name.
func (g *Grammar) Symbol(name string) (*Symbol, bool) {
	sym, ok := g.byName[name]
	return sym, ok
}

// AddStack registers a stack declaration.
func (g *Grammar) AddStack(decl StackDecl) {
	g.Stacks = append(g.Stacks, decl)
}

// AddRule appends r and assigns its index.
func (g *Grammar) AddRule(r *Rule) *Rule {
	r.Index = len(g.Rules)
	g.Rules = append(g.Rules, r)
	return r
}

// Finalize checks the invariants the generation passes rely on:
// at most one accept and one eof symbol, never both on one symbol,
// dense 1-based RHS positions and a LHS on every rule. All violations
// are returned joined.
func (g *Grammar) Finalize() error {
	var errs []error
	var accept, eof *Symbol
	for _, sym := range g.Symbols {
		if sym.Accept && sym.EOF {
			errs = append(errs, modelErrorf(diag.ModSpecialSymbol, sym.Span, "symbol %q is flagged both accept and eof", sym.Name))
			continue
		}
		if sym.Accept {
			if accept != nil {
				errs = append(errs, modelErrorf(diag.ModSpecialSymbol, sym.Span, "second accept symbol %q (first is %q)", sym.Name, accept.Name))
			} else {
				accept = sym
			}
		}
		if sym.EOF {
			if eof != nil {
				errs = append(errs, modelErrorf(diag.ModSpecialSymbol, sym.Span, "second eof symbol %q (first is %q)", sym.Name, eof.Name))
			} else {
				eof = sym
			}
		}
	}
	for _, r := range g.Rules {
		if r.LHS == nil {
			errs = append(errs, modelErrorf(diag.ModBadRule, r.Span, "rule %d has no left-hand side", r.Index))
			continue
		}
		if r.LHS.Term {
			errs = append(errs, modelErrorf(diag.ModBadRule, r.Span, "rule %d: left-hand side %q is a terminal", r.Index, r.LHS.Name))
		}
		for i, it := range r.RHS {
			if it.Symbol == nil || it.Pos != i+1 {
				errs = append(errs, modelErrorf(diag.ModBadRhsPosition, r.Span, "rule %d (%s): item %d has position %d", r.Index, r.LHS.Name, i+1, it.Pos))
			}
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	g.finalized = true
	return nil
}

// Finalized reports whether Finalize succeeded.
func (g *Grammar) Finalized() bool {
	return g.finalized
}
