package grammar

import (
	"strings"

	"lrgen/internal/source"
)

const (
	// NoTokenID marks symbols that have no scanner token id (nonterminals).
	NoTokenID = -1
	// MaxCharTokenID is the largest token id of a single-character terminal.
	MaxCharTokenID = 127
)

// SymbolClass is the naming category of a symbol.
type SymbolClass uint8

const (
	ClassOrdinary    SymbolClass = iota // identifier terminal or nonterminal
	ClassAccept                         // $accept
	ClassEOF                            // end-of-input terminal
	ClassChar                           // single-character literal terminal
	ClassSynthesized                    // mid-rule placeholder like $@1 or @2
)

func (c SymbolClass) String() string {
	switch c {
	case ClassAccept:
		return "accept"
	case ClassEOF:
		return "eof"
	case ClassChar:
		return "char"
	case ClassSynthesized:
		return "synthesized"
	default:
		return "ordinary"
	}
}

// Symbol describes one grammar symbol as handed over by the front end.
// Fields must not change after the owning Grammar is finalized.
type Symbol struct {
	Name    string // raw text: 'c', '\n', ident, $@1
	Alias   string // quoted display string, "" when absent
	Number  int
	TokenID int
	Term    bool
	Accept  bool
	EOF     bool
	Type    string // declared semantic type tag, "" when untyped
	Span    source.Span

	class      SymbolClass
	classified bool
}

// NewSymbol returns a copy of s with its classification cached.
func NewSymbol(s Symbol) *Symbol {
	sym := s
	sym.class = Classify(&sym)
	sym.classified = true
	return &sym
}

// Classify derives the symbol class from flags and raw text.
func Classify(s *Symbol) SymbolClass {
	switch {
	case s.Accept:
		return ClassAccept
	case s.EOF:
		return ClassEOF
	case s.Term && s.TokenID >= 0 && s.TokenID <= MaxCharTokenID:
		return ClassChar
	case strings.ContainsAny(s.Name, "$@"):
		return ClassSynthesized
	default:
		return ClassOrdinary
	}
}

// Class returns the cached classification. Symbols built without NewSymbol
// are classified on the fly.
func (s *Symbol) Class() SymbolClass {
	if s.classified {
		return s.class
	}
	return Classify(s)
}

// Typed reports whether the symbol has a declared semantic type.
func (s *Symbol) Typed() bool {
	return s.Type != ""
}

func (s *Symbol) String() string {
	if s == nil {
		return "<nil>"
	}
	return s.Name
}
