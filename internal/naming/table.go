package naming

import (
	"errors"
	"fmt"
	"sort"

	"lrgen/internal/diag"
	"lrgen/internal/grammar"
	"lrgen/internal/source"
)

// Entry is one member of the generated symbol-kind enumeration.
type Entry struct {
	Number int
	Name   string
	Symbol *grammar.Symbol
}

// Table is the complete, collision-free enum for one grammar.
type Table struct {
	Entries []Entry // ordered by symbol number
	bySym   map[*grammar.Symbol]string
}

// Lookup returns the enum member of sym.
func (t *Table) Lookup(sym *grammar.Symbol) (string, bool) {
	if t == nil {
		return "", false
	}
	name, ok := t.bySym[sym]
	return name, ok
}

// Len returns the number of members.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Entries)
}

// DuplicateEnumNameError reports two symbols mapping to one enum member.
type DuplicateEnumNameError struct {
	Name   string
	First  *grammar.Symbol
	Second *grammar.Symbol
}

func (e *DuplicateEnumNameError) Error() string {
	return fmt.Sprintf("symbol %q (number %d) and symbol %q (number %d) both map to enum name %s",
		e.Second.Name, e.Second.Number, e.First.Name, e.First.Number, e.Name)
}

// Code implements diag.Coded.
func (e *DuplicateEnumNameError) Code() diag.Code { return diag.GenDuplicateEnumName }

// Span implements diag.Coded; it points at the later declaration.
func (e *DuplicateEnumNameError) Span() source.Span { return e.Second.Span }

// Notes points back at the symbol that claimed the name first.
func (e *DuplicateEnumNameError) Notes() []diag.Note {
	return []diag.Note{{Span: e.First.Span, Msg: fmt.Sprintf("%s first used by %q", e.Name, e.First.Name)}}
}

// BuildTable names every symbol and verifies that no two distinct symbols
// share a member. The check runs over the complete set, and every collision
// is returned (joined), not only the first.
func BuildTable(symbols []*grammar.Symbol) (*Table, error) {
	t := &Table{
		Entries: make([]Entry, 0, len(symbols)),
		bySym:   make(map[*grammar.Symbol]string, len(symbols)),
	}
	owner := make(map[string]*grammar.Symbol, len(symbols))
	var errs []error
	for _, sym := range symbols {
		if _, seen := t.bySym[sym]; seen {
			continue
		}
		name := EnumName(sym)
		if first, taken := owner[name]; taken {
			errs = append(errs, &DuplicateEnumNameError{Name: name, First: first, Second: sym})
			continue
		}
		owner[name] = sym
		t.bySym[sym] = name
		t.Entries = append(t.Entries, Entry{Number: sym.Number, Name: name, Symbol: sym})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	sort.SliceStable(t.Entries, func(i, j int) bool {
		return t.Entries[i].Number < t.Entries[j].Number
	})
	return t, nil
}
