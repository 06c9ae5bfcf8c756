package codegen

import (
	"lrgen/internal/grammar"
	"lrgen/internal/naming"
	"lrgen/internal/observ"
)

// Enum is one member of the symbol-kind enumeration.
type Enum struct {
	Number int    `json:"number" msgpack:"number"`
	Name   string `json:"name" msgpack:"name"`
	Symbol string `json:"symbol" msgpack:"symbol"`
	Term   bool   `json:"term" msgpack:"term"`
}

// Action is the translated code of one rule.
type Action struct {
	Rule    int    `json:"rule" msgpack:"rule"`
	Text    string `json:"text" msgpack:"text"` // "lhs: a b"
	Midrule bool   `json:"midrule,omitempty" msgpack:"midrule,omitempty"`
	Line    int    `json:"line,omitempty" msgpack:"line,omitempty"`
	Code    string `json:"code" msgpack:"code"`
}

// PrinterCode is a printer body translated for one symbol.
type PrinterCode struct {
	Symbol  string   `json:"symbol" msgpack:"symbol"`
	Targets []string `json:"targets" msgpack:"targets"`
	Code    string   `json:"code" msgpack:"code"`
}

// Output is everything a skeleton needs from one run. Order is
// deterministic: enums by symbol number, actions by rule index, printers by
// declaration then symbol.
type Output struct {
	Grammar       string        `json:"grammar,omitempty" msgpack:"grammar"`
	Digest        string        `json:"digest" msgpack:"digest"`
	Enums         []Enum        `json:"enums" msgpack:"enums"`
	Actions       []Action      `json:"actions" msgpack:"actions"`
	Printers      []PrinterCode `json:"printers,omitempty" msgpack:"printers"`
	InitialAction string        `json:"initial_action,omitempty" msgpack:"initial_action"`

	Cached  bool           `json:"cached" msgpack:"-"`
	Timings *observ.Report `json:"timings,omitempty" msgpack:"-"`
}

func enumsFrom(t *naming.Table) []Enum {
	out := make([]Enum, 0, t.Len())
	for _, e := range t.Entries {
		out = append(out, Enum{Number: e.Number, Name: e.Name, Symbol: e.Symbol.Name, Term: e.Symbol.Term})
	}
	return out
}

// Enums builds only the symbol enum of g.
func Enums(g *grammar.Grammar) ([]Enum, error) {
	t, err := naming.BuildTable(g.Symbols)
	if err != nil {
		return nil, err
	}
	return enumsFrom(t), nil
}
