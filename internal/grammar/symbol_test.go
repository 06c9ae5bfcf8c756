package grammar

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		sym  Symbol
		want SymbolClass
	}{
		{"accept", Symbol{Name: "$accept", Accept: true, TokenID: NoTokenID}, ClassAccept},
		{"eof", Symbol{Name: "YYEOF", EOF: true, Term: true, TokenID: 0}, ClassEOF},
		{"char", Symbol{Name: "'.'", Term: true, TokenID: 46}, ClassChar},
		{"char upper bound", Symbol{Name: "'\\177'", Term: true, TokenID: 127}, ClassChar},
		{"ident terminal", Symbol{Name: "keyword_class", Term: true, TokenID: 258}, ClassOrdinary},
		{"midrule", Symbol{Name: "$@1", TokenID: NoTokenID}, ClassSynthesized},
		{"location marker", Symbol{Name: "@2", TokenID: NoTokenID}, ClassSynthesized},
		{"nonterminal small id", Symbol{Name: "expr", TokenID: 5}, ClassOrdinary},
		{"nonterminal", Symbol{Name: "top_compstmt", TokenID: 166}, ClassOrdinary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sym := tt.sym
			if got := Classify(&sym); got != tt.want {
				t.Errorf("Classify = %s, want %s", got, tt.want)
			}
			if got := NewSymbol(tt.sym).Class(); got != tt.want {
				t.Errorf("cached Class = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRuleString(t *testing.T) {
	g := New()
	prog := g.MustSymbol(Symbol{Name: "program", TokenID: NoTokenID})
	num := g.MustSymbol(Symbol{Name: "NUM", Term: true, TokenID: 258})
	r := NewRule(prog, num, num)
	r.RHS[1].Alias = "rhs"
	if got := r.String(); got != "program: NUM NUM[rhs]" {
		t.Fatalf("String = %q", got)
	}
	if got := NewRule(prog).String(); got != "program: %empty" {
		t.Fatalf("String = %q", got)
	}
	if it, ok := r.Item(2); !ok || it.Pos != 2 || it.Alias != "rhs" {
		t.Fatalf("Item(2) = %+v, %v", it, ok)
	}
	if _, ok := r.Item(3); ok {
		t.Fatalf("Item(3) must be out of range")
	}
}

func TestFinalizeRejectsSpecialFlags(t *testing.T) {
	g := New()
	g.MustSymbol(Symbol{Name: "$accept", Accept: true})
	g.MustSymbol(Symbol{Name: "$start", Accept: true})
	g.MustSymbol(Symbol{Name: "weird", Accept: true, EOF: true})
	if err := g.Finalize(); err == nil {
		t.Fatalf("expected error")
	}
	if g.Finalized() {
		t.Fatalf("grammar must stay unfinalized")
	}
}

func TestAddSymbolDuplicate(t *testing.T) {
	g := New()
	g.MustSymbol(Symbol{Name: "expr"})
	if _, err := g.AddSymbol(Symbol{Name: "expr"}); err == nil {
		t.Fatalf("expected duplicate error")
	}
}
