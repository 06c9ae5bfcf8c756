package naming

import (
	"testing"

	"lrgen/internal/grammar"
)

func TestEnumName(t *testing.T) {
	tests := []struct {
		name string
		sym  grammar.Symbol
		want string
	}{
		{
			name: "accept symbol",
			sym:  grammar.Symbol{Name: "$accept", Accept: true, TokenID: grammar.NoTokenID},
			want: "YYSYMBOL_YYACCEPT",
		},
		{
			name: "accept ignores other attributes",
			sym:  grammar.Symbol{Name: "'x'", Accept: true, Term: true, TokenID: 120, Number: 9},
			want: "YYSYMBOL_YYACCEPT",
		},
		{
			name: "eof symbol",
			sym:  grammar.Symbol{Name: "YYEOF", Alias: `"end of file"`, TokenID: 0, Number: 0, EOF: true, Term: true},
			want: "YYSYMBOL_YYEOF",
		},
		{
			name: "char with alias",
			sym:  grammar.Symbol{Name: `'\\'`, Alias: `"backslash"`, TokenID: 92, Number: 70, Term: true},
			want: "YYSYMBOL_70_backslash_",
		},
		{
			name: "punctuation char without alias",
			sym:  grammar.Symbol{Name: "'.'", TokenID: 46, Number: 69, Term: true},
			want: "YYSYMBOL_69_",
		},
		{
			name: "escaped newline",
			sym:  grammar.Symbol{Name: `'\n'`, TokenID: 10, Number: 162, Term: true},
			want: "YYSYMBOL_162_n_",
		},
		{
			name: "escaped tab",
			sym:  grammar.Symbol{Name: `'\t'`, TokenID: 9, Number: 7, Term: true},
			want: "YYSYMBOL_7_t_",
		},
		{
			name: "alias keeps letters only",
			sym:  grammar.Symbol{Name: "'+'", Alias: `"'+' (plus)"`, TokenID: 43, Number: 12, Term: true},
			want: "YYSYMBOL_12_plus_",
		},
		{
			name: "alias without letters",
			sym:  grammar.Symbol{Name: "'+'", Alias: `"+"`, TokenID: 43, Number: 12, Term: true},
			want: "YYSYMBOL_12_",
		},
		{
			name: "midrule marker",
			sym:  grammar.Symbol{Name: "$@1", TokenID: grammar.NoTokenID, Number: 165},
			want: "YYSYMBOL_165_1",
		},
		{
			name: "location marker",
			sym:  grammar.Symbol{Name: "@2", TokenID: grammar.NoTokenID, Number: 166},
			want: "YYSYMBOL_166_2",
		},
		{
			name: "identifier terminal",
			sym:  grammar.Symbol{Name: "keyword_class", Alias: "\"`class'\"", TokenID: 258, Number: 3, Term: true},
			want: "YYSYMBOL_keyword_class",
		},
		{
			name: "nonterminal ignores number",
			sym:  grammar.Symbol{Name: "top_compstmt", TokenID: 166, Number: -1},
			want: "YYSYMBOL_top_compstmt",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EnumName(grammar.NewSymbol(tt.sym)); got != tt.want {
				t.Errorf("EnumName = %q, want %q", got, tt.want)
			}
		})
	}
}
