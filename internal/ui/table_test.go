package ui

import (
	"bytes"
	"strings"
	"testing"

	"lrgen/internal/codegen"
)

func TestRenderEnums(t *testing.T) {
	enums := []codegen.Enum{
		{Number: 0, Name: "YYSYMBOL_YYEOF", Symbol: "YYEOF", Term: true},
		{Number: 10, Name: "YYSYMBOL_class", Symbol: "class"},
	}
	var buf bytes.Buffer
	if err := RenderEnums(&buf, enums, TableOpts{}); err != nil {
		t.Fatal(err)
	}
	want := "NUM  NAME            SYMBOL\n" +
		"  0  YYSYMBOL_YYEOF  YYEOF\n" +
		" 10  YYSYMBOL_class  class\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestRenderEnumsTruncatesSymbols(t *testing.T) {
	enums := []codegen.Enum{{Number: 1, Name: "YYSYMBOL_x", Symbol: "a_really_long_symbol_name"}}
	var buf bytes.Buffer
	if err := RenderEnums(&buf, enums, TableOpts{Width: 30}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "a_really_l...") {
		t.Errorf("expected truncated symbol:\n%s", buf.String())
	}
}

func TestRenderActions(t *testing.T) {
	out := &codegen.Output{
		Actions: []codegen.Action{
			{Rule: 0, Text: "class: keyword_class", Code: "{\n  (yyval.i) = 0;\n}"},
			{Rule: 2, Text: "$@1: %empty", Midrule: true, Line: 17, Code: "x();"},
		},
		Printers:      []codegen.PrinterCode{{Symbol: "class", Targets: []string{"<i>"}, Code: "p(((*yyvaluep).i));"}},
		InitialAction: "(yylloc).first_line = 1;",
	}
	var buf bytes.Buffer
	if err := RenderActions(&buf, out, TableOpts{}); err != nil {
		t.Fatal(err)
	}
	want := "rule 0: class: keyword_class\n" +
		"    {\n" +
		"      (yyval.i) = 0;\n" +
		"    }\n" +
		"\n" +
		"rule 2: $@1: %empty (midrule) line 17\n" +
		"    x();\n" +
		"\n" +
		"printer class <i>\n" +
		"    p(((*yyvaluep).i));\n" +
		"\n" +
		"initial-action\n" +
		"    (yylloc).first_line = 1;\n"
	if buf.String() != want {
		t.Errorf("got:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"longer than ten", 10, "longer ..."},
		{"abcdef", 3, "abc"},
		{"日本語テキスト", 8, "日本..."},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
