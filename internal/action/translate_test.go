package action

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"lrgen/internal/diag"
	"lrgen/internal/grammar"
	"lrgen/internal/layout"
	"lrgen/internal/source"
)

// fixture mirrors
//
//	%union { int i; long l; }
//	%type <i> class
//	%token <i> keyword_class tSTRING keyword_end
//	%user-defined-stack rpv { long l2; } <l2>
//	class: keyword_class tSTRING keyword_end
type fixture struct {
	g     *grammar.Grammar
	rule  *grammar.Rule
	lay   *layout.Layout
	class *grammar.Symbol
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	g := grammar.New()
	kw := g.MustSymbol(grammar.Symbol{Name: "keyword_class", Term: true, TokenID: 258, Number: 3, Type: "i"})
	str := g.MustSymbol(grammar.Symbol{Name: "tSTRING", Term: true, TokenID: 259, Number: 4, Type: "i"})
	end := g.MustSymbol(grammar.Symbol{Name: "keyword_end", Term: true, TokenID: 260, Number: 5, Type: "i"})
	class := g.MustSymbol(grammar.Symbol{Name: "class", TokenID: grammar.NoTokenID, Number: 8, Type: "i"})
	g.AddStack(grammar.StackDecl{Name: "rpv", Fields: "{ long l2; }", Tag: "l2"})
	rule := g.AddRule(grammar.NewRule(class, kw, str, end))
	if err := g.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	lay, err := layout.New(g.Stacks)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	return fixture{g: g, rule: rule, lay: lay, class: class}
}

func (f fixture) translate(t *testing.T, text string, opts Options) (string, error) {
	t.Helper()
	f.rule.WithAction(text)
	return TranslateRule(f.rule, f.lay, opts)
}

func TestTranslateClassRule(t *testing.T) {
	f := newFixture(t)
	input := "{\n" +
		"            $$ = 0;\n" +
		"            $1 = 1;\n" +
		"            $rpv_$ = 10;\n" +
		"            $rpv_1 = 11;\n" +
		"            @$ = 20;\n" +
		"            @1 = 21;\n" +
		"        }\n"
	want := "{\n" +
		"            (yyval.i) = 0;\n" +
		"            (yyvsp[-2].i) = 1;\n" +
		"            (yyrpvval.l2) = 10;\n" +
		"            (yyrpvvsp[-2].l2) = 11;\n" +
		"            (yyloc) = 20;\n" +
		"            (yylsp[-2]) = 21;\n" +
		"        }"
	got, err := f.translate(t, input, Options{})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != want {
		t.Fatalf("Translate mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestTranslateOffsets(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		text string
		want string
	}{
		{"$1", "(yyvsp[-2].i)"},
		{"$2", "(yyvsp[-1].i)"},
		{"$3", "(yyvsp[0].i)"},
		{"@3", "(yylsp[0])"},
		{"$rpv_3", "(yyrpvvsp[0].l2)"},
		{"$rpv_2", "(yyrpvvsp[-1].l2)"},
	}
	for _, tt := range tests {
		got, err := f.translate(t, tt.text, Options{})
		if err != nil {
			t.Fatalf("%s: %v", tt.text, err)
		}
		if got != tt.want {
			t.Errorf("%s => %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestTranslateOffsetLaw(t *testing.T) {
	g := grammar.New()
	lhs := g.MustSymbol(grammar.Symbol{Name: "list", TokenID: grammar.NoTokenID})
	item := g.MustSymbol(grammar.Symbol{Name: "ITEM", Term: true, TokenID: 300})
	for l := 1; l <= 6; l++ {
		rhs := make([]*grammar.Symbol, l)
		for i := range rhs {
			rhs[i] = item
		}
		rule := grammar.NewRule(lhs, rhs...)
		for n := 1; n <= l; n++ {
			rule.WithAction("$" + strconv.Itoa(n))
			got, err := TranslateRule(rule, nil, Options{})
			if err != nil {
				t.Fatalf("L=%d N=%d: %v", l, n, err)
			}
			if want := "(yyvsp[" + strconv.Itoa(n-l) + "])"; got != want {
				t.Errorf("L=%d N=%d: got %q, want %q", l, n, got, want)
			}
		}
	}
}

func TestTranslateUntyped(t *testing.T) {
	g := grammar.New()
	stmt := g.MustSymbol(grammar.Symbol{Name: "stmt", TokenID: grammar.NoTokenID})
	semi := g.MustSymbol(grammar.Symbol{Name: "';'", Term: true, TokenID: ';'})
	rule := grammar.NewRule(stmt, semi).WithAction("{ $$ = $1; }")
	got, err := TranslateRule(rule, nil, Options{})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "{ (yyval) = (yyvsp[0]); }" {
		t.Fatalf("got %q", got)
	}
}

func TestTranslateExplicitTag(t *testing.T) {
	f := newFixture(t)
	got, err := f.translate(t, "$<l>$ = $<l>2; $<p>rpv_$ = 0;", Options{})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if want := "(yyval.l) = (yyvsp[-1].l); (yyrpvval.p) = 0;"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTranslateNamedReferences(t *testing.T) {
	f := newFixture(t)
	f.rule.RHS[1].Alias = "name"
	got, err := f.translate(t, "$class = $name; @keyword_end; $[keyword_class];", Options{})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if want := "(yyval.i) = (yyvsp[-1].i); (yylsp[0]); (yyvsp[-2].i);"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	// aliased items are not reachable by symbol name
	got, err = f.translate(t, "$tSTRING", Options{})
	if err != nil || got != "$tSTRING" {
		t.Fatalf("got %q, %v; want the token copied", got, err)
	}
	_, err = f.translate(t, "$tSTRING", Options{Strict: true})
	var inv *InvalidReferenceError
	if !errors.As(err, &inv) || inv.Token != "$tSTRING" || !inv.Unrecognized {
		t.Fatalf("strict: expected unrecognized reference, got %v", err)
	}
}

func TestTranslateAmbiguousName(t *testing.T) {
	g := grammar.New()
	exp := g.MustSymbol(grammar.Symbol{Name: "exp", TokenID: grammar.NoTokenID})
	plus := g.MustSymbol(grammar.Symbol{Name: "'+'", Term: true, TokenID: '+'})
	rule := grammar.NewRule(exp, exp, plus, exp).WithAction("$$ = $exp;")
	_, err := TranslateRule(rule, nil, Options{})
	var inv *InvalidReferenceError
	if !errors.As(err, &inv) || !strings.Contains(inv.Reason, "ambiguous") {
		t.Fatalf("expected ambiguity error, got %v", err)
	}
	if !strings.Contains(inv.Reason, "$$, $1, $3") {
		t.Fatalf("reason = %q", inv.Reason)
	}
}

func TestTranslateStackIndexFallsBackToName(t *testing.T) {
	g := grammar.New()
	lhs := g.MustSymbol(grammar.Symbol{Name: "pair", TokenID: grammar.NoTokenID})
	a := g.MustSymbol(grammar.Symbol{Name: "arg_1", Term: true, TokenID: 300, Type: "s"})
	b := g.MustSymbol(grammar.Symbol{Name: "arg_2", Term: true, TokenID: 301, Type: "s"})
	rule := grammar.NewRule(lhs, a, b).WithAction("f($arg_1, $arg_2);")
	got, err := TranslateRule(rule, nil, Options{})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "f((yyvsp[-1].s), (yyvsp[0].s));" {
		t.Fatalf("got %q", got)
	}
}

func TestTranslatePlainTextRoundTrip(t *testing.T) {
	f := newFixture(t)
	inputs := []string{
		"",
		"{ }",
		"{\n\tfoo(bar);\n\t/* keep */\n}\n",
		"  indented();\n\n",
		"printf(\"$1 @2\"); /* $$ */",
	}
	for _, in := range inputs {
		got, err := f.translate(t, in, Options{})
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if want := strings.TrimSuffix(in, "\n"); got != want {
			t.Errorf("round trip %q => %q, want %q", in, got, want)
		}
	}
}

func TestTranslateIndexOutOfRange(t *testing.T) {
	f := newFixture(t)
	for _, text := range []string{"$4 = 1;", "x = $0;", "@7", "$rpv_4"} {
		_, err := f.translate(t, text, Options{})
		var inv *InvalidReferenceError
		if !errors.As(err, &inv) {
			t.Fatalf("%s: expected InvalidReferenceError, got %v", text, err)
		}
		if inv.Rule != f.rule {
			t.Errorf("%s: error does not name the rule", text)
		}
		if !strings.Contains(inv.Error(), "rule 0 (class: keyword_class tSTRING keyword_end)") {
			t.Errorf("%s: message %q", text, inv.Error())
		}
		if inv.Code() != diag.GenInvalidReference {
			t.Errorf("%s: code %s", text, inv.Code().ID())
		}
	}

	f.rule.Line = 12
	_, err := f.translate(t, "$4", Options{})
	if err == nil || !strings.Contains(err.Error(), "rule 0 (class: keyword_class tSTRING keyword_end, line 12)") {
		t.Errorf("message does not carry the source line: %v", err)
	}
}

func TestTranslateUnknownStack(t *testing.T) {
	f := newFixture(t)
	_, err := f.translate(t, "$foo_$ = 1;", Options{})
	var unknown *layout.UnknownStackError
	if !errors.As(err, &unknown) || unknown.Stack != "foo" {
		t.Fatalf("expected UnknownStackError for foo, got %v", err)
	}
	var ref *ReferenceError
	if !errors.As(err, &ref) || ref.Rule != f.rule || ref.Token != "$foo_$" {
		t.Fatalf("expected rule context, got %v", err)
	}
	if ref.Code() != diag.GenUnknownStack {
		t.Fatalf("code = %s", ref.Code().ID())
	}

	_, err = f.translate(t, "$foo_2 = 1;", Options{})
	if !errors.As(err, &unknown) || unknown.Stack != "foo" {
		t.Fatalf("expected UnknownStackError for $foo_2, got %v", err)
	}
}

func TestTranslateReportsEveryError(t *testing.T) {
	f := newFixture(t)
	_, err := f.translate(t, "$4 $nope_$ $5", Options{})
	bag := diag.NewBag(10)
	diag.ReportErr(diag.BagReporter{Bag: bag}, err, diag.GenInfo)
	if bag.Len() != 3 {
		t.Fatalf("expected 3 diagnostics, got %d: %v", bag.Len(), err)
	}
}

func TestTranslateUnrecognized(t *testing.T) {
	f := newFixture(t)
	tests := []string{
		"x = $ + 1; y = $-1; z = a @ b;",
		"x = $foo;",
		"x = @foo;",
		"[obj performSelector:@selector(run)];",
		"x = $[missing];",
	}
	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			got, err := f.translate(t, text, Options{})
			if err != nil {
				t.Fatalf("lenient: %v", err)
			}
			if got != text {
				t.Fatalf("lenient mode must copy unrecognized markers, got %q", got)
			}

			_, err = f.translate(t, text, Options{Strict: true})
			var inv *InvalidReferenceError
			if !errors.As(err, &inv) || !inv.Unrecognized {
				t.Fatalf("strict: expected unrecognized error, got %v", err)
			}
			if inv.Code() != diag.GenUnrecognizedReference {
				t.Fatalf("strict: code = %s", inv.Code().ID())
			}
		})
	}
}

func TestTranslateUnmatchedNameKeepsOtherRefs(t *testing.T) {
	f := newFixture(t)
	got, err := f.translate(t, "$$ = $foo + $1; @foo;", Options{})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if want := "(yyval.i) = $foo + (yyvsp[-2].i); @foo;"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTranslateSpans(t *testing.T) {
	f := newFixture(t)
	fs := source.NewFileSet()
	content := "action = '{ $4; }'"
	id := fs.AddVirtual("class.toml", []byte(content))
	f.rule.Span = source.Span{File: id, Start: 0, End: 6}
	f.rule.Action = &grammar.Code{Kind: grammar.CodeRuleAction, Text: "{ $4; }", Span: source.Span{File: id, Start: 10, End: 17}}

	_, err := TranslateRule(f.rule, f.lay, Options{})
	var inv *InvalidReferenceError
	if !errors.As(err, &inv) {
		t.Fatalf("expected error, got %v", err)
	}
	if got := content[inv.Span().Start:inv.Span().End]; got != "$4" {
		t.Fatalf("span covers %q", got)
	}
	if notes := inv.Notes(); len(notes) != 1 || notes[0].Span != f.rule.Span {
		t.Fatalf("notes = %+v", notes)
	}
}

func TestTranslatePrinterAndInitialAction(t *testing.T) {
	f := newFixture(t)
	printer := &grammar.Code{Kind: grammar.CodePrinter, Text: "fprintf(yyo, \"%d\", $$); @$;"}
	got, err := Translate(printer, nil, f.lay, Options{Self: f.class})
	if err != nil {
		t.Fatalf("printer: %v", err)
	}
	if want := "fprintf(yyo, \"%d\", ((*yyvaluep).i)); (*yylocationp);"; got != want {
		t.Fatalf("printer got %q, want %q", got, want)
	}

	initial := &grammar.Code{Kind: grammar.CodeInitialAction, Text: "@$.first_line = 1; $$ = 0;"}
	got, err = Translate(initial, nil, f.lay, Options{})
	if err != nil {
		t.Fatalf("initial action: %v", err)
	}
	if want := "(yylloc).first_line = 1; (yylval) = 0;"; got != want {
		t.Fatalf("initial action got %q, want %q", got, want)
	}

	for _, text := range []string{"$1", "@2", "$rpv_$"} {
		_, err := Translate(&grammar.Code{Kind: grammar.CodePrinter, Text: text}, nil, f.lay, Options{Self: f.class})
		var inv *InvalidReferenceError
		if !errors.As(err, &inv) {
			t.Errorf("printer %s: expected InvalidReferenceError, got %v", text, err)
		}
	}

	// printers have no rule to name, so $name is plain text
	got, err = Translate(&grammar.Code{Kind: grammar.CodePrinter, Text: "$name"}, nil, f.lay, Options{Self: f.class})
	if err != nil || got != "$name" {
		t.Errorf("printer $name: got %q, %v", got, err)
	}
}

func TestTranslateNilCode(t *testing.T) {
	f := newFixture(t)
	f.rule.Action = nil
	got, err := TranslateRule(f.rule, f.lay, Options{})
	if err != nil || got != "" {
		t.Fatalf("got %q, %v", got, err)
	}
}
