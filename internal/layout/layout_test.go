package layout

import (
	"errors"
	"testing"

	"lrgen/internal/grammar"
)

func TestNamedStackRoots(t *testing.T) {
	l, err := New([]grammar.StackDecl{
		{Name: "rpv", Fields: "{ long l2; }", Tag: "l2"},
		{Name: "raw"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rpv, err := l.Lookup("rpv")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got := rpv.Self(rpv.Tag); got != "(yyrpvval.l2)" {
		t.Errorf("Self = %q", got)
	}
	if got := rpv.At(-2, rpv.Tag); got != "(yyrpvvsp[-2].l2)" {
		t.Errorf("At = %q", got)
	}
	raw, _ := l.Lookup("raw")
	if got := raw.At(0, ""); got != "(yyrawvsp[0])" {
		t.Errorf("untyped At = %q", got)
	}
	if names := l.Stacks(); len(names) != 2 || names[0].Name != "rpv" || names[1].Name != "raw" {
		t.Errorf("Stacks = %+v", names)
	}
}

func TestDefaultRoots(t *testing.T) {
	tests := []struct {
		kind         grammar.CodeKind
		value, loc   string
		valueIndexed bool
	}{
		{grammar.CodeRuleAction, "(yyval.i)", "(yyloc)", true},
		{grammar.CodePrinter, "((*yyvaluep).i)", "(*yylocationp)", false},
		{grammar.CodeInitialAction, "(yylval.i)", "(yylloc)", false},
	}
	for _, tt := range tests {
		v, loc := Defaults(tt.kind)
		if got := v.Self("i"); got != tt.value {
			t.Errorf("%s value = %q, want %q", tt.kind, got, tt.value)
		}
		if got := loc.Self(""); got != tt.loc {
			t.Errorf("%s location = %q, want %q", tt.kind, got, tt.loc)
		}
		if v.Indexable() != tt.valueIndexed {
			t.Errorf("%s indexable = %v", tt.kind, v.Indexable())
		}
	}
	if got := ValueStack.At(-1, ""); got != "(yyvsp[-1])" {
		t.Errorf("value At = %q", got)
	}
	if got := LocationStack.At(0, ""); got != "(yylsp[0])" {
		t.Errorf("location At = %q", got)
	}
}

func TestSelfGrouping(t *testing.T) {
	tests := []struct {
		stack Stack
		tag   string
		want  string
	}{
		{Stack{Top: "(*yyvaluep)", Grouped: true}, "", "(*yyvaluep)"},
		{Stack{Top: "(*yyvaluep)", Grouped: true}, "i", "((*yyvaluep).i)"},
		// looks like one group but is not marked as one
		{Stack{Top: "(a)"}, "", "((a))"},
		{Stack{Top: "(a) + (b)"}, "", "((a) + (b))"},
		{Stack{Top: "yyval"}, "", "(yyval)"},
	}
	for _, tt := range tests {
		if got := tt.stack.Self(tt.tag); got != tt.want {
			t.Errorf("%q.Self(%q) = %q, want %q", tt.stack.Top, tt.tag, got, tt.want)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	l, err := New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = l.Lookup("foo")
	var unknown *UnknownStackError
	if !errors.As(err, &unknown) || unknown.Stack != "foo" {
		t.Fatalf("expected UnknownStackError, got %v", err)
	}
	var nilLayout *Layout
	if _, err := nilLayout.Lookup("foo"); err == nil {
		t.Fatalf("nil layout must not resolve stacks")
	}
}

func TestNewRejectsBadDeclarations(t *testing.T) {
	tests := []struct {
		name  string
		decls []grammar.StackDecl
		kind  DeclErrorKind
	}{
		{"duplicate", []grammar.StackDecl{{Name: "a"}, {Name: "a"}}, DeclErrDuplicate},
		{"empty", []grammar.StackDecl{{Name: ""}}, DeclErrBadName},
		{"digit first", []grammar.StackDecl{{Name: "1st"}}, DeclErrBadName},
		{"dash", []grammar.StackDecl{{Name: "a-b"}}, DeclErrBadName},
		{"scanner value", []grammar.StackDecl{{Name: "l"}}, DeclErrReserved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.decls)
			var de *DeclError
			if !errors.As(err, &de) || de.Kind != tt.kind {
				t.Fatalf("expected DeclError kind %d, got %v", tt.kind, err)
			}
		})
	}
}
