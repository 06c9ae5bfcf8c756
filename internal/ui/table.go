package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"lrgen/internal/codegen"
)

// TableOpts configures the plain-text renderers.
type TableOpts struct {
	Color bool
	Width int // 0 = no truncation of symbol names
}

func (o TableOpts) style(s lipgloss.Style) lipgloss.Style {
	if !o.Color {
		return lipgloss.NewStyle()
	}
	return s
}

// RenderEnums writes the symbol-kind enum as an aligned table:
//
//	NUM  NAME                     SYMBOL
//	  0  YYSYMBOL_YYEOF           YYEOF
func RenderEnums(w io.Writer, enums []codegen.Enum, opts TableOpts) error {
	numW := len("NUM")
	nameW := len("NAME")
	for _, e := range enums {
		numW = max(numW, len(strconv.Itoa(e.Number)))
		nameW = max(nameW, runewidth.StringWidth(e.Name))
	}
	symW := 0
	if opts.Width > 0 {
		symW = max(opts.Width-numW-nameW-4, len("SYMBOL"))
	}

	var b strings.Builder
	header := fmt.Sprintf("%*s  %s  %s", numW, "NUM", pad("NAME", nameW), "SYMBOL")
	b.WriteString(opts.style(headerStyle).Render(header))
	b.WriteByte('\n')
	for _, e := range enums {
		sym := truncate(e.Symbol, symW)
		if e.Term {
			sym = opts.style(termStyle).Render(sym)
		}
		fmt.Fprintf(&b, "%*d  %s  %s\n", numW, e.Number, pad(e.Name, nameW), sym)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderActions writes each translated block under a header naming its
// origin. Blocks are separated by a blank line.
func RenderActions(w io.Writer, out *codegen.Output, opts TableOpts) error {
	var b strings.Builder
	first := true
	block := func(header, note, code string) {
		if !first {
			b.WriteByte('\n')
		}
		first = false
		b.WriteString(opts.style(ruleStyle).Render(truncate(header, opts.Width)))
		if note != "" {
			b.WriteString(" " + opts.style(dimStyle).Render(note))
		}
		b.WriteByte('\n')
		for _, line := range strings.Split(code, "\n") {
			b.WriteString("    ")
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	for _, a := range out.Actions {
		var notes []string
		if a.Midrule {
			notes = append(notes, "(midrule)")
		}
		if a.Line > 0 {
			notes = append(notes, fmt.Sprintf("line %d", a.Line))
		}
		note := strings.Join(notes, " ")
		block(fmt.Sprintf("rule %d: %s", a.Rule, a.Text), note, a.Code)
	}
	for _, p := range out.Printers {
		block("printer "+p.Symbol, strings.Join(p.Targets, " "), p.Code)
	}
	if out.InitialAction != "" {
		block("initial-action", "", out.InitialAction)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
