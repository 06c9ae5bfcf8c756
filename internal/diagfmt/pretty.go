package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"lrgen/internal/diag"
	"lrgen/internal/source"
)

// Pretty prints bag.Items() (sort the bag first) as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//	   3 |     $4 = 1;
//	     |     ^~
//	  note: <path>:<line>:<col>: <note>
//
// Diagnostics without a location are printed as a single header line.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := &printer{w: w, fs: fs, opts: opts, palette: newPalette(opts.Color)}
	for _, d := range bag.Items() {
		p.diagnostic(d)
	}
}

type palette struct {
	sev   map[diag.Severity]*color.Color
	loc   *color.Color
	caret *color.Color
	note  *color.Color
	gut   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevInfo:    color.New(color.FgCyan),
		},
		loc:   color.New(color.Bold),
		caret: color.New(color.FgGreen, color.Bold),
		note:  color.New(color.FgBlue),
		gut:   color.New(color.FgHiBlack),
	}
	all := []*color.Color{p.loc, p.caret, p.note, p.gut}
	for _, c := range p.sev {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

type printer struct {
	w       io.Writer
	fs      *source.FileSet
	opts    PrettyOpts
	palette palette
}

func (p *printer) diagnostic(d diag.Diagnostic) {
	sev := p.palette.sev[d.Severity]
	if sev == nil {
		sev = p.palette.loc
	}
	fmt.Fprintf(p.w, "%s: %s %s: %s\n",
		p.palette.loc.Sprint(p.location(d.Primary)),
		sev.Sprint(d.Severity.String()),
		d.Code.ID(),
		d.Message)
	p.snippet(d.Primary)
	if !p.opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		fmt.Fprintf(p.w, "  %s %s: %s\n", p.palette.note.Sprint("note:"), p.location(n.Span), n.Msg)
	}
}

func (p *printer) location(sp source.Span) string {
	if p.fs == nil {
		return "-"
	}
	f := p.fs.Get(sp.File)
	if f == nil {
		return "-"
	}
	if sp == (source.Span{}) {
		return formatPath(f, p.fs, p.opts.PathMode)
	}
	start, _ := p.fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(f, p.fs, p.opts.PathMode), start.Line, start.Col)
}

// snippet prints the primary line with context and an underline.
func (p *printer) snippet(sp source.Span) {
	if p.fs == nil || sp == (source.Span{}) {
		return
	}
	f := p.fs.Get(sp.File)
	if f == nil || len(f.Content) == 0 {
		return
	}
	start, end := p.fs.Resolve(sp)
	lines := strings.Split(string(f.Content), "\n")
	primary := int(start.Line)
	if primary < 1 || primary > len(lines) {
		return
	}
	ctx := max(int(p.opts.Context), 0)
	from, to := max(primary-ctx, 1), min(primary+ctx, len(lines))
	gutter := len(fmt.Sprint(to))
	for n := from; n <= to; n++ {
		text := lines[n-1]
		fmt.Fprintf(p.w, "%s %s\n", p.palette.gut.Sprintf("%*d |", gutter+1, n), text)
		if n != primary {
			continue
		}
		startCol := int(start.Col) - 1
		endCol := len(text)
		if end.Line == start.Line {
			endCol = int(end.Col) - 1
		}
		fmt.Fprintf(p.w, "%s %s\n", p.palette.gut.Sprintf("%*s |", gutter+1, ""), p.palette.caret.Sprint(underline(text, startCol, endCol)))
	}
}

// underline builds "   ^~~" for the byte range [from,to) of line, keeping
// tabs and display widths so the marker lines up in a terminal.
func underline(line string, from, to int) string {
	from = min(max(from, 0), len(line))
	to = min(max(to, from), len(line))
	var b strings.Builder
	for _, r := range line[:from] {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	b.WriteByte('^')
	if width := runewidth.StringWidth(line[from:to]); width > 1 {
		b.WriteString(strings.Repeat("~", width-1))
	}
	return b.String()
}
