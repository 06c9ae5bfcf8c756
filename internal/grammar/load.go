package grammar

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"lrgen/internal/diag"
	"lrgen/internal/source"
)

// modelFile is the TOML shape a front end emits for one grammar.
type modelFile struct {
	Grammar       string         `toml:"grammar"`
	InitialAction string         `toml:"initial_action"`
	Symbols       []symbolEntry  `toml:"symbol"`
	Stacks        []stackEntry   `toml:"stack"`
	Rules         []ruleEntry    `toml:"rule"`
	Printers      []printerEntry `toml:"printer"`
}

type symbolEntry struct {
	Name    string `toml:"name"`
	Alias   string `toml:"alias"`
	Number  int    `toml:"number"`
	TokenID *int   `toml:"token_id"`
	Term    bool   `toml:"term"`
	Accept  bool   `toml:"accept"`
	EOF     bool   `toml:"eof"`
	Type    string `toml:"type"`
}

type stackEntry struct {
	Name   string `toml:"name"`
	Fields string `toml:"fields"`
	Tag    string `toml:"tag"`
}

type ruleEntry struct {
	LHS     string            `toml:"lhs"`
	RHS     []string          `toml:"rhs"`
	Aliases map[string]string `toml:"aliases"` // RHS position -> alias
	Action  *string           `toml:"action"`
	Midrule bool              `toml:"midrule"`
	Line    int               `toml:"line"`
}

type printerEntry struct {
	Targets []string `toml:"targets"`
	Code    string   `toml:"code"`
}

// LoadFile reads a grammar model from path into fs and builds the grammar.
func LoadFile(fs *source.FileSet, path string) (*Grammar, error) {
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load grammar model: %w", err)
	}
	return Load(fs, id)
}

// Load decodes the model stored in fs under id. Spans of symbols, rules and
// code blocks point into that file. Every problem found is reported; the
// returned error joins them.
func Load(fs *source.FileSet, id source.FileID) (*Grammar, error) {
	file := fs.Get(id)
	if file == nil {
		return nil, fmt.Errorf("load grammar model: unknown file id %d", id)
	}

	var m modelFile
	meta, err := toml.Decode(string(file.Content), &m)
	if err != nil {
		return nil, decodeError(file, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, modelErrorf(diag.ModParseError, source.Span{File: id}, "%s: unknown keys: %s", file.Path, strings.Join(keys, ", "))
	}

	l := &loader{
		fs:       fs,
		file:     file,
		g:        New(),
		symbols:  headerSpans(file, "[[symbol]]"),
		rules:    headerSpans(file, "[[rule]]"),
		printers: headerSpans(file, "[[printer]]"),
	}
	l.g.Files = fs
	l.g.Source = m.Grammar
	if m.InitialAction != "" {
		l.g.InitialAction = l.code(CodeInitialAction, m.InitialAction, source.Span{File: id})
	}
	l.symbolsFrom(m.Symbols)
	l.stacksFrom(m.Stacks)
	l.rulesFrom(m.Rules)
	l.printersFrom(m.Printers)
	if len(l.errs) > 0 {
		return nil, errors.Join(l.errs...)
	}
	if err := l.g.Finalize(); err != nil {
		return nil, err
	}
	return l.g, nil
}

type loader struct {
	fs   *source.FileSet
	file *source.File
	g    *Grammar
	// spans of the [[...]] headers, in file order
	symbols  []source.Span
	rules    []source.Span
	printers []source.Span
	errs     []error
}

func (l *loader) fail(err error) {
	l.errs = append(l.errs, err)
}

func (l *loader) symbolsFrom(entries []symbolEntry) {
	for i, e := range entries {
		span := spanAt(l.symbols, i, l.file.ID)
		if strings.TrimSpace(e.Name) == "" {
			l.fail(modelErrorf(diag.ModParseError, span, "symbol #%d has no name", i+1))
			continue
		}
		tokenID := NoTokenID
		if e.TokenID != nil {
			tokenID = *e.TokenID
		} else if e.Term {
			if c, ok := charTokenID(e.Name); ok {
				tokenID = c
			}
		}
		if _, err := l.g.AddSymbol(Symbol{
			Name:    e.Name,
			Alias:   e.Alias,
			Number:  e.Number,
			TokenID: tokenID,
			Term:    e.Term,
			Accept:  e.Accept,
			EOF:     e.EOF,
			Type:    e.Type,
			Span:    span,
		}); err != nil {
			l.fail(err)
		}
	}
}

func (l *loader) stacksFrom(entries []stackEntry) {
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			l.fail(modelErrorf(diag.ModParseError, source.Span{File: l.file.ID}, "stack #%d has no name", i+1))
			continue
		}
		if seen[name] {
			l.fail(modelErrorf(diag.ModDuplicateStack, source.Span{File: l.file.ID}, "stack %q declared twice", name))
			continue
		}
		seen[name] = true
		l.g.AddStack(StackDecl{Name: name, Fields: e.Fields, Tag: strings.TrimSpace(e.Tag)})
	}
}

func (l *loader) rulesFrom(entries []ruleEntry) {
	for i, e := range entries {
		span := spanAt(l.rules, i, l.file.ID)
		lhs, ok := l.g.Symbol(e.LHS)
		if !ok {
			l.fail(modelErrorf(diag.ModUnknownSymbol, span, "rule #%d: unknown left-hand side %q", i+1, e.LHS))
			continue
		}
		if e.Line < 0 {
			l.fail(modelErrorf(diag.ModBadRule, span, "rule #%d: negative line %d", i+1, e.Line))
			continue
		}
		rule := &Rule{LHS: lhs, Midrule: e.Midrule, Span: span, Line: e.Line, RHS: make([]RhsItem, 0, len(e.RHS))}
		broken := false
		for pos, raw := range e.RHS {
			name, alias := splitNamedRef(raw)
			sym, ok := l.g.Symbol(name)
			if !ok {
				l.fail(modelErrorf(diag.ModUnknownSymbol, span, "rule #%d: unknown symbol %q", i+1, name))
				broken = true
				continue
			}
			rule.RHS = append(rule.RHS, RhsItem{Symbol: sym, Pos: pos + 1, Alias: alias})
		}
		if broken || !l.applyAliases(rule, e.Aliases, i, span) {
			continue
		}
		if e.Action != nil {
			rule.Action = l.code(CodeRuleAction, *e.Action, span)
		}
		l.g.AddRule(rule)
	}
}

// applyAliases names RHS items through the aliases table, keyed by 1-based
// position. A position may not be named twice with different aliases.
func (l *loader) applyAliases(rule *Rule, aliases map[string]string, i int, span source.Span) bool {
	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ok := true
	for _, k := range keys {
		alias := strings.TrimSpace(aliases[k])
		pos, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil || pos < 1 || pos > len(rule.RHS) {
			l.fail(modelErrorf(diag.ModBadRhsPosition, span, "rule #%d: alias position %q out of range 1..%d", i+1, k, len(rule.RHS)))
			ok = false
			continue
		}
		if alias == "" {
			l.fail(modelErrorf(diag.ModBadRule, span, "rule #%d: empty alias for position %d", i+1, pos))
			ok = false
			continue
		}
		item := &rule.RHS[pos-1]
		if item.Alias != "" && item.Alias != alias {
			l.fail(modelErrorf(diag.ModBadRhsPosition, span, "rule #%d: position %d named both %q and %q", i+1, pos, item.Alias, alias))
			ok = false
			continue
		}
		item.Alias = alias
	}
	return ok
}

func (l *loader) printersFrom(entries []printerEntry) {
	for i, e := range entries {
		span := spanAt(l.printers, i, l.file.ID)
		p := &Printer{Targets: e.Targets}
		for _, target := range e.Targets {
			matched := l.printerTargets(target)
			if len(matched) == 0 {
				l.fail(modelErrorf(diag.ModUnknownPrinterTo, span, "printer #%d: %q matches no symbol", i+1, target))
			}
			p.Symbols = append(p.Symbols, matched...)
		}
		p.Code = l.code(CodePrinter, e.Code, span)
		l.g.Printers = append(l.g.Printers, p)
	}
}

// printerTargets resolves "<tag>" to every symbol of that type, "<*>" to
// every typed symbol, "<>" to every untyped one, and anything else to the
// symbol of that name.
func (l *loader) printerTargets(target string) []*Symbol {
	if strings.HasPrefix(target, "<") && strings.HasSuffix(target, ">") {
		tag := target[1 : len(target)-1]
		var out []*Symbol
		for _, sym := range l.g.Symbols {
			switch {
			case tag == "*" && sym.Typed(),
				tag == "" && !sym.Typed() && !sym.Accept,
				tag != "*" && tag != "" && sym.Type == tag:
				out = append(out, sym)
			}
		}
		return out
	}
	if sym, ok := l.g.Symbol(target); ok {
		return []*Symbol{sym}
	}
	return nil
}

// code wraps text and finds where it sits in the model file, searching from
// the owning table header. Text written as a TOML literal string occurs
// verbatim; anything else gets an empty span at the header.
func (l *loader) code(kind CodeKind, text string, owner source.Span) *Code {
	c := &Code{Kind: kind, Text: text, Span: source.Span{File: owner.File, Start: owner.Start, End: owner.Start}}
	if sp, ok := l.fs.Locate(l.file.ID, owner.Start, text); ok {
		c.Span = sp
	}
	return c
}

// splitNamedRef splits "tSTRING[str]" into symbol name and alias.
func splitNamedRef(raw string) (name, alias string) {
	raw = strings.TrimSpace(raw)
	if strings.HasSuffix(raw, "]") {
		if open := strings.LastIndexByte(raw, '['); open > 0 {
			return raw[:open], raw[open+1 : len(raw)-1]
		}
	}
	return raw, ""
}

// charTokenID decodes a quoted character literal like 'a' or '\n'.
func charTokenID(name string) (int, bool) {
	if len(name) < 3 || name[0] != '\'' || name[len(name)-1] != '\'' {
		return 0, false
	}
	r, _, tail, err := strconv.UnquoteChar(name[1:len(name)-1], '\'')
	if err != nil || tail != "" {
		return 0, false
	}
	return int(r), true
}

// headerSpans returns the spans of every array-of-tables header, in file
// order. A header counts only at the start of a line, after optional
// whitespace, and outside multi-line strings, so action text and comments
// that mention it do not shift the spans of later entries.
func headerSpans(file *source.File, header string) []source.Span {
	var out []source.Span
	content := file.Content
	needle := []byte(header)
	var open []byte // closing delimiter of the multi-line string we are in
	for off := 0; off < len(content); {
		end := bytes.IndexByte(content[off:], '\n')
		if end < 0 {
			end = len(content)
		} else {
			end += off
		}
		line := content[off:end]
		if open == nil {
			indent := len(line) - len(bytes.TrimLeft(line, " \t"))
			if bytes.HasPrefix(line[indent:], needle) {
				out = append(out, spanOf(file.ID, off+indent, len(needle)))
			}
		}
		open = multilineState(line, open)
		off = end + 1
	}
	return out
}

var multilineDelims = [][]byte{[]byte(`"""`), []byte(`'''`)}

// multilineState carries an open ''' or """ string across one line and
// returns the delimiter still waiting to be closed, nil outside a string.
func multilineState(line, open []byte) []byte {
	for i := 0; i < len(line); {
		if open != nil {
			j := bytes.Index(line[i:], open)
			if j < 0 {
				return open
			}
			i += j + len(open)
			open = nil
			continue
		}
		switch line[i] {
		case '#':
			return nil
		case '"', '\'':
			for _, d := range multilineDelims {
				if bytes.HasPrefix(line[i:], d) {
					open = d
					break
				}
			}
			if open != nil {
				i += len(open)
				continue
			}
			// однострочная строка: до закрывающей кавычки
			q := line[i]
			j := i + 1
			for j < len(line) && line[j] != q {
				if q == '"' && line[j] == '\\' {
					j++
				}
				j++
			}
			i = j + 1
			continue
		}
		i++
	}
	return open
}

func spanOf(id source.FileID, start, n int) source.Span {
	full := source.Span{File: id, Start: 0, End: ^uint32(0)}
	return full.Sub(start, n)
}

func spanAt(spans []source.Span, i int, id source.FileID) source.Span {
	if i < len(spans) {
		return spans[i]
	}
	return source.Span{File: id}
}

func decodeError(file *source.File, err error) error {
	var perr toml.ParseError
	if errors.As(err, &perr) {
		return modelErrorf(diag.ModParseError, spanOf(file.ID, perr.Position.Start, perr.Position.Len),
			"%s:%d: %s", file.Path, perr.Position.Line, perr.Message)
	}
	return modelErrorf(diag.ModParseError, source.Span{File: file.ID}, "%s: %v", file.Path, err)
}
