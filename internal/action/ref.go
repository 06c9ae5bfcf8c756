package action

import (
	"strconv"
	"strings"
)

// RefKind classifies a reference token.
type RefKind uint8

const (
	// Unrecognized is a '$' or '@' that does not start any known form.
	Unrecognized RefKind = iota
	ValueSelf             // $$
	ValueIndexed          // $N
	ValueNamed            // $name, $[name]
	LocationSelf          // @$
	LocationIndexed       // @N
	LocationNamed         // @name, @[name]
	NamedStackSelf        // $stack_$
	NamedStackIndexed     // $stack_N
)

var refKindNames = [...]string{
	Unrecognized:      "unrecognized",
	ValueSelf:         "value-self",
	ValueIndexed:      "value-indexed",
	ValueNamed:        "value-named",
	LocationSelf:      "location-self",
	LocationIndexed:   "location-indexed",
	LocationNamed:     "location-named",
	NamedStackSelf:    "stack-self",
	NamedStackIndexed: "stack-indexed",
}

func (k RefKind) String() string {
	if int(k) < len(refKindNames) {
		return refKindNames[k]
	}
	return "RefKind(" + strconv.Itoa(int(k)) + ")"
}

// Location reports whether the reference addresses the location stack.
func (k RefKind) Location() bool {
	return k == LocationSelf || k == LocationIndexed || k == LocationNamed
}

// Ref is one reference found in code text. Start/End are byte offsets of
// the whole token, Text is the token itself.
type Ref struct {
	Kind  RefKind
	Index int    // N of the indexed forms
	Name  string // stack name, or the referenced name of the named forms
	Tag   string // explicit $<tag>, "" when absent
	Start int
	End   int
	Text  string
}

// Ident is the identifier a stack-indexed token would name as a plain named
// reference, e.g. "foo_1" for $foo_1.
func (r Ref) Ident() string {
	if r.Kind != NamedStackIndexed {
		return r.Name
	}
	ident := r.Text[1:]
	if r.Tag != "" {
		ident = strings.TrimPrefix(ident, "<"+r.Tag+">")
	}
	return ident
}
