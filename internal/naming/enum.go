package naming

import (
	"strconv"
	"strings"

	"lrgen/internal/grammar"
)

const prefix = "YYSYMBOL_"

// EnumName returns the enum member for sym.
//
//	accept        YYSYMBOL_YYACCEPT
//	eof           YYSYMBOL_YYEOF
//	'x' literal   YYSYMBOL_<number>_<mnemonic>_ or YYSYMBOL_<number>_
//	$@N / @N      YYSYMBOL_<number>_<N>
//	otherwise     YYSYMBOL_<name>
func EnumName(sym *grammar.Symbol) string {
	switch sym.Class() {
	case grammar.ClassAccept:
		return prefix + "YYACCEPT"
	case grammar.ClassEOF:
		return prefix + "YYEOF"
	case grammar.ClassChar:
		name := prefix + strconv.Itoa(sym.Number) + "_"
		if m := charMnemonic(sym); m != "" {
			name += m + "_"
		}
		return name
	case grammar.ClassSynthesized:
		return prefix + strconv.Itoa(sym.Number) + "_" + strings.TrimLeft(sym.Name, "$@")
	default:
		return prefix + sym.Name
	}
}

// escapeLetters maps C escape letters that stand for themselves in a mnemonic.
var escapeLetters = map[byte]bool{
	'n': true, 't': true, 'r': true, 'v': true,
	'f': true, 'a': true, 'b': true,
}

// charMnemonic derives the readable part of a character-literal member:
// the ASCII letters of the alias when there is one, the escape letter for
// '\n'-style literals, and nothing otherwise.
func charMnemonic(sym *grammar.Symbol) string {
	if sym.Alias != "" {
		return asciiLetters(sym.Alias)
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(sym.Name, "'"), "'")
	if len(inner) == 2 && inner[0] == '\\' && escapeLetters[inner[1]] {
		return inner[1:]
	}
	return ""
}

func asciiLetters(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') {
			b.WriteByte(c)
		}
	}
	return b.String()
}
