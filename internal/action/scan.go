package action

import (
	"math"
	"strconv"
	"strings"
)

// Scan returns the references in text in source order. String and character
// literals and C comments are skipped, so "$1" inside them is not a reference.
// Unterminated literals and comments run to the end of the text.
func Scan(text string) []Ref {
	s := &scanner{text: text}
	for !s.eof() {
		switch c := s.peek(); c {
		case '"', '\'':
			s.skipQuoted(c)
		case '/':
			s.skipComment()
		case '$':
			s.scanDollar()
		case '@':
			s.scanAt()
		default:
			s.off++
		}
	}
	return s.refs
}

type scanner struct {
	text string
	off  int
	refs []Ref
}

func (s *scanner) eof() bool {
	return s.off >= len(s.text)
}

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.text[s.off]
}

func (s *scanner) peekAt(n int) byte {
	if s.off+n >= len(s.text) {
		return 0
	}
	return s.text[s.off+n]
}

func (s *scanner) emit(ref Ref, start int) {
	ref.Start = start
	ref.End = s.off
	ref.Text = s.text[start:s.off]
	s.refs = append(s.refs, ref)
}

// unrecognized records a lone marker and resumes right after it.
func (s *scanner) unrecognized(start int) {
	s.off = start + 1
	s.emit(Ref{Kind: Unrecognized}, start)
}

func (s *scanner) skipQuoted(quote byte) {
	s.off++
	for !s.eof() {
		c := s.text[s.off]
		s.off++
		switch c {
		case '\\':
			if !s.eof() {
				s.off++
			}
		case quote, '\n':
			return
		}
	}
}

func (s *scanner) skipComment() {
	switch s.peekAt(1) {
	case '/':
		if nl := strings.IndexByte(s.text[s.off:], '\n'); nl >= 0 {
			s.off += nl
		} else {
			s.off = len(s.text)
		}
	case '*':
		if end := strings.Index(s.text[s.off+2:], "*/"); end >= 0 {
			s.off += 2 + end + 2
		} else {
			s.off = len(s.text)
		}
	default:
		s.off++
	}
}

func (s *scanner) scanDollar() {
	start := s.off
	s.off++ // $
	tag := ""
	if s.peek() == '<' {
		var ok bool
		if tag, ok = s.typeTag(); !ok {
			s.unrecognized(start)
			return
		}
	}
	switch c := s.peek(); {
	case c == '$':
		s.off++
		s.emit(Ref{Kind: ValueSelf, Tag: tag}, start)
	case isDigit(c):
		s.emit(Ref{Kind: ValueIndexed, Index: s.number(), Tag: tag}, start)
	case c == '[':
		name, ok := s.bracketName()
		if !ok {
			s.unrecognized(start)
			return
		}
		s.emit(Ref{Kind: ValueNamed, Name: name, Tag: tag}, start)
	case isIdentStart(c):
		ident := s.ident()
		if len(ident) > 1 && strings.HasSuffix(ident, "_") && s.peek() == '$' {
			s.off++
			s.emit(Ref{Kind: NamedStackSelf, Name: ident[:len(ident)-1], Tag: tag}, start)
			return
		}
		if name, n, ok := splitStackIndex(ident); ok {
			s.emit(Ref{Kind: NamedStackIndexed, Name: name, Index: n, Tag: tag}, start)
			return
		}
		s.emit(Ref{Kind: ValueNamed, Name: ident, Tag: tag}, start)
	default:
		s.unrecognized(start)
	}
}

func (s *scanner) scanAt() {
	start := s.off
	s.off++ // @
	switch c := s.peek(); {
	case c == '$':
		s.off++
		s.emit(Ref{Kind: LocationSelf}, start)
	case isDigit(c):
		s.emit(Ref{Kind: LocationIndexed, Index: s.number()}, start)
	case c == '[':
		name, ok := s.bracketName()
		if !ok {
			s.unrecognized(start)
			return
		}
		s.emit(Ref{Kind: LocationNamed, Name: name}, start)
	case isIdentStart(c):
		s.emit(Ref{Kind: LocationNamed, Name: s.ident()}, start)
	default:
		s.unrecognized(start)
	}
}

// typeTag reads "<tag>" on one line. The tag is returned verbatim.
func (s *scanner) typeTag() (string, bool) {
	rest := s.text[s.off:]
	end := strings.IndexByte(rest, '>')
	if end < 2 || strings.IndexByte(rest[:end], '\n') >= 0 {
		return "", false
	}
	s.off += end + 1
	return rest[1:end], true
}

// bracketName reads "[name]"; Bison also allows dots and dashes inside.
func (s *scanner) bracketName() (string, bool) {
	rest := s.text[s.off:]
	end := strings.IndexByte(rest, ']')
	if end < 2 {
		return "", false
	}
	name := rest[1:end]
	for i := 0; i < len(name); i++ {
		if c := name[i]; !isIdentContinue(c) && c != '.' && c != '-' {
			return "", false
		}
	}
	s.off += end + 1
	return name, true
}

func (s *scanner) ident() string {
	start := s.off
	for !s.eof() && isIdentContinue(s.text[s.off]) {
		s.off++
	}
	return s.text[start:s.off]
}

// number reads a decimal index. Values that do not fit an int saturate, so
// they still fail the range check instead of wrapping.
func (s *scanner) number() int {
	start := s.off
	for !s.eof() && isDigit(s.text[s.off]) {
		s.off++
	}
	n, err := strconv.Atoi(s.text[start:s.off])
	if err != nil {
		return math.MaxInt
	}
	return n
}

// splitStackIndex splits "rpv_12" into "rpv" and 12.
func splitStackIndex(ident string) (string, int, bool) {
	us := strings.LastIndexByte(ident, '_')
	if us <= 0 || us == len(ident)-1 {
		return "", 0, false
	}
	digits := ident[us+1:]
	for i := 0; i < len(digits); i++ {
		if !isDigit(digits[i]) {
			return "", 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		n = math.MaxInt
	}
	return ident[:us], n, true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinue(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}
