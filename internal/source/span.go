package source

import (
	"fmt"

	"fortio.org/safecast"
)

// Span is a half-open byte range inside one file.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span containing both s and other.
// Spans from different files are not merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Sub selects n bytes starting at off, relative to s.Start.
// The result is clamped to s, so a span produced for text that does not
// map byte-for-byte onto the file still points inside the owning span.
func (s Span) Sub(off, n int) Span {
	uoff, err := safecast.Conv[uint32](off)
	if err != nil {
		return Span{File: s.File, Start: s.Start, End: s.Start}
	}
	un, err := safecast.Conv[uint32](n)
	if err != nil {
		un = 0
	}
	start := s.Start + uoff
	if start > s.End {
		start = s.End
	}
	end := start + un
	if end > s.End {
		end = s.End
	}
	return Span{File: s.File, Start: start, End: end}
}
