package diag

import (
	"errors"
	"sync"

	"lrgen/internal/source"
)

// Reporter: минимальный контракт получения диагностик от фаз.
// Реализации: BagReporter (кладёт в Bag), LockedReporter, DedupReporter.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// ReportError is a shortcut for SevError diagnostics.
func ReportError(r Reporter, code Code, primary source.Span, msg string) {
	if r != nil {
		r.Report(code, SevError, primary, msg, nil)
	}
}

// ReportErr unpacks err into diagnostics. Joined errors produce one
// diagnostic each; errors that do not implement Coded use fallback and an
// empty span.
func ReportErr(r Reporter, err error, fallback Code) {
	if r == nil || err == nil {
		return
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			ReportErr(r, e, fallback)
		}
		return
	}
	var coded Coded
	if errors.As(err, &coded) {
		var notes []Note
		var annotated interface{ Notes() []Note }
		if errors.As(err, &annotated) {
			notes = annotated.Notes()
		}
		r.Report(coded.Code(), SevError, coded.Span(), err.Error(), notes)
		return
	}
	r.Report(fallback, SevError, source.Span{}, err.Error(), nil)
}

// BagReporter: адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Notes: notes,
	})
}

// LockedReporter serializes Report calls so that parallel passes can share
// one underlying reporter.
type LockedReporter struct {
	mu   sync.Mutex
	next Reporter
}

// NewLockedReporter wraps next with a mutex.
func NewLockedReporter(next Reporter) *LockedReporter {
	return &LockedReporter{next: next}
}

func (r *LockedReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r == nil || r.next == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next.Report(code, sev, primary, msg, notes)
}
