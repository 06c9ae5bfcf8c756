package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	done := tm.Track("load")
	done("3 rules")
	idx := tm.Begin("naming")
	tm.End(idx, "")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %+v", r.Phases)
	}
	if r.Phases[0].Name != "load" || r.Phases[0].Note != "3 rules" {
		t.Errorf("first phase = %+v", r.Phases[0])
	}
	if r.TotalMS < r.Phases[0].DurationMS {
		t.Errorf("total %f < phase %f", r.TotalMS, r.Phases[0].DurationMS)
	}

	sum := tm.Summary()
	for _, want := range []string{"timings:", "load", "// 3 rules", "naming", "total"} {
		if !strings.Contains(sum, want) {
			t.Errorf("summary misses %q:\n%s", want, sum)
		}
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.Track("x")("")
	if r := tm.Report(); len(r.Phases) != 0 {
		t.Fatalf("nil timer report = %+v", r)
	}
}
