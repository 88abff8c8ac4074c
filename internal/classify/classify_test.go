package classify

import (
	"testing"

	"go.uber.org/zap"

	"spamcheck/internal/codec"
	"spamcheck/internal/directory"
	"spamcheck/internal/domain"
	"spamcheck/internal/ledger"
	"spamcheck/internal/rules"
	"spamcheck/internal/storage/memory"
)

func newClassifier(t *testing.T) (*Classifier, *ledger.Ledger) {
	t.Helper()
	l := ledger.Open(memory.New(), codec.JSON(), zap.NewNop())
	return New(directory.Builtin(), l, rules.DefaultSpamReportThreshold), l
}

func TestWorkedExamples(t *testing.T) {
	c, _ := newClassifier(t)
	tests := []struct {
		in           string
		wantVerdict  bool
		wantLocation string
		wantRule     string
	}{
		{in: "415-555-1212", wantVerdict: true, wantLocation: "San Francisco, CA", wantRule: rules.RuleCentralOffice555},
		{in: "12025551234", wantVerdict: true, wantLocation: "Washington DC", wantRule: rules.RuleDirectory},
		{in: "6175551234", wantVerdict: true, wantLocation: "Boston, MA", wantRule: rules.RuleCentralOffice555},
	}
	for _, tt := range tests {
		got := c.Classify(tt.in)
		if got.Verdict != tt.wantVerdict || got.Location != tt.wantLocation || got.Rule != tt.wantRule {
			t.Fatalf("Classify(%q) = %+v, want verdict=%v location=%q rule=%q",
				tt.in, got, tt.wantVerdict, tt.wantLocation, tt.wantRule)
		}
	}
}

func TestDirectoryNumbersAlwaysSpam(t *testing.T) {
	c, _ := newClassifier(t)
	d := directory.Builtin()
	for _, n := range d.Numbers() {
		got := c.Classify(n)
		if !got.Verdict || got.Rule != rules.RuleDirectory {
			t.Fatalf("directory number %s classified %+v", n, got)
		}
		e, _ := d.Lookup(n)
		if got.Location != e.Location {
			t.Fatalf("directory number %s location %q, want %q", n, got.Location, e.Location)
		}
	}
}

func TestShortNumbersAlwaysSpam(t *testing.T) {
	c, _ := newClassifier(t)
	for _, in := range []string{"", "1", "12-34", "123456"} {
		if got := c.Classify(in); !got.Verdict {
			t.Fatalf("short input %q should be spam, got %+v", in, got)
		}
	}
}

func TestReportsFlipVerdict(t *testing.T) {
	c, l := newClassifier(t)
	raw := "012-345-6789"

	got := c.Classify(raw)
	if got.Verdict {
		t.Fatalf("expected %s clean before reports, got %+v", raw, got)
	}
	if got.Location != domain.UnknownLocation {
		t.Fatalf("expected unknown location, got %q", got.Location)
	}

	for i := 1; i <= 3; i++ {
		if _, err := l.Record(got.Canonical, true); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		after := c.Classify(raw)
		if want := i >= 3; after.Verdict != want {
			t.Fatalf("after %d reports verdict=%v, want %v", i, after.Verdict, want)
		}
		if i == 3 && after.Rule != rules.RuleCommunityReports {
			t.Fatalf("expected community rule to fire, got %q", after.Rule)
		}
	}
}

func TestZeroThresholdUsesDefault(t *testing.T) {
	l := ledger.Open(memory.New(), codec.JSON(), zap.NewNop())
	c := New(directory.Builtin(), l, 0)

	for i := 1; i <= 3; i++ {
		if _, err := l.Record("0123456789", true); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		if got, want := c.Classify("0123456789").Verdict, i > rules.DefaultSpamReportThreshold; got != want {
			t.Fatalf("after %d reports verdict=%v, want %v", i, got, want)
		}
	}
}

func TestNilLedger(t *testing.T) {
	c := New(directory.Builtin(), nil, rules.DefaultSpamReportThreshold)
	if got := c.Classify("0123456789"); got.Verdict {
		t.Fatalf("expected clean verdict without ledger, got %+v", got)
	}
}

func TestExplain(t *testing.T) {
	c, _ := newClassifier(t)
	got := c.Explain("18005551234")
	if len(got) != 3 || got[0] != rules.RuleDirectory {
		t.Fatalf("Explain = %v, want directory first of 3 matches", got)
	}
}
