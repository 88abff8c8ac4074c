package codec

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"spamcheck/internal/domain"
)

func TestByName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: NameJSON},
		{in: "JSON", want: NameJSON},
		{in: " msgpack ", want: NameMsgpack},
		{in: "gob", wantErr: true},
	}
	for _, tt := range tests {
		c, err := ByName(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ByName(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ByName(%q) failed: %v", tt.in, err)
		}
		if c.Name() != tt.want {
			t.Fatalf("ByName(%q) = %s, want %s", tt.in, c.Name(), tt.want)
		}
	}
}

func TestJSONShape(t *testing.T) {
	blob, err := JSON().Marshal(map[string]domain.ReportRecord{"4155551212": {SpamReports: 3, LegitReports: 1}})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"4155551212":{"spamReports":3,"legitReports":1}}`
	if string(blob) != want {
		t.Fatalf("ledger JSON = %s, want %s", blob, want)
	}

	blob, err = JSON().Marshal([]domain.HistoryEntry{{DisplayNumber: "(415) 555-1212", IsSpam: true, Timestamp: "t", Location: "SF"}})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want = `[{"number":"(415) 555-1212","isSpam":true,"timestamp":"t","location":"SF"}]`
	if string(blob) != want {
		t.Fatalf("history JSON = %s, want %s", blob, want)
	}
}

func TestCodecsPreserveHistory(t *testing.T) {
	in := []domain.HistoryEntry{
		{DisplayNumber: "(617) 555-1234", IsSpam: true, Timestamp: "10/19/2026, 9:00:00 AM", Location: "Boston, MA"},
		{DisplayNumber: "5551234", IsSpam: false, Timestamp: "10/19/2026, 8:59:00 AM", Location: "Unknown location"},
	}
	for _, c := range []Codec{JSON(), Msgpack()} {
		blob, err := c.Marshal(in)
		if err != nil {
			t.Fatalf("%s Marshal failed: %v", c.Name(), err)
		}
		var out []domain.HistoryEntry
		if err := c.Unmarshal(blob, &out); err != nil {
			t.Fatalf("%s Unmarshal failed: %v", c.Name(), err)
		}
		if diff := cmp.Diff(in, out); diff != "" {
			t.Fatalf("%s lost data (-in +out):\n%s", c.Name(), diff)
		}
	}
}
