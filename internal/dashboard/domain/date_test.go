package dashboard

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateOf_TruncatesToUTCDay(t *testing.T) {
	cases := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2024, 3, 1, 10, 45, 12, 0, time.UTC), "2024-03-01"},
		{time.Date(2024, 3, 1, 23, 59, 59, 0, time.UTC), "2024-03-01"},
		{time.Date(2024, 3, 1, 22, 0, 0, 0, time.FixedZone("CEST", 2*3600)), "2024-03-01"},
		{time.Date(2024, 3, 1, 20, 0, 0, 0, time.FixedZone("EST", -5*3600)), "2024-03-02"},
	}
	for _, tc := range cases {
		if got := DateOf(tc.in).String(); got != tc.want {
			t.Fatalf("DateOf(%s): expected %s, got %s", tc.in, tc.want, got)
		}
	}
}

func TestDate_MapKeyEquality(t *testing.T) {
	morning := DateOf(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))
	evening := DateOf(time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC))
	if morning != evening {
		t.Fatal("expected same calendar day to compare equal")
	}

	counts := map[Date]int{}
	counts[morning]++
	counts[evening]++
	if counts[morning] != 2 {
		t.Fatalf("expected a single map bucket, got %v", counts)
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	date := mustDate(t, "2024-03-01")

	encoded, err := json.Marshal(date)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(encoded) != `"2024-03-01"` {
		t.Fatalf("unexpected encoding: %s", encoded)
	}

	var decoded Date
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != date {
		t.Fatalf("expected %s, got %s", date, decoded)
	}
}

func TestDate_UnmarshalRejectsMalformed(t *testing.T) {
	var date Date
	if err := json.Unmarshal([]byte(`"03/01/2024"`), &date); err == nil {
		t.Fatal("expected error for malformed date")
	}
	if err := json.Unmarshal([]byte(`42`), &date); err == nil {
		t.Fatal("expected error for non-string date")
	}
}

func TestParseSite(t *testing.T) {
	for _, valid := range []string{"A", "B", "C"} {
		site, ok := ParseSite(valid)
		if !ok || string(site) != valid {
			t.Fatalf("expected site %s to parse, got %q %v", valid, site, ok)
		}
	}
	for _, invalid := range []string{"", "D", "a", "AB"} {
		if _, ok := ParseSite(invalid); ok {
			t.Fatalf("expected %q to be rejected", invalid)
		}
	}
}
