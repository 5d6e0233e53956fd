package dashboard

import (
	"testing"
	"time"
)

func ts(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return parsed
}

func mustDate(t *testing.T, value string) Date {
	t.Helper()
	date, err := ParseDate(value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return date
}

func TestComputeRates_Scenario(t *testing.T) {
	log := SiteEventLog{
		SiteA: {
			{CreatedOn: ts(t, "2024-03-01T10:00:00Z"), ClosedAt: ts(t, "2024-03-02T09:00:00Z")},
			{CreatedOn: ts(t, "2024-03-01T15:30:00Z")},
			{ClosedAt: ts(t, "2024-03-03T08:00:00Z")},
		},
	}

	rates := ComputeRates(log)[SiteA]

	wantOpening := []DateCount{{Date: mustDate(t, "2024-03-01"), Count: 2}}
	if len(rates.OpeningRate) != len(wantOpening) {
		t.Fatalf("expected %d opening entries, got %d", len(wantOpening), len(rates.OpeningRate))
	}
	for i, want := range wantOpening {
		if rates.OpeningRate[i] != want {
			t.Fatalf("opening[%d]: expected %+v, got %+v", i, want, rates.OpeningRate[i])
		}
	}

	wantClosing := []DateCount{
		{Date: mustDate(t, "2024-03-02"), Count: 1},
		{Date: mustDate(t, "2024-03-03"), Count: 1},
	}
	if len(rates.ClosingRate) != len(wantClosing) {
		t.Fatalf("expected %d closing entries, got %d", len(wantClosing), len(rates.ClosingRate))
	}
	for i, want := range wantClosing {
		if rates.ClosingRate[i] != want {
			t.Fatalf("closing[%d]: expected %+v, got %+v", i, want, rates.ClosingRate[i])
		}
	}
}

func TestComputeRates_MissingSiteYieldsEmptySeries(t *testing.T) {
	log := SiteEventLog{
		SiteA: {{CreatedOn: ts(t, "2024-01-15T08:00:00Z")}},
	}

	rates := ComputeRates(log)

	for _, site := range []Site{SiteB, SiteC} {
		siteRates, ok := rates[site]
		if !ok {
			t.Fatalf("expected entry for site %s", site)
		}
		if len(siteRates.OpeningRate) != 0 || len(siteRates.ClosingRate) != 0 {
			t.Fatalf("expected empty series for site %s, got %+v", site, siteRates)
		}
	}
}

func TestComputeRates_AbsentFieldsContributeNothing(t *testing.T) {
	log := SiteEventLog{
		SiteA: {
			{},
			{ClosedAt: ts(t, "2024-05-01T12:00:00Z")},
		},
	}

	rates := ComputeRates(log)[SiteA]
	if len(rates.OpeningRate) != 0 {
		t.Fatalf("expected no opening entries, got %+v", rates.OpeningRate)
	}
	if len(rates.ClosingRate) != 1 {
		t.Fatalf("expected one closing entry, got %+v", rates.ClosingRate)
	}
}

func TestComputeRates_SortedAcrossMonthAndYearBoundaries(t *testing.T) {
	log := SiteEventLog{
		SiteB: {
			{CreatedOn: ts(t, "2024-01-02T00:10:00Z")},
			{CreatedOn: ts(t, "2023-12-31T23:00:00Z")},
			{CreatedOn: ts(t, "2023-02-10T09:00:00Z")},
			{CreatedOn: ts(t, "2023-11-05T09:00:00Z")},
		},
	}

	opening := ComputeRates(log)[SiteB].OpeningRate
	if len(opening) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(opening))
	}
	for i := 1; i < len(opening); i++ {
		if !opening[i-1].Date.Before(opening[i].Date) {
			t.Fatalf("dates not strictly increasing: %s then %s", opening[i-1].Date, opening[i].Date)
		}
	}
}

func TestComputeRates_TruncatesInUTC(t *testing.T) {
	// 23:30 at UTC-5 is already the next day in UTC.
	local := time.Date(2024, 3, 1, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))
	log := SiteEventLog{SiteC: {{CreatedOn: local}}}

	opening := ComputeRates(log)[SiteC].OpeningRate
	if len(opening) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(opening))
	}
	if got := opening[0].Date.String(); got != "2024-03-02" {
		t.Fatalf("expected UTC date 2024-03-02, got %s", got)
	}
}

func TestComputeRates_EmptyLog(t *testing.T) {
	rates := ComputeRates(SiteEventLog{})
	for _, site := range Sites() {
		if len(rates[site].OpeningRate) != 0 || len(rates[site].ClosingRate) != 0 {
			t.Fatalf("expected empty series for %s", site)
		}
	}
}
