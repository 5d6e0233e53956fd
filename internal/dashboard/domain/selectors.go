package dashboard

// Selectors are pure reads over store snapshots. They recompute from the raw
// payload on every call, so they can never disagree with the cached data.

// RatesForSite computes one site's opening/closing rate series.
func RatesForSite(log SiteEventLog, site Site) RateSeries {
	return ComputeRates(log)[site]
}

// CombinedForSite computes one site's zero-filled combined series.
func CombinedForSite(log SiteEventLog, site Site) CombinedSeries {
	return Combine(RatesForSite(log, site))
}

// FilterYear keeps only the points falling in the given calendar year. The
// aggregation itself always runs over the full log; the year filter is a
// range predicate applied afterwards.
func FilterYear(series CombinedSeries, year int) CombinedSeries {
	filtered := make(CombinedSeries, 0, len(series))
	for _, point := range series {
		if point.Date.Year() == year {
			filtered = append(filtered, point)
		}
	}
	return filtered
}

// FilterRatesYear applies the year predicate to both counters of a series.
func FilterRatesYear(rates RateSeries, year int) RateSeries {
	return RateSeries{
		OpeningRate: filterCountsYear(rates.OpeningRate, year),
		ClosingRate: filterCountsYear(rates.ClosingRate, year),
	}
}

func filterCountsYear(counts []DateCount, year int) []DateCount {
	filtered := make([]DateCount, 0, len(counts))
	for _, entry := range counts {
		if entry.Date.Year() == year {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// BreakdownFor looks up a site-year breakdown. An empty month selects the
// yearly slice; otherwise the named month is returned when present.
func BreakdownFor(data SiteBreakdowns, site Site, year int, month string) (Breakdown, bool) {
	years, ok := data[site]
	if !ok {
		return Breakdown{}, false
	}
	yearData, ok := years[year]
	if !ok {
		return Breakdown{}, false
	}
	if month == "" {
		return yearData.Yearly, true
	}
	monthly, ok := yearData.Monthly[month]
	return monthly, ok
}

// TotalRequests sums a breakdown's main-category counts.
func TotalRequests(breakdown Breakdown) int {
	total := 0
	for _, entry := range breakdown.MainCategory {
		total += entry.Count
	}
	return total
}
