package dashboard

import "sort"

// DateCount is one day's tally of opened or closed requests.
type DateCount struct {
	Date  Date `json:"date"`
	Count int  `json:"count"`
}

// RateSeries holds a site's per-day opening and closing counts, each sorted
// strictly ascending by date with one entry per active day.
type RateSeries struct {
	OpeningRate []DateCount `json:"opening_rate"`
	ClosingRate []DateCount `json:"closing_rate"`
}

// ComputeRates buckets a raw event log into per-day opening and closing
// counts per site. Zero timestamps contribute nothing; a site missing from
// the log yields empty series. The result always covers every known site.
func ComputeRates(log SiteEventLog) map[Site]RateSeries {
	result := make(map[Site]RateSeries, len(Sites()))
	for _, site := range Sites() {
		events := log[site]

		openCounts := make(map[Date]int)
		for _, event := range events {
			if event.CreatedOn.IsZero() {
				continue
			}
			openCounts[DateOf(event.CreatedOn)]++
		}

		closeCounts := make(map[Date]int)
		for _, event := range events {
			if event.ClosedAt.IsZero() {
				continue
			}
			closeCounts[DateOf(event.ClosedAt)]++
		}

		result[site] = RateSeries{
			OpeningRate: sortedCounts(openCounts),
			ClosingRate: sortedCounts(closeCounts),
		}
	}
	return result
}

func sortedCounts(counts map[Date]int) []DateCount {
	series := make([]DateCount, 0, len(counts))
	for date, count := range counts {
		series = append(series, DateCount{Date: date, Count: count})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series
}
