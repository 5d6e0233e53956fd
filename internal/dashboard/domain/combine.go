package dashboard

import "sort"

// CombinedPoint is one day of the merged dual-line series.
type CombinedPoint struct {
	Date        Date `json:"date"`
	OpeningRate int  `json:"opening_rate"`
	ClosingRate int  `json:"closing_rate"`
}

// CombinedSeries is the zero-filled union of a site's opening and closing
// series: exactly one point per date that saw any activity, sorted ascending.
type CombinedSeries []CombinedPoint

// Combine merges a rate series pair into one chronological series. Dates
// present in only one input are zero-filled for the missing metric.
func Combine(rates RateSeries) CombinedSeries {
	opening := make(map[Date]int, len(rates.OpeningRate))
	for _, entry := range rates.OpeningRate {
		opening[entry.Date] = entry.Count
	}
	closing := make(map[Date]int, len(rates.ClosingRate))
	for _, entry := range rates.ClosingRate {
		closing[entry.Date] = entry.Count
	}

	union := make(map[Date]struct{}, len(opening)+len(closing))
	for date := range opening {
		union[date] = struct{}{}
	}
	for date := range closing {
		union[date] = struct{}{}
	}

	dates := make([]Date, 0, len(union))
	for date := range union {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})

	combined := make(CombinedSeries, 0, len(dates))
	for _, date := range dates {
		combined = append(combined, CombinedPoint{
			Date:        date,
			OpeningRate: opening[date],
			ClosingRate: closing[date],
		})
	}
	return combined
}

// CombineAll merges every site's rate series.
func CombineAll(rates map[Site]RateSeries) map[Site]CombinedSeries {
	result := make(map[Site]CombinedSeries, len(rates))
	for site, siteRates := range rates {
		result[site] = Combine(siteRates)
	}
	return result
}
