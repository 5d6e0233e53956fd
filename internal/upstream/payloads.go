package upstream

import (
	"strconv"
	"time"

	dashboard "servicedesk-cloud/internal/dashboard/domain"
)

// Wire shapes of the upstream API. Conversion to domain types happens here,
// at the fetch boundary, so the aggregation core only sees well-typed data.

type categoryCountPayload struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type subcategoryCountPayload struct {
	Subcategory string `json:"subcategory"`
	Count       int    `json:"count"`
}

type weekdayCountPayload struct {
	Weekday string `json:"weekday"`
	Count   int    `json:"count"`
}

type breakdownPayload struct {
	MainCategory []categoryCountPayload    `json:"main_category"`
	SubCategory  []subcategoryCountPayload `json:"sub_category"`
	ByWeekday    []weekdayCountPayload     `json:"by_weekday"`
}

type yearPayload struct {
	Yearly  breakdownPayload            `json:"yearly"`
	Monthly map[string]breakdownPayload `json:"monthly"`
}

type eventPayload struct {
	CreatedOn *string `json:"created_on"`
	ClosedAt  *string `json:"closed_at"`
}

func (p breakdownPayload) toDomain() dashboard.Breakdown {
	breakdown := dashboard.Breakdown{
		MainCategory: make([]dashboard.CategoryCount, 0, len(p.MainCategory)),
		SubCategory:  make([]dashboard.SubcategoryCount, 0, len(p.SubCategory)),
		ByWeekday:    make([]dashboard.WeekdayCount, 0, len(p.ByWeekday)),
	}
	for _, entry := range p.MainCategory {
		breakdown.MainCategory = append(breakdown.MainCategory, dashboard.CategoryCount{
			Category: entry.Category,
			Count:    entry.Count,
		})
	}
	for _, entry := range p.SubCategory {
		breakdown.SubCategory = append(breakdown.SubCategory, dashboard.SubcategoryCount{
			Subcategory: entry.Subcategory,
			Count:       entry.Count,
		})
	}
	for _, entry := range p.ByWeekday {
		breakdown.ByWeekday = append(breakdown.ByWeekday, dashboard.WeekdayCount{
			Weekday: entry.Weekday,
			Count:   entry.Count,
		})
	}
	return breakdown
}

func (p yearPayload) toDomain() dashboard.YearBreakdown {
	monthly := make(map[string]dashboard.Breakdown, len(p.Monthly))
	for month, groups := range p.Monthly {
		monthly[month] = groups.toDomain()
	}
	return dashboard.YearBreakdown{
		Yearly:  p.Yearly.toDomain(),
		Monthly: monthly,
	}
}

func parseYearKey(value string) (int, bool) {
	year, err := strconv.Atoi(value)
	if err != nil || year < 1970 || year > 9999 {
		return 0, false
	}
	return year, true
}

// timestampLayouts covers the formats the backend has been observed to emit.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
}

// parseTimestamp returns the zero time for absent or malformed values; such
// records contribute to no counter rather than failing the fetch.
func parseTimestamp(value *string) time.Time {
	if value == nil || *value == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, *value); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
