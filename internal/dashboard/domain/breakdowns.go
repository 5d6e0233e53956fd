package dashboard

// CategoryCount is a main-category tally.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// SubcategoryCount is a sub-category tally.
type SubcategoryCount struct {
	Subcategory string `json:"subcategory"`
	Count       int    `json:"count"`
}

// WeekdayCount is a per-weekday tally.
type WeekdayCount struct {
	Weekday string `json:"weekday"`
	Count   int    `json:"count"`
}

// Breakdown groups one slice of requests by category, subcategory and weekday.
type Breakdown struct {
	MainCategory []CategoryCount    `json:"main_category"`
	SubCategory  []SubcategoryCount `json:"sub_category"`
	ByWeekday    []WeekdayCount     `json:"by_weekday"`
}

// YearBreakdown holds one site-year's yearly breakdown plus per-month slices
// keyed by month name.
type YearBreakdown struct {
	Yearly  Breakdown            `json:"yearly"`
	Monthly map[string]Breakdown `json:"monthly"`
}

// SiteBreakdowns is the full yearly/monthly dashboard payload: site, then
// calendar year, then breakdown.
type SiteBreakdowns map[Site]map[int]YearBreakdown

// OpenRequestBreakdowns is the per-site breakdown restricted to requests
// still open.
type OpenRequestBreakdowns map[Site]Breakdown
