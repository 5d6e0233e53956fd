package apihttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	dashboard "servicedesk-cloud/internal/dashboard/domain"
	"servicedesk-cloud/internal/dashboard/refresh"
	"servicedesk-cloud/internal/dashboard/store"
	"servicedesk-cloud/internal/observability/metrics"
)

// staleHeader marks a response built from last-known-good data after a
// failed refresh.
const staleHeader = "X-Cache-Stale"

// SeriesHandler serves the combined opening/closing series for one site.
type SeriesHandler struct {
	refresher *refresh.Refresher
	store     *store.Store
}

// NewSeriesHandler constructs a SeriesHandler.
func NewSeriesHandler(refresher *refresh.Refresher, st *store.Store) *SeriesHandler {
	return &SeriesHandler{refresher: refresher, store: st}
}

// ServeHTTP handles GET /api/v1/dashboard/series.
func (h *SeriesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.refresher == nil || h.store == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	site, err := parseSiteQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	year, yearSet, err := parseYearQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	stale := refreshStale(r.Context(), h.refresher, store.CategoryTimeSeries)
	log, _ := h.store.TimeSeries()
	if log == nil {
		http.Error(w, "upstream fetch failed", http.StatusBadGateway)
		return
	}
	markStale(w, stale, store.CategoryTimeSeries)

	series := dashboard.CombinedForSite(log, site)
	if yearSet {
		series = dashboard.FilterYear(series, year)
	}
	writeJSON(w, series)
}

// RatesHandler serves the raw per-day opening and closing counts for one site.
type RatesHandler struct {
	refresher *refresh.Refresher
	store     *store.Store
}

// NewRatesHandler constructs a RatesHandler.
func NewRatesHandler(refresher *refresh.Refresher, st *store.Store) *RatesHandler {
	return &RatesHandler{refresher: refresher, store: st}
}

// ServeHTTP handles GET /api/v1/dashboard/rates.
func (h *RatesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.refresher == nil || h.store == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	site, err := parseSiteQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	year, yearSet, err := parseYearQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	stale := refreshStale(r.Context(), h.refresher, store.CategoryTimeSeries)
	log, _ := h.store.TimeSeries()
	if log == nil {
		http.Error(w, "upstream fetch failed", http.StatusBadGateway)
		return
	}
	markStale(w, stale, store.CategoryTimeSeries)

	rates := dashboard.RatesForSite(log, site)
	if yearSet {
		rates = dashboard.FilterRatesYear(rates, year)
	}
	writeJSON(w, rates)
}

// BreakdownsHandler serves yearly or monthly category breakdowns.
type BreakdownsHandler struct {
	refresher *refresh.Refresher
	store     *store.Store
}

// NewBreakdownsHandler constructs a BreakdownsHandler.
func NewBreakdownsHandler(refresher *refresh.Refresher, st *store.Store) *BreakdownsHandler {
	return &BreakdownsHandler{refresher: refresher, store: st}
}

// ServeHTTP handles GET /api/v1/dashboard/breakdowns.
func (h *BreakdownsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.refresher == nil || h.store == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	site, err := parseSiteQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	year, yearSet, err := parseYearQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !yearSet {
		http.Error(w, "year is required", http.StatusBadRequest)
		return
	}
	month := r.URL.Query().Get("month")

	stale := refreshStale(r.Context(), h.refresher, store.CategoryBreakdowns)
	data, _ := h.store.Breakdowns()
	if data == nil {
		http.Error(w, "upstream fetch failed", http.StatusBadGateway)
		return
	}
	markStale(w, stale, store.CategoryBreakdowns)

	breakdown, ok := dashboard.BreakdownFor(data, site, year, month)
	if !ok {
		http.Error(w, "no data for site/year/month", http.StatusNotFound)
		return
	}
	writeJSON(w, breakdown)
}

// OpenRequestsHandler serves the open-request breakdown for one site.
type OpenRequestsHandler struct {
	refresher *refresh.Refresher
	store     *store.Store
}

// NewOpenRequestsHandler constructs an OpenRequestsHandler.
func NewOpenRequestsHandler(refresher *refresh.Refresher, st *store.Store) *OpenRequestsHandler {
	return &OpenRequestsHandler{refresher: refresher, store: st}
}

type openRequestsResponse struct {
	Site      dashboard.Site      `json:"site"`
	Total     int                 `json:"total"`
	Breakdown dashboard.Breakdown `json:"breakdown"`
}

// ServeHTTP handles GET /api/v1/dashboard/open-requests.
func (h *OpenRequestsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.refresher == nil || h.store == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	site, err := parseSiteQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	stale := refreshStale(r.Context(), h.refresher, store.CategoryOpenRequests)
	data, _ := h.store.OpenRequests()
	if data == nil {
		http.Error(w, "upstream fetch failed", http.StatusBadGateway)
		return
	}
	markStale(w, stale, store.CategoryOpenRequests)

	breakdown := data[site]
	writeJSON(w, openRequestsResponse{
		Site:      site,
		Total:     dashboard.TotalRequests(breakdown),
		Breakdown: breakdown,
	})
}

// OpenRequestCounter returns the upstream scalar open-request count.
type OpenRequestCounter interface {
	FetchNumOpenRequests(ctx context.Context) (int, error)
}

// NumOpenRequestsHandler passes the scalar count through uncached, matching
// the upstream contract.
type NumOpenRequestsHandler struct {
	counter OpenRequestCounter
}

// NewNumOpenRequestsHandler constructs a NumOpenRequestsHandler.
func NewNumOpenRequestsHandler(counter OpenRequestCounter) *NumOpenRequestsHandler {
	return &NumOpenRequestsHandler{counter: counter}
}

// ServeHTTP handles GET /api/v1/dashboard/open-requests/count.
func (h *NumOpenRequestsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.counter == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	count, err := h.counter.FetchNumOpenRequests(r.Context())
	if err != nil {
		http.Error(w, "upstream fetch failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, map[string]int{"numOfRequests": count})
}

// InvalidateHandler drops every cached payload. The next staleness check per
// category refetches; this is the explicit, user-initiated retry affordance.
type InvalidateHandler struct {
	store *store.Store
}

// NewInvalidateHandler constructs an InvalidateHandler.
func NewInvalidateHandler(st *store.Store) *InvalidateHandler {
	return &InvalidateHandler{store: st}
}

// ServeHTTP handles POST /api/v1/dashboard/invalidate.
func (h *InvalidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.store == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}
	h.store.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// refreshStale runs the staleness check and reports whether the handler must
// fall back to last-known-good data.
func refreshStale(ctx context.Context, refresher *refresh.Refresher, category store.Category) bool {
	return refresher.EnsureFresh(ctx, category) != nil
}

func markStale(w http.ResponseWriter, stale bool, category store.Category) {
	if !stale {
		return
	}
	w.Header().Set(staleHeader, "true")
	metrics.IncServedStale(string(category))
}

func parseSiteQuery(r *http.Request) (dashboard.Site, error) {
	value := r.URL.Query().Get("site")
	if value == "" {
		return "", errors.New("site is required")
	}
	site, ok := dashboard.ParseSite(value)
	if !ok {
		return "", errors.New("site must be A, B or C")
	}
	return site, nil
}

func parseYearQuery(r *http.Request) (int, bool, error) {
	value := r.URL.Query().Get("year")
	if value == "" {
		return 0, false, nil
	}
	year, err := strconv.Atoi(value)
	if err != nil || year < 1970 || year > 9999 {
		return 0, false, errors.New("year must be a four-digit year")
	}
	return year, true, nil
}

func writeJSON(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(value)
}
