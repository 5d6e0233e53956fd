package apihttp

import (
	"encoding/csv"
	"log"
	"net/http"
	"strconv"
	"time"

	dashboard "servicedesk-cloud/internal/dashboard/domain"
	"servicedesk-cloud/internal/dashboard/refresh"
	"servicedesk-cloud/internal/dashboard/report"
	"servicedesk-cloud/internal/dashboard/store"
)

// ExportSeriesCSVHandler serves the combined series as CSV.
type ExportSeriesCSVHandler struct {
	refresher *refresh.Refresher
	store     *store.Store
	logger    *log.Logger
}

// NewExportSeriesCSVHandler constructs an ExportSeriesCSVHandler.
func NewExportSeriesCSVHandler(refresher *refresh.Refresher, st *store.Store) *ExportSeriesCSVHandler {
	return &ExportSeriesCSVHandler{refresher: refresher, store: st, logger: log.Default()}
}

// ServeHTTP handles GET /api/v1/exports/series.csv.
func (h *ExportSeriesCSVHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	writer := csv.NewWriter(w)
	_ = writer.Write([]string{"date", "opening_rate", "closing_rate"})
	for _, point := range series {
		_ = writer.Write([]string{
			point.Date.String(),
			strconv.Itoa(point.OpeningRate),
			strconv.Itoa(point.ClosingRate),
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		// Headers are already sent; the truncated body is the client's signal.
		h.logger.Printf("csv export: %v", err)
	}
}

// reportHandler assembles report input from both cached categories.
type reportHandler struct {
	refresher *refresh.Refresher
	store     *store.Store
}

func (h reportHandler) buildInput(w http.ResponseWriter, r *http.Request) (report.Input, bool) {
	site, err := parseSiteQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return report.Input{}, false
	}
	year, yearSet, err := parseYearQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return report.Input{}, false
	}
	if !yearSet {
		http.Error(w, "year is required", http.StatusBadRequest)
		return report.Input{}, false
	}

	seriesStale := refreshStale(r.Context(), h.refresher, store.CategoryTimeSeries)
	breakdownsStale := refreshStale(r.Context(), h.refresher, store.CategoryBreakdowns)
	log, _ := h.store.TimeSeries()
	data, _ := h.store.Breakdowns()
	if log == nil || data == nil {
		http.Error(w, "upstream fetch failed", http.StatusBadGateway)
		return report.Input{}, false
	}
	if seriesStale {
		markStale(w, true, store.CategoryTimeSeries)
	}
	if breakdownsStale {
		markStale(w, true, store.CategoryBreakdowns)
	}

	// A site-year with no breakdown still gets a report; the series may
	// cover activity the breakdown payload does not.
	breakdown, _ := dashboard.BreakdownFor(data, site, year, "")
	return report.Input{
		Site:        site,
		Year:        year,
		GeneratedAt: time.Now().UTC(),
		Series:      dashboard.FilterYear(dashboard.CombinedForSite(log, site), year),
		Breakdown:   breakdown,
	}, true
}

// ExportReportPDFHandler serves the dashboard summary as PDF.
type ExportReportPDFHandler struct {
	reportHandler
}

// NewExportReportPDFHandler constructs an ExportReportPDFHandler.
func NewExportReportPDFHandler(refresher *refresh.Refresher, st *store.Store) *ExportReportPDFHandler {
	return &ExportReportPDFHandler{reportHandler{refresher: refresher, store: st}}
}

// ServeHTTP handles GET /api/v1/exports/dashboard.pdf.
func (h *ExportReportPDFHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.refresher == nil || h.store == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	input, ok := h.buildInput(w, r)
	if !ok {
		return
	}
	payload, err := report.BuildDashboardPDF(input)
	if err != nil {
		http.Error(w, "report build error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	_, _ = w.Write(payload)
}

// ExportReportXLSXHandler serves the dashboard summary as XLSX.
type ExportReportXLSXHandler struct {
	reportHandler
}

// NewExportReportXLSXHandler constructs an ExportReportXLSXHandler.
func NewExportReportXLSXHandler(refresher *refresh.Refresher, st *store.Store) *ExportReportXLSXHandler {
	return &ExportReportXLSXHandler{reportHandler{refresher: refresher, store: st}}
}

// ServeHTTP handles GET /api/v1/exports/dashboard.xlsx.
func (h *ExportReportXLSXHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.refresher == nil || h.store == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	input, ok := h.buildInput(w, r)
	if !ok {
		return
	}
	payload, err := report.BuildDashboardXLSX(input)
	if err != nil {
		http.Error(w, "report build error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	_, _ = w.Write(payload)
}
