package main

import (
	"log"
	"net/http"
	"os"
	"time"

	apihttp "servicedesk-cloud/internal/api/http"
	"servicedesk-cloud/internal/auth"
	"servicedesk-cloud/internal/config"
	"servicedesk-cloud/internal/dashboard/refresh"
	"servicedesk-cloud/internal/dashboard/store"
	"servicedesk-cloud/internal/observability/metrics"
	"servicedesk-cloud/internal/upstream"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config error: %v", err)
	}

	metrics.Init()

	client, err := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamToken, upstream.WithTimeout(cfg.UpstreamTimeout))
	if err != nil {
		logger.Fatalf("upstream client error: %v", err)
	}

	st := store.New()
	refresher, err := refresh.NewRefresher(st, client, refresh.WithFreshnessWindow(cfg.FreshnessWindow))
	if err != nil {
		logger.Fatalf("refresher error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/dashboard/series", apihttp.NewSeriesHandler(refresher, st))
	mux.Handle("/api/v1/dashboard/rates", apihttp.NewRatesHandler(refresher, st))
	mux.Handle("/api/v1/dashboard/breakdowns", apihttp.NewBreakdownsHandler(refresher, st))
	mux.Handle("/api/v1/dashboard/open-requests", apihttp.NewOpenRequestsHandler(refresher, st))
	mux.Handle("/api/v1/dashboard/open-requests/count", apihttp.NewNumOpenRequestsHandler(client))
	mux.Handle("/api/v1/dashboard/invalidate", apihttp.NewInvalidateHandler(st))
	mux.Handle("/api/v1/exports/series.csv", apihttp.NewExportSeriesCSVHandler(refresher, st))
	mux.Handle("/api/v1/exports/dashboard.pdf", apihttp.NewExportReportPDFHandler(refresher, st))
	mux.Handle("/api/v1/exports/dashboard.xlsx", apihttp.NewExportReportXLSXHandler(refresher, st))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
