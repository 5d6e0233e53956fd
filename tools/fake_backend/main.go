// Command fake_backend serves the upstream service-request API with
// generated data, for local development and load testing.
package main

import (
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

var sites = []string{"A", "B", "C"}

var categories = map[string][]string{
	"Electrical": {"Lighting", "Outlets", "Wiring"},
	"Plumbing":   {"Leaks", "Fixtures"},
	"HVAC":       {"Heating", "Cooling", "Ventilation"},
	"Grounds":    {"Landscaping", "Snow removal"},
}

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

type fakeBackend struct {
	start    time.Time
	latency  time.Duration
	failRate float64
	seed     int64

	mu         sync.Mutex
	byEndpoint map[string]int64
	totalCalls int64
}

func main() {
	addr := getenvDefault("FAKE_BACKEND_ADDR", ":19090")
	latencyMs := getenvIntDefault("FAKE_BACKEND_LATENCY_MS", 0)
	failRate := getenvFloatDefault("FAKE_BACKEND_FAIL_RATE", 0)
	seed := int64(getenvIntDefault("FAKE_BACKEND_SEED", 1))

	srv := &fakeBackend{
		start:      time.Now().UTC(),
		latency:    time.Duration(latencyMs) * time.Millisecond,
		failRate:   failRate,
		seed:       seed,
		byEndpoint: make(map[string]int64),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", srv.handleHealth)
	mux.HandleFunc("/debug/stats", srv.handleStats)
	mux.HandleFunc("/api/dashboard", srv.handleDashboard)
	mux.HandleFunc("/api/dashboard-data", srv.handleDashboardData)
	mux.HandleFunc("/api/dashboard-open-requests", srv.handleOpenRequests)
	mux.HandleFunc("/api/num-open-requests", srv.handleNumOpenRequests)

	log.Printf("fake backend listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal(err)
	}
}

func (s *fakeBackend) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *fakeBackend) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, map[string]any{
		"started_at":  s.start.Format(time.RFC3339),
		"total":       atomic.LoadInt64(&s.totalCalls),
		"by_endpoint": s.byEndpoint,
	})
}

// gate applies the configured latency and fail rate, recording the call.
// Returns false when the request was already answered with an error.
func (s *fakeBackend) gate(w http.ResponseWriter, r *http.Request) bool {
	s.recordCall(r.URL.Path)
	if s.latency > 0 {
		time.Sleep(s.latency)
	}
	if s.failRate > 0 && rand.Float64() < s.failRate {
		http.Error(w, "fake backend error", http.StatusInternalServerError)
		return false
	}
	return true
}

func (s *fakeBackend) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !s.gate(w, r) {
		return
	}
	rng := rand.New(rand.NewSource(s.seed))
	year := time.Now().UTC().Year()

	payload := make(map[string]map[string]any, len(sites))
	for _, site := range sites {
		years := make(map[string]any, 2)
		for _, y := range []int{year - 1, year} {
			monthly := make(map[string]any, len(months))
			for _, month := range months {
				monthly[month] = randomBreakdown(rng, 5)
			}
			years[strconv.Itoa(y)] = map[string]any{
				"yearly":  randomBreakdown(rng, 40),
				"monthly": monthly,
			}
		}
		payload[site] = years
	}
	writeJSON(w, payload)
}

func (s *fakeBackend) handleDashboardData(w http.ResponseWriter, r *http.Request) {
	if !s.gate(w, r) {
		return
	}
	rng := rand.New(rand.NewSource(s.seed))
	now := time.Now().UTC()

	payload := make(map[string][]map[string]any, len(sites))
	for _, site := range sites {
		count := 50 + rng.Intn(150)
		events := make([]map[string]any, 0, count)
		for i := 0; i < count; i++ {
			created := now.AddDate(0, 0, -rng.Intn(365)).Add(-time.Duration(rng.Intn(86400)) * time.Second)
			event := map[string]any{
				"created_on": created.Format(time.RFC3339),
			}
			// Roughly a fifth of requests stay open.
			if rng.Intn(5) > 0 {
				closed := created.Add(time.Duration(1+rng.Intn(14*24)) * time.Hour)
				event["closed_at"] = closed.Format(time.RFC3339)
			}
			events = append(events, event)
		}
		payload[site] = events
	}
	writeJSON(w, payload)
}

func (s *fakeBackend) handleOpenRequests(w http.ResponseWriter, r *http.Request) {
	if !s.gate(w, r) {
		return
	}
	rng := rand.New(rand.NewSource(s.seed))

	payload := make(map[string]any, len(sites))
	for _, site := range sites {
		payload[site] = randomBreakdown(rng, 10)
	}
	writeJSON(w, payload)
}

func (s *fakeBackend) handleNumOpenRequests(w http.ResponseWriter, r *http.Request) {
	if !s.gate(w, r) {
		return
	}
	rng := rand.New(rand.NewSource(s.seed))
	writeJSON(w, map[string]int{"numOfRequests": rng.Intn(60)})
}

func randomBreakdown(rng *rand.Rand, scale int) map[string]any {
	main := make([]map[string]any, 0, len(categories))
	sub := make([]map[string]any, 0)
	for category, subs := range categories {
		main = append(main, map[string]any{
			"category": category,
			"count":    1 + rng.Intn(scale),
		})
		for _, name := range subs {
			sub = append(sub, map[string]any{
				"subcategory": name,
				"count":       rng.Intn(scale),
			})
		}
	}
	byWeekday := make([]map[string]any, 0, len(weekdays))
	for _, weekday := range weekdays {
		byWeekday = append(byWeekday, map[string]any{
			"weekday": weekday,
			"count":   rng.Intn(scale),
		})
	}
	return map[string]any{
		"main_category": main,
		"sub_category":  sub,
		"by_weekday":    byWeekday,
	}
}

func (s *fakeBackend) recordCall(endpoint string) {
	atomic.AddInt64(&s.totalCalls, 1)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byEndpoint[endpoint]++
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvFloatDefault(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
