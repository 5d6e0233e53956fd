package store

import (
	"errors"
	"sync"
	"time"

	dashboard "servicedesk-cloud/internal/dashboard/domain"
)

// Category names one cached dashboard payload.
type Category string

const (
	CategoryBreakdowns   Category = "breakdowns"
	CategoryTimeSeries   Category = "timeseries"
	CategoryOpenRequests Category = "open_requests"
)

// ErrUnknownCategory indicates a category the store does not track.
var ErrUnknownCategory = errors.New("store: unknown category")

// Categories returns every tracked category.
func Categories() []Category {
	return []Category{CategoryBreakdowns, CategoryTimeSeries, CategoryOpenRequests}
}

// ParseCategory validates a category name.
func ParseCategory(value string) (Category, bool) {
	switch Category(value) {
	case CategoryBreakdowns, CategoryTimeSeries, CategoryOpenRequests:
		return Category(value), true
	default:
		return "", false
	}
}

// Store is the in-memory dashboard state container. It owns one
// (payload, lastFetchedAt) entry per category. Payload and fetch time are
// always replaced together under the lock, so readers can never observe a
// half-updated entry. A nil payload means the entry has never been filled.
type Store struct {
	mu sync.RWMutex

	breakdowns          dashboard.SiteBreakdowns
	breakdownsFetchedAt time.Time

	timeSeries          dashboard.SiteEventLog
	timeSeriesFetchedAt time.Time

	openRequests          dashboard.OpenRequestBreakdowns
	openRequestsFetchedAt time.Time
}

// New constructs an empty store.
func New() *Store {
	return &Store{}
}

// ReplaceBreakdowns commits a freshly fetched breakdown payload.
func (s *Store) ReplaceBreakdowns(payload dashboard.SiteBreakdowns, fetchedAt time.Time) error {
	if payload == nil {
		return errors.New("store: nil breakdowns payload")
	}
	if fetchedAt.IsZero() {
		return errors.New("store: zero fetch time")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.breakdowns = payload
	s.breakdownsFetchedAt = fetchedAt
	return nil
}

// ReplaceTimeSeries commits a freshly fetched raw event log.
func (s *Store) ReplaceTimeSeries(payload dashboard.SiteEventLog, fetchedAt time.Time) error {
	if payload == nil {
		return errors.New("store: nil time series payload")
	}
	if fetchedAt.IsZero() {
		return errors.New("store: zero fetch time")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeSeries = payload
	s.timeSeriesFetchedAt = fetchedAt
	return nil
}

// ReplaceOpenRequests commits a freshly fetched open-request payload.
func (s *Store) ReplaceOpenRequests(payload dashboard.OpenRequestBreakdowns, fetchedAt time.Time) error {
	if payload == nil {
		return errors.New("store: nil open requests payload")
	}
	if fetchedAt.IsZero() {
		return errors.New("store: zero fetch time")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openRequests = payload
	s.openRequestsFetchedAt = fetchedAt
	return nil
}

// Breakdowns returns the cached breakdown payload and its fetch time. The
// payload is nil when the entry is empty.
func (s *Store) Breakdowns() (dashboard.SiteBreakdowns, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.breakdowns, s.breakdownsFetchedAt
}

// TimeSeries returns the cached raw event log and its fetch time.
func (s *Store) TimeSeries() (dashboard.SiteEventLog, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeSeries, s.timeSeriesFetchedAt
}

// OpenRequests returns the cached open-request payload and its fetch time.
func (s *Store) OpenRequests() (dashboard.OpenRequestBreakdowns, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.openRequests, s.openRequestsFetchedAt
}

// LastFetched reports a category's fetch time and whether a payload exists.
func (s *Store) LastFetched(category Category) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch category {
	case CategoryBreakdowns:
		return s.breakdownsFetchedAt, s.breakdowns != nil
	case CategoryTimeSeries:
		return s.timeSeriesFetchedAt, s.timeSeries != nil
	case CategoryOpenRequests:
		return s.openRequestsFetchedAt, s.openRequests != nil
	default:
		return time.Time{}, false
	}
}

// Clear drops every cached payload, forcing the next staleness check for each
// category to refetch.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.breakdowns = nil
	s.breakdownsFetchedAt = time.Time{}
	s.timeSeries = nil
	s.timeSeriesFetchedAt = time.Time{}
	s.openRequests = nil
	s.openRequestsFetchedAt = time.Time{}
}
