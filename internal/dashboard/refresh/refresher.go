package refresh

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	dashboard "servicedesk-cloud/internal/dashboard/domain"
	"servicedesk-cloud/internal/dashboard/store"
	"servicedesk-cloud/internal/observability/metrics"
)

// DefaultFreshnessWindow is the maximum age a cached payload may reach before
// a staleness check triggers a refetch. Dashboards need not reflect changes
// more often than this.
const DefaultFreshnessWindow = 10 * time.Minute

// Clock provides time for staleness checks.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

// Now returns current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Fetcher retrieves raw dashboard payloads from the upstream API.
type Fetcher interface {
	FetchBreakdowns(ctx context.Context) (dashboard.SiteBreakdowns, error)
	FetchTimeSeries(ctx context.Context) (dashboard.SiteEventLog, error)
	FetchOpenRequests(ctx context.Context) (dashboard.OpenRequestBreakdowns, error)
}

// Refresher gates upstream fetches with the freshness window. Concurrent
// staleness checks for one category collapse into a single upstream call, so
// the store only ever sees complete, ordered commits.
type Refresher struct {
	store   *store.Store
	fetcher Fetcher
	clock   Clock
	window  time.Duration
	group   singleflight.Group
}

// Option configures a Refresher.
type Option func(*Refresher)

// WithClock overrides the clock, for tests.
func WithClock(clock Clock) Option {
	return func(r *Refresher) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithFreshnessWindow overrides the freshness window.
func WithFreshnessWindow(window time.Duration) Option {
	return func(r *Refresher) {
		if window > 0 {
			r.window = window
		}
	}
}

// NewRefresher constructs a Refresher.
func NewRefresher(st *store.Store, fetcher Fetcher, opts ...Option) (*Refresher, error) {
	if st == nil {
		return nil, errors.New("refresh: nil store")
	}
	if fetcher == nil {
		return nil, errors.New("refresh: nil fetcher")
	}
	r := &Refresher{
		store:   st,
		fetcher: fetcher,
		clock:   SystemClock{},
		window:  DefaultFreshnessWindow,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// EnsureFresh refetches the category when its entry is absent or older than
// the freshness window. On fetch failure the cached entry is left untouched
// and the error is returned; retry is up to the caller.
func (r *Refresher) EnsureFresh(ctx context.Context, category store.Category) error {
	if _, ok := store.ParseCategory(string(category)); !ok {
		return store.ErrUnknownCategory
	}
	if r.fresh(category) {
		metrics.IncCacheHit(string(category))
		return nil
	}
	metrics.IncCacheMiss(string(category))

	_, err, _ := r.group.Do(string(category), func() (any, error) {
		// A caller collapsed into this flight may have raced a commit that
		// happened between its staleness check and joining the group.
		if r.fresh(category) {
			return nil, nil
		}
		start := time.Now()
		err := r.refetch(ctx, category)
		result := metrics.ResultSuccess
		if err != nil {
			result = metrics.ResultError
		}
		metrics.ObserveRefresh(string(category), result, time.Since(start))
		return nil, err
	})
	return err
}

// FreshnessWindow returns the configured window.
func (r *Refresher) FreshnessWindow() time.Duration {
	return r.window
}

func (r *Refresher) fresh(category store.Category) bool {
	fetchedAt, present := r.store.LastFetched(category)
	if !present {
		return false
	}
	age := r.clock.Now().Sub(fetchedAt)
	metrics.SetCacheAge(string(category), age)
	return age <= r.window
}

func (r *Refresher) refetch(ctx context.Context, category store.Category) error {
	switch category {
	case store.CategoryBreakdowns:
		payload, err := r.fetcher.FetchBreakdowns(ctx)
		if err != nil {
			return fmt.Errorf("refresh %s: %w", category, err)
		}
		return r.store.ReplaceBreakdowns(payload, r.clock.Now())
	case store.CategoryTimeSeries:
		payload, err := r.fetcher.FetchTimeSeries(ctx)
		if err != nil {
			return fmt.Errorf("refresh %s: %w", category, err)
		}
		return r.store.ReplaceTimeSeries(payload, r.clock.Now())
	case store.CategoryOpenRequests:
		payload, err := r.fetcher.FetchOpenRequests(ctx)
		if err != nil {
			return fmt.Errorf("refresh %s: %w", category, err)
		}
		return r.store.ReplaceOpenRequests(payload, r.clock.Now())
	default:
		return store.ErrUnknownCategory
	}
}
