package dashboard

import "time"

// RequestEvent is one service-request lifecycle record. Either timestamp may
// be zero: an event still open has no closure, and an event opened before the
// observed window has no creation. A zero field contributes to no counter.
type RequestEvent struct {
	CreatedOn time.Time
	ClosedAt  time.Time
}

// SiteEventLog maps each site to its raw request events. A fetch always
// produces a whole new log; logs are never mutated in place.
type SiteEventLog map[Site][]RequestEvent
