package dashboard

// Site identifies one of the facility locations.
type Site string

const (
	SiteA Site = "A"
	SiteB Site = "B"
	SiteC Site = "C"
)

// Sites returns all known sites in display order.
func Sites() []Site {
	return []Site{SiteA, SiteB, SiteC}
}

// ParseSite validates a site identifier.
func ParseSite(value string) (Site, bool) {
	switch Site(value) {
	case SiteA, SiteB, SiteC:
		return Site(value), true
	default:
		return "", false
	}
}
