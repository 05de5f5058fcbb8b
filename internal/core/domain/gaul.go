package domain

import (
	"math"
	"time"
)

// GaulWindowDays is the trailing window, in whole days, within which a new
// ticket at the same site is considered a recurrence of a prior incident.
const GaulWindowDays = 30

// IsRelatedIncident reports whether ticket t is a recurrence: some other
// ticket at the same site was opened strictly earlier, with a gap of at most
// GaulWindowDays (ceiling of whole days).
//
// Linear scan over the full collection. Fine at regional-dashboard volumes;
// a site-code index would be needed before this scales further.
func IsRelatedIncident(t *Ticket, all []*Ticket) bool {
	for _, o := range all {
		if o.ID == t.ID {
			continue
		}
		if o.SiteCode == "" || o.SiteCode != t.SiteCode {
			continue
		}
		if gapWithinWindow(o.JamOpen, t.JamOpen) {
			return true
		}
	}
	return false
}

// RelatedIncidentFlags computes the gaul flag for every ticket in the
// collection, keyed by ticket ID.
func RelatedIncidentFlags(all []*Ticket) map[string]bool {
	flags := make(map[string]bool, len(all))
	for _, t := range all {
		flags[t.ID.String()] = IsRelatedIncident(t, all)
	}
	return flags
}

// gapWithinWindow applies the window rule: a zero or negative gap never
// qualifies, and the gap is rounded up to whole days before comparison.
func gapWithinWindow(earlier, later time.Time) bool {
	gap := later.Sub(earlier)
	if gap <= 0 {
		return false
	}
	return int(math.Ceil(gap.Hours()/24)) <= GaulWindowDays
}
