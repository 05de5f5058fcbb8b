package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TicketFilter is the conjunctive (AND) predicate set applied to a fetched
// ticket collection. Nil members are inactive.
type TicketFilter struct {
	// Search is a case-insensitive substring matched across incident number,
	// site code/name, location, provider, category, technician names and the
	// cause field.
	Search string

	Status        *TicketStatus
	RelatedOnly   *bool
	Compliance    *Compliance
	Provider      *string
	Category      *string
	DistanceRange *string
	SiteCode      *string
	SiteName      *string
	DatekCode     *string
	Team          *string
	// Creator filters on the resolved creator name, not the raw user id.
	Creator *string

	// OpenFrom/OpenTo bound JamOpen inclusively on both ends.
	OpenFrom *time.Time
	OpenTo   *time.Time
}

// FilterContext carries the lookups a filter pass needs beyond the tickets
// themselves: creator id to display name, and the precomputed related-
// incident flags for the full collection.
type FilterContext struct {
	CreatorNames map[uuid.UUID]string
	RelatedFlags map[string]bool
}

// Match evaluates every active predicate against the ticket. Predicates are
// independent, so application order never changes the outcome.
func (f TicketFilter) Match(t *Ticket, ctx FilterContext) bool {
	if f.Search != "" && !matchesSearch(t, f.Search) {
		return false
	}
	if f.Status != nil && t.DisplayStatus() != *f.Status {
		return false
	}
	if f.RelatedOnly != nil && ctx.RelatedFlags[t.ID.String()] != *f.RelatedOnly {
		return false
	}
	if f.Compliance != nil && t.TTRCompliance != *f.Compliance {
		return false
	}
	if f.Provider != nil && !strings.EqualFold(t.Provider, *f.Provider) {
		return false
	}
	if f.Category != nil && !strings.EqualFold(t.Category, *f.Category) {
		return false
	}
	if f.DistanceRange != nil && t.DistanceRange != *f.DistanceRange {
		return false
	}
	if f.SiteCode != nil && !strings.EqualFold(t.SiteCode, *f.SiteCode) {
		return false
	}
	if f.SiteName != nil && !strings.EqualFold(t.SiteName, *f.SiteName) {
		return false
	}
	if f.DatekCode != nil && !strings.EqualFold(t.DatekCode, *f.DatekCode) {
		return false
	}
	if f.Team != nil && !strings.EqualFold(t.Team, *f.Team) {
		return false
	}
	if f.Creator != nil {
		name := ctx.CreatorNames[t.CreatedBy]
		if !strings.EqualFold(name, *f.Creator) {
			return false
		}
	}
	if f.OpenFrom != nil && t.JamOpen.Before(*f.OpenFrom) {
		return false
	}
	if f.OpenTo != nil && t.JamOpen.After(*f.OpenTo) {
		return false
	}
	return true
}

func matchesSearch(t *Ticket, query string) bool {
	q := strings.ToLower(query)
	fields := []string{
		t.IncidentNumber,
		t.SiteCode,
		t.SiteName,
		t.Location,
		t.Provider,
		t.Category,
		t.Cause,
	}
	fields = append(fields, t.Technicians...)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// FilterTickets returns the subset of tickets matching the filter, in the
// original order.
func FilterTickets(tickets []*Ticket, f TicketFilter, ctx FilterContext) []*Ticket {
	out := make([]*Ticket, 0, len(tickets))
	for _, t := range tickets {
		if f.Match(t, ctx) {
			out = append(out, t)
		}
	}
	return out
}

// TicketSort names one of the supported total orders.
type TicketSort string

const (
	// SortTTRAscending orders by remaining TTR ascending with CLOSED tickets
	// pushed last.
	SortTTRAscending TicketSort = "ttr_asc"
	SortNewestFirst  TicketSort = "newest"
	SortOldestFirst  TicketSort = "oldest"
	SortSiteCode     TicketSort = "site_code"
)

// SortTickets sorts in place, stably, by the requested order. The remaining
// TTR used by SortTTRAscending is evaluated at now.
func SortTickets(tickets []*Ticket, order TicketSort, now time.Time) {
	switch order {
	case SortTTRAscending:
		sort.SliceStable(tickets, func(i, j int) bool {
			a, b := tickets[i], tickets[j]
			if a.IsClosed() != b.IsClosed() {
				return !a.IsClosed()
			}
			return a.TTRAt(now).RemainingHours < b.TTRAt(now).RemainingHours
		})
	case SortOldestFirst:
		sort.SliceStable(tickets, func(i, j int) bool {
			return tickets[i].JamOpen.Before(tickets[j].JamOpen)
		})
	case SortSiteCode:
		sort.SliceStable(tickets, func(i, j int) bool {
			return tickets[i].SiteCode < tickets[j].SiteCode
		})
	default: // SortNewestFirst
		sort.SliceStable(tickets, func(i, j int) bool {
			return tickets[i].JamOpen.After(tickets[j].JamOpen)
		})
	}
}

// Paginate slices one page out of the filtered+sorted collection. Pages are
// 1-based; an out-of-range page yields an empty slice.
func Paginate(tickets []*Ticket, page, pageSize int) []*Ticket {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return []*Ticket{}
	}
	start := (page - 1) * pageSize
	if start >= len(tickets) {
		return []*Ticket{}
	}
	end := start + pageSize
	if end > len(tickets) {
		end = len(tickets)
	}
	return tickets[start:end]
}
