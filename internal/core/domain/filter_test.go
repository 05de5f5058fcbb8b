package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
)

func strPtr(s string) *string { return &s }

func buildFleet() ([]*domain.Ticket, domain.FilterContext) {
	creator := uuid.New()
	open := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	tickets := []*domain.Ticket{
		{
			ID: uuid.New(), IncidentNumber: "IN001", SiteCode: "SUB001", SiteName: "Alpha",
			Provider: "TelkomGroup", Category: "MAJOR", DistanceRange: "0-5km", Team: "TA",
			Technicians: []string{"Budi Santoso"}, Cause: "fiber cut",
			Status: domain.StatusOnProgress, TTRCompliance: domain.Comply,
			JamOpen: open, MaxJamClose: open.Add(8 * time.Hour), CreatedBy: creator,
		},
		{
			ID: uuid.New(), IncidentNumber: "IN002", SiteCode: "SUB002", SiteName: "Bravo",
			Provider: "Mitratel", Category: "MINOR", DistanceRange: "5-10km", Team: "TB",
			Technicians: []string{"Agus Wijaya"}, Cause: "power outage",
			Status: domain.StatusClosed, TTRCompliance: domain.NotComply,
			JamOpen: open.AddDate(0, 0, 1), MaxJamClose: open.AddDate(0, 0, 2), CreatedBy: creator,
		},
		{
			ID: uuid.New(), IncidentNumber: "IN003", SiteCode: "SUB001", SiteName: "Alpha",
			Provider: "TelkomGroup", Category: "MEDIUM", DistanceRange: "0-5km", Team: "TA",
			Cause:  "fiber degradation",
			Status: domain.StatusOpen, TTRCompliance: domain.Comply,
			JamOpen: open.AddDate(0, 0, 5), MaxJamClose: open.AddDate(0, 0, 6), CreatedBy: uuid.New(),
		},
	}

	ctx := domain.FilterContext{
		CreatorNames: map[uuid.UUID]string{creator: "Dewi Lestari"},
		RelatedFlags: domain.RelatedIncidentFlags(tickets),
	}
	return tickets, ctx
}

func TestFilterTickets_Individual(t *testing.T) {
	tickets, fctx := buildFleet()

	t.Run("free text search is case-insensitive across fields", func(t *testing.T) {
		got := domain.FilterTickets(tickets, domain.TicketFilter{Search: "budi"}, fctx)
		require.Len(t, got, 1)
		assert.Equal(t, "IN001", got[0].IncidentNumber)

		got = domain.FilterTickets(tickets, domain.TicketFilter{Search: "FIBER"}, fctx)
		assert.Len(t, got, 2)
	})

	t.Run("status filter uses derived status", func(t *testing.T) {
		open := domain.StatusOpen
		got := domain.FilterTickets(tickets, domain.TicketFilter{Status: &open}, fctx)
		require.Len(t, got, 1)
		assert.Equal(t, "IN003", got[0].IncidentNumber)
	})

	t.Run("compliance filter", func(t *testing.T) {
		nc := domain.NotComply
		got := domain.FilterTickets(tickets, domain.TicketFilter{Compliance: &nc}, fctx)
		require.Len(t, got, 1)
		assert.Equal(t, "IN002", got[0].IncidentNumber)
	})

	t.Run("related flag filter", func(t *testing.T) {
		yes := true
		got := domain.FilterTickets(tickets, domain.TicketFilter{RelatedOnly: &yes}, fctx)
		require.Len(t, got, 1)
		assert.Equal(t, "IN003", got[0].IncidentNumber)
	})

	t.Run("creator resolved by name", func(t *testing.T) {
		got := domain.FilterTickets(tickets, domain.TicketFilter{Creator: strPtr("Dewi Lestari")}, fctx)
		assert.Len(t, got, 2)
	})

	t.Run("date range is inclusive on both ends", func(t *testing.T) {
		from := tickets[1].JamOpen
		to := tickets[2].JamOpen
		got := domain.FilterTickets(tickets, domain.TicketFilter{OpenFrom: &from, OpenTo: &to}, fctx)
		assert.Len(t, got, 2)
	})
}

// Conjunction property: a combined filter must equal the intersection of the
// individual filters, regardless of application order.
func TestFilterTickets_Conjunction(t *testing.T) {
	tickets, fctx := buildFleet()

	provider := "TelkomGroup"
	team := "TA"
	combined := domain.TicketFilter{
		Search:   "fiber",
		Provider: &provider,
		Team:     &team,
	}

	got := domain.FilterTickets(tickets, combined, fctx)

	// Intersection computed predicate by predicate.
	step := domain.FilterTickets(tickets, domain.TicketFilter{Search: "fiber"}, fctx)
	step = domain.FilterTickets(step, domain.TicketFilter{Provider: &provider}, fctx)
	step = domain.FilterTickets(step, domain.TicketFilter{Team: &team}, fctx)
	assert.Equal(t, step, got)

	// Reversed application order gives the same result.
	reversed := domain.FilterTickets(tickets, domain.TicketFilter{Team: &team}, fctx)
	reversed = domain.FilterTickets(reversed, domain.TicketFilter{Provider: &provider}, fctx)
	reversed = domain.FilterTickets(reversed, domain.TicketFilter{Search: "fiber"}, fctx)
	assert.Equal(t, reversed, got)
}

func TestSortTickets(t *testing.T) {
	tickets, _ := buildFleet()
	now := tickets[0].JamOpen.Add(2 * time.Hour)

	t.Run("ttr ascending pushes closed last", func(t *testing.T) {
		sorted := append([]*domain.Ticket{}, tickets...)
		domain.SortTickets(sorted, domain.SortTTRAscending, now)
		assert.Equal(t, domain.StatusClosed, sorted[len(sorted)-1].Status)
		assert.LessOrEqual(t,
			sorted[0].TTRAt(now).RemainingHours,
			sorted[1].TTRAt(now).RemainingHours,
		)
	})

	t.Run("newest first", func(t *testing.T) {
		sorted := append([]*domain.Ticket{}, tickets...)
		domain.SortTickets(sorted, domain.SortNewestFirst, now)
		assert.Equal(t, "IN003", sorted[0].IncidentNumber)
	})

	t.Run("oldest first", func(t *testing.T) {
		sorted := append([]*domain.Ticket{}, tickets...)
		domain.SortTickets(sorted, domain.SortOldestFirst, now)
		assert.Equal(t, "IN001", sorted[0].IncidentNumber)
	})

	t.Run("site code lexicographic", func(t *testing.T) {
		sorted := append([]*domain.Ticket{}, tickets...)
		domain.SortTickets(sorted, domain.SortSiteCode, now)
		assert.Equal(t, "SUB001", sorted[0].SiteCode)
		assert.Equal(t, "SUB002", sorted[2].SiteCode)
	})
}

// Pagination invariant: concatenating every page reproduces the full sorted
// list exactly, with no duplicates or gaps.
func TestPaginate_Invariant(t *testing.T) {
	tickets, _ := buildFleet()
	domain.SortTickets(tickets, domain.SortNewestFirst, time.Now())

	pageSize := 2
	var reassembled []*domain.Ticket
	for page := 1; ; page++ {
		items := domain.Paginate(tickets, page, pageSize)
		if len(items) == 0 {
			break
		}
		reassembled = append(reassembled, items...)
	}

	require.Equal(t, tickets, reassembled)
}

func TestPaginate_Bounds(t *testing.T) {
	tickets, _ := buildFleet()

	assert.Empty(t, domain.Paginate(tickets, 99, 10))
	assert.Empty(t, domain.Paginate(tickets, 1, 0))
	assert.Len(t, domain.Paginate(tickets, 0, 2), 2, "page below 1 clamps to 1")
}
