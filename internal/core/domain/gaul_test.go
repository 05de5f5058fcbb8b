package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
)

func ticketAtDay(site string, day int) *domain.Ticket {
	return &domain.Ticket{
		ID:       uuid.New(),
		SiteCode: site,
		JamOpen:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day),
	}
}

func TestIsRelatedIncident_Window(t *testing.T) {
	a := ticketAtDay("X", 0)
	b := ticketAtDay("X", 30)
	c := ticketAtDay("X", 31)
	all := []*domain.Ticket{a, b, c}

	// The earlier ticket is never flagged against a later one.
	assert.False(t, domain.IsRelatedIncident(a, []*domain.Ticket{a, b}))

	// Gap of exactly 30 days qualifies.
	assert.True(t, domain.IsRelatedIncident(b, []*domain.Ticket{a, b}))

	// Gap of 31 days relative to A does not; but C is within 1 day of B.
	assert.False(t, domain.IsRelatedIncident(c, []*domain.Ticket{a, c}))
	assert.True(t, domain.IsRelatedIncident(c, all))
}

func TestIsRelatedIncident_SiteAndIdentity(t *testing.T) {
	a := ticketAtDay("X", 0)
	other := ticketAtDay("Y", 1)

	t.Run("different site never matches", func(t *testing.T) {
		assert.False(t, domain.IsRelatedIncident(other, []*domain.Ticket{a, other}))
	})

	t.Run("self comparison is excluded", func(t *testing.T) {
		assert.False(t, domain.IsRelatedIncident(a, []*domain.Ticket{a}))
	})

	t.Run("same instant does not qualify as earlier", func(t *testing.T) {
		twin := ticketAtDay("X", 0)
		assert.False(t, domain.IsRelatedIncident(a, []*domain.Ticket{a, twin}))
	})

	t.Run("empty site code never matches", func(t *testing.T) {
		blank1 := ticketAtDay("", 0)
		blank2 := ticketAtDay("", 1)
		assert.False(t, domain.IsRelatedIncident(blank2, []*domain.Ticket{blank1, blank2}))
	})
}

func TestIsRelatedIncident_FractionalGapRoundsUp(t *testing.T) {
	earlier := ticketAtDay("X", 0)
	// 29 days and 6 hours rounds up to 30 whole days: still inside.
	inside := &domain.Ticket{
		ID:       uuid.New(),
		SiteCode: "X",
		JamOpen:  earlier.JamOpen.AddDate(0, 0, 29).Add(6 * time.Hour),
	}
	// 30 days and 1 hour rounds up to 31: outside.
	outside := &domain.Ticket{
		ID:       uuid.New(),
		SiteCode: "X",
		JamOpen:  earlier.JamOpen.AddDate(0, 0, 30).Add(time.Hour),
	}

	assert.True(t, domain.IsRelatedIncident(inside, []*domain.Ticket{earlier, inside}))
	assert.False(t, domain.IsRelatedIncident(outside, []*domain.Ticket{earlier, outside}))
}

func TestRelatedIncidentFlags(t *testing.T) {
	a := ticketAtDay("X", 0)
	b := ticketAtDay("X", 10)
	c := ticketAtDay("Z", 10)
	flags := domain.RelatedIncidentFlags([]*domain.Ticket{a, b, c})

	assert.False(t, flags[a.ID.String()])
	assert.True(t, flags[b.ID.String()])
	assert.False(t, flags[c.ID.String()])
}
