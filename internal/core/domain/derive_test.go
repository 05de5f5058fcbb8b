package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
)

func statusPtr(s domain.TicketStatus) *domain.TicketStatus {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}

func at(hour, minute int) time.Time {
	return time.Date(2024, 1, 1, hour, minute, 0, 0, time.UTC)
}

func TestDisplayStatus_Passthrough(t *testing.T) {
	for _, status := range domain.AllStatuses {
		if status == domain.StatusTemporary {
			continue
		}
		ticket := &domain.Ticket{
			ID:     uuid.New(),
			Status: status,
			ProgressUpdates: []*domain.ProgressUpdate{
				{ID: 1, Timestamp: at(10, 0), StatusAfterUpdate: statusPtr(domain.StatusPending)},
			},
		}
		assert.Equal(t, status, ticket.DisplayStatus(), "status %s must pass through unchanged", status)
	}
}

func TestDisplayStatus_ResolvesFromUpdates(t *testing.T) {
	ticket := &domain.Ticket{
		ID:     uuid.New(),
		Status: domain.StatusTemporary,
		ProgressUpdates: []*domain.ProgressUpdate{
			{ID: 2, Timestamp: at(10, 0), StatusAfterUpdate: statusPtr(domain.StatusTemporary)},
			{ID: 3, Timestamp: at(11, 0), StatusAfterUpdate: statusPtr(domain.StatusOnProgress)},
			{ID: 1, Timestamp: at(9, 0), StatusAfterUpdate: nil},
		},
	}

	// Most recent non-TEMPORARY defined status wins; the 10:00 TEMPORARY
	// marker and the 09:00 nil entry are skipped.
	assert.Equal(t, domain.StatusOnProgress, ticket.DisplayStatus())
}

func TestDisplayStatus_Fallback(t *testing.T) {
	t.Run("with technicians resolves to ASSIGNED", func(t *testing.T) {
		ticket := &domain.Ticket{
			ID:          uuid.New(),
			Status:      domain.StatusTemporary,
			Technicians: []string{"Budi Santoso"},
		}
		assert.Equal(t, domain.StatusAssigned, ticket.DisplayStatus())
	})

	t.Run("without technicians resolves to OPEN", func(t *testing.T) {
		ticket := &domain.Ticket{
			ID:     uuid.New(),
			Status: domain.StatusTemporary,
		}
		assert.Equal(t, domain.StatusOpen, ticket.DisplayStatus())
	})
}

func TestDisplayStatus_TieBreakIsDeterministic(t *testing.T) {
	// Two updates at the same instant: the higher ID counts as more recent.
	ticket := &domain.Ticket{
		ID:     uuid.New(),
		Status: domain.StatusTemporary,
		ProgressUpdates: []*domain.ProgressUpdate{
			{ID: 1, Timestamp: at(10, 0), StatusAfterUpdate: statusPtr(domain.StatusPending)},
			{ID: 2, Timestamp: at(10, 0), StatusAfterUpdate: statusPtr(domain.StatusWaitingAccess)},
		},
	}

	first := ticket.DisplayStatus()
	assert.Equal(t, domain.StatusWaitingAccess, first)

	// Input order must not matter.
	ticket.ProgressUpdates[0], ticket.ProgressUpdates[1] = ticket.ProgressUpdates[1], ticket.ProgressUpdates[0]
	assert.Equal(t, first, ticket.DisplayStatus())
}

func TestTTRAt_FrozenWhenClosed(t *testing.T) {
	ticket := &domain.Ticket{
		ID:            uuid.New(),
		JamOpen:       at(0, 0),
		MaxJamClose:   at(8, 0),
		Status:        domain.StatusClosed,
		SisaTTRHours:  floatPtr(2.5),
		TTRCompliance: domain.Comply,
	}

	// Same result no matter when it is read.
	for _, now := range []time.Time{at(1, 0), at(12, 0), at(0, 0).AddDate(1, 0, 0)} {
		snap := ticket.TTRAt(now)
		assert.Equal(t, 2.5, snap.RemainingHours)
		assert.Equal(t, domain.Comply, snap.Compliance)
	}
}

func TestTTRAt_LiveRecompute(t *testing.T) {
	ticket := &domain.Ticket{
		ID:             uuid.New(),
		JamOpen:        at(0, 0),
		TTRTargetHours: 8,
		MaxJamClose:    at(8, 0),
		Status:         domain.StatusOnProgress,
		TTRCompliance:  domain.Comply,
	}

	t.Run("before deadline passes persisted compliance through", func(t *testing.T) {
		snap := ticket.TTRAt(at(4, 0))
		assert.InDelta(t, 4.0, snap.RemainingHours, 1e-9)
		assert.Equal(t, domain.Comply, snap.Compliance)
	})

	t.Run("after deadline forces NOT COMPLY", func(t *testing.T) {
		snap := ticket.TTRAt(at(9, 0))
		assert.InDelta(t, -1.0, snap.RemainingHours, 1e-9)
		assert.Equal(t, domain.NotComply, snap.Compliance)
	})

	t.Run("persisted flag never overrides an expired deadline", func(t *testing.T) {
		ticket.TTRCompliance = domain.Comply
		snap := ticket.TTRAt(at(20, 0))
		assert.Equal(t, domain.NotComply, snap.Compliance)
	})
}

func TestClassifyTTR_Boundaries(t *testing.T) {
	th := domain.Thresholds{CriticalHours: 1, WarningHours: 2}

	cases := []struct {
		hours float64
		want  domain.TTRBand
	}{
		{0, domain.BandOverdue},
		{-3, domain.BandOverdue},
		{1, domain.BandCritical},
		{1.5, domain.BandWarning},
		{2, domain.BandWarning},
		{2.01, domain.BandSafe},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, domain.ClassifyTTR(tc.hours, th), "hours=%v", tc.hours)
	}
}

func TestIsDueSoon(t *testing.T) {
	th := domain.Thresholds{DueSoonHours: 6}

	assert.True(t, domain.IsDueSoon(0.5, th))
	assert.True(t, domain.IsDueSoon(6, th))
	assert.False(t, domain.IsDueSoon(0, th), "already overdue is not due soon")
	assert.False(t, domain.IsDueSoon(-1, th))
	assert.False(t, domain.IsDueSoon(6.1, th))
}

func TestFormatHours(t *testing.T) {
	cases := []struct {
		hours float64
		want  string
	}{
		{4.5, "4h 30m"},
		{-1.25, "-1h 15m"},
		{0, "0h 0m"},
		{0.5, "0h 30m"},
		{-0.5, "-0h 30m"},
		// Rounding crosses a boundary; the minutes component is not carried.
		{1.9999, "1h 60m"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, domain.FormatHours(tc.hours), "hours=%v", tc.hours)
	}
}

func TestNewTicket(t *testing.T) {
	params := domain.TicketParams{
		IncidentNumber: "IN12345",
		SiteCode:       "SUB001",
		JamOpen:        at(0, 0),
		TTRTargetHours: 8,
		CreatedBy:      uuid.New(),
	}

	t.Run("deadline computed once at creation", func(t *testing.T) {
		ticket, err := domain.NewTicket(params)
		require.NoError(t, err)
		assert.Equal(t, at(8, 0), ticket.MaxJamClose)
		assert.Equal(t, domain.StatusOpen, ticket.Status)
	})

	t.Run("technician attached at creation means ASSIGNED", func(t *testing.T) {
		withTech := params
		withTech.Technicians = []string{"Budi Santoso"}
		ticket, err := domain.NewTicket(withTech)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusAssigned, ticket.Status)
	})

	t.Run("rejects missing incident number", func(t *testing.T) {
		bad := params
		bad.IncidentNumber = ""
		_, err := domain.NewTicket(bad)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive target", func(t *testing.T) {
		bad := params
		bad.TTRTargetHours = 0
		_, err := domain.NewTicket(bad)
		assert.Error(t, err)
	})
}

func TestApplyStatus_CloseFreezesTTR(t *testing.T) {
	ticket, err := domain.NewTicket(domain.TicketParams{
		IncidentNumber: "IN12345",
		SiteCode:       "SUB001",
		JamOpen:        at(0, 0),
		TTRTargetHours: 8,
		CreatedBy:      uuid.New(),
	})
	require.NoError(t, err)

	require.NoError(t, ticket.ApplyStatus(domain.StatusClosed, at(6, 0)))

	require.NotNil(t, ticket.TTRRealHours)
	require.NotNil(t, ticket.SisaTTRHours)
	assert.InDelta(t, 6.0, *ticket.TTRRealHours, 1e-9)
	assert.InDelta(t, 2.0, *ticket.SisaTTRHours, 1e-9)
	assert.Equal(t, domain.Comply, ticket.TTRCompliance)

	t.Run("reopening a closed ticket is rejected", func(t *testing.T) {
		err := ticket.ApplyStatus(domain.StatusOpen, time.Time{})
		assert.Error(t, err)
	})
}

func TestApplyStatus_LateCloseIsNotComply(t *testing.T) {
	ticket, err := domain.NewTicket(domain.TicketParams{
		IncidentNumber: "IN12346",
		SiteCode:       "SUB002",
		JamOpen:        at(0, 0),
		TTRTargetHours: 8,
		CreatedBy:      uuid.New(),
	})
	require.NoError(t, err)

	require.NoError(t, ticket.ApplyStatus(domain.StatusClosed, at(10, 0)))
	assert.Equal(t, domain.NotComply, ticket.TTRCompliance)
	assert.InDelta(t, -2.0, *ticket.SisaTTRHours, 1e-9)
}
