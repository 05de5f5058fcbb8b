package domain

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// DisplayStatus computes the status shown to users. The persisted value
// TEMPORARY is a placeholder meaning "pending clarification from the latest
// update": in that case the newest progress update carrying a defined,
// non-TEMPORARY statusAfterUpdate wins. With no such update, a ticket with
// technicians attached reads ASSIGNED, otherwise OPEN.
//
// Pure function of the snapshot: same inputs always give the same output.
// Ties on timestamp are broken by the higher update ID so the descending
// scan stays deterministic.
func (t *Ticket) DisplayStatus() TicketStatus {
	if t.Status != StatusTemporary {
		return t.Status
	}

	updates := make([]*ProgressUpdate, len(t.ProgressUpdates))
	copy(updates, t.ProgressUpdates)
	sort.Slice(updates, func(i, j int) bool {
		if updates[i].Timestamp.Equal(updates[j].Timestamp) {
			return updates[i].ID > updates[j].ID
		}
		return updates[i].Timestamp.After(updates[j].Timestamp)
	})

	for _, u := range updates {
		if u.StatusAfterUpdate != nil && *u.StatusAfterUpdate != StatusTemporary {
			return *u.StatusAfterUpdate
		}
	}

	if t.HasTechnicians() {
		return StatusAssigned
	}
	return StatusOpen
}

// TTRSnapshot is the live TTR view of a ticket at a given instant.
type TTRSnapshot struct {
	RemainingHours float64
	Compliance     Compliance
}

// TTRAt computes remaining hours until the deadline and the effective
// compliance at now. Closed tickets return their frozen persisted values
// regardless of the clock; open tickets recompute against now, and
// compliance is forced to NOT COMPLY once the deadline has passed.
func (t *Ticket) TTRAt(now time.Time) TTRSnapshot {
	if t.IsClosed() {
		snap := TTRSnapshot{Compliance: t.TTRCompliance}
		if t.SisaTTRHours != nil {
			snap.RemainingHours = *t.SisaTTRHours
		}
		return snap
	}

	remaining := t.MaxJamClose.Sub(now).Hours()
	compliance := t.TTRCompliance
	if now.After(t.MaxJamClose) {
		compliance = NotComply
	}
	return TTRSnapshot{RemainingHours: remaining, Compliance: compliance}
}

// TTRBand classifies remaining TTR hours against configured thresholds.
type TTRBand string

const (
	BandSafe     TTRBand = "safe"
	BandWarning  TTRBand = "warning"
	BandCritical TTRBand = "critical"
	BandOverdue  TTRBand = "overdue"
)

// ClassifyTTR is a step function of remaining hours. Boundaries are
// inclusive on the critical/warning side.
func ClassifyTTR(hours float64, th Thresholds) TTRBand {
	switch {
	case hours <= 0:
		return BandOverdue
	case hours <= th.CriticalHours:
		return BandCritical
	case hours <= th.WarningHours:
		return BandWarning
	default:
		return BandSafe
	}
}

// IsDueSoon reports whether a ticket is inside the due-soon window:
// still on the clock but within DueSoonHours of the deadline.
func IsDueSoon(hours float64, th Thresholds) bool {
	return hours > 0 && hours <= th.DueSoonHours
}

// FormatHours renders signed fractional hours as "Hh Mm", with the sign
// attached once to the whole duration. The minutes component is rounded,
// not truncated, so a value just under a whole hour can render as 60m;
// the hours component is intentionally not adjusted for that case.
func FormatHours(hours float64) string {
	sign := ""
	if hours < 0 {
		sign = "-"
	}
	abs := math.Abs(hours)
	h := int(abs)
	m := int(math.Round((abs - float64(h)) * 60))
	return fmt.Sprintf("%s%dh %dm", sign, h, m)
}
