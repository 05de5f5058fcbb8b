package domain

import "time"

// StatusCount is one row of the status breakdown.
type StatusCount struct {
	Status TicketStatus
	Count  int64
}

// CategoryPerformance aggregates closed-ticket performance per category.
type CategoryPerformance struct {
	Category     string
	Total        int64
	Closed       int64
	AvgRealHours float64
	ComplyRate   float64
}

// TrafficPoint is the per-day open count for the traffic chart and the
// summary export.
type TrafficPoint struct {
	Day   time.Time
	Count int64
}

// ReportOverview is the aggregate bundle backing the summary export and the
// statistics endpoint.
type ReportOverview struct {
	StatusCounts []StatusCount
	Categories   []CategoryPerformance
	Traffic      []TrafficPoint
	TotalTickets int64
}
