package domain

import "time"

// ChangeTable identifies a table whose rows changed.
type ChangeTable string

const (
	TableTickets     ChangeTable = "tickets"
	TableProgress    ChangeTable = "progress_updates"
	TableTechnicians ChangeTable = "technicians"
	TableUsers       ChangeTable = "users"
	TableSettings    ChangeTable = "settings"
)

// ChangeEvent is the payload sent over WebSocket: a "something changed"
// signal, not a diff. Consumers refetch the table's query. Seq is a
// monotonic per-table sequence number so a consumer can discard the result
// of a refetch that was superseded while in flight.
type ChangeEvent struct {
	Table ChangeTable `json:"table"`
	Seq   uint64      `json:"seq"`
	At    time.Time   `json:"at"`
}
