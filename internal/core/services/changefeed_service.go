package services

import (
	"log/slog"
	"sync"
	"time"

	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
	"github.com/andre-sptr/sitiket-sub000/internal/core/ports"
)

// ChangefeedService stamps change notifications with a monotonic per-table
// sequence number and hands them to the broadcaster. The payload is only a
// "this table changed" signal; clients refetch and use the sequence to
// discard refetch results that were superseded while in flight.
type ChangefeedService struct {
	broadcaster ports.EventBroadcaster
	logger      *slog.Logger
	now         func() time.Time

	mu   sync.Mutex
	seqs map[domain.ChangeTable]uint64
}

var _ ports.ChangefeedService = (*ChangefeedService)(nil)

// NewChangefeedService creates a new changefeed service.
func NewChangefeedService(broadcaster ports.EventBroadcaster, logger *slog.Logger) *ChangefeedService {
	return &ChangefeedService{
		broadcaster: broadcaster,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
		seqs:        make(map[domain.ChangeTable]uint64),
	}
}

// Notify emits a change event for the table. Broadcast failures are logged
// and swallowed: a missed notification degrades freshness, not correctness,
// and must never fail the mutation that triggered it.
func (s *ChangefeedService) Notify(table domain.ChangeTable) {
	s.mu.Lock()
	s.seqs[table]++
	event := domain.ChangeEvent{
		Table: table,
		Seq:   s.seqs[table],
		At:    s.now(),
	}
	s.mu.Unlock()

	if err := s.broadcaster.Broadcast(event); err != nil {
		s.logger.Warn("change broadcast failed", "table", string(table), "seq", event.Seq, "error", err)
	}
}

// LastSeq returns the most recently issued sequence number for a table,
// zero when nothing has changed yet.
func (s *ChangefeedService) LastSeq(table domain.ChangeTable) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seqs[table]
}

// SequenceGate tracks, per table, the newest sequence a consumer has
// applied. A refetch triggered by event N must be discarded when some event
// M > N was applied while the refetch was in flight.
type SequenceGate struct {
	mu      sync.Mutex
	applied map[domain.ChangeTable]uint64
}

// NewSequenceGate creates an empty gate.
func NewSequenceGate() *SequenceGate {
	return &SequenceGate{applied: make(map[domain.ChangeTable]uint64)}
}

// TryApply records seq as applied and reports true when seq is newer than
// everything applied so far for the table. A false return means the caller
// holds stale data and must drop it.
func (g *SequenceGate) TryApply(table domain.ChangeTable, seq uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if seq <= g.applied[table] {
		return false
	}
	g.applied[table] = seq
	return true
}
