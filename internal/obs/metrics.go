package obs

import (
	"sync/atomic"

	"main/internal/schema"
)

// Metrics collects lightweight counters for the matching pipeline. All
// methods are safe for concurrent use by workers and producers.
type Metrics struct {
	outcomeCounts  [schema.NumOutcomes]uint64
	ordersConsumed uint64
	tradesEmitted  uint64
	queueDrops     uint64
}

// Snapshot is a point-in-time view of the counters.
type Snapshot struct {
	OutcomeCounts  map[schema.Outcome]uint64
	OrdersConsumed uint64
	TradesEmitted  uint64
	QueueDrops     uint64
}

// NewMetrics allocates a metrics container.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// ObserveOutcome counts one consumed order request and its outcome.
func (m *Metrics) ObserveOutcome(outcome schema.Outcome) {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.ordersConsumed, 1)
	if idx := int(outcome); idx >= 0 && idx < len(m.outcomeCounts) {
		atomic.AddUint64(&m.outcomeCounts[idx], 1)
	}
}

// ObserveTrades counts emitted trade events.
func (m *Metrics) ObserveTrades(n int) {
	if m == nil || n <= 0 {
		return
	}
	atomic.AddUint64(&m.tradesEmitted, uint64(n))
}

// ObserveQueueDrop counts one order rejected by a full queue.
func (m *Metrics) ObserveQueueDrop() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.queueDrops, 1)
}

// Snapshot captures the current counter values.
func (m *Metrics) Snapshot() Snapshot {
	s := Snapshot{OutcomeCounts: make(map[schema.Outcome]uint64)}
	if m == nil {
		return s
	}
	for i := range m.outcomeCounts {
		if v := atomic.LoadUint64(&m.outcomeCounts[i]); v > 0 {
			s.OutcomeCounts[schema.Outcome(i)] = v
		}
	}
	s.OrdersConsumed = atomic.LoadUint64(&m.ordersConsumed)
	s.TradesEmitted = atomic.LoadUint64(&m.tradesEmitted)
	s.QueueDrops = atomic.LoadUint64(&m.queueDrops)
	return s
}
