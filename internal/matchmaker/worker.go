package matchmaker

import (
	"context"

	"github.com/yanun0323/logs"

	"main/internal/book"
	"main/internal/bus"
	"main/internal/obs"
)

// EventSink receives the trade events produced by a worker's matches.
type EventSink interface {
	Append(events []book.TradeEvent) error
}

// Worker serializes all book mutations for one instrument type: it drains
// the type's queue one order at a time and synchronously consumes each
// request, so every book has exactly one writer.
type Worker struct {
	matchmaker *InstrumentMatchmaker
	queue      *bus.Queue
	metrics    *obs.Metrics
	sink       EventSink
}

// NewWorker wires a worker to its matchmaker and queue. metrics and sink
// may be nil.
func NewWorker(m *InstrumentMatchmaker, queue *bus.Queue, metrics *obs.Metrics, sink EventSink) *Worker {
	return &Worker{matchmaker: m, queue: queue, metrics: metrics, sink: sink}
}

// Run consumes orders until the context is done or the queue is closed and
// drained.
func (w *Worker) Run(ctx context.Context) {
	logs.Infof("worker started: %d orderbook(s) for instrument type %s",
		w.matchmaker.NumOrderBooks(), w.matchmaker.Type())
	events := make([]book.TradeEvent, 0, 16)
	for {
		o, ok := w.queue.Dequeue(ctx)
		if !ok {
			logs.Infof("worker stopped for instrument type %s", w.matchmaker.Type())
			return
		}
		events = events[:0]
		outcome := w.matchmaker.ConsumeOrder(o, &events)
		w.metrics.ObserveOutcome(outcome)
		w.metrics.ObserveTrades(len(events))
		if outcome.Fatal() {
			// Index/bucket desync: that symbol's book can no longer be
			// trusted. Surface loudly; production policy is crash-and-restart
			// of the book instance.
			logs.Errorf("book consistency failure for symbol id %d: %s", o.SymbolID, outcome)
		}
		if w.sink != nil && len(events) > 0 {
			if err := w.sink.Append(events); err != nil {
				logs.Errorf("trade tape append failed: %v", err)
			}
		}
	}
}
