package bus

import (
	"context"
	"sync/atomic"

	"main/internal/book"
)

// Queue is the bounded multi-producer/single-consumer hand-off between the
// order source and one instrument type's matchmaker worker.
type Queue struct {
	ch     chan *book.TradeOrder
	closed uint32
}

// NewQueue allocates a queue with the given capacity.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue{ch: make(chan *book.TradeOrder, capacity)}
}

// TryEnqueue adds an order without blocking. It returns false when the
// queue is full or closed.
func (q *Queue) TryEnqueue(o *book.TradeOrder) (ok bool) {
	if atomic.LoadUint32(&q.closed) != 0 {
		return false
	}
	defer func() {
		// A concurrent Close can race the send; treat it as a failed enqueue.
		if recover() != nil {
			ok = false
		}
	}()
	select {
	case q.ch <- o:
		return true
	default:
		return false
	}
}

// Dequeue blocks until an order is available, the queue is drained and
// closed, or the context is done.
func (q *Queue) Dequeue(ctx context.Context) (*book.TradeOrder, bool) {
	select {
	case <-ctx.Done():
		return nil, false
	case o, ok := <-q.ch:
		if !ok {
			return nil, false
		}
		return o, true
	}
}

// Len returns the number of queued orders.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Close stops the queue from accepting new orders. Queued orders remain
// dequeueable until drained.
func (q *Queue) Close() {
	if atomic.CompareAndSwapUint32(&q.closed, 0, 1) {
		close(q.ch)
	}
}
