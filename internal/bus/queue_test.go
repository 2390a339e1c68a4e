package bus

import (
	"context"
	"testing"
	"time"

	"main/internal/book"
	"main/internal/schema"
)

func testOrder(n byte) *book.TradeOrder {
	var id schema.ID
	id[0] = n
	return &book.TradeOrder{TradeID: id}
}

func TestQueueOrdering(t *testing.T) {
	q := NewQueue(4)
	for i := byte(1); i <= 3; i++ {
		if !q.TryEnqueue(testOrder(i)) {
			t.Fatalf("enqueue %d failed", i)
		}
	}
	if q.Len() != 3 {
		t.Fatalf("expected len 3, got %d", q.Len())
	}

	for i := byte(1); i <= 3; i++ {
		o, ok := q.Dequeue(context.Background())
		if !ok {
			t.Fatalf("dequeue %d failed", i)
		}
		if o.TradeID[0] != i {
			t.Fatalf("order mismatch! should be %d but got %d", i, o.TradeID[0])
		}
	}
}

func TestQueueFull(t *testing.T) {
	q := NewQueue(1)
	if !q.TryEnqueue(testOrder(1)) {
		t.Fatal("first enqueue should succeed")
	}
	if q.TryEnqueue(testOrder(2)) {
		t.Fatal("enqueue on a full queue should fail")
	}
}

func TestQueueClose(t *testing.T) {
	q := NewQueue(4)
	q.TryEnqueue(testOrder(1))
	q.Close()
	q.Close() // idempotent

	if q.TryEnqueue(testOrder(2)) {
		t.Fatal("enqueue after close should fail")
	}

	// Queued orders drain before the closed state surfaces.
	if _, ok := q.Dequeue(context.Background()); !ok {
		t.Fatal("queued order should still dequeue")
	}
	if _, ok := q.Dequeue(context.Background()); ok {
		t.Fatal("drained closed queue should report not ok")
	}
}

func TestQueueDequeueContext(t *testing.T) {
	q := NewQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	if _, ok := q.Dequeue(ctx); ok {
		t.Fatal("dequeue should fail when the context expires")
	}
	if time.Since(start) > time.Second {
		t.Fatal("dequeue did not honor the context deadline")
	}
}
