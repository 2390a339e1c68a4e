package book

import (
	"github.com/yanun0323/logs"

	"main/internal/schema"
)

// PriceBucket holds every resting order at one (side, symbol, price) point
// and fills incoming counter-side orders in strict FIFO arrival order. The
// bucket's doubly-linked list is the sole owner of an order's list
// membership; tracked holds the same orders keyed by trade id for O(1)
// duplicate and membership checks.
type PriceBucket struct {
	side        schema.Side
	symbolID    uint32
	price       uint64
	totalVolume uint64

	head    *TradeOrder
	tail    *TradeOrder
	tracked map[schema.ID]*TradeOrder
}

// NewPriceBucket creates an empty bucket for one price point.
func NewPriceBucket(side schema.Side, symbolID uint32, price uint64) *PriceBucket {
	return &PriceBucket{
		side:     side,
		symbolID: symbolID,
		price:    price,
		tracked:  make(map[schema.ID]*TradeOrder),
	}
}

// Side returns the quotation side this bucket rests on.
func (b *PriceBucket) Side() schema.Side {
	return b.side
}

// Price returns the bucket's fixed price point.
func (b *PriceBucket) Price() uint64 {
	return b.price
}

// TotalVolume returns the aggregate unfilled quantity across members.
func (b *PriceBucket) TotalVolume() uint64 {
	return b.totalVolume
}

// Len returns the number of resting orders.
func (b *PriceBucket) Len() int {
	return len(b.tracked)
}

// First returns the oldest resting order, or nil when empty.
func (b *PriceBucket) First() *TradeOrder {
	return b.head
}

// Contains reports whether the trade id rests in this bucket.
func (b *PriceBucket) Contains(tradeID schema.ID) bool {
	_, ok := b.tracked[tradeID]
	return ok
}

// Insert appends an order to the FIFO tail. It fails when the order is
// already tracked here or does not belong at this bucket's side/price, or
// has zero size.
func (b *PriceBucket) Insert(o *TradeOrder) bool {
	if _, ok := b.tracked[o.TradeID]; ok {
		return false
	}
	if o.Side != b.side || o.Price != b.price || o.Size == 0 {
		return false
	}
	if b.tail == nil {
		b.head = o
		b.tail = o
		o.next = nil
		o.prev = nil
	} else {
		b.tail.next = o
		o.prev = b.tail
		o.next = nil
		b.tail = o
	}
	b.totalVolume += o.Remaining()
	b.tracked[o.TradeID] = o
	return true
}

// Erase unlinks an order from the FIFO list and stops tracking it. The
// order's links are cleared so it carries no dangling references.
func (b *PriceBucket) Erase(o *TradeOrder) bool {
	if _, ok := b.tracked[o.TradeID]; !ok {
		return false
	}
	unfilled := o.Remaining()
	if unfilled > b.totalVolume {
		// Aggregate volume drifting negative means prior accounting broke;
		// clamp and scream rather than wrap the counter.
		logs.Errorf("price bucket %d/%s@%d volume underflow: remove %d from %d, clamping to 0",
			b.symbolID, b.side, b.price, unfilled, b.totalVolume)
		b.totalVolume = 0
	} else {
		b.totalVolume -= unfilled
	}
	switch {
	case len(b.tracked) == 1:
		b.head = nil
		b.tail = nil
	case b.head == o:
		b.head = o.next
		o.next.prev = nil
	case b.tail == o:
		b.tail = o.prev
		o.prev.next = nil
	default:
		o.prev.next = o.next
		o.next.prev = o.prev
	}
	o.next = nil
	o.prev = nil
	delete(b.tracked, o.TradeID)
	return true
}

// AlterSize adjusts a resting order's requested size in place, keeping the
// aggregate volume consistent. The new size may not undercut the fill.
func (b *PriceBucket) AlterSize(tradeID schema.ID, newSize uint64) bool {
	o, ok := b.tracked[tradeID]
	if !ok {
		return false
	}
	if newSize == 0 || newSize < o.Filled {
		return false
	}
	b.totalVolume -= o.Remaining()
	o.Size = newSize
	b.totalVolume += o.Remaining()
	return true
}

// crosses reports whether taker's limit price legally trades against this
// bucket's price.
func (b *PriceBucket) crosses(taker *TradeOrder) bool {
	if b.side == schema.SideAsk {
		// Resting asks fill a bid taker willing to pay at least our price.
		return b.price <= taker.Price
	}
	return b.price >= taker.Price
}

// Fulfill matches the incoming order against resting members head-first
// and appends one TradeEvent per non-zero match. Fully filled resting
// orders are marked SUCCESS and erased as the walk goes. The walk stops as
// soon as the incoming order is complete. Returns the incoming order's
// cumulative fill.
func (b *PriceBucket) Fulfill(taker *TradeOrder, events *[]TradeEvent) uint64 {
	if len(b.tracked) == 0 || taker.Side != b.side.Counter() || !b.crosses(taker) || taker.Remaining() == 0 {
		return taker.Filled
	}
	candidate := b.head
	for candidate != nil {
		match := min(candidate.Remaining(), taker.Remaining())
		candidate.Filled += match
		taker.Filled += match
		b.totalVolume -= match
		if match > 0 {
			bidID, askID := taker.TradeID, candidate.TradeID
			if b.side == schema.SideBid {
				bidID, askID = candidate.TradeID, taker.TradeID
			}
			*events = append(*events, newTradeEvent(bidID, askID, b.symbolID, b.price, match))
		}
		done := candidate
		candidate = candidate.next
		if done.Remaining() == 0 {
			done.Outcome = schema.OutcomeSuccess
			b.Erase(done)
		}
		if taker.Remaining() == 0 {
			return taker.Filled
		}
	}
	return taker.Filled
}
