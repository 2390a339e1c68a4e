package book

import "main/internal/schema"

// TradeOrder is one order request plus its fill progress. Identity (trade
// id, user id) is fixed for life; price and size change only through the
// book's alter paths. The unexported links are owned by the price bucket
// the order currently rests in, and are nil whenever the order is not
// resident.
type TradeOrder struct {
	TradeID   schema.ID
	UserID    schema.ID
	SymbolID  uint32
	Type      schema.OrderType
	Side      schema.Side
	Request   schema.RequestType
	Outcome   schema.Outcome
	Price     uint64
	Size      uint64
	Filled    uint64
	Timestamp uint32

	next *TradeOrder
	prev *TradeOrder
}

// NewTradeOrder builds an order request. The caller supplies a
// process-unique trade id for PLACE and the original trade id + user id
// pair for CANCEL/ALTER requests.
func NewTradeOrder(
	tradeID, userID schema.ID,
	symbolID uint32,
	orderType schema.OrderType,
	side schema.Side,
	request schema.RequestType,
	price, size uint64,
	timestamp uint32,
) *TradeOrder {
	return &TradeOrder{
		TradeID:   tradeID,
		UserID:    userID,
		SymbolID:  symbolID,
		Type:      orderType,
		Side:      side,
		Request:   request,
		Outcome:   schema.OutcomeNotProcessed,
		Price:     price,
		Size:      size,
		Timestamp: timestamp,
	}
}

// Remaining returns the unfilled quantity.
func (o *TradeOrder) Remaining() uint64 {
	return o.Size - o.Filled
}

// SetNewPrice stages a price change on a request copy. It never touches a
// resident order; the book applies it through cancel-and-reinsert.
func (o *TradeOrder) SetNewPrice(price uint64) bool {
	if price == 0 {
		return false
	}
	o.Price = price
	return true
}

// SetNewSize stages a size change on a request copy. The new size may never
// drop below the cumulative fill.
func (o *TradeOrder) SetNewSize(size uint64) bool {
	if size == 0 || size < o.Filled {
		return false
	}
	o.Size = size
	return true
}

// Next returns the order behind this one in its bucket's FIFO list.
func (o *TradeOrder) NextInBucket() *TradeOrder {
	return o.next
}

// clone returns a detached copy with no list membership.
func (o *TradeOrder) clone() *TradeOrder {
	c := *o
	c.next = nil
	c.prev = nil
	return &c
}
