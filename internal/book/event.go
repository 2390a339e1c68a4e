package book

import (
	"time"

	"main/internal/schema"
)

// TradeEvent is the immutable record of one match between a bid and an
// ask. The execution price is the resting bucket's price, so price
// improvement always favors the resting side.
type TradeEvent struct {
	BidTradeID schema.ID
	AskTradeID schema.ID
	SymbolID   uint32
	Price      uint64
	Size       uint64
	Timestamp  uint32
}

func newTradeEvent(bidTradeID, askTradeID schema.ID, symbolID uint32, price, size uint64) TradeEvent {
	return TradeEvent{
		BidTradeID: bidTradeID,
		AskTradeID: askTradeID,
		SymbolID:   symbolID,
		Price:      price,
		Size:       size,
		Timestamp:  uint32(time.Now().Unix()),
	}
}
