package book

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/schema"
)

const testSymbolID uint32 = 7

func tid(n int) schema.ID {
	id, err := schema.IDFromString(fmt.Sprintf("trade-%030d", n))
	if err != nil {
		panic(err)
	}
	return id
}

func uid(n int) schema.ID {
	id, err := schema.IDFromString(fmt.Sprintf("user--%030d", n))
	if err != nil {
		panic(err)
	}
	return id
}

func gtc(n int, side schema.Side, price, size uint64) *TradeOrder {
	return NewTradeOrder(tid(n), uid(n), testSymbolID, schema.OrderTypeGTC, side, schema.RequestPlace, price, size, uint32(n))
}

func TestBucketInsert(t *testing.T) {
	b := NewPriceBucket(schema.SideBid, testSymbolID, 100)

	first := gtc(1, schema.SideBid, 100, 1)
	second := gtc(2, schema.SideBid, 100, 2)
	third := gtc(3, schema.SideBid, 100, 3)
	require.True(t, b.Insert(first))
	require.True(t, b.Insert(second))
	require.True(t, b.Insert(third))

	assert.Equal(t, 3, b.Len())
	assert.Equal(t, uint64(6), b.TotalVolume())
	assert.Same(t, first, b.First())
	assert.Same(t, second, first.NextInBucket())
	assert.Same(t, third, second.NextInBucket())
	assert.True(t, b.Contains(tid(2)))

	assert.False(t, b.Insert(first), "duplicate trade id must be rejected")
	assert.False(t, b.Insert(gtc(4, schema.SideAsk, 100, 1)), "wrong side must be rejected")
	assert.False(t, b.Insert(gtc(5, schema.SideBid, 101, 1)), "wrong price must be rejected")
	assert.False(t, b.Insert(gtc(6, schema.SideBid, 100, 0)), "zero size must be rejected")
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, uint64(6), b.TotalVolume())
}

func TestBucketErase(t *testing.T) {
	b := NewPriceBucket(schema.SideAsk, testSymbolID, 250)
	orders := make([]*TradeOrder, 4)
	for i := range orders {
		orders[i] = gtc(i+1, schema.SideAsk, 250, uint64(i+1))
		require.True(t, b.Insert(orders[i]))
	}
	require.Equal(t, uint64(10), b.TotalVolume())

	// Middle.
	require.True(t, b.Erase(orders[1]))
	assert.Same(t, orders[2], orders[0].NextInBucket())
	assert.Nil(t, orders[1].NextInBucket())
	assert.Equal(t, uint64(8), b.TotalVolume())

	// Head.
	require.True(t, b.Erase(orders[0]))
	assert.Same(t, orders[2], b.First())
	assert.Equal(t, uint64(7), b.TotalVolume())

	// Tail.
	require.True(t, b.Erase(orders[3]))
	assert.Nil(t, orders[2].NextInBucket())
	assert.Equal(t, uint64(3), b.TotalVolume())

	// Last member.
	require.True(t, b.Erase(orders[2]))
	assert.Nil(t, b.First())
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, uint64(0), b.TotalVolume())

	assert.False(t, b.Erase(orders[2]), "erase of a non-member must fail")
}

func TestBucketAlterSize(t *testing.T) {
	b := NewPriceBucket(schema.SideBid, testSymbolID, 100)
	o := gtc(1, schema.SideBid, 100, 5)
	require.True(t, b.Insert(o))

	require.True(t, b.AlterSize(tid(1), 8))
	assert.Equal(t, uint64(8), o.Size)
	assert.Equal(t, uint64(8), b.TotalVolume())

	require.True(t, b.AlterSize(tid(1), 2))
	assert.Equal(t, uint64(2), b.TotalVolume())

	o.Filled = 2
	assert.False(t, b.AlterSize(tid(1), 1), "size below the fill must be rejected")
	assert.False(t, b.AlterSize(tid(1), 0))
	assert.False(t, b.AlterSize(tid(99), 4), "unknown trade id must be rejected")
}

func TestBucketFulfillFIFO(t *testing.T) {
	b := NewPriceBucket(schema.SideAsk, testSymbolID, 100)
	resting := []*TradeOrder{
		gtc(1, schema.SideAsk, 100, 1),
		gtc(2, schema.SideAsk, 100, 4),
		gtc(3, schema.SideAsk, 100, 7),
	}
	for _, o := range resting {
		require.True(t, b.Insert(o))
	}

	taker := NewTradeOrder(tid(10), uid(10), testSymbolID, schema.OrderTypeIOC, schema.SideBid, schema.RequestPlace, 100, 5, 10)
	var events []TradeEvent
	filled := b.Fulfill(taker, &events)

	assert.Equal(t, uint64(5), filled)
	require.Len(t, events, 2)
	assert.Equal(t, tid(1), events[0].AskTradeID)
	assert.Equal(t, tid(10), events[0].BidTradeID)
	assert.Equal(t, uint64(1), events[0].Size)
	assert.Equal(t, tid(2), events[1].AskTradeID)
	assert.Equal(t, uint64(4), events[1].Size)
	assert.Equal(t, uint64(100), events[0].Price)

	assert.Equal(t, schema.OutcomeSuccess, resting[0].Outcome)
	assert.Equal(t, schema.OutcomeSuccess, resting[1].Outcome)
	assert.Equal(t, 1, b.Len())
	assert.Same(t, resting[2], b.First())
	assert.Equal(t, uint64(7), b.TotalVolume())
}

func TestBucketFulfillPartialResting(t *testing.T) {
	b := NewPriceBucket(schema.SideBid, testSymbolID, 100)
	resting := gtc(1, schema.SideBid, 100, 10)
	require.True(t, b.Insert(resting))

	taker := NewTradeOrder(tid(2), uid(2), testSymbolID, schema.OrderTypeIOC, schema.SideAsk, schema.RequestPlace, 100, 4, 2)
	var events []TradeEvent
	filled := b.Fulfill(taker, &events)

	assert.Equal(t, uint64(4), filled)
	require.Len(t, events, 1)
	assert.Equal(t, tid(1), events[0].BidTradeID)
	assert.Equal(t, tid(2), events[0].AskTradeID)
	assert.Equal(t, uint64(6), resting.Remaining())
	assert.Equal(t, uint64(6), b.TotalVolume())
	assert.Equal(t, 1, b.Len(), "a partially filled resting order stays in the bucket")
}

func TestBucketFulfillNoCross(t *testing.T) {
	b := NewPriceBucket(schema.SideBid, testSymbolID, 90)
	require.True(t, b.Insert(gtc(1, schema.SideBid, 90, 5)))

	taker := NewTradeOrder(tid(2), uid(2), testSymbolID, schema.OrderTypeIOC, schema.SideAsk, schema.RequestPlace, 100, 5, 2)
	var events []TradeEvent
	filled := b.Fulfill(taker, &events)

	assert.Equal(t, uint64(0), filled)
	assert.Empty(t, events)
	assert.Equal(t, uint64(5), b.TotalVolume())

	// Same side never matches.
	sameSide := NewTradeOrder(tid(3), uid(3), testSymbolID, schema.OrderTypeIOC, schema.SideBid, schema.RequestPlace, 90, 5, 3)
	assert.Equal(t, uint64(0), b.Fulfill(sameSide, &events))
}

func TestBucketFulfillConservesVolume(t *testing.T) {
	b := NewPriceBucket(schema.SideAsk, testSymbolID, 100)
	var restingTotal uint64
	for i := 1; i <= 5; i++ {
		require.True(t, b.Insert(gtc(i, schema.SideAsk, 100, uint64(i*3))))
		restingTotal += uint64(i * 3)
	}

	taker := NewTradeOrder(tid(10), uid(10), testSymbolID, schema.OrderTypeIOC, schema.SideBid, schema.RequestPlace, 100, 11, 10)
	var events []TradeEvent
	b.Fulfill(taker, &events)

	var traded uint64
	for _, ev := range events {
		traded += ev.Size
	}
	assert.Equal(t, taker.Filled, traded, "event sizes must sum to the taker fill")
	assert.Equal(t, restingTotal, traded+b.TotalVolume(), "matched volume plus resting volume must equal the initial volume")
}
