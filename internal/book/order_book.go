package book

import (
	"github.com/google/btree"

	"main/internal/schema"
)

const bucketTreeDegree = 16

// OrderBook is the per-symbol continuous double auction. It owns two
// price-ordered bucket collections (bids walked from the maximum, asks
// from the minimum) and a flat index of resident orders by trade id.
// Single-writer: all lifecycle calls for one symbol must come from the
// same worker.
type OrderBook struct {
	symbol *schema.InstrumentSymbol
	bids   *btree.BTreeG[*PriceBucket]
	asks   *btree.BTreeG[*PriceBucket]
	orders map[schema.ID]*TradeOrder
}

// NewOrderBook creates an empty book for one symbol.
func NewOrderBook(symbol *schema.InstrumentSymbol) *OrderBook {
	less := func(a, b *PriceBucket) bool { return a.price < b.price }
	return &OrderBook{
		symbol: symbol,
		bids:   btree.NewG(bucketTreeDegree, less),
		asks:   btree.NewG(bucketTreeDegree, less),
		orders: make(map[schema.ID]*TradeOrder),
	}
}

// Symbol returns the instrument this book trades.
func (ob *OrderBook) Symbol() *schema.InstrumentSymbol {
	return ob.symbol
}

// Consume dispatches one request to its lifecycle handler and stamps the
// outcome onto the request before returning it.
func (ob *OrderBook) Consume(o *TradeOrder, events *[]TradeEvent) schema.Outcome {
	var outcome schema.Outcome
	switch o.Request {
	case schema.RequestPlace:
		outcome = ob.ProcessNewOrder(o, events)
	case schema.RequestCancel:
		outcome = ob.CancelOrder(o, events)
	case schema.RequestAlterPrice:
		outcome = ob.AlterOrderPrice(o, events)
	case schema.RequestAlterSize:
		outcome = ob.AlterOrderSize(o, events)
	default:
		outcome = schema.OutcomeInvalidRequestType
	}
	o.Outcome = outcome
	return outcome
}

// ProcessNewOrder matches an incoming PLACE against the counter side and,
// for resting order types, inserts the residual into the book.
func (ob *OrderBook) ProcessNewOrder(o *TradeOrder, events *[]TradeEvent) schema.Outcome {
	if o.SymbolID != ob.symbol.ID || o.Size == 0 {
		return schema.OutcomeInvalidSymbolOrSize
	}
	if _, exists := ob.orders[o.TradeID]; exists {
		return schema.OutcomeOrderIDAlreadyPlaced
	}
	counter := o.Side.Counter()
	if counter == schema.SideUnknown {
		return schema.OutcomeInvalidSymbolOrSize
	}
	iter := newBucketIterator(ob.sideTree(counter), counter, o.Price)

	switch o.Type {
	case schema.OrderTypeGTC:
		outcome := ob.walkAndFulfill(o, iter, counter, events)
		if outcome == schema.OutcomeOrderCompletelyFilled {
			return outcome
		}
		if !ob.insertResident(o) {
			return schema.OutcomeOrderPartiallyFilledInsertionError
		}
		return outcome
	case schema.OrderTypeIOC, schema.OrderTypeIOCBudget:
		return ob.walkAndFulfill(o, iter, counter, events)
	case schema.OrderTypeFOK, schema.OrderTypeFOKBudget:
		if iter.CrossableVolume() < o.Remaining() {
			return schema.OutcomeInsufficientLiquidity
		}
		return ob.walkAndFulfill(o, iter, counter, events)
	default:
		return schema.OutcomeFail
	}
}

// walkAndFulfill drains candidate counter buckets in price priority until
// the order completes or liquidity runs out, pruning emptied buckets.
func (ob *OrderBook) walkAndFulfill(o *TradeOrder, iter *BucketIterator, counter schema.Side, events *[]TradeEvent) schema.Outcome {
	for iter.Valid() {
		bucket := iter.Bucket()
		mark := len(*events)
		bucket.Fulfill(o, events)
		ob.dropFilledResidents((*events)[mark:], counter)
		if bucket.Len() == 0 {
			ob.sideTree(counter).Delete(bucket)
		}
		if o.Remaining() == 0 {
			return schema.OutcomeOrderCompletelyFilled
		}
		if !iter.Advance() {
			break
		}
	}
	if o.Filled == 0 {
		return schema.OutcomeOrderNotFilled
	}
	return schema.OutcomeOrderPartiallyFilled
}

// dropFilledResidents removes resting orders completed during a bucket
// walk from the flat index; the bucket already erased them from its list.
func (ob *OrderBook) dropFilledResidents(matched []TradeEvent, counter schema.Side) {
	for _, ev := range matched {
		restingID := ev.AskTradeID
		if counter == schema.SideBid {
			restingID = ev.BidTradeID
		}
		if resident, ok := ob.orders[restingID]; ok && resident.Remaining() == 0 {
			delete(ob.orders, restingID)
		}
	}
}

// insertResident stores the book's own copy of the residual order in its
// side bucket and the flat index.
func (ob *OrderBook) insertResident(o *TradeOrder) bool {
	resident := o.clone()
	tree := ob.sideTree(resident.Side)
	bucket, created := ob.getOrCreateBucket(tree, resident.Side, resident.Price)
	if !bucket.Insert(resident) {
		if created {
			tree.Delete(bucket)
		}
		return false
	}
	ob.orders[resident.TradeID] = resident
	return true
}

// CancelOrder removes a resting order owned by the requesting user.
func (ob *OrderBook) CancelOrder(o *TradeOrder, _ *[]TradeEvent) schema.Outcome {
	resident, ok := ob.orders[o.TradeID]
	if !ok {
		return schema.OutcomeOrderIDNonExistent
	}
	if resident.UserID != o.UserID {
		return schema.OutcomeNonUserAccessToOrder
	}
	if !ob.removeResident(resident) {
		return schema.OutcomeOrderExistsCancelError
	}
	return schema.OutcomeOrderCancelSuccess
}

// AlterOrderSize adjusts a resting order's requested size in place; the
// order keeps its queue position.
func (ob *OrderBook) AlterOrderSize(o *TradeOrder, _ *[]TradeEvent) schema.Outcome {
	resident, ok := ob.orders[o.TradeID]
	if !ok {
		return schema.OutcomeOrderIDNonExistent
	}
	if resident.UserID != o.UserID {
		return schema.OutcomeNonUserAccessToOrder
	}
	if o.Size == 0 || o.Size == resident.Filled {
		// Degenerate to a cancel; left to the caller to request explicitly.
		return schema.OutcomeNotProcessed
	}
	bucket := ob.bucketAt(resident.Side, resident.Price)
	if bucket == nil {
		return schema.OutcomeOrderExistsSizeChangeError
	}
	if !bucket.AlterSize(resident.TradeID, o.Size) {
		return schema.OutcomeFail
	}
	return schema.OutcomeSuccess
}

// AlterOrderPrice cancels the resident order and resubmits it at the new
// price under the same trade id, so it re-enters matching and may execute
// immediately.
func (ob *OrderBook) AlterOrderPrice(o *TradeOrder, events *[]TradeEvent) schema.Outcome {
	resident, ok := ob.orders[o.TradeID]
	if !ok {
		return schema.OutcomeOrderIDNonExistent
	}
	if resident.UserID != o.UserID {
		return schema.OutcomeNonUserAccessToOrder
	}
	if o.Price == resident.Price {
		return schema.OutcomeNotProcessed
	}
	if o.Price == 0 {
		return schema.OutcomeFail
	}
	replacement := resident.clone()
	if !ob.removeResident(resident) {
		return schema.OutcomeOrderExistsPriceChangeError
	}
	replacement.SetNewPrice(o.Price)
	replacement.Request = schema.RequestPlace
	return ob.ProcessNewOrder(replacement, events)
}

// removeResident erases the order from its bucket (pruning the bucket if
// emptied) and drops it from the flat index.
func (ob *OrderBook) removeResident(resident *TradeOrder) bool {
	tree := ob.sideTree(resident.Side)
	bucket := ob.bucketAt(resident.Side, resident.Price)
	if bucket == nil || !bucket.Erase(resident) {
		return false
	}
	if bucket.Len() == 0 {
		tree.Delete(bucket)
	}
	delete(ob.orders, resident.TradeID)
	return true
}

// DoesTradeExist reports whether the trade id is resident in this book.
func (ob *OrderBook) DoesTradeExist(tradeID schema.ID) bool {
	_, ok := ob.orders[tradeID]
	return ok
}

// FindTradeOrder returns the resident order for a trade id.
func (ob *OrderBook) FindTradeOrder(tradeID schema.ID) (*TradeOrder, schema.Outcome) {
	resident, ok := ob.orders[tradeID]
	if !ok {
		return nil, schema.OutcomeOrderIDNonExistent
	}
	return resident, schema.OutcomeSuccess
}

// CandidateBuckets returns a price-priority iterator over the given side's
// buckets that can trade against the limit price.
func (ob *OrderBook) CandidateBuckets(limitPrice uint64, counter schema.Side) *BucketIterator {
	return newBucketIterator(ob.sideTree(counter), counter, limitPrice)
}

// CreatePriceBucket adds an empty bucket at a price point. Matching
// creates buckets lazily on insertion; this exists for direct book
// manipulation in tests and tooling.
func (ob *OrderBook) CreatePriceBucket(price uint64, side schema.Side) bool {
	tree := ob.sideTree(side)
	if tree == nil {
		return false
	}
	probe := &PriceBucket{price: price}
	if _, ok := tree.Get(probe); ok {
		return false
	}
	tree.ReplaceOrInsert(NewPriceBucket(side, ob.symbol.ID, price))
	return true
}

// NumBuckets returns the number of price levels on one side.
func (ob *OrderBook) NumBuckets(side schema.Side) int {
	tree := ob.sideTree(side)
	if tree == nil {
		return 0
	}
	return tree.Len()
}

// VolumeAtPrice returns the resting volume at an exact price level.
func (ob *OrderBook) VolumeAtPrice(price uint64, side schema.Side) uint64 {
	bucket := ob.bucketAt(side, price)
	if bucket == nil {
		return 0
	}
	return bucket.TotalVolume()
}

// NumOrdersAtPrice returns the resting order count at an exact price level.
func (ob *OrderBook) NumOrdersAtPrice(price uint64, side schema.Side) int {
	bucket := ob.bucketAt(side, price)
	if bucket == nil {
		return 0
	}
	return bucket.Len()
}

func (ob *OrderBook) sideTree(side schema.Side) *btree.BTreeG[*PriceBucket] {
	switch side {
	case schema.SideBid:
		return ob.bids
	case schema.SideAsk:
		return ob.asks
	default:
		return nil
	}
}

func (ob *OrderBook) bucketAt(side schema.Side, price uint64) *PriceBucket {
	tree := ob.sideTree(side)
	if tree == nil {
		return nil
	}
	if bucket, ok := tree.Get(&PriceBucket{price: price}); ok {
		return bucket
	}
	return nil
}

func (ob *OrderBook) getOrCreateBucket(tree *btree.BTreeG[*PriceBucket], side schema.Side, price uint64) (*PriceBucket, bool) {
	if bucket, ok := tree.Get(&PriceBucket{price: price}); ok {
		return bucket, false
	}
	bucket := NewPriceBucket(side, ob.symbol.ID, price)
	tree.ReplaceOrInsert(bucket)
	return bucket, true
}
