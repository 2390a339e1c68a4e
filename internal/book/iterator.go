package book

import (
	"github.com/google/btree"

	"main/internal/schema"
)

// BucketIterator walks one side's price buckets in strict price priority,
// presenting only levels that can legally trade against the given limit
// price. For a BID counter side it starts at the highest bid not below the
// limit and walks down; for an ASK counter side it starts at the lowest
// ask not above the limit and walks up. Once invalid it never becomes
// valid again. The iterator never mutates the buckets themselves.
type BucketIterator struct {
	buckets []*PriceBucket
	pos     int
}

func newBucketIterator(side *btree.BTreeG[*PriceBucket], counter schema.Side, limitPrice uint64) *BucketIterator {
	it := &BucketIterator{}
	if side == nil {
		return it
	}
	switch counter {
	case schema.SideBid:
		side.Descend(func(b *PriceBucket) bool {
			if b.price < limitPrice {
				return false
			}
			it.buckets = append(it.buckets, b)
			return true
		})
	case schema.SideAsk:
		side.Ascend(func(b *PriceBucket) bool {
			if b.price > limitPrice {
				return false
			}
			it.buckets = append(it.buckets, b)
			return true
		})
	}
	return it
}

// Valid reports whether the cursor points at a candidate bucket.
func (it *BucketIterator) Valid() bool {
	return it.pos < len(it.buckets)
}

// Price returns the current bucket's price. Only meaningful while Valid.
func (it *BucketIterator) Price() uint64 {
	return it.buckets[it.pos].price
}

// Bucket returns the current bucket for mutation by the matching loop.
func (it *BucketIterator) Bucket() *PriceBucket {
	return it.buckets[it.pos]
}

// Advance moves to the next most competitive price and reports whether the
// new position is still valid.
func (it *BucketIterator) Advance() bool {
	if it.pos < len(it.buckets) {
		it.pos++
	}
	return it.Valid()
}

// CrossableVolume sums the resting volume over every remaining candidate
// level, for all-or-nothing liquidity checks.
func (it *BucketIterator) CrossableVolume() uint64 {
	var total uint64
	for i := it.pos; i < len(it.buckets); i++ {
		total += it.buckets[i].totalVolume
	}
	return total
}
