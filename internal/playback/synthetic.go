package playback

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"main/internal/book"
	"main/internal/schema"
)

// SyntheticProducer fabricates an endless stream of GTC place orders,
// alternating sides around a fixed mid price. It stands in for a real
// capture when no playback file is configured.
type SyntheticProducer struct {
	symbols []*schema.InstrumentSymbol
	rng     *rand.Rand
	seq     uint64
}

const (
	syntheticMidPrice    = 10_000
	syntheticPriceSpread = 50
	syntheticMaxSize     = 20
)

// NewSyntheticProducer generates orders over every symbol in the
// registry, round-robin.
func NewSyntheticProducer(reg *schema.Registry, seed int64) *SyntheticProducer {
	var symbols []*schema.InstrumentSymbol
	for _, t := range schema.InstrumentTypes() {
		symbols = append(symbols, reg.SymbolsByType(t)...)
	}
	return &SyntheticProducer{
		symbols: symbols,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Next fabricates one order. Trade and user ids are fresh UUIDs, which
// are exactly the 36 bytes the id field holds.
func (p *SyntheticProducer) Next() (*book.TradeOrder, bool) {
	if len(p.symbols) == 0 {
		return nil, false
	}
	sym := p.symbols[p.seq%uint64(len(p.symbols))]
	side := schema.SideBid
	if p.seq%2 == 1 {
		side = schema.SideAsk
	}
	p.seq++

	tradeID, _ := schema.IDFromString(uuid.NewString())
	userID, _ := schema.IDFromString(uuid.NewString())
	price := uint64(syntheticMidPrice - syntheticPriceSpread + p.rng.Int63n(2*syntheticPriceSpread+1))
	size := uint64(1 + p.rng.Int63n(syntheticMaxSize))

	o := book.NewTradeOrder(
		tradeID, userID, sym.ID,
		schema.OrderTypeGTC, side, schema.RequestPlace,
		price, size, uint32(time.Now().Unix()),
	)
	return o, true
}
