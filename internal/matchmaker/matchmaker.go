package matchmaker

import (
	"github.com/yanun0323/logs"

	"main/internal/book"
	"main/internal/schema"
)

// InstrumentMatchmaker owns one order book per registered symbol of a
// single instrument type and routes incoming requests to the right book.
type InstrumentMatchmaker struct {
	instrumentType schema.InstrumentType
	symbols        map[uint32]*schema.InstrumentSymbol
	books          map[uint32]*book.OrderBook
}

// NewInstrumentMatchmaker creates an empty matchmaker for one instrument type.
func NewInstrumentMatchmaker(t schema.InstrumentType) *InstrumentMatchmaker {
	return &InstrumentMatchmaker{
		instrumentType: t,
		symbols:        make(map[uint32]*schema.InstrumentSymbol),
		books:          make(map[uint32]*book.OrderBook),
	}
}

// Type returns the instrument type this matchmaker serves.
func (m *InstrumentMatchmaker) Type() schema.InstrumentType {
	return m.instrumentType
}

// AddSymbol registers a symbol and creates its order book. Symbols of a
// different instrument type and duplicate ids are rejected.
func (m *InstrumentMatchmaker) AddSymbol(sym *schema.InstrumentSymbol) bool {
	if sym == nil || sym.Type != m.instrumentType {
		logs.Warnf("matchmaker %s cannot add symbol with different instrument type", m.instrumentType)
		return false
	}
	if _, ok := m.symbols[sym.ID]; ok {
		return false
	}
	m.symbols[sym.ID] = sym
	m.books[sym.ID] = book.NewOrderBook(sym)
	return true
}

// Symbol returns a registered symbol by id.
func (m *InstrumentMatchmaker) Symbol(id uint32) (*schema.InstrumentSymbol, bool) {
	sym, ok := m.symbols[id]
	return sym, ok
}

// NumOrderBooks returns the number of books managed by this matchmaker.
func (m *InstrumentMatchmaker) NumOrderBooks() int {
	return len(m.books)
}

// Book returns the order book for a symbol id.
func (m *InstrumentMatchmaker) Book(symbolID uint32) (*book.OrderBook, bool) {
	b, ok := m.books[symbolID]
	return b, ok
}

// ConsumeOrder routes one request to the book for its symbol id.
func (m *InstrumentMatchmaker) ConsumeOrder(o *book.TradeOrder, events *[]book.TradeEvent) schema.Outcome {
	b, ok := m.books[o.SymbolID]
	if !ok {
		logs.Warnf("matchmaker %s received order for unknown symbol id: %d", m.instrumentType, o.SymbolID)
		return schema.OutcomeFail
	}
	return b.Consume(o, events)
}
