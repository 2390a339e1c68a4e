package playback

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"

	"main/internal/book"
	"main/internal/schema"
)

// Producer yields TradeOrder values for the engine to consume.
type Producer interface {
	// Next returns a fresh order. The boolean is false only when the
	// producer is exhausted and cannot wrap around.
	Next() (*book.TradeOrder, bool)
}

// CSVProducer replays orders from a CSV capture. The stream is cyclic:
// when the last row is emitted the producer wraps back to the first,
// so a finite capture drives an indefinite run.
type CSVProducer struct {
	orders []book.TradeOrder
	pos    int
}

// Row layout:
//
//	trade_id,user_id,symbol_id,order_type,side,request_type,outcome,price,size,timestamp
//
// price and size are decimal strings scaled to integers using the
// symbol's price and size scales.
const playbackFields = 10

// NewCSVProducer loads and validates every row up front. Any malformed
// row is a hard error since a bad capture poisons the whole replay.
func NewCSVProducer(path string, reg *schema.Registry) (*CSVProducer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open playback file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = playbackFields
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read playback file: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("playback file is empty: %s", path)
	}

	orders := make([]book.TradeOrder, 0, len(rows))
	for i, row := range rows {
		o, err := parseRow(row, reg)
		if err != nil {
			return nil, fmt.Errorf("playback row %d: %w", i+1, err)
		}
		orders = append(orders, o)
	}
	return &CSVProducer{orders: orders}, nil
}

// Len reports the number of loaded rows.
func (p *CSVProducer) Len() int { return len(p.orders) }

// Next returns a copy of the next order. The book mutates orders it
// consumes, so each emission must be an independent value.
func (p *CSVProducer) Next() (*book.TradeOrder, bool) {
	if len(p.orders) == 0 {
		return nil, false
	}
	o := p.orders[p.pos]
	p.pos++
	if p.pos == len(p.orders) {
		p.pos = 0
	}
	return &o, true
}

func parseRow(row []string, reg *schema.Registry) (book.TradeOrder, error) {
	var o book.TradeOrder

	tradeID, err := schema.IDFromString(row[0])
	if err != nil {
		return o, fmt.Errorf("trade_id: %w", err)
	}
	userID, err := schema.IDFromString(row[1])
	if err != nil {
		return o, fmt.Errorf("user_id: %w", err)
	}
	symbolID, err := strconv.ParseUint(row[2], 10, 32)
	if err != nil {
		return o, fmt.Errorf("symbol_id: %w", err)
	}
	sym, ok := reg.Symbol(uint32(symbolID))
	if !ok {
		return o, fmt.Errorf("unknown symbol id %d", symbolID)
	}
	orderType, err := strconv.ParseUint(row[3], 10, 16)
	if err != nil {
		return o, fmt.Errorf("order_type: %w", err)
	}
	side, err := strconv.ParseUint(row[4], 10, 16)
	if err != nil {
		return o, fmt.Errorf("side: %w", err)
	}
	request, err := strconv.ParseUint(row[5], 10, 16)
	if err != nil {
		return o, fmt.Errorf("request_type: %w", err)
	}
	// Field 6 is the outcome of the captured run. Replays always start
	// from NOT_PROCESSED, so the value is read only to keep the layout.
	if _, err := strconv.ParseUint(row[6], 10, 16); err != nil {
		return o, fmt.Errorf("outcome: %w", err)
	}
	price, err := scaledInt(row[7], sym.PriceScale)
	if err != nil {
		return o, fmt.Errorf("price: %w", err)
	}
	size, err := scaledInt(row[8], sym.SizeScale)
	if err != nil {
		return o, fmt.Errorf("size: %w", err)
	}
	timestamp, err := strconv.ParseUint(row[9], 10, 32)
	if err != nil {
		return o, fmt.Errorf("timestamp: %w", err)
	}

	o = *book.NewTradeOrder(
		tradeID, userID, uint32(symbolID),
		schema.OrderType(orderType), schema.Side(side), schema.RequestType(request),
		price, size, uint32(timestamp),
	)
	return o, nil
}

// scaledInt converts a decimal string to the integer representation at
// the given scale, e.g. "101.25" at scale 2 becomes 10125.
func scaledInt(s string, scale schema.Scale) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	shifted := d.Shift(int32(scale))
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("value %s has more than %d decimal places", s, scale)
	}
	if shifted.IsNegative() {
		return 0, fmt.Errorf("value %s is negative", s)
	}
	return uint64(shifted.IntPart()), nil
}
