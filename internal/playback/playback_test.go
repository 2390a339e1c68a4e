package playback

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/schema"
)

func testRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	reg := schema.NewRegistry()
	require.NoError(t, reg.AddSymbol(schema.InstrumentSymbol{
		ID: 1, Name: "EUR/USD", Type: schema.InstrumentCurrencyPair,
		PriceScale: 2, SizeScale: 0,
	}))
	require.NoError(t, reg.AddSymbol(schema.InstrumentSymbol{
		ID: 7, Name: "AAPL", Type: schema.InstrumentShare,
		PriceScale: 0, SizeScale: 0,
	}))
	return reg
}

func writePlayback(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(rows, "\n")+"\n"), 0o644))
	return path
}

func row(tradeN int, symbolID uint32, side schema.Side, price, size string) string {
	return fmt.Sprintf("trade-%030d,user--%030d,%d,%d,%d,%d,0,%s,%s,1700000000",
		tradeN, tradeN, symbolID, schema.OrderTypeGTC, side, schema.RequestPlace, price, size)
}

func TestCSVProducer(t *testing.T) {
	path := writePlayback(t,
		row(1, 1, schema.SideBid, "101.25", "5"),
		row(2, 1, schema.SideAsk, "101.30", "3"),
	)

	p, err := NewCSVProducer(path, testRegistry(t))
	require.NoError(t, err)
	assert.Equal(t, 2, p.Len())

	first, ok := p.Next()
	require.True(t, ok)
	assert.Equal(t, uint64(10125), first.Price, "price scales by the symbol's price scale")
	assert.Equal(t, uint64(5), first.Size)
	assert.Equal(t, schema.SideBid, first.Side)
	assert.Equal(t, uint32(1700000000), first.Timestamp)
	assert.Equal(t, schema.OutcomeNotProcessed, first.Outcome)

	second, ok := p.Next()
	require.True(t, ok)
	assert.Equal(t, uint64(10130), second.Price)

	// Exhausting the capture wraps back to the first row.
	wrapped, ok := p.Next()
	require.True(t, ok)
	assert.Equal(t, first.TradeID, wrapped.TradeID)
	assert.NotSame(t, first, wrapped, "each emission must be an independent copy")
}

func TestCSVProducerRejectsBadRows(t *testing.T) {
	reg := testRegistry(t)
	testCases := []struct {
		desc string
		row  string
	}{
		{"short trade id", "abc," + strings.Repeat("u", 36) + ",1,1,1,1,0,100,5,1700000000"},
		{"unknown symbol", row(1, 42, schema.SideBid, "100", "5")},
		{"bad price", row(1, 1, schema.SideBid, "abc", "5")},
		{"too many decimals", row(1, 1, schema.SideBid, "100.123", "5")},
		{"negative size", row(1, 1, schema.SideBid, "100", "-5")},
		{"missing fields", "a,b,c"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := NewCSVProducer(writePlayback(t, tc.row), reg)
			assert.Error(t, err)
		})
	}
}

func TestCSVProducerEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	_, err := NewCSVProducer(path, testRegistry(t))
	assert.Error(t, err)

	_, err = NewCSVProducer(filepath.Join(t.TempDir(), "missing.csv"), testRegistry(t))
	assert.Error(t, err)
}

func TestSyntheticProducer(t *testing.T) {
	p := NewSyntheticProducer(testRegistry(t), 1)

	seenSymbols := make(map[uint32]bool)
	for i := 0; i < 10; i++ {
		o, ok := p.Next()
		require.True(t, ok)
		assert.Equal(t, schema.OrderTypeGTC, o.Type)
		assert.Equal(t, schema.RequestPlace, o.Request)
		assert.NotZero(t, o.Size)
		assert.NotZero(t, o.Price)
		if i%2 == 0 {
			assert.Equal(t, schema.SideBid, o.Side)
		} else {
			assert.Equal(t, schema.SideAsk, o.Side)
		}
		seenSymbols[o.SymbolID] = true
	}
	assert.Len(t, seenSymbols, 2, "generation round-robins the symbol universe")
}

func TestSyntheticProducerEmptyRegistry(t *testing.T) {
	p := NewSyntheticProducer(schema.NewRegistry(), 1)
	_, ok := p.Next()
	assert.False(t, ok)
}

func TestSyntheticProducerDeterministic(t *testing.T) {
	a := NewSyntheticProducer(testRegistry(t), 42)
	b := NewSyntheticProducer(testRegistry(t), 42)
	for i := 0; i < 5; i++ {
		oa, _ := a.Next()
		ob, _ := b.Next()
		if oa.Price != ob.Price || oa.Size != ob.Size {
			t.Fatalf("same seed should generate the same series at step %d", i)
		}
	}
}
