package tape

import (
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"main/internal/book"
	"main/pkg/conn"
)

// tradeRow is the persisted form of a TradeEvent.
type tradeRow struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	BidTradeID string `gorm:"size:36;index"`
	AskTradeID string `gorm:"size:36;index"`
	SymbolID   uint32 `gorm:"index"`
	Price      uint64
	Size       uint64
	Timestamp  uint32
	RecordedAt time.Time `gorm:"autoCreateTime"`
}

func (tradeRow) TableName() string { return "trade_events" }

// Writer records trade events to PostgreSQL. Appends buffer in memory
// and flush once the batch size is reached, so the matching hot path
// pays one insert per batch rather than per trade. Safe for use from
// multiple workers.
type Writer struct {
	db        *gorm.DB
	batchSize int

	mu      sync.Mutex
	pending []tradeRow
}

// NewWriter connects to the tape database and ensures the table exists.
func NewWriter(dsn string, batchSize int) (*Writer, error) {
	db, err := conn.OpenPostgres(conn.Option{DSN: dsn})
	if err != nil {
		return nil, fmt.Errorf("connect tape store: %w", err)
	}
	if err := db.AutoMigrate(&tradeRow{}); err != nil {
		_ = conn.ClosePostgres(db)
		return nil, fmt.Errorf("migrate tape store: %w", err)
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Writer{
		db:        db,
		batchSize: batchSize,
		pending:   make([]tradeRow, 0, batchSize),
	}, nil
}

// Append buffers events and flushes full batches.
func (w *Writer) Append(events []book.TradeEvent) error {
	if len(events) == 0 {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, ev := range events {
		w.pending = append(w.pending, tradeRow{
			BidTradeID: ev.BidTradeID.String(),
			AskTradeID: ev.AskTradeID.String(),
			SymbolID:   ev.SymbolID,
			Price:      ev.Price,
			Size:       ev.Size,
			Timestamp:  ev.Timestamp,
		})
	}
	if len(w.pending) < w.batchSize {
		return nil
	}
	return w.flushLocked()
}

// Flush writes any buffered events immediately.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flushLocked()
}

// Close flushes the buffer and releases the connection pool.
func (w *Writer) Close() error {
	flushErr := w.Flush()
	closeErr := conn.ClosePostgres(w.db)
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

func (w *Writer) flushLocked() error {
	if len(w.pending) == 0 {
		return nil
	}
	if err := w.db.Create(&w.pending).Error; err != nil {
		return fmt.Errorf("write trade events: %w", err)
	}
	w.pending = w.pending[:0]
	return nil
}
