package ops

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/yanun0323/logs"

	"main/internal/schema"
)

// FileConfig mirrors the JSON config layout: instrument_types maps an
// instrument-type id to the symbol ids it trades, and symbols maps a
// symbol id to its metadata.
type FileConfig struct {
	InstrumentTypes map[string][]uint32     `json:"instrument_types"`
	Symbols         map[string]SymbolConfig `json:"symbols"`
	QueueCapacity   int                     `json:"queue_capacity"`
	PlaybackPath    string                  `json:"playback_path"`
	PlaybackDelayMs int                     `json:"playback_delay_ms"`
	TapeDSN         string                  `json:"tape_dsn"`
	TapeBatchSize   int                     `json:"tape_batch_size"`
}

// SymbolConfig describes one symbol entry.
type SymbolConfig struct {
	InstrumentName   string `json:"instrument_name"`
	InstrumentType   int32  `json:"instrument_type"`
	BaseCurrency     int32  `json:"base_currency"`
	QuoteCurrency    int32  `json:"quote_currency"`
	BaseMultiplierK  int32  `json:"base_multiplier_k"`
	QuoteMultiplierK int32  `json:"quote_multiplier_k"`
	MakerFee         int32  `json:"maker_fee"`
	PriceScale       int32  `json:"price_scale"`
	SizeScale        int32  `json:"size_scale"`
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	Registry      *schema.Registry
	QueueCapacity int
	PlaybackPath  string
	PlaybackDelay time.Duration
	TapeDSN       string
	TapeBatchSize int
}

const (
	defaultQueueCapacity = 1024
	defaultTapeBatch     = 64
)

// Load reads and resolves a JSON config file.
func Load(path string) (Loaded, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, fmt.Errorf("read config: %w", err)
	}
	var file FileConfig
	if err := json.Unmarshal(raw, &file); err != nil {
		return Loaded{}, fmt.Errorf("parse config: %w", err)
	}
	return Resolve(file)
}

// Resolve validates the file config and builds the symbol registry.
// Malformed symbol entries are skipped with a warning, matching the
// forgiving bootstrap of the config walk; an empty result is an error.
func Resolve(file FileConfig) (Loaded, error) {
	if len(file.InstrumentTypes) == 0 || len(file.Symbols) == 0 {
		return Loaded{}, fmt.Errorf("config must define instrument_types and symbols")
	}
	reg := schema.NewRegistry()
	for typeKey, symbolIDs := range file.InstrumentTypes {
		typeID, err := strconv.ParseInt(typeKey, 10, 32)
		if err != nil || !schema.ValidInstrumentType(int32(typeID)) {
			logs.Warnf("unsupported instrument type key: %q", typeKey)
			continue
		}
		instrumentType := schema.InstrumentType(typeID)
		for _, symbolID := range symbolIDs {
			symKey := strconv.FormatUint(uint64(symbolID), 10)
			symCfg, ok := file.Symbols[symKey]
			if !ok {
				logs.Warnf("symbol id not found (skipping): %s", symKey)
				continue
			}
			if symCfg.InstrumentName == "" {
				logs.Warnf("symbol id missing instrument_name (skipping): %s", symKey)
				continue
			}
			if symCfg.InstrumentType != int32(instrumentType) {
				logs.Warnf("symbol %s declares type %d but is listed under %s (skipping)",
					symKey, symCfg.InstrumentType, instrumentType)
				continue
			}
			err := reg.AddSymbol(schema.InstrumentSymbol{
				ID:               symbolID,
				Name:             symCfg.InstrumentName,
				Type:             instrumentType,
				BaseCurrency:     symCfg.BaseCurrency,
				QuoteCurrency:    symCfg.QuoteCurrency,
				BaseMultiplierK:  symCfg.BaseMultiplierK,
				QuoteMultiplierK: symCfg.QuoteMultiplierK,
				MakerFee:         symCfg.MakerFee,
				PriceScale:       schema.Scale(symCfg.PriceScale),
				SizeScale:        schema.Scale(symCfg.SizeScale),
			})
			if err != nil {
				logs.Warnf("unable to add symbol %s: %v", symKey, err)
			}
		}
	}
	if reg.SymbolCount() == 0 {
		return Loaded{}, fmt.Errorf("config produced no usable symbols")
	}

	loaded := Loaded{
		Registry:      reg,
		QueueCapacity: file.QueueCapacity,
		PlaybackPath:  file.PlaybackPath,
		PlaybackDelay: time.Duration(file.PlaybackDelayMs) * time.Millisecond,
		TapeDSN:       file.TapeDSN,
		TapeBatchSize: file.TapeBatchSize,
	}
	if loaded.QueueCapacity <= 0 {
		loaded.QueueCapacity = defaultQueueCapacity
	}
	if loaded.TapeBatchSize <= 0 {
		loaded.TapeBatchSize = defaultTapeBatch
	}
	return loaded, nil
}
