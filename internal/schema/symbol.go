package schema

// InstrumentType is the category of a tradable instrument. Each type gets
// its own matchmaker worker.
type InstrumentType int32

const (
	InstrumentCurrencyPair InstrumentType = iota
	InstrumentFuturesContract
	InstrumentOption
	InstrumentShare

	instrumentFirst = InstrumentCurrencyPair
	instrumentLast  = InstrumentShare
)

// ValidInstrumentType reports whether v names a supported instrument type.
func ValidInstrumentType(v int32) bool {
	return InstrumentType(v) >= instrumentFirst && InstrumentType(v) <= instrumentLast
}

// InstrumentTypes lists every supported instrument type.
func InstrumentTypes() []InstrumentType {
	types := make([]InstrumentType, 0, int(instrumentLast-instrumentFirst)+1)
	for t := instrumentFirst; t <= instrumentLast; t++ {
		types = append(types, t)
	}
	return types
}

func (t InstrumentType) String() string {
	switch t {
	case InstrumentCurrencyPair:
		return "CURRENCY_PAIR"
	case InstrumentFuturesContract:
		return "FUTURES_CONTRACT"
	case InstrumentOption:
		return "OPTION"
	case InstrumentShare:
		return "SHARE"
	default:
		return "UNKNOWN"
	}
}

// Scale is the number of decimal places carried by a scaled integer.
// Example: Scale=2 means the integer value is scaled by 1e2.
type Scale int32

// InstrumentSymbol describes one tradable symbol. Read-only after
// registration; safe to share across workers.
type InstrumentSymbol struct {
	ID              uint32
	Name            string
	Type            InstrumentType
	BaseCurrency    int32
	QuoteCurrency   int32
	BaseMultiplierK int32
	QuoteMultiplierK int32
	MakerFee        int32
	PriceScale      Scale
	SizeScale       Scale
}
