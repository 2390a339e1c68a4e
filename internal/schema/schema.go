package schema

import "fmt"

// IDLength is the byte length of trade and user identifiers.
// Identifiers are opaque byte strings; the engine only compares and
// displays them (a 36-byte id happens to fit a canonical UUID string).
const IDLength = 36

// ID is an opaque trade or user identifier.
type ID [IDLength]byte

// IDFromString converts a string into an ID.
func IDFromString(s string) (ID, error) {
	var id ID
	if len(s) != IDLength {
		return id, fmt.Errorf("id must be exactly %d bytes, got %d", IDLength, len(s))
	}
	copy(id[:], s)
	return id, nil
}

func (id ID) String() string {
	return string(id[:])
}

// Side is the quotation side of an order.
type Side uint16

const (
	SideUnknown Side = iota
	SideBid
	SideAsk
)

// Counter returns the side an order of this side matches against.
func (s Side) Counter() Side {
	switch s {
	case SideBid:
		return SideAsk
	case SideAsk:
		return SideBid
	default:
		return SideUnknown
	}
}

func (s Side) String() string {
	switch s {
	case SideBid:
		return "BID"
	case SideAsk:
		return "ASK"
	default:
		return "UNKNOWN"
	}
}

// OrderType describes how an order interacts with resting liquidity.
type OrderType uint16

const (
	OrderTypeUnknown OrderType = iota
	OrderTypeGTC
	OrderTypeIOC
	OrderTypeIOCBudget
	OrderTypeFOK
	OrderTypeFOKBudget
)

// Rests reports whether residual quantity of this order type stays on the book.
func (t OrderType) Rests() bool {
	return t == OrderTypeGTC
}

// AllOrNothing reports whether the order requires its full size to be
// matchable before any fill happens.
func (t OrderType) AllOrNothing() bool {
	return t == OrderTypeFOK || t == OrderTypeFOKBudget
}

func (t OrderType) String() string {
	switch t {
	case OrderTypeGTC:
		return "GTC"
	case OrderTypeIOC:
		return "IOC"
	case OrderTypeIOCBudget:
		return "IOC_BUDGET"
	case OrderTypeFOK:
		return "FOK"
	case OrderTypeFOKBudget:
		return "FOK_BUDGET"
	default:
		return "UNKNOWN"
	}
}

// RequestType is the lifecycle operation an order request asks for.
type RequestType uint16

const (
	RequestUnknown RequestType = iota
	RequestPlace
	RequestCancel
	RequestAlterPrice
	RequestAlterSize
)

func (r RequestType) String() string {
	switch r {
	case RequestPlace:
		return "PLACE"
	case RequestCancel:
		return "CANCEL"
	case RequestAlterPrice:
		return "ALTER_PRICE"
	case RequestAlterSize:
		return "ALTER_SIZE"
	default:
		return "UNKNOWN"
	}
}
