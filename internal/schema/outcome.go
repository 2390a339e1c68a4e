package schema

// Outcome is the terminal code of one order request. The taxonomy is flat:
// structural and liquidity rejects leave the book untouched, fill-progress
// codes are successful terminal states, and the *Error codes signal an
// index/bucket desync that the owning worker treats as fatal for that book.
type Outcome uint16

const (
	OutcomeNotProcessed Outcome = iota
	OutcomeSuccess
	OutcomeFail
	OutcomeInvalidSymbolOrSize
	OutcomeInvalidRequestType
	OutcomeOrderIDAlreadyPlaced
	OutcomeOrderIDNonExistent
	OutcomeNonUserAccessToOrder
	OutcomeInsufficientLiquidity
	OutcomeOrderNotFilled
	OutcomeOrderPartiallyFilled
	OutcomeOrderCompletelyFilled
	OutcomeOrderCancelSuccess
	OutcomeOrderPartiallyFilledInsertionError
	OutcomeOrderExistsCancelError
	OutcomeOrderExistsSizeChangeError
	OutcomeOrderExistsPriceChangeError

	outcomeSentinel
)

// NumOutcomes is the count of defined outcome codes, for counter arrays.
const NumOutcomes = int(outcomeSentinel)

// Fatal reports whether the outcome indicates an internal consistency
// failure of the book rather than a rejected or settled request.
func (o Outcome) Fatal() bool {
	switch o {
	case OutcomeOrderPartiallyFilledInsertionError,
		OutcomeOrderExistsCancelError,
		OutcomeOrderExistsSizeChangeError,
		OutcomeOrderExistsPriceChangeError:
		return true
	default:
		return false
	}
}

func (o Outcome) String() string {
	switch o {
	case OutcomeNotProcessed:
		return "NOT_PROCESSED"
	case OutcomeSuccess:
		return "SUCCESS"
	case OutcomeFail:
		return "FAIL"
	case OutcomeInvalidSymbolOrSize:
		return "INVALID_SYMBOL_OR_SIZE"
	case OutcomeInvalidRequestType:
		return "INVALID_REQUEST_TYPE"
	case OutcomeOrderIDAlreadyPlaced:
		return "ORDER_ID_ALREADY_PLACED_ERROR"
	case OutcomeOrderIDNonExistent:
		return "ORDER_ID_NON_EXISTENT"
	case OutcomeNonUserAccessToOrder:
		return "NON_USER_ACCESS_TO_ORDER"
	case OutcomeInsufficientLiquidity:
		return "INSUFFICIENT_LIQUIDITY"
	case OutcomeOrderNotFilled:
		return "ORDER_NOT_FILLED"
	case OutcomeOrderPartiallyFilled:
		return "ORDER_PARTIALLY_FILLED"
	case OutcomeOrderCompletelyFilled:
		return "ORDER_COMPLETELY_FILLED"
	case OutcomeOrderCancelSuccess:
		return "ORDER_CANCEL_SUCCESS"
	case OutcomeOrderPartiallyFilledInsertionError:
		return "ORDER_PARTIALLY_FILLED_INSERTION_ERROR"
	case OutcomeOrderExistsCancelError:
		return "ORDER_EXISTS_CANCEL_ERROR"
	case OutcomeOrderExistsSizeChangeError:
		return "ORDER_EXISTS_SIZE_CHANGE_ERROR"
	case OutcomeOrderExistsPriceChangeError:
		return "ORDER_EXISTS_PRICE_CHANGE_ERROR"
	default:
		return "UNKNOWN"
	}
}
