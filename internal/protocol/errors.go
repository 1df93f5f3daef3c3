package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Command layer.
	ErrUnknownCommand = "E_UNKNOWN_COMMAND"
	ErrUnauthorized   = "E_UNAUTHORIZED"

	// Domain layer.
	ErrInvalidAmount     = "E_INVALID_AMOUNT"
	ErrInsufficientFunds = "E_INSUFFICIENT_FUNDS"
	ErrUnknownItem       = "E_UNKNOWN_ITEM"
	ErrEmptyCart         = "E_EMPTY_CART"
	ErrNameLocked        = "E_NAME_LOCKED"
	ErrNotLocked         = "E_NOT_LOCKED"

	// Durable write failed; in-memory state was rolled back. Retryable.
	ErrPersistence = "E_PERSISTENCE"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest:   {},
	ErrUnknownCommand:    {},
	ErrUnauthorized:      {},
	ErrInvalidAmount:     {},
	ErrInsufficientFunds: {},
	ErrUnknownItem:       {},
	ErrEmptyCart:         {},
	ErrNameLocked:        {},
	ErrNotLocked:         {},
	ErrPersistence:       {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
