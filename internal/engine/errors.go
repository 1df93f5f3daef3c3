package engine

import (
	"errors"
	"fmt"
)

// Domain errors. The dispatcher maps these onto wire error codes; none of
// them leaves state modified.
var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnknownItem       = errors.New("unknown item")
	ErrEmptyCart         = errors.New("empty cart")
	ErrNameLocked        = errors.New("name already locked")
	ErrNotLocked         = errors.New("name not locked")

	// ErrPersistence means the durable write failed and the in-memory
	// mutation was rolled back before returning. Retryable.
	ErrPersistence = errors.New("persist failed")
)

func persistErr(cause error) error {
	return fmt.Errorf("%w: %v", ErrPersistence, cause)
}
