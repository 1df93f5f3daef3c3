// Package store provides whole-record durable snapshot storage. One record
// per logical concern (balance, stock, name locks); a record is a flat JSON
// object. The store performs no business validation; invariants belong to
// the component that owns the record.
package store

import "errors"

// Record keys. Only the owning component may write its own record.
const (
	KeyBalance   = "bank"
	KeyStock     = "stock"
	KeyNameLocks = "name_locks"
)

// ErrNotFound is returned by Load when the key has never been saved.
var ErrNotFound = errors.New("store: record not found")

// Store loads and saves whole records. Save must be atomic with respect to
// process crash: either the prior contents survive intact or the new
// contents are fully written.
type Store interface {
	Load(key string, v any) error
	Save(key string, v any) error
	Close() error
}
