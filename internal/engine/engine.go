// Package engine is the authoritative in-memory representation of the shared
// balance, stock and cart state, and the mutation protocol applied to it.
// Each state-owning component serializes its own mutations; external callers
// only ever go through component operations or the dispatcher.
package engine

import (
	"log"

	"blackledger.io/internal/catalog"
	"blackledger.io/internal/store"
)

type Engine struct {
	Ledger    *Ledger
	Inventory *Inventory
	Carts     *CartStore
	Names     *NameLocks

	catalog    *catalog.Catalog
	dispatcher *Dispatcher
}

// New loads all durable records from the store and wires the components.
// Missing records bootstrap to documented defaults.
func New(st store.Store, cat *catalog.Catalog, logger *log.Logger) (*Engine, error) {
	ledger, err := NewLedger(st, logger)
	if err != nil {
		return nil, err
	}
	inv, err := NewInventory(st, logger)
	if err != nil {
		return nil, err
	}
	names, err := NewNameLocks(st, logger)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		Ledger:    ledger,
		Inventory: inv,
		Carts:     NewCartStore(cat),
		Names:     names,
		catalog:   cat,
	}
	e.dispatcher = NewDispatcher(ledger, inv, e.Carts, names, cat, logger)
	return e, nil
}

func (e *Engine) Dispatch(cmd Command) Result {
	return e.dispatcher.Dispatch(cmd)
}

func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// State returns a point-in-time copy of every durable record, for backup
// bundles. Each component is read under its own lock; the triple is not a
// cross-component transaction, matching what the per-record files hold.
func (e *Engine) State() (store.BalanceRecord, store.StockRecord, store.NameLockRecord) {
	balance := store.BalanceRecord{Balance: e.Ledger.Balance()}

	snap := e.Inventory.Snapshot()
	stock := store.StockRecord{
		StockA:           snap.StockA,
		StockB:           snap.StockB,
		DistributedTotal: snap.DistributedTotal,
	}

	locks := store.NameLockRecord{}
	e.Names.mu.Lock()
	for id, held := range e.Names.locks {
		locks[id] = held
	}
	e.Names.mu.Unlock()

	return balance, stock, locks
}
