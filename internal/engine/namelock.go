package engine

import (
	"log"
	"sync"

	"blackledger.io/internal/store"
)

// NameLocks is an idempotent set-membership store: one lock per actor,
// acquired once, released only by an authorized release. It shares the
// persistence contract of the monetary records.
type NameLocks struct {
	mu    sync.Mutex
	locks store.NameLockRecord

	store store.Store
	log   *log.Logger
}

func NewNameLocks(st store.Store, logger *log.Logger) (*NameLocks, error) {
	rec, err := store.LoadNameLocks(st)
	if err != nil {
		return nil, err
	}
	return &NameLocks{locks: rec, store: st, log: logger}, nil
}

func (n *NameLocks) Acquire(actorID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.locks[actorID] {
		return ErrNameLocked
	}
	n.locks[actorID] = true
	if err := n.persistLocked(); err != nil {
		delete(n.locks, actorID)
		return err
	}
	return nil
}

func (n *NameLocks) Release(actorID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.locks[actorID] {
		return ErrNotLocked
	}
	delete(n.locks, actorID)
	if err := n.persistLocked(); err != nil {
		n.locks[actorID] = true
		return err
	}
	return nil
}

func (n *NameLocks) Held(actorID string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.locks[actorID]
}

func (n *NameLocks) persistLocked() error {
	if err := n.store.Save(store.KeyNameLocks, n.locks); err != nil {
		if n.log != nil {
			n.log.Printf("namelocks: save: %v", err)
		}
		return persistErr(err)
	}
	return nil
}
