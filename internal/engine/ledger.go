package engine

import (
	"log"
	"sync"

	"blackledger.io/internal/store"
)

// Ledger owns the monetary balance. All mutations go through Deposit and
// Withdraw; the balance is never negative.
type Ledger struct {
	mu      sync.Mutex
	balance int64

	store store.Store
	log   *log.Logger
}

func NewLedger(st store.Store, logger *log.Logger) (*Ledger, error) {
	rec, err := store.LoadBalance(st)
	if err != nil {
		return nil, err
	}
	return &Ledger{balance: rec.Balance, store: st, log: logger}, nil
}

// Deposit adds amount to the balance and persists the result. There is no
// upper bound.
func (l *Ledger) Deposit(amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.balance
	l.balance += amount
	if err := l.persistLocked(); err != nil {
		l.balance = prev
		return 0, err
	}
	return l.balance, nil
}

// Withdraw subtracts amount from the balance and persists the result.
func (l *Ledger) Withdraw(amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if amount > l.balance {
		return 0, ErrInsufficientFunds
	}
	prev := l.balance
	l.balance -= amount
	if err := l.persistLocked(); err != nil {
		l.balance = prev
		return 0, err
	}
	return l.balance, nil
}

// Balance never fails and never persists.
func (l *Ledger) Balance() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

func (l *Ledger) persistLocked() error {
	if err := l.store.Save(store.KeyBalance, store.BalanceRecord{Balance: l.balance}); err != nil {
		if l.log != nil {
			l.log.Printf("ledger: save balance: %v", err)
		}
		return persistErr(err)
	}
	return nil
}
