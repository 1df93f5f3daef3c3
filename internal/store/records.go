package store

import "errors"

type BalanceRecord struct {
	Balance int64 `json:"balance"`
}

type StockRecord struct {
	StockA           int64 `json:"stock_a"`
	StockB           int64 `json:"stock_b"`
	DistributedTotal int64 `json:"distributed_total"`
}

// NameLockRecord maps actor id to lock presence.
type NameLockRecord map[string]bool

// LoadBalance returns the saved balance record, or the zero default when the
// record has never been written. First-run bootstrap needs no migration.
func LoadBalance(s Store) (BalanceRecord, error) {
	var rec BalanceRecord
	if err := s.Load(KeyBalance, &rec); err != nil {
		if errors.Is(err, ErrNotFound) {
			return BalanceRecord{}, nil
		}
		return BalanceRecord{}, err
	}
	return rec, nil
}

func LoadStock(s Store) (StockRecord, error) {
	var rec StockRecord
	if err := s.Load(KeyStock, &rec); err != nil {
		if errors.Is(err, ErrNotFound) {
			return StockRecord{}, nil
		}
		return StockRecord{}, err
	}
	return rec, nil
}

func LoadNameLocks(s Store) (NameLockRecord, error) {
	rec := NameLockRecord{}
	if err := s.Load(KeyNameLocks, &rec); err != nil {
		if errors.Is(err, ErrNotFound) {
			return NameLockRecord{}, nil
		}
		return nil, err
	}
	if rec == nil {
		rec = NameLockRecord{}
	}
	return rec, nil
}
