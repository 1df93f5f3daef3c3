package engine

import (
	"log"
	"sync"

	"blackledger.io/internal/store"
)

type Commodity string

const (
	CommodityA Commodity = "stock_a"
	CommodityB Commodity = "stock_b"
)

func ParseCommodity(s string) (Commodity, bool) {
	switch Commodity(s) {
	case CommodityA, CommodityB:
		return Commodity(s), true
	}
	return "", false
}

// StockSnapshot is a consistent read of all three counters.
type StockSnapshot struct {
	StockA           int64 `json:"stock_a"`
	StockB           int64 `json:"stock_b"`
	DistributedTotal int64 `json:"distributed_total"`
}

// Inventory owns two stock counters and the cumulative distribution total.
// SetStock is an absolute overwrite (last writer wins); AddDistribution is a
// monotonic delta. One lock covers the triple so Snapshot never tears.
type Inventory struct {
	mu          sync.Mutex
	stockA      int64
	stockB      int64
	distributed int64

	store store.Store
	log   *log.Logger
}

func NewInventory(st store.Store, logger *log.Logger) (*Inventory, error) {
	rec, err := store.LoadStock(st)
	if err != nil {
		return nil, err
	}
	return &Inventory{
		stockA:      rec.StockA,
		stockB:      rec.StockB,
		distributed: rec.DistributedTotal,
		store:       st,
		log:         logger,
	}, nil
}

// SetStock overwrites the level of one commodity and persists. The returned
// level is the value that won.
func (inv *Inventory) SetStock(c Commodity, amount int64) (int64, error) {
	if amount < 0 {
		return 0, ErrInvalidAmount
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	var slot *int64
	switch c {
	case CommodityA:
		slot = &inv.stockA
	case CommodityB:
		slot = &inv.stockB
	default:
		return 0, ErrInvalidAmount
	}

	prev := *slot
	*slot = amount
	if err := inv.persistLocked(); err != nil {
		*slot = prev
		return 0, err
	}
	return *slot, nil
}

// AddDistribution adds a delta to the running total. The total never
// decreases and is never reset.
func (inv *Inventory) AddDistribution(amount int64) (int64, error) {
	if amount < 0 {
		return 0, ErrInvalidAmount
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	prev := inv.distributed
	inv.distributed += amount
	if err := inv.persistLocked(); err != nil {
		inv.distributed = prev
		return 0, err
	}
	return inv.distributed, nil
}

func (inv *Inventory) Snapshot() StockSnapshot {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return StockSnapshot{
		StockA:           inv.stockA,
		StockB:           inv.stockB,
		DistributedTotal: inv.distributed,
	}
}

func (inv *Inventory) persistLocked() error {
	rec := store.StockRecord{
		StockA:           inv.stockA,
		StockB:           inv.stockB,
		DistributedTotal: inv.distributed,
	}
	if err := inv.store.Save(store.KeyStock, rec); err != nil {
		if inv.log != nil {
			inv.log.Printf("inventory: save stock: %v", err)
		}
		return persistErr(err)
	}
	return nil
}
