package engine

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"blackledger.io/internal/catalog"
)

// CartStore keeps one pending cart per actor. Carts are session state only:
// never persisted, lost on restart by design. Locking is per actor so two
// actors' carts never contend; checkout and SetItem for the same actor
// serialize on the cart's own lock.
type CartStore struct {
	mu      sync.Mutex
	carts   map[string]*cart
	catalog *catalog.Catalog
}

type cart struct {
	mu    sync.Mutex
	items map[string]int64
}

type ReceiptLine struct {
	Item      string `json:"item"`
	Qty       int64  `json:"qty"`
	UnitPrice int64  `json:"unit_price"`
	LineTotal int64  `json:"line_total"`
}

// Receipt is an immutable priced order produced by Checkout. The engine only
// computes and clears; fulfillment and payment are the caller's concern.
type Receipt struct {
	ID        string        `json:"receipt_id"`
	ActorID   string        `json:"actor_id"`
	Lines     []ReceiptLine `json:"lines"`
	Total     int64         `json:"total"`
	Timestamp time.Time     `json:"timestamp"`
}

func NewCartStore(cat *catalog.Catalog) *CartStore {
	return &CartStore{carts: map[string]*cart{}, catalog: cat}
}

func (cs *CartStore) get(actorID string) *cart {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	c, ok := cs.carts[actorID]
	if !ok {
		c = &cart{items: map[string]int64{}}
		cs.carts[actorID] = c
	}
	return c
}

// SetItem sets the requested quantity for one line. Quantity <= 0 removes
// the line; removing an absent line is a no-op. Returns the updated cart.
func (cs *CartStore) SetItem(actorID, itemName string, qty int64) (map[string]int64, error) {
	if !cs.catalog.Has(itemName) {
		return nil, ErrUnknownItem
	}

	c := cs.get(actorID)
	c.mu.Lock()
	defer c.mu.Unlock()

	if qty <= 0 {
		delete(c.items, itemName)
	} else {
		c.items[itemName] = qty
	}
	return copyItems(c.items), nil
}

// Items returns a copy of the actor's pending cart. Never contains a
// zero-quantity line.
func (cs *CartStore) Items(actorID string) map[string]int64 {
	c := cs.get(actorID)
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyItems(c.items)
}

// Checkout prices every line against the catalog, emits a receipt and clears
// the cart as one atomic step. A concurrent SetItem from the same actor
// either lands before the receipt or on the next (empty) cart, never inside.
func (cs *CartStore) Checkout(actorID string) (Receipt, error) {
	c := cs.get(actorID)
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) == 0 {
		return Receipt{}, ErrEmptyCart
	}

	names := make([]string, 0, len(c.items))
	for name := range c.items {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		lines []ReceiptLine
		total int64
	)
	for _, name := range names {
		qty := c.items[name]
		price, ok := cs.catalog.Price(name)
		if !ok {
			// Catalog entry vanished mid-session; leave the cart intact.
			return Receipt{}, ErrUnknownItem
		}
		lineTotal := price * qty
		lines = append(lines, ReceiptLine{
			Item:      name,
			Qty:       qty,
			UnitPrice: price,
			LineTotal: lineTotal,
		})
		total += lineTotal
	}

	c.items = map[string]int64{}

	return Receipt{
		ID:        uuid.NewString(),
		ActorID:   actorID,
		Lines:     lines,
		Total:     total,
		Timestamp: time.Now().UTC(),
	}, nil
}

// Abandon clears the actor's cart unconditionally. Idempotent.
func (cs *CartStore) Abandon(actorID string) {
	c := cs.get(actorID)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = map[string]int64{}
}

func copyItems(in map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
