package engine

import (
	"errors"
	"fmt"
	"log"

	"blackledger.io/internal/catalog"
	"blackledger.io/internal/protocol"
)

// Command is one fully validated command descriptor. The authorization
// verdict is computed by the caller; the engine holds no role knowledge.
type Command struct {
	ActorID    string
	Authorized bool
	Kind       string

	Amount    int64
	Commodity string
	Item      string
	Qty       int64
}

// Result is the uniform outcome of one dispatched command. Exactly one of
// OK/Err is meaningful; Summary is a short rendered line for the caller to
// display on success.
type Result struct {
	OK      bool
	Err     string
	Value   any
	Summary string
}

// Dispatcher routes each command to exactly one owning component. It is
// stateless; every call is a single atomic operation on the target.
type Dispatcher struct {
	ledger    *Ledger
	inventory *Inventory
	carts     *CartStore
	names     *NameLocks
	catalog   *catalog.Catalog
	log       *log.Logger
}

func NewDispatcher(ledger *Ledger, inv *Inventory, carts *CartStore, names *NameLocks, cat *catalog.Catalog, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		ledger:    ledger,
		inventory: inv,
		carts:     carts,
		names:     names,
		catalog:   cat,
		log:       logger,
	}
}

func (d *Dispatcher) Dispatch(cmd Command) Result {
	if !cmd.Authorized {
		// Not an error condition worth logging; the verdict was computed
		// upstream and simply came back negative.
		return Result{Err: protocol.ErrUnauthorized}
	}

	switch cmd.Kind {
	case protocol.KindDeposit:
		balance, err := d.ledger.Deposit(cmd.Amount)
		if err != nil {
			return d.fail(cmd, err)
		}
		return ok(balance, fmt.Sprintf("deposit +%d accepted, balance %d", cmd.Amount, balance))

	case protocol.KindWithdraw:
		balance, err := d.ledger.Withdraw(cmd.Amount)
		if err != nil {
			return d.fail(cmd, err)
		}
		return ok(balance, fmt.Sprintf("withdrawal -%d accepted, balance %d", cmd.Amount, balance))

	case protocol.KindGetBalance:
		balance := d.ledger.Balance()
		return ok(balance, fmt.Sprintf("balance %d", balance))

	case protocol.KindSetStock:
		commodity, valid := ParseCommodity(cmd.Commodity)
		if !valid {
			return Result{Err: protocol.ErrInvalidAmount}
		}
		level, err := d.inventory.SetStock(commodity, cmd.Amount)
		if err != nil {
			return d.fail(cmd, err)
		}
		return ok(level, fmt.Sprintf("%s set to %d", commodity, level))

	case protocol.KindAddDistribution:
		total, err := d.inventory.AddDistribution(cmd.Amount)
		if err != nil {
			return d.fail(cmd, err)
		}
		return ok(total, fmt.Sprintf("distribution +%d logged, total %d", cmd.Amount, total))

	case protocol.KindGetInventory:
		snap := d.inventory.Snapshot()
		return ok(snap, fmt.Sprintf("stock_a %d, stock_b %d, distributed %d", snap.StockA, snap.StockB, snap.DistributedTotal))

	case protocol.KindCartSetItem:
		items, err := d.carts.SetItem(cmd.ActorID, cmd.Item, cmd.Qty)
		if err != nil {
			return d.fail(cmd, err)
		}
		return ok(items, fmt.Sprintf("cart updated, %d line(s)", len(items)))

	case protocol.KindCartCheckout:
		receipt, err := d.carts.Checkout(cmd.ActorID)
		if err != nil {
			return d.fail(cmd, err)
		}
		return ok(receipt, fmt.Sprintf("order %s placed, %d line(s), total %d", receipt.ID, len(receipt.Lines), receipt.Total))

	case protocol.KindCartAbandon:
		d.carts.Abandon(cmd.ActorID)
		return ok(nil, "cart cleared")

	case protocol.KindNameLock:
		if err := d.names.Acquire(cmd.ActorID); err != nil {
			return d.fail(cmd, err)
		}
		return ok(nil, "name locked")

	case protocol.KindNameRelease:
		if err := d.names.Release(cmd.ActorID); err != nil {
			return d.fail(cmd, err)
		}
		return ok(nil, "name lock released")

	case protocol.KindGetCatalog:
		return ok(CatalogView{Items: d.catalog.Items(), Pages: d.catalog.Pages()}, fmt.Sprintf("%d item(s)", len(d.catalog.Items())))
	}

	return Result{Err: protocol.ErrUnknownCommand}
}

// CatalogView is the read-only catalog payload returned by get_catalog.
type CatalogView struct {
	Items []catalog.Item `json:"items"`
	Pages []catalog.Page `json:"pages,omitempty"`
}

func ok(value any, summary string) Result {
	return Result{OK: true, Value: value, Summary: summary}
}

func (d *Dispatcher) fail(cmd Command, err error) Result {
	code := errorCode(err)
	if code == protocol.ErrPersistence && d.log != nil {
		d.log.Printf("dispatch %s: %v", cmd.Kind, err)
	}
	return Result{Err: code}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return protocol.ErrInvalidAmount
	case errors.Is(err, ErrInsufficientFunds):
		return protocol.ErrInsufficientFunds
	case errors.Is(err, ErrUnknownItem):
		return protocol.ErrUnknownItem
	case errors.Is(err, ErrEmptyCart):
		return protocol.ErrEmptyCart
	case errors.Is(err, ErrNameLocked):
		return protocol.ErrNameLocked
	case errors.Is(err, ErrNotLocked):
		return protocol.ErrNotLocked
	case errors.Is(err, ErrPersistence):
		return protocol.ErrPersistence
	}
	return protocol.ErrPersistence
}
