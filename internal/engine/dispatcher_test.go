package engine

import (
	"testing"

	"blackledger.io/internal/protocol"
)

func newTestEngine(t *testing.T, st *memStore) *Engine {
	t.Helper()
	cat := testCatalog(t, map[string]int64{
		"ItemA": 100,
		"ItemB": 50,
	})
	e, err := New(st, cat, nil)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func TestDispatchUnauthorized(t *testing.T) {
	st := newMemStore()
	e := newTestEngine(t, st)

	res := e.Dispatch(Command{ActorID: "u1", Authorized: false, Kind: protocol.KindDeposit, Amount: 100})
	if res.OK || res.Err != protocol.ErrUnauthorized {
		t.Fatalf("result = %+v, want E_UNAUTHORIZED", res)
	}
	if got := e.Ledger.Balance(); got != 0 {
		t.Fatalf("unauthorized command touched state: balance %d", got)
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	st := newMemStore()
	e := newTestEngine(t, st)

	res := e.Dispatch(Command{ActorID: "u1", Authorized: true, Kind: "explode"})
	if res.OK || res.Err != protocol.ErrUnknownCommand {
		t.Fatalf("result = %+v, want E_UNKNOWN_COMMAND", res)
	}
}

func TestDispatchLedgerCommands(t *testing.T) {
	st := newMemStore()
	e := newTestEngine(t, st)

	res := e.Dispatch(Command{ActorID: "u1", Authorized: true, Kind: protocol.KindDeposit, Amount: 300})
	if !res.OK || res.Value.(int64) != 300 || res.Summary == "" {
		t.Fatalf("deposit result = %+v", res)
	}

	res = e.Dispatch(Command{ActorID: "u1", Authorized: true, Kind: protocol.KindWithdraw, Amount: 500})
	if res.OK || res.Err != protocol.ErrInsufficientFunds {
		t.Fatalf("overdraw result = %+v, want E_INSUFFICIENT_FUNDS", res)
	}

	res = e.Dispatch(Command{ActorID: "u1", Authorized: true, Kind: protocol.KindDeposit, Amount: 0})
	if res.OK || res.Err != protocol.ErrInvalidAmount {
		t.Fatalf("zero deposit result = %+v, want E_INVALID_AMOUNT", res)
	}

	res = e.Dispatch(Command{ActorID: "u1", Authorized: true, Kind: protocol.KindGetBalance})
	if !res.OK || res.Value.(int64) != 300 {
		t.Fatalf("get_balance result = %+v, want 300", res)
	}
}

func TestDispatchInventoryCommands(t *testing.T) {
	st := newMemStore()
	e := newTestEngine(t, st)

	res := e.Dispatch(Command{ActorID: "u1", Authorized: true, Kind: protocol.KindSetStock, Commodity: "stock_a", Amount: 12})
	if !res.OK || res.Value.(int64) != 12 {
		t.Fatalf("set_stock result = %+v", res)
	}

	res = e.Dispatch(Command{ActorID: "u1", Authorized: true, Kind: protocol.KindSetStock, Commodity: "gold", Amount: 12})
	if res.OK || res.Err != protocol.ErrInvalidAmount {
		t.Fatalf("bad commodity result = %+v, want E_INVALID_AMOUNT", res)
	}

	res = e.Dispatch(Command{ActorID: "u1", Authorized: true, Kind: protocol.KindAddDistribution, Amount: 9})
	if !res.OK || res.Value.(int64) != 9 {
		t.Fatalf("add_distribution result = %+v", res)
	}

	res = e.Dispatch(Command{ActorID: "u1", Authorized: true, Kind: protocol.KindGetInventory})
	snap, ok := res.Value.(StockSnapshot)
	if !res.OK || !ok || snap.StockA != 12 || snap.DistributedTotal != 9 {
		t.Fatalf("get_inventory result = %+v", res)
	}
}

func TestDispatchCartCommands(t *testing.T) {
	st := newMemStore()
	e := newTestEngine(t, st)

	res := e.Dispatch(Command{ActorID: "u1", Authorized: true, Kind: protocol.KindCartSetItem, Item: "ItemA", Qty: 2})
	if !res.OK {
		t.Fatalf("cart_set_item result = %+v", res)
	}
	res = e.Dispatch(Command{ActorID: "u1", Authorized: true, Kind: protocol.KindCartSetItem, Item: "Nope", Qty: 2})
	if res.OK || res.Err != protocol.ErrUnknownItem {
		t.Fatalf("unknown item result = %+v, want E_UNKNOWN_ITEM", res)
	}

	res = e.Dispatch(Command{ActorID: "u1", Authorized: true, Kind: protocol.KindCartCheckout})
	receipt, ok := res.Value.(Receipt)
	if !res.OK || !ok || receipt.Total != 200 {
		t.Fatalf("checkout result = %+v", res)
	}

	res = e.Dispatch(Command{ActorID: "u1", Authorized: true, Kind: protocol.KindCartCheckout})
	if res.OK || res.Err != protocol.ErrEmptyCart {
		t.Fatalf("re-checkout result = %+v, want E_EMPTY_CART", res)
	}

	res = e.Dispatch(Command{ActorID: "u1", Authorized: true, Kind: protocol.KindCartAbandon})
	if !res.OK {
		t.Fatalf("cart_abandon result = %+v", res)
	}
}

func TestDispatchNameLockCommands(t *testing.T) {
	st := newMemStore()
	e := newTestEngine(t, st)

	res := e.Dispatch(Command{ActorID: "u1", Authorized: true, Kind: protocol.KindNameLock})
	if !res.OK {
		t.Fatalf("name_lock result = %+v", res)
	}
	res = e.Dispatch(Command{ActorID: "u1", Authorized: true, Kind: protocol.KindNameLock})
	if res.OK || res.Err != protocol.ErrNameLocked {
		t.Fatalf("second name_lock result = %+v, want E_NAME_LOCKED", res)
	}
	res = e.Dispatch(Command{ActorID: "u1", Authorized: true, Kind: protocol.KindNameRelease})
	if !res.OK {
		t.Fatalf("name_release result = %+v", res)
	}
	res = e.Dispatch(Command{ActorID: "u1", Authorized: true, Kind: protocol.KindNameRelease})
	if res.OK || res.Err != protocol.ErrNotLocked {
		t.Fatalf("second name_release result = %+v, want E_NOT_LOCKED", res)
	}
}

func TestDispatchPersistenceFailure(t *testing.T) {
	st := newMemStore()
	e := newTestEngine(t, st)

	st.setFailSave(errDiskGone)
	res := e.Dispatch(Command{ActorID: "u1", Authorized: true, Kind: protocol.KindDeposit, Amount: 100})
	if res.OK || res.Err != protocol.ErrPersistence {
		t.Fatalf("result = %+v, want E_PERSISTENCE", res)
	}
	st.setFailSave(nil)

	if got := e.Ledger.Balance(); got != 0 {
		t.Fatalf("balance after failed persist = %d, want 0", got)
	}
}

func TestDispatchGetCatalog(t *testing.T) {
	st := newMemStore()
	e := newTestEngine(t, st)

	res := e.Dispatch(Command{ActorID: "u1", Authorized: true, Kind: protocol.KindGetCatalog})
	view, ok := res.Value.(CatalogView)
	if !res.OK || !ok || len(view.Items) != 2 {
		t.Fatalf("get_catalog result = %+v", res)
	}
}

func TestDispatchErrorCodesAreKnown(t *testing.T) {
	st := newMemStore()
	e := newTestEngine(t, st)

	commands := []Command{
		{Authorized: false, Kind: protocol.KindDeposit},
		{Authorized: true, Kind: "bogus"},
		{ActorID: "u1", Authorized: true, Kind: protocol.KindDeposit, Amount: -1},
		{ActorID: "u1", Authorized: true, Kind: protocol.KindWithdraw, Amount: 10},
		{ActorID: "u1", Authorized: true, Kind: protocol.KindCartCheckout},
	}
	for _, cmd := range commands {
		res := e.Dispatch(cmd)
		if res.OK {
			t.Fatalf("command %+v unexpectedly succeeded", cmd)
		}
		if !protocol.IsKnownCode(res.Err) {
			t.Fatalf("command %+v produced unknown code %q", cmd, res.Err)
		}
	}
}
