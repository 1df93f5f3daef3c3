package archive

import (
	"os"
	"testing"

	"blackledger.io/internal/store"
)

func TestBundleRoundtrip(t *testing.T) {
	dir := t.TempDir()

	in := BundleV1{
		Balance:   store.BalanceRecord{Balance: 1500},
		Stock:     store.StockRecord{StockA: 10, StockB: 20, DistributedTotal: 30},
		NameLocks: store.NameLockRecord{"u1": true},
	}
	path, err := WriteBundle(dir, in)
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := ReadBundle(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if out.Header.Version != 1 || out.Header.CreatedAt == "" {
		t.Fatalf("header = %+v", out.Header)
	}
	if out.Balance.Balance != 1500 {
		t.Fatalf("balance = %d, want 1500", out.Balance.Balance)
	}
	if out.Stock != in.Stock {
		t.Fatalf("stock = %+v, want %+v", out.Stock, in.Stock)
	}
	if !out.NameLocks["u1"] {
		t.Fatalf("locks = %#v", out.NameLocks)
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	dir := t.TempDir()

	var last string
	for i := 0; i < 4; i++ {
		path, err := WriteBundle(dir, BundleV1{Balance: store.BalanceRecord{Balance: int64(i)}})
		if err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
		last = path
	}

	if err := Prune(dir, 2); err != nil {
		t.Fatalf("prune: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("kept %d bundles, want 2", len(entries))
	}

	// The newest bundle survives and still reads back.
	out, err := ReadBundle(last)
	if err != nil {
		t.Fatalf("read newest: %v", err)
	}
	if out.Balance.Balance != 3 {
		t.Fatalf("newest balance = %d, want 3", out.Balance.Balance)
	}
}

func TestPruneMissingDir(t *testing.T) {
	if err := Prune(t.TempDir()+"/nope", 3); err != nil {
		t.Fatalf("prune missing dir: %v", err)
	}
}
